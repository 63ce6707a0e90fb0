package dto

import (
	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
)

// UpdateFiscalConfigRequest body de PUT /api/fiscal/config.
// Campos de credencial e certificado só são sobrescritos quando enviados.
type UpdateFiscalConfigRequest struct {
	RazaoSocial        string `json:"razao_social"`
	NomeFantasia       string `json:"nome_fantasia,omitempty"`
	CNPJ               string `json:"cnpj"`
	InscricaoEstadual  string `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string `json:"inscricao_municipal,omitempty"`
	RegimeTributario   string `json:"regime_tributario,omitempty"`
	Logradouro         string `json:"logradouro,omitempty"`
	Numero             string `json:"numero,omitempty"`
	Bairro             string `json:"bairro,omitempty"`
	Municipio          string `json:"municipio,omitempty"`
	CodigoMunicipio    string `json:"codigo_municipio,omitempty"`
	UF                 string `json:"uf,omitempty"`
	CEP                string `json:"cep,omitempty"`

	ProviderClientID     *string `json:"provider_client_id,omitempty"`
	ProviderClientSecret *string `json:"provider_client_secret,omitempty"`

	CertificadoArquivo *string `json:"certificado_arquivo,omitempty"` // base64 do .pfx
	CertificadoSenha   *string `json:"certificado_senha,omitempty"`

	EmissaoNfeHabilitada  *bool `json:"emissao_nfe_habilitada,omitempty"`
	EmissaoNfseHabilitada *bool `json:"emissao_nfse_habilitada,omitempty"`

	RetemIss       *bool            `json:"retem_iss,omitempty"`
	AliquotaIss    *decimal.Decimal `json:"aliquota_iss,omitempty"`
	RetemIrrf      *bool            `json:"retem_irrf,omitempty"`
	AliquotaIrpj   *decimal.Decimal `json:"aliquota_irpj,omitempty"`
	RetemCsll      *bool            `json:"retem_csll,omitempty"`
	AliquotaCsll   *decimal.Decimal `json:"aliquota_csll,omitempty"`
	RetemPis       *bool            `json:"retem_pis,omitempty"`
	AliquotaPis    *decimal.Decimal `json:"aliquota_pis,omitempty"`
	RetemCofins    *bool            `json:"retem_cofins,omitempty"`
	AliquotaCofins *decimal.Decimal `json:"aliquota_cofins,omitempty"`
	RetemInss      *bool            `json:"retem_inss,omitempty"`
	AliquotaInss   *decimal.Decimal `json:"aliquota_inss,omitempty"`

	CNO                      *string `json:"cno,omitempty"`
	RegimeEspecialTributacao *string `json:"regime_especial_tributacao,omitempty"`
}

// FiscalConfigResponse config do tenant em respostas.
// O client_secret e a senha do certificado nunca voltam na API.
type FiscalConfigResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`

	RazaoSocial        string `json:"razao_social"`
	NomeFantasia       string `json:"nome_fantasia,omitempty"`
	CNPJ               string `json:"cnpj"`
	InscricaoEstadual  string `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string `json:"inscricao_municipal,omitempty"`
	RegimeTributario   string `json:"regime_tributario"`
	Logradouro         string `json:"logradouro,omitempty"`
	Numero             string `json:"numero,omitempty"`
	Bairro             string `json:"bairro,omitempty"`
	Municipio          string `json:"municipio,omitempty"`
	CodigoMunicipio    string `json:"codigo_municipio,omitempty"`
	UF                 string `json:"uf,omitempty"`
	CEP                string `json:"cep,omitempty"`

	ProviderClientID        string `json:"provider_client_id,omitempty"`
	CredenciaisConfiguradas bool   `json:"credenciais_configuradas"`
	CertificadoConfigurado  bool   `json:"certificado_configurado"`

	EmissaoNfeHabilitada  bool `json:"emissao_nfe_habilitada"`
	EmissaoNfseHabilitada bool `json:"emissao_nfse_habilitada"`

	RetemIss       bool            `json:"retem_iss"`
	AliquotaIss    decimal.Decimal `json:"aliquota_iss"`
	RetemIrrf      bool            `json:"retem_irrf"`
	AliquotaIrpj   decimal.Decimal `json:"aliquota_irpj"`
	RetemCsll      bool            `json:"retem_csll"`
	AliquotaCsll   decimal.Decimal `json:"aliquota_csll"`
	RetemPis       bool            `json:"retem_pis"`
	AliquotaPis    decimal.Decimal `json:"aliquota_pis"`
	RetemCofins    bool            `json:"retem_cofins"`
	AliquotaCofins decimal.Decimal `json:"aliquota_cofins"`
	RetemInss      bool            `json:"retem_inss"`
	AliquotaInss   decimal.Decimal `json:"aliquota_inss"`

	CNO                      string `json:"cno,omitempty"`
	RegimeEspecialTributacao string `json:"regime_especial_tributacao,omitempty"`
}

// NewFiscalConfigResponse converte a entidade omitindo segredos.
func NewFiscalConfigResponse(cfg *entity.FiscalConfig) *FiscalConfigResponse {
	return &FiscalConfigResponse{
		ID:                 cfg.ID,
		CompanyID:          cfg.CompanyID,
		RazaoSocial:        cfg.RazaoSocial,
		NomeFantasia:       cfg.NomeFantasia,
		CNPJ:               cfg.CNPJ,
		InscricaoEstadual:  cfg.InscricaoEstadual,
		InscricaoMunicipal: cfg.InscricaoMunicipal,
		RegimeTributario:   cfg.RegimeTributario,
		Logradouro:         cfg.Logradouro,
		Numero:             cfg.Numero,
		Bairro:             cfg.Bairro,
		Municipio:          cfg.Municipio,
		CodigoMunicipio:    cfg.CodigoMunicipio,
		UF:                 cfg.UF,
		CEP:                cfg.CEP,

		ProviderClientID:        cfg.ProviderClientID,
		CredenciaisConfiguradas: cfg.CredenciaisCompletas(),
		CertificadoConfigurado:  cfg.CertificadoArquivo != "",

		EmissaoNfeHabilitada:  cfg.EmissaoNfeHabilitada,
		EmissaoNfseHabilitada: cfg.EmissaoNfseHabilitada,

		RetemIss:       cfg.RetemIss,
		AliquotaIss:    cfg.AliquotaIss,
		RetemIrrf:      cfg.RetemIrrf,
		AliquotaIrpj:   cfg.AliquotaIrpj,
		RetemCsll:      cfg.RetemCsll,
		AliquotaCsll:   cfg.AliquotaCsll,
		RetemPis:       cfg.RetemPis,
		AliquotaPis:    cfg.AliquotaPis,
		RetemCofins:    cfg.RetemCofins,
		AliquotaCofins: cfg.AliquotaCofins,
		RetemInss:      cfg.RetemInss,
		AliquotaInss:   cfg.AliquotaInss,

		CNO:                      cfg.CNO,
		RegimeEspecialTributacao: cfg.RegimeEspecialTributacao,
	}
}

// EmitInvoiceRequest body de POST /api/fiscal/invoices.
// Tipo: NFE (materiais) ou NFSE (serviços).
type EmitInvoiceRequest struct {
	ProposalID string `json:"proposal_id"`
	Tipo       string `json:"tipo"`
}

// CancelInvoiceRequest body de POST /api/fiscal/invoices/:id/cancel.
type CancelInvoiceRequest struct {
	Motivo string `json:"motivo"`
}

// EditInvoiceValueRequest body de PATCH /api/fiscal/invoices/:id/value.
type EditInvoiceValueRequest struct {
	ValorNovo decimal.Decimal `json:"valor_novo"`
	Motivo    string          `json:"motivo"`
}

// InvoiceResponse nota fiscal em respostas.
type InvoiceResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	ProposalID string `json:"proposal_id"`
	Tipo       string `json:"tipo"`
	Status     string `json:"status"`

	TomadorNome      string `json:"tomador_nome,omitempty"`
	TomadorDocumento string `json:"tomador_documento,omitempty"`
	TomadorEndereco  string `json:"tomador_endereco,omitempty"`

	ValorTotal decimal.Decimal `json:"valor_total"`

	ChaveAcesso        string `json:"chave_acesso,omitempty"`
	NumeroNota         string `json:"numero_nota,omitempty"`
	MensagemErro       string `json:"mensagem_erro,omitempty"`
	MotivoCancelamento string `json:"motivo_cancelamento,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	Items []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse item do snapshot da nota.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Descricao   string          `json:"descricao"`
	ServiceType string          `json:"service_type"`
	NCM         string          `json:"ncm,omitempty"`
	Quantidade  decimal.Decimal `json:"quantidade"`
	ValorUnit   decimal.Decimal `json:"valor_unit"`
	Total       decimal.Decimal `json:"total"`
}

// ValueEditResponse registro de correção manual de valor.
type ValueEditResponse struct {
	ID            string          `json:"id"`
	ValorAnterior decimal.Decimal `json:"valor_anterior"`
	ValorNovo     decimal.Decimal `json:"valor_novo"`
	Motivo        string          `json:"motivo"`
	UsuarioID     string          `json:"usuario_id"`
	CreatedAt     string          `json:"created_at"`
}

// InvoiceListResponse listagem paginada de notas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
