package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Regimes tributários aceitos pelo provedor.
const (
	RegimeSimplesNacional = "simples_nacional"
	RegimeLucroPresumido  = "lucro_presumido"
	RegimeLucroReal       = "lucro_real"
)

// FiscalConfig é o registro único por tenant com os dados cadastrais da empresa,
// credenciais do provedor (Nuvem Fiscal), toggles de retenção e alíquotas.
// Criado de forma preguiçosa na primeira leitura; nunca removido.
type FiscalConfig struct {
	ID        string
	CompanyID string

	// Dados cadastrais do prestador/emitente
	RazaoSocial        string
	NomeFantasia       string
	CNPJ               string
	InscricaoEstadual  string
	InscricaoMunicipal string
	RegimeTributario   string // ver constantes Regime*
	Logradouro         string
	Numero             string
	Bairro             string
	Municipio          string
	CodigoMunicipio    string // código IBGE de 7 dígitos
	UF                 string
	CEP                string

	// Credenciais OAuth2 do provedor (client credentials)
	ProviderClientID     string
	ProviderClientSecret string

	// Certificado digital A1 (.pfx) — referência ao arquivo enviado ao provedor
	CertificadoArquivo string
	CertificadoSenha   string

	// Habilitação de emissão por tipo de documento
	EmissaoNfeHabilitada  bool
	EmissaoNfseHabilitada bool

	// Retenções na fonte: toggle + alíquota (%) por tributo.
	// Defaults são as alíquotas legais publicadas; configuráveis por tenant.
	RetemIss       bool
	AliquotaIss    decimal.Decimal
	RetemIrrf      bool
	AliquotaIrpj   decimal.Decimal
	RetemCsll      bool
	AliquotaCsll   decimal.Decimal
	RetemPis       bool
	AliquotaPis    decimal.Decimal
	RetemCofins    bool
	AliquotaCofins decimal.Decimal
	RetemInss      bool
	AliquotaInss   decimal.Decimal

	// NFS-e de obra: cadastro da obra (CNO) e regime especial de tributação
	CNO                      string
	RegimeEspecialTributacao string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Alíquotas legais padrão (%) aplicadas quando a config é criada de forma preguiçosa.
var (
	AliquotaPadraoIss    = decimal.NewFromFloat(5)
	AliquotaPadraoIrpj   = decimal.NewFromFloat(1.5)
	AliquotaPadraoCsll   = decimal.NewFromFloat(1)
	AliquotaPadraoPis    = decimal.NewFromFloat(0.65)
	AliquotaPadraoCofins = decimal.NewFromFloat(3)
	AliquotaPadraoInss   = decimal.NewFromFloat(11)
)

// NewDefaultFiscalConfig cria a config inicial do tenant com as alíquotas
// legais e todas as retenções e emissões desabilitadas.
func NewDefaultFiscalConfig(companyID string) *FiscalConfig {
	now := time.Now()
	return &FiscalConfig{
		CompanyID:        companyID,
		RegimeTributario: RegimeSimplesNacional,
		AliquotaIss:      AliquotaPadraoIss,
		AliquotaIrpj:     AliquotaPadraoIrpj,
		AliquotaCsll:     AliquotaPadraoCsll,
		AliquotaPis:      AliquotaPadraoPis,
		AliquotaCofins:   AliquotaPadraoCofins,
		AliquotaInss:     AliquotaPadraoInss,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// CredenciaisCompletas indica se o tenant já informou client_id e client_secret do provedor.
func (c *FiscalConfig) CredenciaisCompletas() bool {
	return c.ProviderClientID != "" && c.ProviderClientSecret != ""
}

// CadastroCompleto indica se os dados mínimos para sincronizar a empresa no provedor existem.
func (c *FiscalConfig) CadastroCompleto() bool {
	return c.RazaoSocial != "" && c.CNPJ != "" && c.CodigoMunicipio != "" && c.CEP != ""
}
