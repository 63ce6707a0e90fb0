package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento fiscal.
const (
	InvoiceTipoNFE  = "NFE"  // nota fiscal eletrônica (materiais)
	InvoiceTipoNFSE = "NFSE" // nota fiscal de serviço eletrônica
)

// Estados da nota fiscal.
// RASCUNHO -> PROCESSANDO -> {AUTORIZADA | ERRO}; AUTORIZADA -> CANCELADA.
// AUTORIZADA e CANCELADA são terminais fora do fluxo documentado de cancelamento.
const (
	InvoiceStatusRascunho    = "RASCUNHO"
	InvoiceStatusProcessando = "PROCESSANDO"
	InvoiceStatusAutorizada  = "AUTORIZADA"
	InvoiceStatusCancelada   = "CANCELADA"
	InvoiceStatusErro        = "ERRO"
)

// FiscalInvoice é uma tentativa de emissão. Uma linha por emissão; nunca
// removida fisicamente — o registro local é a fonte de verdade de
// "ao menos tentamos emitir".
type FiscalInvoice struct {
	ID         string
	CompanyID  string
	ProposalID string
	Tipo       string // NFE | NFSE
	Status     string // ver constantes InvoiceStatus*

	// Snapshot do tomador no momento da emissão (não é join vivo)
	TomadorNome      string
	TomadorDocumento string
	TomadorEndereco  string

	ValorTotal decimal.Decimal

	// Identificadores devolvidos pelo provedor após autorização
	ProviderID  string // id do documento no provedor
	ChaveAcesso string // chave de acesso NF-e (44 dígitos) ou código de verificação NFS-e
	NumeroNota  string

	RespostaProvedor   string // última resposta crua do provedor (JSON)
	MensagemErro       string
	MotivoCancelamento string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal indica se o status atual não admite mais transições pelo polling.
func (i *FiscalInvoice) Terminal() bool {
	return i.Status == InvoiceStatusAutorizada || i.Status == InvoiceStatusCancelada
}

// PodeCancelar indica se o fluxo de cancelamento é aplicável.
func (i *FiscalInvoice) PodeCancelar() bool {
	return i.Status != InvoiceStatusCancelada
}

// FiscalInvoiceItem é a cópia imutável de um item da proposta no momento da
// emissão. Preserva o registro legal mesmo que a proposta mude depois.
type FiscalInvoiceItem struct {
	ID          string
	InvoiceID   string
	Descricao   string
	ServiceType string // material | servico | service
	NCM         string
	Quantidade  decimal.Decimal
	ValorUnit   decimal.Decimal
	Total       decimal.Decimal
}

// InvoiceValueEdit é o registro de auditoria de correções manuais de valor.
// Append-only: nunca atualizado nem removido.
type InvoiceValueEdit struct {
	ID            string
	InvoiceID     string
	ValorAnterior decimal.Decimal
	ValorNovo     decimal.Decimal
	Motivo        string
	UsuarioID     string
	CreatedAt     time.Time
}
