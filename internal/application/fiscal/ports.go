package fiscal

import (
	"context"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
	"github.com/grupovoltera/erp-api/internal/infrastructure/cert"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
)

// TxRunner executa uma função com o repositório de notas atado a uma transação.
// Usado pela correção manual de valor: update da nota e trilha de auditoria
// precisam ser atômicos.
type TxRunner interface {
	RunFiscal(ctx context.Context, fn func(invoiceRepo repository.FiscalInvoiceRepository) error) error
}

// FiscalProvider comunicação com o provedor de emissão (Nuvem Fiscal).
// As credenciais vão na config do tenant; erros de credencial chegam como
// *nuvemfiscal.AuthError e respostas não-2xx como *nuvemfiscal.APIError.
type FiscalProvider interface {
	InvalidarToken(clientID string)
	SincronizarEmpresa(ctx context.Context, cfg *entity.FiscalConfig) error
	EmitirNfe(ctx context.Context, cfg *entity.FiscalConfig, pedido *nuvemfiscal.NfePedidoEmissao) (*nuvemfiscal.Documento, error)
	EmitirNfse(ctx context.Context, cfg *entity.FiscalConfig, pedido *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error)
	ConsultarDocumento(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) (*nuvemfiscal.Documento, error)
	CancelarDocumento(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID, justificativa string) error
	BaixarXML(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error)
	BaixarPDF(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error)
}

// EspelhoGenerator gera o PDF de conferência (sem valor fiscal) de uma nota.
type EspelhoGenerator interface {
	GerarEspelho(ctx context.Context, cfg *entity.FiscalConfig, inv *entity.FiscalInvoice, items []*entity.FiscalInvoiceItem) ([]byte, error)
}

// CertInspector valida o .pfx enviado no upload da config.
type CertInspector interface {
	InspectBase64(pfxB64, senha string) (*cert.Info, error)
}
