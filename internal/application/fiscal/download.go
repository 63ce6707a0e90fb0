package fiscal

import (
	"context"
	"fmt"

	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
	"github.com/grupovoltera/erp-api/pkg/logger"
)

// DownloadUseCase entrega os artefatos da nota: XML autorizado e PDF oficial
// vindos do provedor, e o espelho de conferência gerado localmente.
type DownloadUseCase struct {
	configRepo  repository.FiscalConfigRepository
	invoiceRepo repository.FiscalInvoiceRepository
	provider    FiscalProvider
	espelho     EspelhoGenerator
	log         *logger.Logger
}

// NewDownloadUseCase constrói o caso de uso.
func NewDownloadUseCase(
	configRepo repository.FiscalConfigRepository,
	invoiceRepo repository.FiscalInvoiceRepository,
	provider FiscalProvider,
	espelho EspelhoGenerator,
	log *logger.Logger,
) *DownloadUseCase {
	return &DownloadUseCase{
		configRepo:  configRepo,
		invoiceRepo: invoiceRepo,
		provider:    provider,
		espelho:     espelho,
		log:         log,
	}
}

// BaixarXML baixa o XML autorizado do provedor. Para NF-e, a chave de acesso
// do protocolo no XML deve bater com a chave persistida na nota.
func (uc *DownloadUseCase) BaixarXML(ctx context.Context, companyID, id string) ([]byte, error) {
	inv, cfg, err := uc.notaAutorizada(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	xml, err := uc.provider.BaixarXML(ctx, cfg, inv.Tipo, inv.ProviderID)
	if err != nil {
		return nil, err
	}

	if inv.Tipo == entity.InvoiceTipoNFE && inv.ChaveAcesso != "" {
		aut, err := nuvemfiscal.ParseAutorizacaoXML(xml)
		if err != nil {
			return nil, err
		}
		if aut.ChaveAcesso != inv.ChaveAcesso {
			uc.log.Error().
				Str("invoice_id", inv.ID).
				Str("chave_local", inv.ChaveAcesso).
				Str("chave_xml", aut.ChaveAcesso).
				Msg("chave de acesso do XML diverge da nota")
			return nil, fmt.Errorf("%w: XML devolvido não corresponde à nota", domain.ErrConflict)
		}
	}
	return xml, nil
}

// BaixarPDF baixa o PDF oficial (DANFE ou NFS-e) do provedor.
func (uc *DownloadUseCase) BaixarPDF(ctx context.Context, companyID, id string) ([]byte, error) {
	inv, cfg, err := uc.notaAutorizada(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return uc.provider.BaixarPDF(ctx, cfg, inv.Tipo, inv.ProviderID)
}

// GerarEspelho gera o PDF de conferência local. Disponível em qualquer status:
// o espelho existe justamente para conferir a nota antes da autorização.
func (uc *DownloadUseCase) GerarEspelho(ctx context.Context, companyID, id string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	cfg, err := uc.configRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrConfigIncompleta
	}

	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.espelho.GerarEspelho(ctx, cfg, inv, items)
}

// notaAutorizada carrega nota e config validando que há documento no provedor.
func (uc *DownloadUseCase) notaAutorizada(ctx context.Context, companyID, id string) (*entity.FiscalInvoice, *entity.FiscalConfig, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}
	if inv.Status != entity.InvoiceStatusAutorizada || inv.ProviderID == "" {
		return nil, nil, fmt.Errorf("%w: download disponível apenas para nota autorizada", domain.ErrConflict)
	}

	cfg, err := uc.configRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil || !cfg.CredenciaisCompletas() {
		return nil, nil, domain.ErrConfigIncompleta
	}
	return inv, cfg, nil
}
