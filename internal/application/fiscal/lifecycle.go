package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
	"github.com/grupovoltera/erp-api/pkg/logger"
)

// LifecycleUseCase consulta, cancelamento e correção de valor das notas já
// emitidas. O polling de status nunca regride estado terminal e o cancelamento
// só marca a nota local depois que o provedor aceitou.
type LifecycleUseCase struct {
	configRepo  repository.FiscalConfigRepository
	invoiceRepo repository.FiscalInvoiceRepository
	provider    FiscalProvider
	txRunner    TxRunner
	log         *logger.Logger
}

// NewLifecycleUseCase constrói o caso de uso.
func NewLifecycleUseCase(
	configRepo repository.FiscalConfigRepository,
	invoiceRepo repository.FiscalInvoiceRepository,
	provider FiscalProvider,
	txRunner TxRunner,
	log *logger.Logger,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		configRepo:  configRepo,
		invoiceRepo: invoiceRepo,
		provider:    provider,
		txRunner:    txRunner,
		log:         log,
	}
}

// GetInvoice devolve a nota com o snapshot de itens.
func (uc *LifecycleUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// ListInvoices lista as notas do tenant, opcionalmente filtradas por status.
func (uc *LifecycleUseCase) ListInvoices(ctx context.Context, companyID, status string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	if status != "" {
		switch status {
		case entity.InvoiceStatusRascunho, entity.InvoiceStatusProcessando,
			entity.InvoiceStatusAutorizada, entity.InvoiceStatusCancelada, entity.InvoiceStatusErro:
		default:
			return nil, fmt.Errorf("%w: status desconhecido: %s", domain.ErrInvalidInput, status)
		}
	}

	invs, err := uc.invoiceRepo.ListByCompany(ctx, companyID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(invs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, inv := range invs {
		out.Items = append(out.Items, *toInvoiceResponse(inv, nil))
	}
	return out, nil
}

// ConsultarStatus sincroniza o status local com o provedor. Em estado terminal
// (AUTORIZADA/CANCELADA) é no-op: devolve a nota como está, sem chamada externa.
func (uc *LifecycleUseCase) ConsultarStatus(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv.Terminal() || inv.ProviderID == "" {
		return toInvoiceResponse(inv, nil), nil
	}

	cfg, err := uc.configRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.CredenciaisCompletas() {
		return nil, domain.ErrConfigIncompleta
	}

	doc, err := uc.provider.ConsultarDocumento(ctx, cfg, inv.Tipo, inv.ProviderID)
	if err != nil {
		return nil, err
	}

	statusAnterior := inv.Status
	aplicarDocumento(inv, doc)
	if inv.Status != statusAnterior || doc.Raw != "" {
		inv.UpdatedAt = time.Now()
		if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
			return nil, err
		}
	}
	if inv.Status != statusAnterior {
		uc.log.Info().
			Str("invoice_id", inv.ID).
			Str("de", statusAnterior).
			Str("para", inv.Status).
			Msg("status da nota atualizado pelo polling")
	}
	return toInvoiceResponse(inv, nil), nil
}

// Cancelar solicita o cancelamento ao provedor e marca a nota local.
// Nota já cancelada é rejeitada; falha no provedor não altera o estado local.
func (uc *LifecycleUseCase) Cancelar(ctx context.Context, companyID, id, motivo string) (*dto.InvoiceResponse, error) {
	if motivo == "" {
		return nil, fmt.Errorf("%w: motivo do cancelamento é obrigatório", domain.ErrInvalidInput)
	}
	inv, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !inv.PodeCancelar() {
		return nil, fmt.Errorf("%w: nota já está cancelada", domain.ErrConflict)
	}

	// Nota que chegou ao provedor precisa ser cancelada lá primeiro
	if inv.ProviderID != "" {
		cfg, err := uc.configRepo.GetByCompanyID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if cfg == nil || !cfg.CredenciaisCompletas() {
			return nil, domain.ErrConfigIncompleta
		}
		if err := uc.provider.CancelarDocumento(ctx, cfg, inv.Tipo, inv.ProviderID, motivo); err != nil {
			uc.log.Warn().Str("invoice_id", inv.ID).Err(err).Msg("cancelamento rejeitado pelo provedor")
			return nil, err
		}
	}

	inv.Status = entity.InvoiceStatusCancelada
	inv.MotivoCancelamento = motivo
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Msg("nota cancelada")
	return toInvoiceResponse(inv, nil), nil
}

// EditarValor corrige manualmente o valor da nota, gravando a trilha de
// auditoria na mesma transação do update.
func (uc *LifecycleUseCase) EditarValor(ctx context.Context, companyID, id, userID string, in dto.EditInvoiceValueRequest) (*dto.InvoiceResponse, error) {
	if in.Motivo == "" {
		return nil, fmt.Errorf("%w: motivo da correção é obrigatório", domain.ErrInvalidInput)
	}
	if !in.ValorNovo.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: valor_novo deve ser maior que zero", domain.ErrInvalidInput)
	}

	var out *entity.FiscalInvoice
	err := uc.txRunner.RunFiscal(ctx, func(invoiceRepo repository.FiscalInvoiceRepository) error {
		inv, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.CompanyID != companyID {
			return domain.ErrForbidden
		}

		edit := &entity.InvoiceValueEdit{
			ID:            uuid.New().String(),
			InvoiceID:     inv.ID,
			ValorAnterior: inv.ValorTotal,
			ValorNovo:     in.ValorNovo,
			Motivo:        in.Motivo,
			UsuarioID:     userID,
			CreatedAt:     time.Now(),
		}
		if err := invoiceRepo.CreateValueEdit(ctx, edit); err != nil {
			return err
		}

		inv.ValorTotal = in.ValorNovo
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", id).
		Str("usuario_id", userID).
		Str("valor_novo", in.ValorNovo.String()).
		Msg("valor da nota corrigido manualmente")
	return toInvoiceResponse(out, nil), nil
}

// ListValueEdits lista a trilha de correções de valor da nota.
func (uc *LifecycleUseCase) ListValueEdits(ctx context.Context, companyID, id string) ([]dto.ValueEditResponse, error) {
	if _, err := uc.getOwned(ctx, companyID, id); err != nil {
		return nil, err
	}
	edits, err := uc.invoiceRepo.ListValueEdits(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ValueEditResponse, 0, len(edits))
	for _, e := range edits {
		out = append(out, dto.ValueEditResponse{
			ID:            e.ID,
			ValorAnterior: e.ValorAnterior,
			ValorNovo:     e.ValorNovo,
			Motivo:        e.Motivo,
			UsuarioID:     e.UsuarioID,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (uc *LifecycleUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.FiscalInvoice, error) {
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
	return inv, nil
}
