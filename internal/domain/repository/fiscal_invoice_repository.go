package repository

import (
	"context"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
)

// FiscalInvoiceRepository persistência das notas fiscais e seus snapshots de itens.
// Notas nunca são removidas fisicamente.
type FiscalInvoiceRepository interface {
	Create(ctx context.Context, inv *entity.FiscalInvoice) error
	CreateItem(ctx context.Context, item *entity.FiscalInvoiceItem) error
	Update(ctx context.Context, inv *entity.FiscalInvoice) error
	GetByID(ctx context.Context, id string) (*entity.FiscalInvoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.FiscalInvoiceItem, error)
	ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.FiscalInvoice, error)

	// CreateValueEdit registra uma correção manual de valor (append-only).
	CreateValueEdit(ctx context.Context, edit *entity.InvoiceValueEdit) error
	ListValueEdits(ctx context.Context, invoiceID string) ([]*entity.InvoiceValueEdit, error)
}
