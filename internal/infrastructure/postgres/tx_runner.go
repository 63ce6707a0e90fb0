package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appfiscal "github.com/grupovoltera/erp-api/internal/application/fiscal"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
)

var _ appfiscal.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFiscal inicia uma transação, executa fn com o repositório de notas atado
// à tx e faz Commit ou Rollback. Usado pela correção manual de valor
// (update da nota + trilha de auditoria na mesma transação).
func (r *TxRunner) RunFiscal(ctx context.Context, fn func(invoiceRepo repository.FiscalInvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewFiscalInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
