package repository

import (
	"context"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
)

// FiscalConfigRepository persistência da configuração fiscal (um registro por tenant).
type FiscalConfigRepository interface {
	// GetByCompanyID devolve a config do tenant ou nil se ainda não existe.
	GetByCompanyID(ctx context.Context, companyID string) (*entity.FiscalConfig, error)
	Create(ctx context.Context, cfg *entity.FiscalConfig) error
	Update(ctx context.Context, cfg *entity.FiscalConfig) error
}
