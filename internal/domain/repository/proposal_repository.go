package repository

import (
	"context"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
)

// ProposalRepository leitura de propostas comerciais (read model; o CRUD vive em outro módulo).
type ProposalRepository interface {
	// GetByID devolve a proposta com seus itens ou nil se não existe.
	GetByID(ctx context.Context, id string) (*entity.Proposal, error)
}

// ClientRepository leitura de clientes (read model do CRM).
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}
