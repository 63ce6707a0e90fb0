package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
)

var _ repository.ProposalRepository = (*ProposalRepo)(nil)

// ProposalRepo leitura de propostas (as tabelas pertencem ao módulo comercial).
type ProposalRepo struct {
	q Querier
}

// NewProposalRepository constrói o adaptador.
func NewProposalRepository(q Querier) *ProposalRepo {
	return &ProposalRepo{q: q}
}

// GetByID devolve a proposta com seus itens ou nil se não existe.
func (r *ProposalRepo) GetByID(ctx context.Context, id string) (*entity.Proposal, error) {
	query := `SELECT id, company_id, client_id, titulo, created_at FROM proposals WHERE id = $1`
	var p entity.Proposal
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.CompanyID, &p.ClientID, &p.Titulo, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}

	itemsQuery := `
		SELECT id, proposal_id, descricao, service_type, COALESCE(ncm, ''), quantity, unit_price, total
		FROM proposal_items WHERE proposal_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list proposal items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.ProposalItem
		if err := rows.Scan(&it.ID, &it.ProposalID, &it.Descricao, &it.ServiceType, &it.NCM,
			&it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan proposal item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}
