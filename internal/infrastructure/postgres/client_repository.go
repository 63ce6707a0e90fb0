package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo leitura de clientes (as tabelas pertencem ao módulo de CRM).
type ClientRepo struct {
	q Querier
}

// NewClientRepository constrói o adaptador.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID devolve o cliente ou nil se não existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `
		SELECT id, company_id, nome, documento, COALESCE(email, ''),
		       COALESCE(logradouro, ''), COALESCE(numero, ''), COALESCE(bairro, ''),
		       COALESCE(municipio, ''), COALESCE(codigo_municipio, ''), COALESCE(uf, ''),
		       COALESCE(cep, ''), created_at
		FROM clients WHERE id = $1`
	var c entity.Client
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.Nome, &c.Documento, &c.Email,
		&c.Logradouro, &c.Numero, &c.Bairro,
		&c.Municipio, &c.CodigoMunicipio, &c.UF,
		&c.CEP, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}
