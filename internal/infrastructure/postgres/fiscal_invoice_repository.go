package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
)

var _ repository.FiscalInvoiceRepository = (*FiscalInvoiceRepo)(nil)

// FiscalInvoiceRepo implementação de FiscalInvoiceRepository (usável com pool ou tx).
type FiscalInvoiceRepo struct {
	q Querier
}

// NewFiscalInvoiceRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewFiscalInvoiceRepository(q Querier) *FiscalInvoiceRepo {
	return &FiscalInvoiceRepo{q: q}
}

// Create persiste a cabeceira da nota.
func (r *FiscalInvoiceRepo) Create(ctx context.Context, inv *entity.FiscalInvoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO fiscal_invoices (id, company_id, proposal_id, tipo, status,
			tomador_nome, tomador_documento, tomador_endereco, valor_total,
			provider_id, chave_acesso, numero_nota, resposta_provedor, mensagem_erro,
			motivo_cancelamento, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.ProposalID, inv.Tipo, inv.Status,
		inv.TomadorNome, inv.TomadorDocumento, inv.TomadorEndereco, inv.ValorTotal,
		nullIfEmpty(inv.ProviderID), nullIfEmpty(inv.ChaveAcesso), nullIfEmpty(inv.NumeroNota),
		nullIfEmpty(inv.RespostaProvedor), nullIfEmpty(inv.MensagemErro),
		nullIfEmpty(inv.MotivoCancelamento), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fiscal invoice: %w", err)
	}
	return nil
}

// CreateItem persiste uma linha do snapshot de itens.
func (r *FiscalInvoiceRepo) CreateItem(ctx context.Context, item *entity.FiscalInvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO fiscal_invoice_items (id, invoice_id, descricao, service_type, ncm, quantidade, valor_unit, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Descricao, item.ServiceType, item.NCM,
		item.Quantidade, item.ValorUnit, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert fiscal invoice item: %w", err)
	}
	return nil
}

// Update atualiza o estado e os campos devolvidos pelo provedor.
func (r *FiscalInvoiceRepo) Update(ctx context.Context, inv *entity.FiscalInvoice) error {
	query := `
		UPDATE fiscal_invoices
		SET status             = $2,
		    valor_total        = $3,
		    provider_id        = COALESCE($4, provider_id),
		    chave_acesso       = COALESCE($5, chave_acesso),
		    numero_nota        = COALESCE($6, numero_nota),
		    resposta_provedor  = COALESCE($7, resposta_provedor),
		    mensagem_erro      = $8,
		    motivo_cancelamento = COALESCE($9, motivo_cancelamento),
		    updated_at         = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Status, inv.ValorTotal,
		nullIfEmpty(inv.ProviderID), nullIfEmpty(inv.ChaveAcesso), nullIfEmpty(inv.NumeroNota),
		nullIfEmpty(inv.RespostaProvedor), nullIfEmpty(inv.MensagemErro),
		nullIfEmpty(inv.MotivoCancelamento), inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal invoice: %w", err)
	}
	return nil
}

// GetByID obtém uma nota completa por ID; nil se não existe.
func (r *FiscalInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.FiscalInvoice, error) {
	query := `
		SELECT id, company_id, proposal_id, tipo, status,
		       tomador_nome, tomador_documento, tomador_endereco, valor_total,
		       provider_id, chave_acesso, numero_nota, resposta_provedor, mensagem_erro,
		       motivo_cancelamento, created_at, updated_at
		FROM fiscal_invoices WHERE id = $1`
	var inv entity.FiscalInvoice
	var providerID, chave, numero, resposta, msgErro, motivo *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.ProposalID, &inv.Tipo, &inv.Status,
		&inv.TomadorNome, &inv.TomadorDocumento, &inv.TomadorEndereco, &inv.ValorTotal,
		&providerID, &chave, &numero, &resposta, &msgErro,
		&motivo, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal invoice: %w", err)
	}
	inv.ProviderID = derefStr(providerID)
	inv.ChaveAcesso = derefStr(chave)
	inv.NumeroNota = derefStr(numero)
	inv.RespostaProvedor = derefStr(resposta)
	inv.MensagemErro = derefStr(msgErro)
	inv.MotivoCancelamento = derefStr(motivo)
	return &inv, nil
}

// GetItems obtém o snapshot de itens da nota.
func (r *FiscalInvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.FiscalInvoiceItem, error) {
	query := `
		SELECT id, invoice_id, descricao, service_type, ncm, quantidade, valor_unit, total
		FROM fiscal_invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalInvoiceItem
	for rows.Next() {
		var it entity.FiscalInvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Descricao, &it.ServiceType, &it.NCM,
			&it.Quantidade, &it.ValorUnit, &it.Total); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByCompany lista notas do tenant, opcionalmente filtradas por status.
func (r *FiscalInvoiceRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.FiscalInvoice, error) {
	query := `
		SELECT id, company_id, proposal_id, tipo, status,
		       tomador_nome, tomador_documento, tomador_endereco, valor_total,
		       COALESCE(provider_id, ''), COALESCE(chave_acesso, ''), COALESCE(numero_nota, ''),
		       COALESCE(mensagem_erro, ''), created_at, updated_at
		FROM fiscal_invoices
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list fiscal invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalInvoice
	for rows.Next() {
		var inv entity.FiscalInvoice
		if err := rows.Scan(&inv.ID, &inv.CompanyID, &inv.ProposalID, &inv.Tipo, &inv.Status,
			&inv.TomadorNome, &inv.TomadorDocumento, &inv.TomadorEndereco, &inv.ValorTotal,
			&inv.ProviderID, &inv.ChaveAcesso, &inv.NumeroNota,
			&inv.MensagemErro, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fiscal invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// CreateValueEdit registra uma correção manual de valor (append-only).
func (r *FiscalInvoiceRepo) CreateValueEdit(ctx context.Context, edit *entity.InvoiceValueEdit) error {
	if edit.ID == "" {
		edit.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_value_edits (id, invoice_id, valor_anterior, valor_novo, motivo, usuario_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.q.Exec(ctx, query,
		edit.ID, edit.InvoiceID, edit.ValorAnterior, edit.ValorNovo, edit.Motivo, edit.UsuarioID, edit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert value edit: %w", err)
	}
	return nil
}

// ListValueEdits devolve o histórico de correções em ordem cronológica.
func (r *FiscalInvoiceRepo) ListValueEdits(ctx context.Context, invoiceID string) ([]*entity.InvoiceValueEdit, error) {
	query := `
		SELECT id, invoice_id, valor_anterior, valor_novo, motivo, usuario_id, created_at
		FROM invoice_value_edits WHERE invoice_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list value edits: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceValueEdit
	for rows.Next() {
		var e entity.InvoiceValueEdit
		if err := rows.Scan(&e.ID, &e.InvoiceID, &e.ValorAnterior, &e.ValorNovo, &e.Motivo, &e.UsuarioID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan value edit: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
