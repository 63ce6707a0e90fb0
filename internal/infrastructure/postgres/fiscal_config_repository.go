package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
)

var _ repository.FiscalConfigRepository = (*FiscalConfigRepo)(nil)

// FiscalConfigRepo implementação de FiscalConfigRepository (usável com pool ou tx).
type FiscalConfigRepo struct {
	q Querier
}

// NewFiscalConfigRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewFiscalConfigRepository(q Querier) *FiscalConfigRepo {
	return &FiscalConfigRepo{q: q}
}

const fiscalConfigColumns = `
	id, company_id, razao_social, nome_fantasia, cnpj, inscricao_estadual, inscricao_municipal,
	regime_tributario, logradouro, numero, bairro, municipio, codigo_municipio, uf, cep,
	provider_client_id, provider_client_secret, certificado_arquivo, certificado_senha,
	emissao_nfe_habilitada, emissao_nfse_habilitada,
	retem_iss, aliquota_iss, retem_irrf, aliquota_irpj, retem_csll, aliquota_csll,
	retem_pis, aliquota_pis, retem_cofins, aliquota_cofins, retem_inss, aliquota_inss,
	cno, regime_especial_tributacao, created_at, updated_at`

// GetByCompanyID devolve a config do tenant ou nil se ainda não existe.
func (r *FiscalConfigRepo) GetByCompanyID(ctx context.Context, companyID string) (*entity.FiscalConfig, error) {
	query := `SELECT` + fiscalConfigColumns + ` FROM fiscal_configs WHERE company_id = $1`
	var c entity.FiscalConfig
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&c.ID, &c.CompanyID, &c.RazaoSocial, &c.NomeFantasia, &c.CNPJ, &c.InscricaoEstadual, &c.InscricaoMunicipal,
		&c.RegimeTributario, &c.Logradouro, &c.Numero, &c.Bairro, &c.Municipio, &c.CodigoMunicipio, &c.UF, &c.CEP,
		&c.ProviderClientID, &c.ProviderClientSecret, &c.CertificadoArquivo, &c.CertificadoSenha,
		&c.EmissaoNfeHabilitada, &c.EmissaoNfseHabilitada,
		&c.RetemIss, &c.AliquotaIss, &c.RetemIrrf, &c.AliquotaIrpj, &c.RetemCsll, &c.AliquotaCsll,
		&c.RetemPis, &c.AliquotaPis, &c.RetemCofins, &c.AliquotaCofins, &c.RetemInss, &c.AliquotaInss,
		&c.CNO, &c.RegimeEspecialTributacao, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal config: %w", err)
	}
	return &c, nil
}

// Create persiste a config inicial do tenant.
func (r *FiscalConfigRepo) Create(ctx context.Context, c *entity.FiscalConfig) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO fiscal_configs (` + fiscalConfigColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
		        $21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36,$37)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.RazaoSocial, c.NomeFantasia, c.CNPJ, c.InscricaoEstadual, c.InscricaoMunicipal,
		c.RegimeTributario, c.Logradouro, c.Numero, c.Bairro, c.Municipio, c.CodigoMunicipio, c.UF, c.CEP,
		c.ProviderClientID, c.ProviderClientSecret, c.CertificadoArquivo, c.CertificadoSenha,
		c.EmissaoNfeHabilitada, c.EmissaoNfseHabilitada,
		c.RetemIss, c.AliquotaIss, c.RetemIrrf, c.AliquotaIrpj, c.RetemCsll, c.AliquotaCsll,
		c.RetemPis, c.AliquotaPis, c.RetemCofins, c.AliquotaCofins, c.RetemInss, c.AliquotaInss,
		c.CNO, c.RegimeEspecialTributacao, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("fiscal config já existe para a empresa: %w", err)
		}
		return fmt.Errorf("insert fiscal config: %w", err)
	}
	return nil
}

// Update atualiza todos os campos mutáveis da config.
func (r *FiscalConfigRepo) Update(ctx context.Context, c *entity.FiscalConfig) error {
	c.UpdatedAt = time.Now()
	query := `
		UPDATE fiscal_configs SET
			razao_social = $2, nome_fantasia = $3, cnpj = $4, inscricao_estadual = $5,
			inscricao_municipal = $6, regime_tributario = $7, logradouro = $8, numero = $9,
			bairro = $10, municipio = $11, codigo_municipio = $12, uf = $13, cep = $14,
			provider_client_id = $15, provider_client_secret = $16,
			certificado_arquivo = $17, certificado_senha = $18,
			emissao_nfe_habilitada = $19, emissao_nfse_habilitada = $20,
			retem_iss = $21, aliquota_iss = $22, retem_irrf = $23, aliquota_irpj = $24,
			retem_csll = $25, aliquota_csll = $26, retem_pis = $27, aliquota_pis = $28,
			retem_cofins = $29, aliquota_cofins = $30, retem_inss = $31, aliquota_inss = $32,
			cno = $33, regime_especial_tributacao = $34, updated_at = $35
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.RazaoSocial, c.NomeFantasia, c.CNPJ, c.InscricaoEstadual,
		c.InscricaoMunicipal, c.RegimeTributario, c.Logradouro, c.Numero,
		c.Bairro, c.Municipio, c.CodigoMunicipio, c.UF, c.CEP,
		c.ProviderClientID, c.ProviderClientSecret,
		c.CertificadoArquivo, c.CertificadoSenha,
		c.EmissaoNfeHabilitada, c.EmissaoNfseHabilitada,
		c.RetemIss, c.AliquotaIss, c.RetemIrrf, c.AliquotaIrpj,
		c.RetemCsll, c.AliquotaCsll, c.RetemPis, c.AliquotaPis,
		c.RetemCofins, c.AliquotaCofins, c.RetemInss, c.AliquotaInss,
		c.CNO, c.RegimeEspecialTributacao, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal config: %w", err)
	}
	return nil
}
