package fiscal_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
	"github.com/grupovoltera/erp-api/internal/infrastructure/cert"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
	"github.com/grupovoltera/erp-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória dos repositórios e portas
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

type fakeConfigRepo struct {
	cfg     *entity.FiscalConfig
	created *entity.FiscalConfig
	updated *entity.FiscalConfig
	err     error
}

func (f *fakeConfigRepo) GetByCompanyID(_ context.Context, _ string) (*entity.FiscalConfig, error) {
	return f.cfg, f.err
}

func (f *fakeConfigRepo) Create(_ context.Context, cfg *entity.FiscalConfig) error {
	f.created = cfg
	f.cfg = cfg
	return nil
}

func (f *fakeConfigRepo) Update(_ context.Context, cfg *entity.FiscalConfig) error {
	f.updated = cfg
	f.cfg = cfg
	return nil
}

type fakeProposalRepo struct {
	proposal *entity.Proposal
	err      error
}

func (f *fakeProposalRepo) GetByID(_ context.Context, _ string) (*entity.Proposal, error) {
	return f.proposal, f.err
}

type fakeClientRepo struct {
	client *entity.Client
	err    error
}

func (f *fakeClientRepo) GetByID(_ context.Context, _ string) (*entity.Client, error) {
	return f.client, f.err
}

// fakeInvoiceRepo guarda notas, itens e edições em memória.
type fakeInvoiceRepo struct {
	invoices map[string]*entity.FiscalInvoice
	items    map[string][]*entity.FiscalInvoiceItem
	edits    map[string][]*entity.InvoiceValueEdit

	createErr     error
	createItemErr error
	updateErr     error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.FiscalInvoice),
		items:    make(map[string][]*entity.FiscalInvoiceItem),
		edits:    make(map[string][]*entity.InvoiceValueEdit),
	}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *entity.FiscalInvoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *inv
	f.invoices[inv.ID] = &clone
	return nil
}

func (f *fakeInvoiceRepo) CreateItem(_ context.Context, item *entity.FiscalInvoiceItem) error {
	if f.createItemErr != nil {
		return f.createItemErr
	}
	f.items[item.InvoiceID] = append(f.items[item.InvoiceID], item)
	return nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, inv *entity.FiscalInvoice) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	clone := *inv
	f.invoices[inv.ID] = &clone
	return nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.FiscalInvoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (f *fakeInvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.FiscalInvoiceItem, error) {
	return f.items[invoiceID], nil
}

func (f *fakeInvoiceRepo) ListByCompany(_ context.Context, companyID, status string, limit, offset int) ([]*entity.FiscalInvoice, error) {
	var out []*entity.FiscalInvoice
	for _, inv := range f.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) CreateValueEdit(_ context.Context, edit *entity.InvoiceValueEdit) error {
	f.edits[edit.InvoiceID] = append(f.edits[edit.InvoiceID], edit)
	return nil
}

func (f *fakeInvoiceRepo) ListValueEdits(_ context.Context, invoiceID string) ([]*entity.InvoiceValueEdit, error) {
	return f.edits[invoiceID], nil
}

// fakeProvider implementa FiscalProvider com funções injetáveis.
type fakeProvider struct {
	invalidated []string

	sincronizarFn func(ctx context.Context, cfg *entity.FiscalConfig) error
	emitirNfeFn   func(ctx context.Context, cfg *entity.FiscalConfig, pedido *nuvemfiscal.NfePedidoEmissao) (*nuvemfiscal.Documento, error)
	emitirNfseFn  func(ctx context.Context, cfg *entity.FiscalConfig, pedido *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error)
	consultarFn   func(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) (*nuvemfiscal.Documento, error)
	cancelarFn    func(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID, justificativa string) error
	baixarXMLFn   func(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error)
	baixarPDFFn   func(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error)
}

func (f *fakeProvider) InvalidarToken(clientID string) {
	f.invalidated = append(f.invalidated, clientID)
}

func (f *fakeProvider) SincronizarEmpresa(ctx context.Context, cfg *entity.FiscalConfig) error {
	if f.sincronizarFn == nil {
		return nil
	}
	return f.sincronizarFn(ctx, cfg)
}

func (f *fakeProvider) EmitirNfe(ctx context.Context, cfg *entity.FiscalConfig, pedido *nuvemfiscal.NfePedidoEmissao) (*nuvemfiscal.Documento, error) {
	return f.emitirNfeFn(ctx, cfg, pedido)
}

func (f *fakeProvider) EmitirNfse(ctx context.Context, cfg *entity.FiscalConfig, pedido *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error) {
	return f.emitirNfseFn(ctx, cfg, pedido)
}

func (f *fakeProvider) ConsultarDocumento(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) (*nuvemfiscal.Documento, error) {
	return f.consultarFn(ctx, cfg, tipo, providerID)
}

func (f *fakeProvider) CancelarDocumento(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID, justificativa string) error {
	return f.cancelarFn(ctx, cfg, tipo, providerID, justificativa)
}

func (f *fakeProvider) BaixarXML(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error) {
	return f.baixarXMLFn(ctx, cfg, tipo, providerID)
}

func (f *fakeProvider) BaixarPDF(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error) {
	return f.baixarPDFFn(ctx, cfg, tipo, providerID)
}

// fakeTxRunner roda o callback direto sobre o fakeInvoiceRepo (sem transação).
type fakeTxRunner struct {
	repo *fakeInvoiceRepo
}

func (f *fakeTxRunner) RunFiscal(_ context.Context, fn func(invoiceRepo repository.FiscalInvoiceRepository) error) error {
	return fn(f.repo)
}

// fakeEspelho devolve bytes fixos.
type fakeEspelho struct{}

func (fakeEspelho) GerarEspelho(_ context.Context, _ *entity.FiscalConfig, _ *entity.FiscalInvoice, _ []*entity.FiscalInvoiceItem) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

// fakeCerts valida o pfx aceitando tudo ou devolvendo o erro configurado.
type fakeCerts struct {
	info *cert.Info
	err  error
}

func (f *fakeCerts) InspectBase64(_, _ string) (*cert.Info, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.info != nil {
		return f.info, nil
	}
	return &cert.Info{
		Titular:     "VOLTERA LTDA:11222333000181",
		ValidoDesde: time.Now().Add(-24 * time.Hour),
		ValidoAte:   time.Now().Add(365 * 24 * time.Hour),
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures compartilhadas
// ──────────────────────────────────────────────────────────────────────────────

func configCompleta(companyID string) *entity.FiscalConfig {
	cfg := entity.NewDefaultFiscalConfig(companyID)
	cfg.ID = "cfg-1"
	cfg.RazaoSocial = "Voltera Engenharia Elétrica Ltda"
	cfg.CNPJ = "11.222.333/0001-81"
	cfg.InscricaoMunicipal = "98765"
	cfg.Logradouro = "Rua das Turbinas"
	cfg.Numero = "100"
	cfg.Bairro = "Industrial"
	cfg.Municipio = "São Paulo"
	cfg.CodigoMunicipio = "3550308"
	cfg.UF = "SP"
	cfg.CEP = "01310-100"
	cfg.ProviderClientID = "cid"
	cfg.ProviderClientSecret = "secret"
	cfg.CertificadoArquivo = "Y2VydC1wZng="
	cfg.CertificadoSenha = "senha"
	cfg.EmissaoNfeHabilitada = true
	cfg.EmissaoNfseHabilitada = true
	return cfg
}

func propostaMista(companyID string) *entity.Proposal {
	return &entity.Proposal{
		ID:        "prop-1",
		CompanyID: companyID,
		ClientID:  "client-1",
		Titulo:    "Retrofit elétrico bloco B",
		Items: []entity.ProposalItem{
			{
				ID: "item-mat", Descricao: "Cabo flexível 2,5mm²", ServiceType: entity.ItemTipoMaterial,
				Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(100),
			},
			{
				ID: "item-srv", Descricao: "Instalação de quadro", ServiceType: entity.ItemTipoServico,
				Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200), Total: decimal.NewFromInt(200),
			},
		},
	}
}

func clienteFixture(companyID string) *entity.Client {
	return &entity.Client{
		ID:        "client-1",
		CompanyID: companyID,
		Nome:      "Condomínio Edifício Aurora",
		Documento: "11.222.333/0001-81",

		Logradouro:      "Av. Paulista",
		Numero:          "1000",
		Bairro:          "Bela Vista",
		Municipio:       "São Paulo",
		CodigoMunicipio: "3550308",
		UF:              "SP",
		CEP:             "01310100",
	}
}
