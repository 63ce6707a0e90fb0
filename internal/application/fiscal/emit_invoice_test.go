package fiscal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	fiscalapp "github.com/grupovoltera/erp-api/internal/application/fiscal"
	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
)

const testCompany = "company-1"

type emitHarness struct {
	uc       *fiscalapp.EmitInvoiceUseCase
	invoices *fakeInvoiceRepo
	provider *fakeProvider
}

func newEmitHarness(cfg *entity.FiscalConfig, proposal *entity.Proposal) *emitHarness {
	invoices := newFakeInvoiceRepo()
	provider := &fakeProvider{}
	uc := fiscalapp.NewEmitInvoiceUseCase(
		&fakeConfigRepo{cfg: cfg},
		&fakeProposalRepo{proposal: proposal},
		&fakeClientRepo{client: clienteFixture(testCompany)},
		invoices,
		provider,
		nuvemfiscal.AmbienteHomologacao,
		testLogger(),
	)
	return &emitHarness{uc: uc, invoices: invoices, provider: provider}
}

// Emissão de NFS-e autorizada de primeira: nota termina AUTORIZADA com os
// identificadores do provedor e o snapshot dos itens de serviço.
func TestEmit_NfseAutorizada(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista(testCompany))
	h.provider.emitirNfseFn = func(_ context.Context, _ *entity.FiscalConfig, pedido *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error) {
		assert.True(t, pedido.InfDPS.Valores.VServPrest.VServ.Equal(decimal.NewFromInt(200)))
		return &nuvemfiscal.Documento{
			ID: "nfse_1", Status: nuvemfiscal.ProviderStatusAutorizado,
			ChaveAcesso: "ABC123", Numero: "42", Raw: `{"id":"nfse_1"}`,
		}, nil
	}

	resp, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusAutorizada, resp.Status)
	assert.Equal(t, "ABC123", resp.ChaveAcesso)
	assert.Equal(t, "42", resp.NumeroNota)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(200)), "só itens de serviço compõem o valor")
	require.Len(t, resp.Items, 1)
	assert.Equal(t, entity.ItemTipoServico, resp.Items[0].ServiceType)

	// Snapshot do tomador gravado na nota
	assert.Equal(t, "Condomínio Edifício Aurora", resp.TomadorNome)

	persistida := h.invoices.invoices[resp.ID]
	require.NotNil(t, persistida)
	assert.Equal(t, entity.InvoiceStatusAutorizada, persistida.Status)
	assert.Equal(t, "nfse_1", persistida.ProviderID)
}

// Emissão de NF-e que fica pendente no provedor: nota permanece PROCESSANDO.
func TestEmit_NfePendenteFicaProcessando(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista(testCompany))
	h.provider.emitirNfeFn = func(_ context.Context, _ *entity.FiscalConfig, pedido *nuvemfiscal.NfePedidoEmissao) (*nuvemfiscal.Documento, error) {
		require.Len(t, pedido.InfNfe.Det, 1)
		return &nuvemfiscal.Documento{ID: "nfe_1", Status: nuvemfiscal.ProviderStatusPendente}, nil
	}

	resp, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFE,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusProcessando, resp.Status)
	assert.True(t, resp.ValorTotal.Equal(decimal.NewFromInt(100)))
}

// Falha de rede no provedor: a nota NÃO se perde — fica persistida em ERRO
// com a mensagem da falha.
func TestEmit_FalhaDoProvedorViraNotaEmErro(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista(testCompany))
	provErr := &nuvemfiscal.APIError{StatusCode: 500, Endpoint: "/nfse/dps", Corpo: "internal error"}
	h.provider.emitirNfseFn = func(_ context.Context, _ *entity.FiscalConfig, _ *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error) {
		return nil, provErr
	}

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.Error(t, err)

	var apiErr *nuvemfiscal.APIError
	assert.True(t, errors.As(err, &apiErr))

	require.Len(t, h.invoices.invoices, 1, "a linha da nota deve existir mesmo com a falha")
	for _, inv := range h.invoices.invoices {
		assert.Equal(t, entity.InvoiceStatusErro, inv.Status)
		assert.Contains(t, inv.MensagemErro, "internal error")
	}
}

// Rejeição explícita do provedor na emissão síncrona: status ERRO com motivo.
func TestEmit_RejeicaoDoProvedor(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista(testCompany))
	h.provider.emitirNfseFn = func(_ context.Context, _ *entity.FiscalConfig, _ *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error) {
		return &nuvemfiscal.Documento{
			ID: "nfse_1", Status: nuvemfiscal.ProviderStatusRejeitado,
			Mensagem: "E123: Inscrição municipal não encontrada",
		}, nil
	}

	resp, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceStatusErro, resp.Status)
	assert.Contains(t, resp.MensagemErro, "E123")
}

func TestEmit_ConfigIncompletaFalhaAntesDeCriarNota(t *testing.T) {
	cfg := configCompleta(testCompany)
	cfg.ProviderClientSecret = "" // credenciais incompletas
	h := newEmitHarness(cfg, propostaMista(testCompany))

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigIncompleta))
	assert.Empty(t, h.invoices.invoices, "nenhuma nota deve ser criada no fail-fast")
}

// Sem certificado digital configurado a emissão falha antes de qualquer
// chamada externa e nenhuma linha local é criada.
func TestEmit_SemCertificadoFalhaAntesDoProvedor(t *testing.T) {
	cfg := configCompleta(testCompany)
	cfg.CertificadoArquivo = ""
	h := newEmitHarness(cfg, propostaMista(testCompany))
	h.provider.emitirNfseFn = func(_ context.Context, _ *entity.FiscalConfig, _ *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error) {
		t.Fatal("o provedor não deve ser chamado sem certificado")
		return nil, nil
	}

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigIncompleta))
	assert.Empty(t, h.invoices.invoices, "nenhuma nota deve ser criada no fail-fast")
}

// Falha ao gravar o snapshot de itens depois da nota criada: a linha não pode
// ficar em PROCESSANDO — é rebaixada para ERRO com a causa gravada.
func TestEmit_FalhaNoSnapshotDeItensRebaixaParaErro(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista(testCompany))
	h.invoices.createItemErr = errors.New("constraint violada")
	h.provider.emitirNfseFn = func(_ context.Context, _ *entity.FiscalConfig, _ *nuvemfiscal.DpsPedidoEmissao) (*nuvemfiscal.Documento, error) {
		t.Fatal("o provedor não deve ser chamado se o snapshot falhou")
		return nil, nil
	}

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.Error(t, err)

	require.Len(t, h.invoices.invoices, 1)
	for _, inv := range h.invoices.invoices {
		assert.Equal(t, entity.InvoiceStatusErro, inv.Status)
		assert.Contains(t, inv.MensagemErro, "constraint violada")
	}
}

func TestEmit_EmissaoDesabilitadaParaOTipo(t *testing.T) {
	cfg := configCompleta(testCompany)
	cfg.EmissaoNfeHabilitada = false
	h := newEmitHarness(cfg, propostaMista(testCompany))

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFE,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigIncompleta))
}

func TestEmit_PropostaDeOutraEmpresa(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista("outra-empresa"))

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestEmit_PropostaSemItensDoTipo(t *testing.T) {
	proposal := propostaMista(testCompany)
	proposal.Items = proposal.Items[:1] // só material
	h := newEmitHarness(configCompleta(testCompany), proposal)

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: entity.InvoiceTipoNFSE,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, h.invoices.invoices)
}

func TestEmit_TipoInvalido(t *testing.T) {
	h := newEmitHarness(configCompleta(testCompany), propostaMista(testCompany))

	_, err := h.uc.Emit(context.Background(), testCompany, dto.EmitInvoiceRequest{
		ProposalID: "prop-1", Tipo: "BOLETO",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
