package nuvemfiscal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/infrastructure/nuvemfiscal"
)

// apiHarness sobe um token server e um API server fake do provedor.
type apiHarness struct {
	api    *httptest.Server
	client *nuvemfiscal.Client
	cfg    *entity.FiscalConfig
}

func newAPIHarness(t *testing.T, handler http.HandlerFunc) *apiHarness {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(handler)
	t.Cleanup(apiSrv.Close)

	cfg := configEmissor()
	cfg.ProviderClientID = "cid"
	cfg.ProviderClientSecret = "secret"

	return &apiHarness{
		api:    apiSrv,
		client: nuvemfiscal.NewClient(apiSrv.URL, nuvemfiscal.NewTokenManager(tokenSrv.URL)),
		cfg:    cfg,
	}
}

func TestEmitirNfe_RespostaNormalizada(t *testing.T) {
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/nfe", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "nfe_abc",
			"status": "AUTORIZADO",
			"chave":  "35260311222333000181550010000000011000000010",
			"numero": 1,
		})
	})

	doc, err := h.client.EmitirNfe(context.Background(), h.cfg, &nuvemfiscal.NfePedidoEmissao{})
	require.NoError(t, err)

	assert.Equal(t, "nfe_abc", doc.ID)
	assert.Equal(t, nuvemfiscal.ProviderStatusAutorizado, doc.Status, "status normalizado para minúsculas")
	assert.Equal(t, "35260311222333000181550010000000011000000010", doc.ChaveAcesso)
	assert.Equal(t, "1", doc.Numero)
	assert.NotEmpty(t, doc.Raw)
}

func TestEmitirNfse_CodigoVerificacaoViraChave(t *testing.T) {
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nfse/dps", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                 "nfse_xyz",
			"status":             "processando",
			"codigo_verificacao": "ABC123",
		})
	})

	doc, err := h.client.EmitirNfse(context.Background(), h.cfg, &nuvemfiscal.DpsPedidoEmissao{})
	require.NoError(t, err)

	assert.Equal(t, nuvemfiscal.ProviderStatusProcessando, doc.Status)
	assert.Equal(t, "ABC123", doc.ChaveAcesso)
}

func TestEmitirNfe_RejeicaoViraAPIError(t *testing.T) {
	h := newAPIHarness(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"message":"CNPJ do emitente inválido"}}`))
	})

	_, err := h.client.EmitirNfe(context.Background(), h.cfg, &nuvemfiscal.NfePedidoEmissao{})
	require.Error(t, err)

	var apiErr *nuvemfiscal.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "/nfe", apiErr.Endpoint)
	assert.Contains(t, apiErr.Corpo, "CNPJ do emitente inválido")
}

func TestConsultarDocumento_MensagensDeRejeicao(t *testing.T) {
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nfse/nfse_xyz", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "nfse_xyz",
			"status": "rejeitado",
			"mensagens": []map[string]string{
				{"codigo": "E123", "descricao": "Inscrição municipal não encontrada"},
			},
		})
	})

	doc, err := h.client.ConsultarDocumento(context.Background(), h.cfg, entity.InvoiceTipoNFSE, "nfse_xyz")
	require.NoError(t, err)

	assert.Equal(t, nuvemfiscal.ProviderStatusRejeitado, doc.Status)
	assert.Contains(t, doc.Mensagem, "E123")
	assert.Contains(t, doc.Mensagem, "Inscrição municipal não encontrada")
}

func TestCancelarDocumento_EnviaJustificativa(t *testing.T) {
	var recebido map[string]string
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nfe/nfe_abc/cancelamento", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&recebido)
		_, _ = w.Write([]byte(`{"status":"homologado"}`))
	})

	err := h.client.CancelarDocumento(context.Background(), h.cfg, entity.InvoiceTipoNFE, "nfe_abc", "Valores incorretos na nota")
	require.NoError(t, err)
	assert.Equal(t, "Valores incorretos na nota", recebido["justificativa"])
}

func TestSincronizarEmpresa_CriaQuandoNaoExiste(t *testing.T) {
	var metodos []string
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		metodos = append(metodos, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := h.client.SincronizarEmpresa(context.Background(), h.cfg)
	require.NoError(t, err)
	require.Len(t, metodos, 2, "PUT 404 deve cair no POST de criação")
	assert.Equal(t, "PUT /empresas/11222333000181", metodos[0])
	assert.Equal(t, "POST /empresas", metodos[1])
}

func TestSincronizarEmpresa_AtualizaQuandoExiste(t *testing.T) {
	var metodos []string
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		metodos = append(metodos, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	err := h.client.SincronizarEmpresa(context.Background(), h.cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPut}, metodos)
}

func TestBaixarXML_BytesCrus(t *testing.T) {
	xml := []byte(`<?xml version="1.0"?><procNFe></procNFe>`)
	h := newAPIHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nfe/nfe_abc/xml", r.URL.Path)
		_, _ = w.Write(xml)
	})

	got, err := h.client.BaixarXML(context.Background(), h.cfg, entity.InvoiceTipoNFE, "nfe_abc")
	require.NoError(t, err)
	assert.Equal(t, xml, got)
}

func TestBaixarPDF_ErroDoProvedor(t *testing.T) {
	h := newAPIHarness(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"documento não encontrado"}`))
	})

	_, err := h.client.BaixarPDF(context.Background(), h.cfg, entity.InvoiceTipoNFE, "nfe_sumida")
	var apiErr *nuvemfiscal.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_SemCredenciaisNaoChamaAPI(t *testing.T) {
	h := newAPIHarness(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("API não deveria ser chamada sem credenciais")
	})
	h.cfg.ProviderClientID = ""
	h.cfg.ProviderClientSecret = ""

	_, err := h.client.EmitirNfe(context.Background(), h.cfg, &nuvemfiscal.NfePedidoEmissao{})
	var authErr *nuvemfiscal.AuthError
	require.True(t, errors.As(err, &authErr))
}
