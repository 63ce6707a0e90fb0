package nuvemfiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/pkg/br"
)

// Client cliente REST da API Nuvem Fiscal. As credenciais OAuth2 são por
// tenant (FiscalConfig); o TokenManager cacheia um token por client_id.
// O timeout de rede é explícito (30 s); uma tentativa por chamada, sem retry.
type Client struct {
	baseURL    string
	tokens     *TokenManager
	httpClient *http.Client
}

// NewClient constrói o cliente apontando para a API do provedor.
func NewClient(baseURL string, tokens *TokenManager) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// dfeResponse corpo devolvido pelos endpoints de emissão/consulta.
// NF-e usa "chave"; NFS-e usa "codigo_verificacao"; normalizamos em Documento.
type dfeResponse struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Chave       string      `json:"chave"`
	ChaveAcesso string      `json:"chave_acesso"`
	CodVerif    string      `json:"codigo_verificacao"`
	Numero      json.Number `json:"numero"`
	Autorizacao struct {
		MotivoStatus string `json:"motivo_status"`
	} `json:"autorizacao"`
	Mensagens []struct {
		Codigo    string `json:"codigo"`
		Descricao string `json:"descricao"`
	} `json:"mensagens"`
}

func (r *dfeResponse) toDocumento(raw []byte) *Documento {
	doc := &Documento{
		ID:     r.ID,
		Status: strings.ToLower(r.Status),
		Numero: r.Numero.String(),
		Raw:    string(raw),
	}
	switch {
	case r.Chave != "":
		doc.ChaveAcesso = r.Chave
	case r.ChaveAcesso != "":
		doc.ChaveAcesso = r.ChaveAcesso
	default:
		doc.ChaveAcesso = r.CodVerif
	}
	var msgs []string
	if r.Autorizacao.MotivoStatus != "" {
		msgs = append(msgs, r.Autorizacao.MotivoStatus)
	}
	for _, m := range r.Mensagens {
		msgs = append(msgs, fmt.Sprintf("%s: %s", m.Codigo, m.Descricao))
	}
	doc.Mensagem = strings.Join(msgs, "; ")
	return doc
}

// InvalidarToken descarta o token cacheado das credenciais. Chamado quando o
// tenant troca o client_secret mantendo o mesmo client_id.
func (c *Client) InvalidarToken(clientID string) {
	c.tokens.Invalidate(clientID)
}

// SincronizarEmpresa cadastra ou atualiza a empresa do tenant no provedor.
func (c *Client) SincronizarEmpresa(ctx context.Context, cfg *entity.FiscalConfig) error {
	pedido := EmpresaPedido{
		CNPJ:               br.SomenteDigitos(cfg.CNPJ),
		RazaoSocial:        cfg.RazaoSocial,
		NomeFantasia:       cfg.NomeFantasia,
		InscricaoEstadual:  cfg.InscricaoEstadual,
		InscricaoMunicipal: cfg.InscricaoMunicipal,
		Endereco: EmpresaEndereco{
			Logradouro:      cfg.Logradouro,
			Numero:          cfg.Numero,
			Bairro:          cfg.Bairro,
			CodigoMunicipio: cfg.CodigoMunicipio,
			CidadeNome:      cfg.Municipio,
			UF:              cfg.UF,
			CEP:             br.SomenteDigitos(cfg.CEP),
		},
	}

	// Tenta atualizar; 404 significa que ainda não existe no provedor.
	path := "/empresas/" + pedido.CNPJ
	_, status, err := c.doJSON(ctx, cfg, http.MethodPut, path, pedido)
	if err == nil {
		return nil
	}
	if status != http.StatusNotFound {
		return err
	}
	_, _, err = c.doJSON(ctx, cfg, http.MethodPost, "/empresas", pedido)
	return err
}

// EmitirNfe submete o pedido de emissão de NF-e.
func (c *Client) EmitirNfe(ctx context.Context, cfg *entity.FiscalConfig, pedido *NfePedidoEmissao) (*Documento, error) {
	body, _, err := c.doJSON(ctx, cfg, http.MethodPost, "/nfe", pedido)
	if err != nil {
		return nil, err
	}
	return parseDocumento(body)
}

// EmitirNfse submete a DPS de NFS-e.
func (c *Client) EmitirNfse(ctx context.Context, cfg *entity.FiscalConfig, pedido *DpsPedidoEmissao) (*Documento, error) {
	body, _, err := c.doJSON(ctx, cfg, http.MethodPost, "/nfse/dps", pedido)
	if err != nil {
		return nil, err
	}
	return parseDocumento(body)
}

// ConsultarDocumento consulta o estado atual de um documento no provedor.
// tipo é entity.InvoiceTipoNFE ou entity.InvoiceTipoNFSE.
func (c *Client) ConsultarDocumento(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) (*Documento, error) {
	body, _, err := c.doJSON(ctx, cfg, http.MethodGet, tipoPath(tipo)+"/"+providerID, nil)
	if err != nil {
		return nil, err
	}
	return parseDocumento(body)
}

type cancelamentoPedido struct {
	Justificativa string `json:"justificativa"`
}

// CancelarDocumento solicita o cancelamento no provedor.
func (c *Client) CancelarDocumento(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID, justificativa string) error {
	path := tipoPath(tipo) + "/" + providerID + "/cancelamento"
	_, _, err := c.doJSON(ctx, cfg, http.MethodPost, path, cancelamentoPedido{Justificativa: justificativa})
	return err
}

// BaixarXML devolve o XML autorizado (bytes crus).
func (c *Client) BaixarXML(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error) {
	return c.doRaw(ctx, cfg, tipoPath(tipo)+"/"+providerID+"/xml")
}

// BaixarPDF devolve o PDF do documento (DANFE ou NFS-e).
func (c *Client) BaixarPDF(ctx context.Context, cfg *entity.FiscalConfig, tipo, providerID string) ([]byte, error) {
	return c.doRaw(ctx, cfg, tipoPath(tipo)+"/"+providerID+"/pdf")
}

// ── helpers privados ──────────────────────────────────────────────────────────

func tipoPath(tipo string) string {
	if tipo == entity.InvoiceTipoNFSE {
		return "/nfse"
	}
	return "/nfe"
}

func parseDocumento(body []byte) (*Documento, error) {
	var r dfeResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("nuvemfiscal: resposta inválida: %w", err)
	}
	return r.toDocumento(body), nil
}

// doJSON executa uma chamada autenticada com corpo/resposta JSON.
// Devolve o corpo, o status HTTP e erro (APIError em não-2xx).
func (c *Client) doJSON(ctx context.Context, cfg *entity.FiscalConfig, method, path string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("nuvemfiscal: serializar payload: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, cfg, method, path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("nuvemfiscal: chamada %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Endpoint: path, Corpo: strings.TrimSpace(string(body))}
	}
	return body, resp.StatusCode, nil
}

// doRaw executa um GET autenticado que devolve bytes crus (XML/PDF).
func (c *Client) doRaw(ctx context.Context, cfg *entity.FiscalConfig, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, cfg, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: download %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: path, Corpo: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, cfg *entity.FiscalConfig, method, path string, body io.Reader) (*http.Request, error) {
	token, err := c.tokens.GetToken(ctx, cfg.ProviderClientID, cfg.ProviderClientSecret)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("nuvemfiscal: montar requisição: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
