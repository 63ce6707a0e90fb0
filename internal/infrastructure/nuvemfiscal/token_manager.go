package nuvemfiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// refreshMargin antecipa a renovação do token em relação ao expires_in do provedor.
const refreshMargin = 5 * time.Minute

// cachedToken token em memória com o instante de expiração já descontada a margem.
type cachedToken struct {
	accessToken string
	expiresAt   time.Time
}

// TokenManager obtém e cacheia tokens OAuth2 client-credentials do provedor.
// O cache é por client_id (as credenciais são por tenant) e o refresh é
// protegido por mutex: requisições concorrentes não disparam fetches duplicados.
// Uma única tentativa por chamada; retry é responsabilidade do chamador.
type TokenManager struct {
	authURL    string
	httpClient *http.Client

	mu     sync.Mutex
	tokens map[string]cachedToken
}

// NewTokenManager constrói o manager apontando para o endpoint de token do provedor.
func NewTokenManager(authURL string) *TokenManager {
	return &TokenManager{
		authURL:    authURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     make(map[string]cachedToken),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetToken devolve um bearer token válido para as credenciais, renovando
// quando faltam menos de 5 minutos para expirar.
func (m *TokenManager) GetToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	if clientID == "" || clientSecret == "" {
		return "", &AuthError{Mensagem: "client_id/client_secret não configurados"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tok, ok := m.tokens[clientID]; ok && time.Now().Before(tok.expiresAt) {
		return tok.accessToken, nil
	}

	tok, err := m.fetch(ctx, clientID, clientSecret)
	if err != nil {
		return "", err
	}
	m.tokens[clientID] = tok
	return tok.accessToken, nil
}

// Invalidate descarta o token cacheado das credenciais (ex.: após troca de secret).
func (m *TokenManager) Invalidate(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, clientID)
}

// fetch executa o grant client_credentials. Chamado com o mutex tomado.
func (m *TokenManager) fetch(ctx context.Context, clientID, clientSecret string) (cachedToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("scope", "empresa nfe nfse")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return cachedToken{}, &AuthError{Mensagem: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return cachedToken{}, &AuthError{Mensagem: fmt.Sprintf("chamada ao endpoint de token: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return cachedToken{}, &AuthError{StatusCode: resp.StatusCode, Mensagem: strings.TrimSpace(string(body))}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return cachedToken{}, &AuthError{Mensagem: fmt.Sprintf("resposta de token inválida: %v", err)}
	}
	if tr.AccessToken == "" {
		return cachedToken{}, &AuthError{Mensagem: "resposta de token sem access_token"}
	}

	ttl := time.Duration(tr.ExpiresIn) * time.Second
	expiresAt := time.Now().Add(ttl - refreshMargin)
	if ttl <= refreshMargin {
		// Provedor devolveu um token de vida curta; usa sem margem para não
		// renovar em loop.
		expiresAt = time.Now().Add(ttl)
	}
	return cachedToken{accessToken: tr.AccessToken, expiresAt: expiresAt}, nil
}
