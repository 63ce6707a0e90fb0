package nuvemfiscal

import "fmt"

// AuthError falha na obtenção do token OAuth2 (credenciais ruins ou rede).
// É exposto ao chamador como erro 4xx; não há retry automático.
type AuthError struct {
	StatusCode int
	Mensagem   string
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("nuvemfiscal: autenticação falhou (HTTP %d): %s", e.StatusCode, e.Mensagem)
	}
	return fmt.Sprintf("nuvemfiscal: autenticação falhou: %s", e.Mensagem)
}

// APIError resposta não-2xx de um endpoint do provedor.
type APIError struct {
	StatusCode int
	Endpoint   string
	Corpo      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nuvemfiscal: %s devolveu HTTP %d: %s", e.Endpoint, e.StatusCode, e.Corpo)
}
