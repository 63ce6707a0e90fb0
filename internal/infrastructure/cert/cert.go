// Inspeção de certificado digital A1 (.pfx/PKCS#12) antes do envio ao provedor.

package cert

import (
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/crypto/pkcs12"
)

// Info metadados do certificado extraídos do .pfx.
type Info struct {
	Titular     string // CN do subject (normalmente "RAZAO SOCIAL:CNPJ")
	Emissor     string // CN da AC emissora
	SerialHex   string
	ValidoDesde time.Time
	ValidoAte   time.Time
}

// Expirado indica se o certificado já passou da validade.
func (i *Info) Expirado(agora time.Time) bool {
	return agora.After(i.ValidoAte)
}

// Inspect decodifica o .pfx com a senha e devolve os metadados do certificado.
// A senha pode ser vazia se o arquivo não for protegido. O emitente real da
// nota é o provedor; aqui só validamos que o arquivo e a senha batem antes
// de aceitar o upload.
func Inspect(pfx []byte, senha string) (*Info, error) {
	_, crt, err := pkcs12.Decode(pfx, senha)
	if err != nil {
		return nil, fmt.Errorf("decodificar pfx: %w", err)
	}
	return fromX509(crt), nil
}

// InspectBase64 é a variante para o upload via API (arquivo em base64).
func InspectBase64(pfxB64, senha string) (*Info, error) {
	raw, err := base64.StdEncoding.DecodeString(pfxB64)
	if err != nil {
		return nil, fmt.Errorf("pfx não está em base64 válido: %w", err)
	}
	return Inspect(raw, senha)
}

// Inspector adapta as funções do pacote para injeção nos casos de uso.
type Inspector struct{}

// NewInspector constrói o inspector.
func NewInspector() *Inspector { return &Inspector{} }

// InspectBase64 delega para InspectBase64 do pacote.
func (*Inspector) InspectBase64(pfxB64, senha string) (*Info, error) {
	return InspectBase64(pfxB64, senha)
}

func fromX509(crt *x509.Certificate) *Info {
	return &Info{
		Titular:     crt.Subject.CommonName,
		Emissor:     crt.Issuer.CommonName,
		SerialHex:   crt.SerialNumber.Text(16),
		ValidoDesde: crt.NotBefore,
		ValidoAte:   crt.NotAfter,
	}
}
