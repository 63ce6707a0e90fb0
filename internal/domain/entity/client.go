package entity

import "time"

// Client é o read model do cliente (tomador/destinatário) consumido pelo
// subsistema fiscal. O CRUD completo de clientes vive no módulo de CRM.
type Client struct {
	ID        string
	CompanyID string
	Nome      string
	Documento string // CPF ou CNPJ
	Email     string

	Logradouro      string
	Numero          string
	Bairro          string
	Municipio       string
	CodigoMunicipio string // código IBGE
	UF              string
	CEP             string

	CreatedAt time.Time
}

// EnderecoResumido devolve o endereço em uma linha para o snapshot da nota.
func (c *Client) EnderecoResumido() string {
	out := c.Logradouro
	if c.Numero != "" {
		out += ", " + c.Numero
	}
	if c.Municipio != "" {
		out += " - " + c.Municipio
	}
	if c.UF != "" {
		out += "/" + c.UF
	}
	return out
}
