package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de item de proposta relevantes para o roteamento fiscal.
// Itens "material" vão para NF-e; "servico"/"service" para NFS-e.
const (
	ItemTipoMaterial = "material"
	ItemTipoServico  = "servico"
	ItemTipoService  = "service" // grafado em inglês em propostas antigas
)

// Proposal é o read model da proposta comercial consumido pelo subsistema
// fiscal. O CRUD completo de propostas vive em outro módulo.
type Proposal struct {
	ID        string
	CompanyID string
	ClientID  string
	Titulo    string
	Items     []ProposalItem
	CreatedAt time.Time
}

// ProposalItem é um item faturável da proposta.
type ProposalItem struct {
	ID          string
	ProposalID  string
	Descricao   string
	ServiceType string // ver constantes ItemTipo*
	NCM         string // pode ser vazio; ver builder NF-e
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// EhServico indica se o item roteia para NFS-e.
func (p ProposalItem) EhServico() bool {
	return p.ServiceType == ItemTipoServico || p.ServiceType == ItemTipoService
}

// EhMaterial indica se o item roteia para NF-e.
func (p ProposalItem) EhMaterial() bool {
	return p.ServiceType == ItemTipoMaterial
}
