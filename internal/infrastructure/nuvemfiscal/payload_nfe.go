package nuvemfiscal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/pkg/br"
)

const (
	// ncmPadrao é aplicado quando o item da proposta não tem NCM.
	// TODO: buscar o NCM do item de catálogo em vez do placeholder.
	ncmPadrao = "00000000"

	cfopVendaDentroEstado = "5102"
	csosnSimplesNacional  = "102"
	cstNaoTributado       = "07"
	unidadePadrao         = "UN"
)

// BuildNfePayload monta o pedido de emissão de NF-e a partir dos itens de
// material da proposta. Função pura: sem I/O, testável sem rede.
// Falha com ErrInvalidInput se a proposta não tem itens de material.
func BuildNfePayload(cfg *entity.FiscalConfig, proposal *entity.Proposal, cliente *entity.Client, ambiente string) (*NfePedidoEmissao, error) {
	var materiais []entity.ProposalItem
	for _, it := range proposal.Items {
		if it.EhMaterial() {
			materiais = append(materiais, it)
		}
	}
	if len(materiais) == 0 {
		return nil, fmt.Errorf("%w: proposta %s não tem itens de material para NF-e", domain.ErrInvalidInput, proposal.ID)
	}

	det := make([]NfeDet, len(materiais))
	var totalProdutos decimal.Decimal
	for i, it := range materiais {
		ncm := it.NCM
		if ncm == "" {
			ncm = ncmPadrao
		}
		det[i] = NfeDet{
			NItem: i + 1,
			Prod: NfeProd{
				CProd:  it.ID,
				XProd:  br.CampoProvedor(it.Descricao),
				NCM:    ncm,
				CFOP:   cfopVendaDentroEstado,
				UCom:   unidadePadrao,
				QCom:   it.Quantity,
				VUnCom: it.UnitPrice,
				VProd:  it.Total,
				IndTot: 1,
			},
			Imposto: NfeImposto{
				ICMS:   NfeICMS{ICMSSN102: &NfeICMSSN102{Orig: "0", CSOSN: csosnSimplesNacional}},
				PIS:    NfePIS{PISNT: &NfeTributoNT{CST: cstNaoTributado}},
				COFINS: NfeCOFINS{COFINSNT: &NfeTributoNT{CST: cstNaoTributado}},
			},
		}
		totalProdutos = totalProdutos.Add(it.Total)
	}

	pedido := &NfePedidoEmissao{
		Ambiente: ambiente,
		InfNfe: InfNfe{
			Versao: "4.00",
			Ide: NfeIde{
				CUF:      codigoUF(cfg.CodigoMunicipio),
				NatOp:    "Venda de material eletrico",
				Mod:      "55",
				Serie:    "1",
				TpNF:     1,
				IdDest:   1,
				CMunFG:   cfg.CodigoMunicipio,
				TpImp:    1,
				TpEmis:   1,
				FinNFe:   1,
				IndFinal: 1,
				IndPres:  1,
			},
			Emit: NfeEmit{
				CNPJ:  br.SomenteDigitos(cfg.CNPJ),
				XNome: br.CampoProvedor(cfg.RazaoSocial),
				IE:    cfg.InscricaoEstadual,
				CRT:   1,
				EnderEmit: NfeEndereco{
					XLgr:    br.CampoProvedor(cfg.Logradouro),
					Nro:     cfg.Numero,
					XBairro: br.CampoProvedor(cfg.Bairro),
					CMun:    cfg.CodigoMunicipio,
					XMun:    br.CampoProvedor(cfg.Municipio),
					UF:      cfg.UF,
					CEP:     br.SomenteDigitos(cfg.CEP),
				},
			},
			Dest: buildDest(cliente),
			Det:  det,
			Total: NfeTotal{
				ICMSTot: NfeICMSTot{
					VBC:   decimal.Zero,
					VICMS: decimal.Zero,
					VProd: totalProdutos,
					VNF:   totalProdutos,
				},
			},
		},
	}
	return pedido, nil
}

func buildDest(cliente *entity.Client) *NfeDest {
	if cliente == nil {
		return nil
	}
	dest := &NfeDest{
		XNome:     br.CampoProvedor(cliente.Nome),
		IndIEDest: 9,
	}
	doc := br.SomenteDigitos(cliente.Documento)
	if len(doc) == 14 {
		dest.CNPJ = doc
	} else {
		dest.CPF = doc
	}
	if cliente.Logradouro != "" {
		dest.EnderDest = &NfeEndereco{
			XLgr:    br.CampoProvedor(cliente.Logradouro),
			Nro:     cliente.Numero,
			XBairro: br.CampoProvedor(cliente.Bairro),
			CMun:    cliente.CodigoMunicipio,
			XMun:    br.CampoProvedor(cliente.Municipio),
			UF:      cliente.UF,
			CEP:     br.SomenteDigitos(cliente.CEP),
		}
	}
	return dest
}

// codigoUF extrai o código IBGE da UF (2 primeiros dígitos do código do município).
func codigoUF(codigoMunicipio string) string {
	if len(codigoMunicipio) >= 2 {
		return codigoMunicipio[:2]
	}
	return ""
}
