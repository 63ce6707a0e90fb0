package nuvemfiscal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/fiscal"
	"github.com/grupovoltera/erp-api/pkg/br"
)

// BuildNfsePayload monta a DPS a partir dos itens de serviço da proposta.
// As retenções vêm do WithholdingCalculator e só entram no payload quando o
// toggle correspondente está habilitado na config. Função pura: sem I/O.
// Falha com ErrInvalidInput se a proposta não tem itens de serviço.
func BuildNfsePayload(cfg *entity.FiscalConfig, proposal *entity.Proposal, cliente *entity.Client, ambiente string, agora time.Time) (*DpsPedidoEmissao, error) {
	var servicos []entity.ProposalItem
	for _, it := range proposal.Items {
		if it.EhServico() {
			servicos = append(servicos, it)
		}
	}
	if len(servicos) == 0 {
		return nil, fmt.Errorf("%w: proposta %s não tem itens de serviço para NFS-e", domain.ErrInvalidInput, proposal.ID)
	}

	var totalServicos decimal.Decimal
	descricoes := make([]string, 0, len(servicos))
	for _, it := range servicos {
		totalServicos = totalServicos.Add(it.Total)
		descricoes = append(descricoes, br.CampoProvedor(it.Descricao))
	}

	ret, err := fiscal.NewWithholdingCalculator().Compute(totalServicos, cfg)
	if err != nil {
		return nil, err
	}

	tribMun := DpsTribMun{
		TribISSQN:  1,
		PAliq:      cfg.AliquotaIss,
		TpRetISSQN: 1, // não retido
	}
	if cfg.RetemIss {
		tribMun.TpRetISSQN = 2 // retido pelo tomador
		tribMun.VRetISS = &ret.Iss
	}

	var tribFed *DpsTribFed
	if cfg.RetemIrrf || cfg.RetemCsll || cfg.RetemPis || cfg.RetemCofins || cfg.RetemInss {
		tribFed = &DpsTribFed{}
		if cfg.RetemIrrf {
			tribFed.VRetIRRF = &ret.Irrf
		}
		if cfg.RetemCsll {
			tribFed.VRetCSLL = &ret.Csll
		}
		if cfg.RetemPis {
			tribFed.VRetPis = &ret.Pis
		}
		if cfg.RetemCofins {
			tribFed.VRetCofins = &ret.Cofins
		}
		if cfg.RetemInss {
			tribFed.VRetCP = &ret.Inss
		}
	}

	prest := DpsPrest{
		CNPJ: br.SomenteDigitos(cfg.CNPJ),
		IM:   cfg.InscricaoMunicipal,
	}
	if cfg.RegimeTributario == entity.RegimeSimplesNacional || cfg.RegimeEspecialTributacao != "" {
		prest.RegTrib = &DpsRegTrib{}
		if cfg.RegimeTributario == entity.RegimeSimplesNacional {
			prest.RegTrib.OpSimpNac = 1
		}
		prest.RegTrib.RegEspTrib = cfg.RegimeEspecialTributacao
	}

	serv := DpsServ{
		XDescServ: strings.Join(descricoes, "; "),
	}
	if cfg.CNO != "" {
		serv.Obra = &DpsObra{CObra: cfg.CNO}
	}

	tpAmb := 2
	if ambiente == AmbienteProducao {
		tpAmb = 1
	}

	pedido := &DpsPedidoEmissao{
		Ambiente: ambiente,
		InfDPS: InfDPS{
			TpAmb: tpAmb,
			DhEmi: agora.Format(time.RFC3339),
			Serie: "1",
			Prest: prest,
			Toma:  buildToma(cliente),
			Serv:  serv,
			Valores: DpsValores{
				VServPrest: DpsVServPrest{VServ: totalServicos},
				Trib: DpsTrib{
					TribMun: tribMun,
					TribFed: tribFed,
				},
			},
		},
	}
	return pedido, nil
}

func buildToma(cliente *entity.Client) *DpsToma {
	if cliente == nil {
		return nil
	}
	toma := &DpsToma{XNome: br.CampoProvedor(cliente.Nome)}
	doc := br.SomenteDigitos(cliente.Documento)
	if len(doc) == 14 {
		toma.CNPJ = doc
	} else {
		toma.CPF = doc
	}
	if cliente.Logradouro != "" {
		toma.End = &DpsEndereco{
			XLgr:    br.CampoProvedor(cliente.Logradouro),
			Nro:     cliente.Numero,
			XBairro: br.CampoProvedor(cliente.Bairro),
			CMun:    cliente.CodigoMunicipio,
			UF:      cliente.UF,
			CEP:     br.SomenteDigitos(cliente.CEP),
		}
	}
	return toma
}
