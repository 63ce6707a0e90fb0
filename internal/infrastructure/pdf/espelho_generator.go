// Package pdf implementa o espelho da nota fiscal: a representação gráfica
// local, sem valor fiscal, usada para conferência antes e depois da emissão.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razão Social + CNPJ  │  Tipo + Status + Data        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMITENTE: endereço cadastral                                │
//	│  TOMADOR: nome + CPF/CNPJ + endereço (snapshot)              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Qtde | Descrição | Valor Unit. | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DA NOTA                                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: chave de acesso + QR + aviso "sem valor fiscal"     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 26, Green: 60, Blue: 94}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// EspelhoGenerator gera o PDF do espelho usando Maroto v2.
type EspelhoGenerator struct{}

// NewEspelhoGenerator constrói o gerador.
func NewEspelhoGenerator() *EspelhoGenerator { return &EspelhoGenerator{} }

// GerarEspelho gera o PDF e devolve seus bytes.
func (g *EspelhoGenerator) GerarEspelho(
	_ context.Context,
	cfg *entity.FiscalConfig,
	inv *entity.FiscalInvoice,
	items []*entity.FiscalInvoiceItem,
) ([]byte, error) {
	pageCfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Espelho da Nota Fiscal", true).
		WithAuthor(cfg.RazaoSocial, true).
		Build()

	m := maroto.New(pageCfg)

	m.AddRows(headerRow(cfg, inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emitenteRow(cfg))
	m.AddRows(tomadorRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range rodapeRows(inv) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar espelho: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

func tipoLabel(tipo string) string {
	if tipo == entity.InvoiceTipoNFSE {
		return "NFS-e (SERVIÇOS)"
	}
	return "NF-e (MATERIAIS)"
}

// headerRow: razão social + CNPJ (esq) e tipo + status + data (dir).
func headerRow(cfg *entity.FiscalConfig, inv *entity.FiscalInvoice) core.Row {
	data := inv.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(cfg.RazaoSocial, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+cfg.CNPJ, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ESPELHO — "+tipoLabel(inv.Tipo), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Status, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emitenteRow: dados cadastrais do emitente.
func emitenteRow(cfg *entity.FiscalConfig) core.Row {
	endereco := fmt.Sprintf("%s, %s - %s, %s/%s",
		nonEmpty(cfg.Logradouro, "—"),
		nonEmpty(cfg.Numero, "s/n"),
		nonEmpty(cfg.Bairro, "—"),
		nonEmpty(cfg.Municipio, "—"),
		nonEmpty(cfg.UF, "—"),
	)
	return row.New(12).Add(
		col.New(12).Add(
			text.New("EMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(endereco, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tomadorRow: snapshot do tomador gravado na nota.
func tomadorRow(inv *entity.FiscalInvoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TOMADOR / DESTINATÁRIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(inv.TomadorNome, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF/CNPJ: %s   |   %s",
				nonEmpty(inv.TomadorDocumento, "—"),
				nonEmpty(inv.TomadorEndereco, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela de itens.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtde", 1, align.Center),
		h("Descrição do item", 6, align.Left),
		h("Valor Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableItemRows: uma linha por item do snapshot.
func tableItemRows(items []*entity.FiscalInvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantidade.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Descricao,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"R$ "+it.ValorUnit.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"R$ "+it.Total.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total da nota alinhado à direita.
func totalRow(inv *entity.FiscalInvoice) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL DA NOTA:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New("R$ "+inv.ValorTotal.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// rodapeRows: chave de acesso + QR + aviso de documento sem valor fiscal.
func rodapeRows(inv *entity.FiscalInvoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMAÇÕES DA EMISSÃO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if inv.ChaveAcesso != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Chave de acesso / código de verificação:", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(inv.ChaveAcesso, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))

		rows = append(rows, row.New(3))
		rows = append(rows, row.New(40).Add(
			col.New(4).Add(code.NewQr(inv.ChaveAcesso, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Use a chave de acesso para consultar\na nota no portal da SEFAZ ou da prefeitura.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	} else if inv.NumeroNota != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Número da nota: "+inv.NumeroNota, props.Text{Size: 8, Top: 1}),
		)))
	}

	rows = append(rows, row.New(10).Add(col.New(12).Add(
		text.New("ESPELHO PARA CONFERÊNCIA — DOCUMENTO SEM VALOR FISCAL", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center,
			Color: colorAlert, Top: 2,
		}),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
