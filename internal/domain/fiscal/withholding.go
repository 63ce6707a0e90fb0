package fiscal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/grupovoltera/erp-api/internal/domain/entity"
)

// Withholdings resultado do cálculo de retenções na fonte sobre um valor
// bruto de serviço. Todos os valores já arredondados a 2 casas decimais
// (half-up, via decimal.Round) — política de moeda do sistema.
type Withholdings struct {
	Iss    decimal.Decimal
	Irrf   decimal.Decimal
	Csll   decimal.Decimal
	Pis    decimal.Decimal
	Cofins decimal.Decimal
	Inss   decimal.Decimal

	TotalRetido  decimal.Decimal // soma das retenções habilitadas
	ValorLiquido decimal.Decimal // bruto - TotalRetido
}

// WithholdingCalculator calcula retenções (ISS, IRRF, CSLL, PIS, COFINS, INSS)
// a partir dos toggles e alíquotas da FiscalConfig. Serviço puro, sem I/O.
type WithholdingCalculator struct{}

// NewWithholdingCalculator constrói o calculador.
func NewWithholdingCalculator() *WithholdingCalculator {
	return &WithholdingCalculator{}
}

var cem = decimal.NewFromInt(100)

// Compute calcula cada retenção habilitada como bruto * (alíquota / 100).
// Retenções desabilitadas valem zero. TotalRetido é a soma das habilitadas e
// ValorLiquido = bruto - TotalRetido.
func (c *WithholdingCalculator) Compute(gross decimal.Decimal, cfg *entity.FiscalConfig) (*Withholdings, error) {
	if cfg == nil {
		return nil, fmt.Errorf("fiscal: config nula")
	}
	if gross.IsNegative() {
		return nil, fmt.Errorf("fiscal: valor bruto negativo: %s", gross)
	}

	ret := func(enabled bool, aliquota decimal.Decimal) decimal.Decimal {
		if !enabled {
			return decimal.Zero
		}
		return gross.Mul(aliquota).Div(cem).Round(2)
	}

	w := &Withholdings{
		Iss:    ret(cfg.RetemIss, cfg.AliquotaIss),
		Irrf:   ret(cfg.RetemIrrf, cfg.AliquotaIrpj),
		Csll:   ret(cfg.RetemCsll, cfg.AliquotaCsll),
		Pis:    ret(cfg.RetemPis, cfg.AliquotaPis),
		Cofins: ret(cfg.RetemCofins, cfg.AliquotaCofins),
		Inss:   ret(cfg.RetemInss, cfg.AliquotaInss),
	}
	w.TotalRetido = w.Iss.Add(w.Irrf).Add(w.Csll).Add(w.Pis).Add(w.Cofins).Add(w.Inss)
	w.ValorLiquido = gross.Sub(w.TotalRetido)
	return w, nil
}
