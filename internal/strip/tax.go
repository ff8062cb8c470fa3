package strip

import (
	"time"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// TaxStrategy names a way of building a tax rate strip
type TaxStrategy string

const (
	TaxTwoTaxRegime TaxStrategy = "two_tax_regime"
)

// ParseTaxStrategy resolves a configured strategy name
func ParseTaxStrategy(name string) (TaxStrategy, error) {
	if name == string(TaxTwoTaxRegime) {
		return TaxTwoTaxRegime, nil
	}
	return "", apperror.Newf(apperror.CodeUnknownStrategy, "%s not found", name)
}

// TaxRequest carries the inputs of the tax strategies
type TaxRequest struct {
	Periods      int
	SwitchPeriod int
	Tier1        float64
	Tier2        float64
	Start        time.Time
}

// BuildTax dispatches to the named strategy and dates the result from req.Start
func BuildTax(strategy TaxStrategy, req TaxRequest) (Strip, error) {
	switch strategy {
	case TaxTwoTaxRegime:
		rates, err := TwoTaxRegime(req.Periods, req.SwitchPeriod, req.Tier1, req.Tier2)
		if err != nil {
			return Strip{}, err
		}
		return Strip{Dates: Months(req.Start, req.Periods), Values: rates}, nil
	default:
		return Strip{}, apperror.Newf(apperror.CodeUnknownStrategy, "%s not found", strategy)
	}
}

// TwoTaxRegime returns switchPeriod months at t1 followed by t2 up to periods
func TwoTaxRegime(periods, switchPeriod int, t1, t2 float64) ([]float64, error) {
	if switchPeriod < 0 || switchPeriod >= periods {
		return nil, apperror.ShapeMismatch("tax switch %d outside [0, %d)", switchPeriod, periods)
	}
	out := make([]float64, periods)
	for i := range out {
		if i < switchPeriod {
			out[i] = t1
		} else {
			out[i] = t2
		}
	}
	return out, nil
}
