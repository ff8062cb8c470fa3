package strip

import (
	"time"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// PricingStrategy names a way of building or extending a price strip
type PricingStrategy string

const (
	PricingFlatFill         PricingStrategy = "flat_fill"
	PricingForwardFlatFill  PricingStrategy = "forward_flat_fill"
	PricingBackwardFlatFill PricingStrategy = "backward_flat_fill"
	PricingForwardEscFill   PricingStrategy = "forward_esc_fill"
)

// PricingStrategies lists every supported strategy
func PricingStrategies() []PricingStrategy {
	return []PricingStrategy{PricingFlatFill, PricingForwardFlatFill, PricingBackwardFlatFill, PricingForwardEscFill}
}

// ParsePricingStrategy resolves a configured strategy name
func ParsePricingStrategy(name string) (PricingStrategy, error) {
	for _, s := range PricingStrategies() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", apperror.Newf(apperror.CodeUnknownStrategy, "%s not found", name)
}

// PricingRequest carries the inputs of every pricing strategy; each strategy
// reads only the fields it needs
type PricingRequest struct {
	Periods int
	// Start and Value are used by flat_fill
	Start time.Time
	Value float64
	// Base is extended by the fill strategies
	Base Strip
	// Factor is the per-month escalation of forward_esc_fill
	Factor float64
}

// BuildPricing dispatches to the named strategy
func BuildPricing(strategy PricingStrategy, req PricingRequest) (Strip, error) {
	switch strategy {
	case PricingFlatFill:
		return FlatFill(req.Periods, req.Start, req.Value)
	case PricingForwardFlatFill:
		return ForwardFlatFill(req.Periods, req.Base)
	case PricingBackwardFlatFill:
		return BackwardFlatFill(req.Periods, req.Base)
	case PricingForwardEscFill:
		return ForwardEscFill(req.Periods, req.Base, req.Factor)
	default:
		return Strip{}, apperror.Newf(apperror.CodeUnknownStrategy, "%s not found", strategy)
	}
}

// FlatFill returns periods months from the month of start at a constant value
func FlatFill(periods int, start time.Time, value float64) (Strip, error) {
	if periods < 0 {
		return Strip{}, apperror.ShapeMismatch("negative periods %d", periods)
	}
	values := make([]float64, periods)
	for i := range values {
		values[i] = value
	}
	return Strip{Dates: Months(start, periods), Values: values}, nil
}

// ForwardFlatFill appends periods months repeating the last price
func ForwardFlatFill(periods int, base Strip) (Strip, error) {
	return forwardFill(periods, base, func(last float64, _ int) float64 { return last })
}

// ForwardEscFill appends periods months where month k (from 1) is
// last + last*k*factor. The escalation is simple, not compounded.
func ForwardEscFill(periods int, base Strip, factor float64) (Strip, error) {
	return forwardFill(periods, base, func(last float64, k int) float64 {
		return last + last*float64(k)*factor
	})
}

// BackwardFlatFill prepends periods months repeating the first price
func BackwardFlatFill(periods int, base Strip) (Strip, error) {
	if err := checkBase(periods, base); err != nil {
		return Strip{}, err
	}
	n := base.Len()
	first := base.Values[0]
	out := Strip{
		Dates:  Months(base.Dates[0].AddDate(0, -periods, 0), periods+n),
		Values: make([]float64, 0, periods+n),
	}
	for i := 0; i < periods; i++ {
		out.Values = append(out.Values, first)
	}
	out.Values = append(out.Values, base.Values...)
	return out, nil
}

func forwardFill(periods int, base Strip, next func(last float64, k int) float64) (Strip, error) {
	if err := checkBase(periods, base); err != nil {
		return Strip{}, err
	}
	n := base.Len()
	last := base.Values[n-1]
	out := Strip{
		Dates:  Months(base.Dates[0], periods+n),
		Values: make([]float64, n, periods+n),
	}
	copy(out.Values, base.Values)
	for k := 1; k <= periods; k++ {
		out.Values = append(out.Values, next(last, k))
	}
	return out, nil
}

func checkBase(periods int, base Strip) error {
	if periods < 0 {
		return apperror.ShapeMismatch("negative periods %d", periods)
	}
	if base.Len() == 0 {
		return apperror.ShapeMismatch("cannot extend an empty strip")
	}
	return base.Validate()
}
