package econ

import (
	"time"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/strip"
	"github.com/petroval/wellecon/internal/tensor"
	"github.com/petroval/wellecon/internal/window"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Result holds every tensor of one econ run, all shaped
// [stream, category, well, month]
type Result struct {
	Dates      []time.Time
	Pricing    [NumStreams][]float64
	Production tensor.Tensor4
	Tax        tensor.Tensor4
	Revenue    tensor.Tensor4
	Profit     tensor.Tensor4
}

// Wells returns the extent of the well axis
func (r *Result) Wells() int { return r.Production.Shape[2] }

// Months returns the extent of the month axis
func (r *Result) Months() int { return r.Production.Shape[3] }

// MakeProduction evaluates both streams over the horizon, derives the
// non-participating bucket and aligns every well to the reporting months
func MakeProduction(oil, gas []dca.Parameters, shifts []Shift, months, nonParStart int) (tensor.Tensor4, error) {
	return MakeStreamProduction(oil, gas, SameShifts(shifts), months, nonParStart)
}

// MakeStreamProduction is MakeProduction with a shift set per stream, for
// wells whose oil and gas curves start in different months
func MakeStreamProduction(oil, gas []dca.Parameters, shifts StreamShifts, months, nonParStart int) (tensor.Tensor4, error) {
	nwells := len(shifts[Oil])
	if len(shifts[Gas]) != nwells {
		return tensor.Tensor4{}, apperror.ShapeMismatch("%d oil and %d gas shifts", nwells, len(shifts[Gas]))
	}
	if len(oil) != nwells || len(gas) != nwells {
		return tensor.Tensor4{}, apperror.ShapeMismatch("%d oil and %d gas parameter sets for %d wells", len(oil), len(gas), nwells)
	}
	horizon := shifts.Horizon(months)
	if nonParStart < 1 || nonParStart > horizon {
		return tensor.Tensor4{}, apperror.ShapeMismatch("non-participating start %d outside [1, %d]", nonParStart, horizon)
	}

	out := tensor.NewTensor4(NumStreams, NumCategories, nwells, months)
	for s, params := range [NumStreams][]dca.Parameters{oil, gas} {
		pdp, pud, err := splitShifts(shifts[s], months)
		if err != nil {
			return tensor.Tensor4{}, err
		}
		prod := dca.Evaluate(horizon, params)
		agg, err := window.AccumulateFront(prod, 0, nonParStart)
		if err != nil {
			return tensor.Tensor4{}, err
		}
		if err := alignInto(out, s, prod, agg, pdp, pud, months); err != nil {
			return tensor.Tensor4{}, err
		}
	}
	return out, nil
}

// MakeTax tiles a horizon-length rate strip per well, zeroes the
// non-participating copy before nonParStart and aligns it like production
func MakeTax(rates []float64, nwells int, shifts []Shift, months, nonParStart int) (tensor.Tensor4, error) {
	return MakeStreamTax(rates, nwells, SameShifts(shifts), months, nonParStart)
}

// MakeStreamTax is MakeTax with a shift set per stream
func MakeStreamTax(rates []float64, nwells int, shifts StreamShifts, months, nonParStart int) (tensor.Tensor4, error) {
	if len(shifts[Oil]) != nwells || len(shifts[Gas]) != nwells {
		return tensor.Tensor4{}, apperror.ShapeMismatch("%d oil and %d gas shifts for %d wells", len(shifts[Oil]), len(shifts[Gas]), nwells)
	}
	horizon := shifts.Horizon(months)
	if len(rates) != horizon {
		return tensor.Tensor4{}, apperror.ShapeMismatch("tax strip has %d months, horizon is %d", len(rates), horizon)
	}
	if nonParStart < 0 || nonParStart > horizon {
		return tensor.Tensor4{}, apperror.ShapeMismatch("non-participating start %d outside [0, %d]", nonParStart, horizon)
	}

	par := tensor.Tile(rates, nwells)
	agg := par.Clone()
	for w := 0; w < nwells; w++ {
		row := agg.Row(w)
		for m := 0; m < nonParStart; m++ {
			row[m] = 0
		}
	}

	out := tensor.NewTensor4(NumStreams, NumCategories, nwells, months)
	for s := 0; s < NumStreams; s++ {
		pdp, pud, err := splitShifts(shifts[s], months)
		if err != nil {
			return tensor.Tensor4{}, err
		}
		if err := alignInto(out, s, par, agg, pdp, pud, months); err != nil {
			return tensor.Tensor4{}, err
		}
	}
	return out, nil
}

func alignInto(out tensor.Tensor4, stream int, par, agg tensor.Matrix, pdp, pud []int, months int) error {
	for c, m := range [NumCategories]tensor.Matrix{par, agg} {
		aligned, err := window.Align(m, pdp, pud, months)
		if err != nil {
			return err
		}
		if err := out.SetSlab(stream, c, aligned); err != nil {
			return apperror.Wrap(err, apperror.CodeShapeMismatch, "align")
		}
	}
	return nil
}

// WellEcon prices production, applies the tax rate and derives profit.
// Pricing and tax must cover exactly the month axis of production.
func WellEcon(pricing [NumStreams][]float64, taxRate, production tensor.Tensor4) (*Result, error) {
	months := production.Shape[3]
	for s, p := range pricing {
		if len(p) != months {
			return nil, apperror.ShapeMismatch("%s pricing has %d months, production has %d", Stream(s), len(p), months)
		}
	}
	if taxRate.Shape != production.Shape {
		return nil, apperror.ShapeMismatch("tax shape %v != production shape %v", taxRate.Shape, production.Shape)
	}
	if production.Shape[0] != NumStreams || production.Shape[1] != NumCategories {
		return nil, apperror.ShapeMismatch("production shape %v is not [%d, %d, wells, months]",
			production.Shape, NumStreams, NumCategories)
	}

	res := &Result{
		Pricing:    pricing,
		Production: production,
		Tax:        tensor.NewTensor4(production.Shape[0], production.Shape[1], production.Shape[2], months),
		Revenue:    tensor.NewTensor4(production.Shape[0], production.Shape[1], production.Shape[2], months),
		Profit:     tensor.NewTensor4(production.Shape[0], production.Shape[1], production.Shape[2], months),
	}

	block := production.Shape[1] * production.Shape[2] * months
	for s := 0; s < NumStreams; s++ {
		price := pricing[s]
		base := s * block
		for i := 0; i < block; i++ {
			k := base + i
			rev := production.Data[k] * price[i%months]
			tax := rev * taxRate.Data[k]
			res.Revenue.Data[k] = rev
			res.Tax.Data[k] = tax
			res.Profit.Data[k] = rev - tax
		}
	}
	return res, nil
}

// Inputs describes one econ run
type Inputs struct {
	// Start is the first reporting month
	Start            time.Time
	Months           int
	NonParStartMonth int
	Shifts           []Shift
	// GasShifts optionally places the gas curves separately; nil means Shifts
	GasShifts []Shift
	Oil              []dca.Parameters
	Gas              []dca.Parameters
	// Price strips must cover [Start, Start+Months)
	OilPricing strip.Strip
	GasPricing strip.Strip
	Tax        TaxInputs
	// Scale optionally multiplies each well's volumes, e.g. net revenue
	// interest times the number of identical wells it stands for
	Scale []float64
}

// TaxInputs selects and parameterizes the tax strip
type TaxInputs struct {
	Strategy    strip.TaxStrategy
	Tier1       float64
	Tier2       float64
	SwitchMonth int
}

func (in Inputs) streamShifts() StreamShifts {
	if in.GasShifts == nil {
		return SameShifts(in.Shifts)
	}
	return StreamShifts{Oil: in.Shifts, Gas: in.GasShifts}
}

// Run builds production, pricing and tax for in and computes the well economics
func Run(in Inputs) (*Result, error) {
	if in.Months < 1 {
		return nil, apperror.ShapeMismatch("reporting months must be positive, got %d", in.Months)
	}
	shifts := in.streamShifts()
	horizon := shifts.Horizon(in.Months)

	oilPrice, err := in.OilPricing.Window(in.Start, in.Months)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "oil pricing")
	}
	gasPrice, err := in.GasPricing.Window(in.Start, in.Months)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "gas pricing")
	}

	taxStrip, err := strip.BuildTax(in.Tax.Strategy, strip.TaxRequest{
		Periods:      horizon,
		SwitchPeriod: in.Tax.SwitchMonth,
		Tier1:        in.Tax.Tier1,
		Tier2:        in.Tax.Tier2,
		Start:        in.Start,
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "tax strip")
	}

	production, err := MakeStreamProduction(in.Oil, in.Gas, shifts, in.Months, in.NonParStartMonth)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "production")
	}
	if in.Scale != nil {
		if production, err = NetProduction(production, in.Scale); err != nil {
			return nil, err
		}
	}

	tax, err := MakeStreamTax(taxStrip.Values, len(in.Shifts), shifts, in.Months, in.NonParStartMonth)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "tax")
	}

	res, err := WellEcon([NumStreams][]float64{oilPrice.Values, gasPrice.Values}, tax, production)
	if err != nil {
		return nil, err
	}
	res.Dates = oilPrice.Dates
	return res, nil
}
