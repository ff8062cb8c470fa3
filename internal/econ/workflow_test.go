package econ

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/strip"
	"github.com/petroval/wellecon/internal/tensor"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

var well = dca.Parameters{InitialProduction: 1000, HypDecline: 0.7, ExpDecline: 0.07, B: 1.2}

func TestShiftsFromOffsets(t *testing.T) {
	shifts := ShiftsFromOffsets([]int{-3, 0, 5})
	assert.Equal(t, []Shift{{PDP: 3}, {}, {PUD: 5}}, shifts)
	assert.Equal(t, 13, Horizon(10, shifts))
	assert.Equal(t, 10, Horizon(10, nil))

	for _, s := range shifts {
		assert.NoError(t, s.Validate())
	}
	assert.Error(t, Shift{PDP: 1, PUD: 1}.Validate())
	assert.Error(t, Shift{PDP: -1}.Validate())
}

func TestMakeProduction_Alignment(t *testing.T) {
	const months = 24
	shifts := []Shift{{}, {PUD: 2}, {PDP: 3}}
	params := []dca.Parameters{well, well, well}

	prod, err := MakeProduction(params, params, shifts, months, 6)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape4{2, 2, 3, months}, prod.Shape)

	curve := dca.Evaluate(months+3, []dca.Parameters{well}).Row(0)
	for s := 0; s < NumStreams; s++ {
		par := prod.Slab(s, int(Producing))
		assert.Equal(t, curve[:months], par.Row(0))
		assert.Equal(t, []float64{0, 0}, par.Row(1)[:2])
		assert.Equal(t, curve[:months-2], par.Row(1)[2:])
		assert.Equal(t, curve[3:months+3], par.Row(2))
	}
}

func TestMakeProduction_NonParticipating(t *testing.T) {
	const months = 12
	prod, err := MakeProduction([]dca.Parameters{well}, []dca.Parameters{well}, []Shift{{}}, months, 6)
	require.NoError(t, err)

	curve := dca.Evaluate(months, []dca.Parameters{well}).Row(0)
	row := prod.Slab(int(Oil), int(NonParticipating)).Row(0)

	var withheld float64
	for m := 0; m < 6; m++ {
		withheld += curve[m]
	}
	for m := 0; m < 5; m++ {
		assert.Equal(t, 0.0, row[m])
	}
	assert.InDelta(t, withheld, row[5], 1e-9)
	assert.Equal(t, curve[6:], row[6:])
}

func TestMakeProduction_Errors(t *testing.T) {
	params := []dca.Parameters{well}

	_, err := MakeProduction(params, nil, []Shift{{}}, 12, 6)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = MakeProduction(params, params, []Shift{{PDP: 1, PUD: 1}}, 12, 6)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = MakeProduction(params, params, []Shift{{PUD: 13}}, 12, 6)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = MakeProduction(params, params, []Shift{{}}, 12, 0)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestMakeTax(t *testing.T) {
	const months = 10
	shifts := []Shift{{}, {PDP: 8}, {PUD: 2}}
	rates, err := strip.TwoTaxRegime(Horizon(months, shifts), 4, 0.05, 0.036)
	require.NoError(t, err)

	tax, err := MakeTax(rates, 3, shifts, months, 6)
	require.NoError(t, err)

	par := tax.Slab(int(Gas), int(Producing))
	assert.Equal(t, rates[:months], par.Row(0))
	assert.Equal(t, rates[8:8+months], par.Row(1))
	assert.Equal(t, []float64{0, 0, 0.05, 0.05}, par.Row(2)[:4])

	non := tax.Slab(int(Gas), int(NonParticipating))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0.036, 0.036, 0.036, 0.036}, non.Row(0))
	for _, v := range non.Row(1) {
		assert.Equal(t, 0.036, v)
	}

	_, err = MakeTax(rates[:months], 3, shifts, months, 6)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestWellEcon(t *testing.T) {
	prod := tensor.NewTensor4(2, 2, 1, 2)
	prod.Set(0, 0, 0, 0, 10)
	prod.Set(0, 0, 0, 1, 20)
	prod.Set(1, 1, 0, 1, 100)

	rate := tensor.NewTensor4(2, 2, 1, 2)
	for i := range rate.Data {
		rate.Data[i] = 0.1
	}

	res, err := WellEcon([NumStreams][]float64{{60, 50}, {2, 3}}, rate, prod)
	require.NoError(t, err)

	assert.Equal(t, 600.0, res.Revenue.At(0, 0, 0, 0))
	assert.Equal(t, 1000.0, res.Revenue.At(0, 0, 0, 1))
	assert.Equal(t, 300.0, res.Revenue.At(1, 1, 0, 1))
	assert.InDelta(t, 60.0, res.Tax.At(0, 0, 0, 0), 1e-9)
	assert.InDelta(t, 270.0, res.Profit.At(1, 1, 0, 1), 1e-9)
	assert.Equal(t, res.Production.Shape, res.Profit.Shape)
}

func TestWellEcon_ShapeMismatch(t *testing.T) {
	prod := tensor.NewTensor4(2, 2, 1, 3)

	_, err := WellEcon([NumStreams][]float64{{1, 2}, {1, 2, 3}}, tensor.NewTensor4(2, 2, 1, 3), prod)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = WellEcon([NumStreams][]float64{{1, 2, 3}, {1, 2, 3}}, tensor.NewTensor4(2, 2, 2, 3), prod)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestRun_Sample(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Wells = 25
	cfg.Months = 120

	in, err := SampleInputs(rand.New(rand.NewSource(42)), cfg)
	require.NoError(t, err)

	res, err := Run(in)
	require.NoError(t, err)

	assert.Equal(t, 25, res.Wells())
	assert.Equal(t, 120, res.Months())
	require.Len(t, res.Dates, 120)
	assert.Equal(t, time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC), res.Dates[0])

	for i, v := range res.Profit.Data {
		require.GreaterOrEqual(t, res.Production.Data[i], 0.0)
		require.InDelta(t, res.Revenue.Data[i]-res.Tax.Data[i], v, 1e-9)
	}

	sum := Summarize(res)
	require.Len(t, sum.Lines, NumStreams*NumCategories)
	assert.True(t, sum.Total.Revenue.IsPositive())
	diff := sum.Total.Revenue.Sub(sum.Total.Tax).Sub(sum.Total.Profit).Abs()
	assert.True(t, diff.LessThanOrEqual(decimalCents(10)), "diff %s", diff)
}

func TestRun_NetInterest(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Wells = 3
	cfg.Months = 24
	cfg.MaxShift = 0

	in, err := SampleInputs(rand.New(rand.NewSource(1)), cfg)
	require.NoError(t, err)
	gross, err := Run(in)
	require.NoError(t, err)

	in.Scale = []float64{1, 0.5, 0}
	net, err := Run(in)
	require.NoError(t, err)

	assert.InDelta(t, gross.Revenue.At(0, 0, 1, 3)*0.5, net.Revenue.At(0, 0, 1, 3), 1e-9)
	assert.Equal(t, 0.0, net.Revenue.At(1, 0, 2, 3))
	assert.Equal(t, gross.Revenue.At(1, 0, 0, 3), net.Revenue.At(1, 0, 0, 3))
}

func TestRun_GasShiftedSeparately(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Wells = 1
	cfg.Months = 24
	cfg.MaxShift = 0

	in, err := SampleInputs(rand.New(rand.NewSource(5)), cfg)
	require.NoError(t, err)
	in.Shifts = []Shift{{PDP: 6}}
	in.GasShifts = []Shift{{PDP: 3}}

	res, err := Run(in)
	require.NoError(t, err)

	oil := dca.Evaluate(30, in.Oil)
	gas := dca.Evaluate(30, in.Gas)
	for m := 0; m < cfg.Months; m++ {
		require.InDelta(t, oil.At(0, m+6), res.Production.At(int(Oil), int(Producing), 0, m), 1e-9)
		require.InDelta(t, gas.At(0, m+3), res.Production.At(int(Gas), int(Producing), 0, m), 1e-9)
	}
	// tax follows each stream's own age: month 18 of the curve is the first tier-two month
	assert.Equal(t, 0.036, res.Tax.At(int(Oil), int(Producing), 0, 12))
	assert.Equal(t, 0.05, res.Tax.At(int(Gas), int(Producing), 0, 12))
	assert.Equal(t, 0.036, res.Tax.At(int(Gas), int(Producing), 0, 15))

	in.GasShifts = []Shift{{}, {}}
	_, err = Run(in)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestRun_PricingTooShort(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Wells = 2
	cfg.Months = 24

	in, err := SampleInputs(rand.New(rand.NewSource(3)), cfg)
	require.NoError(t, err)
	in.Months = 36

	_, err = Run(in)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestRun_UnknownTaxStrategy(t *testing.T) {
	cfg := DefaultSampleConfig()
	cfg.Wells = 2
	cfg.Months = 24
	cfg.Tax.Strategy = "flat_tax"

	in, err := SampleInputs(rand.New(rand.NewSource(3)), cfg)
	require.NoError(t, err)

	_, err = Run(in)
	assert.True(t, apperror.Is(err, apperror.CodeUnknownStrategy))
}
