package econ

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petroval/wellecon/internal/tensor"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

func decimalCents(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}

func TestAllocationPerAcre(t *testing.T) {
	out, err := AllocationPerAcre([]float64{640, 320}, []float64{0.5, 0.25})
	require.NoError(t, err)
	assert.InDelta(t, 0.5/640, out[0], 1e-15)
	assert.InDelta(t, 0.25/320, out[1], 1e-15)

	_, err = AllocationPerAcre([]float64{640}, []float64{0.5, 0.25})
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = AllocationPerAcre([]float64{0}, []float64{0.5})
	assert.True(t, apperror.Is(err, apperror.CodeMalformedInput))
}

func TestNetProduction(t *testing.T) {
	prod := tensor.NewTensor4(2, 2, 2, 2)
	for i := range prod.Data {
		prod.Data[i] = 10
	}

	net, err := NetProduction(prod, []float64{0.25, 1})
	require.NoError(t, err)
	assert.Equal(t, 2.5, net.At(1, 1, 0, 1))
	assert.Equal(t, 10.0, net.At(1, 1, 1, 1))
	assert.Equal(t, 10.0, prod.At(1, 1, 0, 1), "input untouched")

	_, err = NetProduction(prod, []float64{1})
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestSummarize(t *testing.T) {
	prod := tensor.NewTensor4(2, 2, 1, 2)
	prod.Set(0, 0, 0, 0, 1.005)
	prod.Set(0, 0, 0, 1, 2)
	rate := tensor.NewTensor4(2, 2, 1, 2)

	res, err := WellEcon([NumStreams][]float64{{100, 100}, {1, 1}}, rate, prod)
	require.NoError(t, err)

	sum := Summarize(res)
	assert.Equal(t, 1, sum.Wells)
	assert.Equal(t, 2, sum.Months)
	assert.Equal(t, Oil, sum.Lines[0].Stream)
	assert.Equal(t, Producing, sum.Lines[0].Category)
	assert.True(t, sum.Lines[0].Revenue.Equal(decimal.RequireFromString("300.50")), sum.Lines[0].Revenue.String())
	assert.True(t, sum.Total.Tax.IsZero())
	assert.True(t, sum.Total.Profit.Equal(sum.Total.Revenue))
}
