package strip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

var jan2019 = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

func baseStrip(t *testing.T) Strip {
	t.Helper()
	s := Strip{Dates: Months(jan2019, 10), Values: make([]float64, 10)}
	for i := range s.Values {
		s.Values[i] = 50 + float64(i)
	}
	require.NoError(t, s.Validate())
	return s
}

func TestFlatFill(t *testing.T) {
	s, err := FlatFill(660, time.Date(2019, 1, 17, 0, 0, 0, 0, time.UTC), 50.01)
	require.NoError(t, err)

	assert.Equal(t, 660, s.Len())
	for i, v := range s.Values {
		require.Equal(t, 50.01, v, "month %d", i)
	}
	for i := 1; i < s.Len(); i++ {
		require.Equal(t, s.Dates[i-1].AddDate(0, 1, 0), s.Dates[i])
	}
	assert.Equal(t, jan2019, s.Dates[0])
	assert.Equal(t, time.Date(2073, time.December, 1, 0, 0, 0, 0, time.UTC), s.Dates[659])
	assert.NoError(t, s.Validate())
}

func TestForwardFlatFill(t *testing.T) {
	base := baseStrip(t)
	s, err := ForwardFlatFill(10, base)
	require.NoError(t, err)

	assert.Equal(t, 20, s.Len())
	for _, v := range s.Values[10:] {
		assert.Equal(t, 59.0, v)
	}
	assert.Equal(t, base.Dates[0], s.Dates[0])
	assert.Equal(t, base.Dates[9].AddDate(0, 10, 0), s.Dates[19])
	assert.NoError(t, s.Validate())
}

func TestBackwardFlatFill(t *testing.T) {
	base := baseStrip(t)
	s, err := BuildPricing(PricingBackwardFlatFill, PricingRequest{Periods: 10, Base: base})
	require.NoError(t, err)

	assert.Equal(t, 20, s.Len())
	for _, v := range s.Values[:10] {
		assert.Equal(t, 50.0, v)
	}
	assert.Equal(t, base.Dates[9], s.Dates[19])
	assert.Equal(t, base.Dates[0].AddDate(0, -10, 0), s.Dates[0])
	assert.NoError(t, s.Validate())
}

func TestForwardEscFill(t *testing.T) {
	base := baseStrip(t)
	s, err := ForwardEscFill(10, base, 0.03)
	require.NoError(t, err)

	assert.Equal(t, 20, s.Len())
	assert.InDelta(t, 59+59*10*0.03, s.Values[19], 1e-9)
	assert.InDelta(t, 59+59*0.03, s.Values[10], 1e-9)
	assert.Equal(t, base.Dates[9].AddDate(0, 10, 0), s.Dates[19])
}

func TestFill_Errors(t *testing.T) {
	_, err := ForwardFlatFill(3, Strip{})
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = FlatFill(-1, jan2019, 1)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	bad := Strip{Dates: Months(jan2019, 2), Values: []float64{1}}
	_, err = BackwardFlatFill(1, bad)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestParsePricingStrategy(t *testing.T) {
	for _, s := range PricingStrategies() {
		got, err := ParsePricingStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParsePricingStrategy("linear_fill")
	assert.True(t, apperror.Is(err, apperror.CodeUnknownStrategy))

	_, err = BuildPricing(PricingStrategy("linear_fill"), PricingRequest{})
	assert.True(t, apperror.Is(err, apperror.CodeUnknownStrategy))
}

func TestTwoTaxRegime(t *testing.T) {
	rates, err := TwoTaxRegime(10, 5, 0.05, 0.036)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.036, 0.036, 0.036, 0.036, 0.036}, rates)

	rates, err = TwoTaxRegime(3, 0, 0.05, 0.036)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.036, 0.036, 0.036}, rates)

	_, err = TwoTaxRegime(10, 10, 0.05, 0.036)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestBuildTax(t *testing.T) {
	s, err := BuildTax(TaxTwoTaxRegime, TaxRequest{Periods: 24, SwitchPeriod: 18, Tier1: 0.05, Tier2: 0.036, Start: jan2019})
	require.NoError(t, err)
	assert.Equal(t, 24, s.Len())
	assert.Equal(t, 0.05, s.Values[17])
	assert.Equal(t, 0.036, s.Values[18])
	assert.NoError(t, s.Validate())

	_, err = ParseTaxStrategy("three_tax_regime")
	assert.True(t, apperror.Is(err, apperror.CodeUnknownStrategy))
}

func TestStrip_Window(t *testing.T) {
	s, err := FlatFill(24, jan2019, 60)
	require.NoError(t, err)
	s.Values[14] = 61

	w, err := s.Window(time.Date(2020, 3, 9, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{61, 60, 60}, w.Values)
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), w.Dates[0])

	_, err = s.Window(time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), 3)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestMonthsBetween(t *testing.T) {
	a := time.Date(2021, time.February, 17, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 35, MonthsBetween(a, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -35, MonthsBetween(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), a))
	assert.Equal(t, 0, MonthsBetween(a, a))
}
