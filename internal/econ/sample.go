package econ

import (
	"math/rand"
	"time"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/strip"
)

// SampleConfig parameterizes a synthetic run
type SampleConfig struct {
	Wells            int
	Months           int
	MaxShift         int
	Start            time.Time
	OilPrice         float64
	GasPrice         float64
	NonParStartMonth int
	Tax              TaxInputs
	Ranges           dca.Ranges
}

// DefaultSampleConfig returns the stock synthetic portfolio
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Wells:            1000,
		Months:           600,
		MaxShift:         60,
		Start:            time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC),
		OilPrice:         60.0,
		GasPrice:         2.5,
		NonParStartMonth: 6,
		Tax: TaxInputs{
			Strategy:    strip.TaxTwoTaxRegime,
			Tier1:       0.05,
			Tier2:       0.036,
			SwitchMonth: 18,
		},
		Ranges: dca.DefaultRanges,
	}
}

// SampleInputs draws random shifts in [-MaxShift, MaxShift) and random decline
// parameters for both streams, priced with flat strips
func SampleInputs(rng *rand.Rand, cfg SampleConfig) (Inputs, error) {
	offsets := make([]int, cfg.Wells)
	if cfg.MaxShift > 0 {
		for i := range offsets {
			offsets[i] = rng.Intn(2*cfg.MaxShift) - cfg.MaxShift
		}
	}

	oilPricing, err := strip.FlatFill(cfg.Months, cfg.Start, cfg.OilPrice)
	if err != nil {
		return Inputs{}, err
	}
	gasPricing, err := strip.FlatFill(cfg.Months, cfg.Start, cfg.GasPrice)
	if err != nil {
		return Inputs{}, err
	}

	return Inputs{
		Start:            strip.MonthStart(cfg.Start),
		Months:           cfg.Months,
		NonParStartMonth: cfg.NonParStartMonth,
		Shifts:           ShiftsFromOffsets(offsets),
		Oil:              dca.RandomParameters(rng, cfg.Wells, cfg.Ranges),
		Gas:              dca.RandomParameters(rng, cfg.Wells, cfg.Ranges),
		OilPricing:       oilPricing,
		GasPricing:       gasPricing,
		Tax:              cfg.Tax,
	}, nil
}
