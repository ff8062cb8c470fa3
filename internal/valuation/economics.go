package valuation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/petroval/wellecon/internal/econ"
	"github.com/petroval/wellecon/internal/loader"
	"github.com/petroval/wellecon/internal/strip"
	"github.com/petroval/wellecon/internal/timing"
	"github.com/petroval/wellecon/pkg/core/apperror"
	"github.com/petroval/wellecon/pkg/core/config"
)

// Source selects where Economics takes its wells from
type Source int

const (
	// SourceData values fitted producing wells plus type-curve wells
	// scheduled by section timing
	SourceData Source = iota
	// SourceSample values a random synthetic portfolio
	SourceSample
)

// EconReport is the output of Economics
type EconReport struct {
	RunID         string       `json:"run_id,omitempty"`
	ValuationDate time.Time    `json:"valuation_date"`
	Producing     int          `json:"producing"`
	Scheduled     int          `json:"scheduled"`
	Summary       econ.Summary `json:"summary"`
	Result        *econ.Result `json:"-"`
}

// Economics computes production, revenue, tax and profit over the reporting
// window starting at the valuation date
func (s *Service) Economics(ctx context.Context, source Source) (*EconReport, error) {
	vd, err := s.valuationDate()
	if err != nil {
		return nil, err
	}

	report := &EconReport{ValuationDate: vd}
	var in econ.Inputs
	switch source {
	case SourceSample:
		in, err = s.sampleInputs(vd)
		report.Producing = s.cfg.Econ.SampleWells
	default:
		in, report.Producing, report.Scheduled, err = s.dataInputs(ctx, vd)
	}
	if err != nil {
		return nil, err
	}

	res, err := econ.Run(in)
	if err != nil {
		return nil, err
	}
	report.Result = res
	report.Summary = econ.Summarize(res)
	s.logger.Info("economics computed",
		"wells", res.Wells(),
		"months", res.Months(),
		"revenue", report.Summary.Total.Revenue.String(),
		"profit", report.Summary.Total.Profit.String(),
	)

	report.RunID, err = s.persist(ctx, "econ", vd, res.Wells(), func(id string) error {
		return s.store.SaveEconSummary(ctx, id, report.Summary)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) taxInputs() (econ.TaxInputs, error) {
	strategy, err := strip.ParseTaxStrategy(s.cfg.Tax.Strategy)
	if err != nil {
		return econ.TaxInputs{}, err
	}
	return econ.TaxInputs{
		Strategy:    strategy,
		Tier1:       s.cfg.Tax.Tier1Rate,
		Tier2:       s.cfg.Tax.Tier2Rate,
		SwitchMonth: s.cfg.Tax.SwitchMonth,
	}, nil
}

func (s *Service) sampleInputs(vd time.Time) (econ.Inputs, error) {
	tax, err := s.taxInputs()
	if err != nil {
		return econ.Inputs{}, err
	}
	cfg := econ.DefaultSampleConfig()
	cfg.Wells = s.cfg.Econ.SampleWells
	cfg.Months = s.cfg.Econ.ReportMonths
	cfg.MaxShift = s.cfg.Econ.MaxShiftMonths
	cfg.Start = vd
	cfg.OilPrice = s.cfg.Pricing.Oil.FlatPrice
	cfg.GasPrice = s.cfg.Pricing.Gas.FlatPrice
	cfg.NonParStartMonth = s.cfg.Econ.NonParStartMonth
	cfg.Tax = tax

	s.logger.Debug("sampling portfolio", "wells", cfg.Wells, "seed", s.cfg.Econ.Seed)
	return econ.SampleInputs(rand.New(rand.NewSource(s.cfg.Econ.Seed)), cfg)
}

// dataInputs places fitted producing wells and type-curve wells on the
// reporting calendar. Wells whose first sales fall after the window are
// left out.
func (s *Service) dataInputs(ctx context.Context, vd time.Time) (in econ.Inputs, producing, scheduled int, err error) {
	months := s.cfg.Econ.ReportMonths

	histories, fits, err := s.fitHistories(ctx)
	if err != nil {
		return in, 0, 0, err
	}
	// Each stream is fitted from its own peak, so each gets its own offset
	var offsets, gasOffsets []int
	for i, h := range histories {
		oil, gas := fits[2*i], fits[2*i+1]
		oilOffset := strip.MonthsBetween(vd, h.Dates[oil.Peak])
		gasOffset := strip.MonthsBetween(vd, h.Dates[gas.Peak])
		if oilOffset > months || gasOffset > months {
			continue
		}
		offsets = append(offsets, oilOffset)
		gasOffsets = append(gasOffsets, gasOffset)
		in.Oil = append(in.Oil, oil.Params)
		in.Gas = append(in.Gas, gas.Params)
		in.Scale = append(in.Scale, 1)
		producing++
	}

	records, assumptions, err := s.sectionTiming(vd)
	if err != nil {
		return in, 0, 0, err
	}
	frame, err := s.loader.Load(loader.TableTypeCurves)
	if err != nil {
		return in, 0, 0, err
	}
	curves, err := loader.TypeCurves(frame)
	if err != nil {
		return in, 0, 0, err
	}

	for _, r := range records {
		a := assumptions[r.Section]
		for _, w := range []struct {
			wells int
			sales timing.Date
			curve string
		}{
			{r.Primary.CurrentWells, r.Primary.CurrentSales, a.TypeCurve1},
			{r.Primary.FutureWells, r.Primary.FutureSales, a.TypeCurve1},
			{r.Secondary.FutureWells, r.Secondary.FutureSales, a.TypeCurve2},
		} {
			sales, ok := w.sales.Get()
			if w.wells == 0 || !ok {
				continue
			}
			tc, found := curves[loader.TypeCurve{PortfolioArea: a.PortfolioArea, Name: w.curve}.Key()]
			if !found {
				s.logger.Warn("type curve not found",
					"section", r.Section,
					"portfolio_area", a.PortfolioArea,
					"type_curve", w.curve,
				)
				continue
			}
			offset := strip.MonthsBetween(vd, sales)
			if offset > months {
				continue
			}
			offsets = append(offsets, offset)
			gasOffsets = append(gasOffsets, offset)
			in.Oil = append(in.Oil, tc.Oil)
			in.Gas = append(in.Gas, tc.Gas)
			in.Scale = append(in.Scale, float64(w.wells))
			scheduled += w.wells
		}
	}
	if len(offsets) == 0 {
		return in, 0, 0, apperror.New(apperror.CodeMalformedInput, "no wells to value")
	}

	in.Start = vd
	in.Months = months
	in.NonParStartMonth = s.cfg.Econ.NonParStartMonth
	in.Shifts = econ.ShiftsFromOffsets(offsets)
	in.GasShifts = econ.ShiftsFromOffsets(gasOffsets)
	if in.Tax, err = s.taxInputs(); err != nil {
		return in, 0, 0, err
	}
	if in.OilPricing, err = s.priceStrip(loader.TableOilPrices, s.cfg.Pricing.Oil, vd, months); err != nil {
		return in, 0, 0, fmt.Errorf("oil pricing: %w", err)
	}
	if in.GasPricing, err = s.priceStrip(loader.TableGasPrices, s.cfg.Pricing.Gas, vd, months); err != nil {
		return in, 0, 0, fmt.Errorf("gas pricing: %w", err)
	}
	return in, producing, scheduled, nil
}

// priceStrip builds a strip covering months from start. flat_fill and a
// missing price table both price at the configured flat price; the other
// strategies extend the table as far as the window needs.
func (s *Service) priceStrip(table loader.Table, cfg config.StreamPricing, start time.Time, months int) (strip.Strip, error) {
	strategy, err := strip.ParsePricingStrategy(cfg.Strategy)
	if err != nil {
		return strip.Strip{}, err
	}
	flat := strip.PricingRequest{Periods: months, Start: start, Value: cfg.FlatPrice}
	if strategy == strip.PricingFlatFill {
		return strip.BuildPricing(strategy, flat)
	}

	frame, err := s.loader.Load(table)
	if errors.Is(err, loader.ErrTableNotFound) {
		s.logger.Warn("price table not found, using flat price",
			"table", string(table),
			"price", cfg.FlatPrice,
		)
		return strip.BuildPricing(strip.PricingFlatFill, flat)
	}
	if err != nil {
		return strip.Strip{}, err
	}
	base, err := loader.PriceStrip(frame)
	if err != nil {
		return strip.Strip{}, err
	}
	if base.Len() == 0 {
		return strip.BuildPricing(strip.PricingFlatFill, flat)
	}

	req := strip.PricingRequest{Base: base, Factor: cfg.EscalationFactor}
	switch strategy {
	case strip.PricingBackwardFlatFill:
		req.Periods = max(strip.MonthsBetween(start, base.Dates[0]), 0)
	default:
		req.Periods = max(strip.MonthsBetween(base.Dates[0], start)+months-base.Len(), 0)
	}
	return strip.BuildPricing(strategy, req)
}
