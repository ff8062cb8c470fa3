// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     valuation
// Description: Runs the engine over loaded tables and persists the results
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/formation"
	"github.com/petroval/wellecon/internal/ipgrid"
	"github.com/petroval/wellecon/internal/loader"
	"github.com/petroval/wellecon/internal/store"
	"github.com/petroval/wellecon/internal/timing"
	"github.com/petroval/wellecon/pkg/core/config"
	"github.com/petroval/wellecon/pkg/core/logging"
	"github.com/petroval/wellecon/pkg/core/version"
)

// Service wires configuration, input tables, the core packages and the
// optional result store
type Service struct {
	cfg    *config.Config
	logger *logging.Logger
	loader *loader.Loader
	store  store.Store
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithStore persists every run to st
func WithStore(st store.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service reading tables through ld
func NewService(cfg *config.Config, logger *logging.Logger, ld *loader.Loader, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Service{
		cfg:    cfg,
		logger: logger,
		loader: ld,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// valuationDate resolves the configured valuation date against the clock
func (s *Service) valuationDate() (time.Time, error) {
	return s.cfg.ValuationDate(s.now())
}

func (s *Service) timingParams() timing.Params {
	t := s.cfg.Timing
	return timing.Params{
		Tolerance:         t.ToleranceDays,
		SpudToRigRelease:  t.SpudToRigReleaseDays,
		FracToSales:       t.FracToSalesDays,
		PermitToSpud:      t.PermitToSpudDays,
		OrderToSpud:       t.OrderToSpudDays,
		ApplicationToSpud: t.ApplicationToSpudDays,
		NotToGoPrimary:    t.NotToGoPrimaryDays,
		NotToGoSecondary:  t.NotToGoSecondaryDays,
	}
}

func (s *Service) fitOptions() dca.FitOptions {
	return dca.FitOptions{
		MaxIter: s.cfg.Fit.MaxIter,
		Timeout: s.cfg.Fit.Timeout.Duration,
		Workers: s.cfg.Fit.Workers,
	}
}

// persist records a run and its outputs when a store is configured. The
// returned run ID is empty without a store.
func (s *Service) persist(ctx context.Context, command string, vd time.Time, wells int, save func(runID string) error) (string, error) {
	if s.store == nil {
		return "", nil
	}
	run := &store.Run{
		Command:       command,
		Version:       version.CommandVersion(command),
		ValuationDate: vd,
		Wells:         wells,
	}
	if err := s.store.SaveRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to save %s run: %w", command, err)
	}
	if err := save(run.ID); err != nil {
		return "", fmt.Errorf("failed to save %s results: %w", command, err)
	}
	s.logger.Info("run saved", "run_id", run.ID, "command", command)
	return run.ID, nil
}

// TimingReport is the output of Timing
type TimingReport struct {
	RunID         string          `json:"run_id,omitempty"`
	ValuationDate time.Time       `json:"valuation_date"`
	Records       []timing.Record `json:"records"`
}

// Timing projects current and future wells for every section
func (s *Service) Timing(ctx context.Context) (*TimingReport, error) {
	vd, err := s.valuationDate()
	if err != nil {
		return nil, err
	}
	records, _, err := s.sectionTiming(vd)
	if err != nil {
		return nil, err
	}

	var current, future int
	for _, r := range records {
		current += r.Primary.CurrentWells
		future += r.Primary.FutureWells + r.Secondary.FutureWells
	}
	s.logger.Info("section timing computed",
		"sections", len(records),
		"current_wells", current,
		"future_wells", future,
	)

	runID, err := s.persist(ctx, "timing", vd, current+future, func(id string) error {
		return s.store.SaveTiming(ctx, id, records)
	})
	if err != nil {
		return nil, err
	}
	return &TimingReport{RunID: runID, ValuationDate: vd, Records: records}, nil
}

func (s *Service) sectionTiming(today time.Time) ([]timing.Record, map[string]loader.Assumption, error) {
	frames, err := s.loader.LoadAll(loader.TableSectionOnelines, loader.TableSectionAssumptions)
	if err != nil {
		return nil, nil, err
	}
	assumptions, err := loader.Assumptions(frames[loader.TableSectionAssumptions])
	if err != nil {
		return nil, nil, err
	}
	sections, err := loader.Sections(frames[loader.TableSectionOnelines], assumptions)
	if err != nil {
		return nil, nil, err
	}
	return timing.NewEngine(s.timingParams(), today).Compute(sections), assumptions, nil
}

// FormationReport is the output of Formations
type FormationReport struct {
	RunID    string                 `json:"run_id,omitempty"`
	Wells    []store.FormationLabel `json:"wells"`
	Coverage formation.Coverage     `json:"coverage"`
}

// Formations assigns a normalized formation to every well
func (s *Service) Formations(ctx context.Context) (*FormationReport, error) {
	_, labels, coverage, err := s.labelWells()
	if err != nil {
		return nil, err
	}
	s.logger.Info("formations normalized",
		"wells", coverage.Total,
		"unmatched", coverage.Unmatched,
	)

	runID, err := s.persist(ctx, "formations", time.Time{}, len(labels), func(id string) error {
		return s.store.SaveFormations(ctx, id, labels)
	})
	if err != nil {
		return nil, err
	}
	return &FormationReport{RunID: runID, Wells: labels, Coverage: coverage}, nil
}

func (s *Service) labelWells() (*loader.Frame, []store.FormationLabel, formation.Coverage, error) {
	frames, err := s.loader.LoadAll(loader.TableWellOnelines, loader.TableSectionAssumptions)
	if err != nil {
		return nil, nil, formation.Coverage{}, err
	}
	assumptions, err := loader.Assumptions(frames[loader.TableSectionAssumptions])
	if err != nil {
		return nil, nil, formation.Coverage{}, err
	}
	wells, err := loader.FormationWells(frames[loader.TableWellOnelines], assumptions)
	if err != nil {
		return nil, nil, formation.Coverage{}, err
	}

	n := formation.New(s.cfg.Formation.KnownFormations, formation.WithLogger(s.logger))
	names, rules, coverage := n.NormalizeRules(wells)
	labels := make([]store.FormationLabel, len(wells))
	for i, w := range wells {
		labels[i] = store.FormationLabel{API: w.API, Label: names[i], Rule: rules[i]}
	}
	return frames[loader.TableWellOnelines], labels, coverage, nil
}

// GridReport is the output of IPGrid
type GridReport struct {
	RunID      string      `json:"run_id,omitempty"`
	Formations []string    `json:"formations"`
	Grid       ipgrid.Grid `json:"grid"`
}

// IPGrid smooths the peak rates of labelled wells over the section grid.
// A configured formation list restricts the grid to those formations.
func (s *Service) IPGrid(ctx context.Context) (*GridReport, error) {
	wells, labels, _, err := s.labelWells()
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(s.cfg.Grid.Formations))
	for _, f := range s.cfg.Grid.Formations {
		keep[f] = true
	}
	names := make([]string, len(labels))
	for i, l := range labels {
		if len(keep) == 0 || keep[l.Label] {
			names[i] = l.Label
		}
	}

	ips, formations, err := loader.WellIPs(wells, names)
	if err != nil {
		return nil, err
	}
	grid, err := ipgrid.Interpolate(ctx, ips, len(formations), s.cfg.Grid.Radius)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ip grid interpolated",
		"wells", len(ips),
		"formations", len(formations),
		"nx", grid.NX,
		"ny", grid.NY,
	)

	runID, err := s.persist(ctx, "ipgrid", time.Time{}, len(ips), func(id string) error {
		return s.store.SaveIPGrid(ctx, id, formations, grid)
	})
	if err != nil {
		return nil, err
	}
	return &GridReport{RunID: runID, Formations: formations, Grid: grid}, nil
}

// FitReport is the output of FitWells
type FitReport struct {
	RunID     string          `json:"run_id,omitempty"`
	Fits      []store.WellFit `json:"fits"`
	Converged int             `json:"converged"`
}

// FitWells calibrates oil and gas decline curves for every well history
func (s *Service) FitWells(ctx context.Context) (*FitReport, error) {
	histories, fits, err := s.fitHistories(ctx)
	if err != nil {
		return nil, err
	}

	report := &FitReport{Fits: fits}
	for _, f := range fits {
		if f.Converged {
			report.Converged++
		}
	}
	s.logger.Info("decline curves fitted",
		"wells", len(histories),
		"fits", len(fits),
		"converged", report.Converged,
	)

	report.RunID, err = s.persist(ctx, "fit", time.Time{}, len(histories), func(id string) error {
		return s.store.SaveFits(ctx, id, fits)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// fitHistories returns the histories and their fits, oil then gas per well
func (s *Service) fitHistories(ctx context.Context) ([]loader.History, []store.WellFit, error) {
	frame, err := s.loader.Load(loader.TableMonthlies)
	if err != nil {
		return nil, nil, err
	}
	histories, err := loader.Histories(frame)
	if err != nil {
		return nil, nil, err
	}

	oil := make([][]float64, len(histories))
	gas := make([][]float64, len(histories))
	for i, h := range histories {
		oil[i], gas[i] = h.Oil, h.Gas
	}

	opts := s.fitOptions()
	oilFits, err := dca.FitPeakBatch(ctx, oil, dca.DefaultGuess, dca.DefaultBounds, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fit oil: %w", err)
	}
	gasFits, err := dca.FitPeakBatch(ctx, gas, dca.DefaultGuess, dca.DefaultBounds, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fit gas: %w", err)
	}

	fits := make([]store.WellFit, 0, 2*len(histories))
	for i, h := range histories {
		for _, f := range []struct {
			stream string
			fit    dca.PeakFit
		}{{"oil", oilFits[i]}, {"gas", gasFits[i]}} {
			fits = append(fits, store.WellFit{
				API:        h.API,
				Stream:     f.stream,
				Peak:       f.fit.Peak,
				Params:     f.fit.Params,
				RMSE:       f.fit.RMSE,
				Iterations: f.fit.Iterations,
				Converged:  f.fit.Converged,
				Status:     f.fit.Status,
			})
		}
	}
	return histories, fits, nil
}
