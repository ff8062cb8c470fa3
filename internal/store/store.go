// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     store
// Description: SQLite sink for the outputs of engine runs
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/econ"
	"github.com/petroval/wellecon/internal/ipgrid"
	"github.com/petroval/wellecon/internal/timing"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Run describes one engine invocation
type Run struct {
	ID            string    `json:"id"`
	Command       string    `json:"command"`
	Version       string    `json:"version"`
	StartedAt     time.Time `json:"started_at"`
	ValuationDate time.Time `json:"valuation_date"`
	Wells         int       `json:"wells"`
}

// FormationLabel is the normalized formation of one well
type FormationLabel struct {
	API   string `json:"api"`
	Label string `json:"label"`
	Rule  string `json:"rule"`
}

// WellFit is the calibrated decline of one well and stream
type WellFit struct {
	API        string         `json:"api"`
	Stream     string         `json:"stream"`
	Peak       int            `json:"peak"`
	Params     dca.Parameters `json:"params"`
	RMSE       float64        `json:"rmse"`
	Iterations int            `json:"iterations"`
	Converged  bool           `json:"converged"`
	Status     string         `json:"status"`
}

// Store persists run outputs
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	SaveEconSummary(ctx context.Context, runID string, sum econ.Summary) error
	SaveTiming(ctx context.Context, runID string, records []timing.Record) error
	SaveFormations(ctx context.Context, runID string, labels []FormationLabel) error
	SaveIPGrid(ctx context.Context, runID string, formations []string, grid ipgrid.Grid) error
	SaveFits(ctx context.Context, runID string, fits []WellFit) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunStats(ctx context.Context, runID string) (map[string]int64, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/wellecon.db",
	}
}

// NewSQLiteStore opens or creates the database at cfg.Path
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to create directory")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to open database")
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to initialize schema")
	}
	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		version TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		valuation_date TEXT,
		wells INTEGER NOT NULL DEFAULT 0
	);

	-- Money columns are decimal strings rounded to cents
	CREATE TABLE IF NOT EXISTS econ_summary (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		stream TEXT NOT NULL,
		category TEXT NOT NULL,
		production TEXT NOT NULL,
		revenue TEXT NOT NULL,
		tax TEXT NOT NULL,
		profit TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS timing (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		section TEXT NOT NULL,
		bucket TEXT NOT NULL,
		current_wells INTEGER NOT NULL,
		current_spud TEXT,
		current_sales TEXT,
		future_wells INTEGER NOT NULL,
		future_spud TEXT,
		future_sales TEXT
	);

	CREATE TABLE IF NOT EXISTS formations (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		api TEXT NOT NULL,
		label TEXT NOT NULL,
		rule TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ip_grid (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		formation TEXT NOT NULL,
		stream TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		value REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fits (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		api TEXT NOT NULL,
		stream TEXT NOT NULL,
		peak INTEGER NOT NULL,
		ip REAL NOT NULL,
		di REAL NOT NULL,
		dmin REAL NOT NULL,
		b REAL NOT NULL,
		rmse REAL NOT NULL,
		iterations INTEGER NOT NULL,
		converged INTEGER NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_econ_run ON econ_summary(run_id);
	CREATE INDEX IF NOT EXISTS idx_timing_run ON timing(run_id);
	CREATE INDEX IF NOT EXISTS idx_formations_run ON formations(run_id);
	CREATE INDEX IF NOT EXISTS idx_ip_grid_run ON ip_grid(run_id);
	CREATE INDEX IF NOT EXISTS idx_fits_run ON fits(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records a run, assigning an ID and start time when unset
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	var vd interface{}
	if !run.ValuationDate.IsZero() {
		vd = run.ValuationDate.Format(timing.DateLayout)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, version, started_at, valuation_date, wells)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Command, run.Version, run.StartedAt.UTC(), vd, run.Wells)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeStorage, "failed to insert run").WithDetail("run", run.ID)
	}
	return nil
}

// SaveEconSummary stores every summary line plus the total
func (s *SQLiteStore) SaveEconSummary(ctx context.Context, runID string, sum econ.Summary) error {
	lines := append(append([]econ.SummaryLine(nil), sum.Lines...), sum.Total)
	return s.insertAll(ctx, "econ_summary", `
		INSERT INTO econ_summary (run_id, stream, category, production, revenue, tax, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, len(lines), func(i int) []interface{} {
		l := lines[i]
		stream, category := "total", "total"
		if l.Stream >= 0 {
			stream, category = l.Stream.String(), l.Category.String()
		}
		return []interface{}{runID, stream, category,
			l.Production.String(), l.Revenue.String(), l.Tax.String(), l.Profit.String()}
	})
}

// SaveTiming stores the primary and secondary bucket of every section
func (s *SQLiteStore) SaveTiming(ctx context.Context, runID string, records []timing.Record) error {
	return s.insertAll(ctx, "timing", `
		INSERT INTO timing (run_id, section, bucket, current_wells, current_spud, current_sales,
			future_wells, future_spud, future_sales)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, 2*len(records), func(i int) []interface{} {
		r := records[i/2]
		name, b := "primary", r.Primary
		if i%2 == 1 {
			name, b = "secondary", r.Secondary
		}
		return []interface{}{runID, r.Section, name, b.CurrentWells, nullDate(b.CurrentSpud),
			nullDate(b.CurrentSales), b.FutureWells, nullDate(b.FutureSpud), nullDate(b.FutureSales)}
	})
}

// SaveFormations stores one label per well
func (s *SQLiteStore) SaveFormations(ctx context.Context, runID string, labels []FormationLabel) error {
	return s.insertAll(ctx, "formations", `
		INSERT INTO formations (run_id, api, label, rule) VALUES (?, ?, ?, ?)
	`, len(labels), func(i int) []interface{} {
		return []interface{}{runID, labels[i].API, labels[i].Label, labels[i].Rule}
	})
}

// SaveIPGrid stores the non-zero cells of grid. formations names the
// formation axis.
func (s *SQLiteStore) SaveIPGrid(ctx context.Context, runID string, formations []string, grid ipgrid.Grid) error {
	if len(formations) != grid.Formations {
		return apperror.ShapeMismatch("%d formation names for %d grid formations", len(formations), grid.Formations)
	}

	type cell struct {
		formation, stream string
		x, y              int
		value             float64
	}
	streams := [...]string{ipgrid.StreamOil: "oil", ipgrid.StreamGas: "gas"}
	var cells []cell
	for f := range formations {
		for st, name := range streams {
			for x := 0; x < grid.NX; x++ {
				for y := 0; y < grid.NY; y++ {
					if v := grid.At(f, st, x, y); v != 0 {
						cells = append(cells, cell{formations[f], name, x, y, v})
					}
				}
			}
		}
	}

	return s.insertAll(ctx, "ip_grid", `
		INSERT INTO ip_grid (run_id, formation, stream, x, y, value) VALUES (?, ?, ?, ?, ?, ?)
	`, len(cells), func(i int) []interface{} {
		c := cells[i]
		return []interface{}{runID, c.formation, c.stream, c.x, c.y, c.value}
	})
}

// SaveFits stores calibrated decline parameters
func (s *SQLiteStore) SaveFits(ctx context.Context, runID string, fits []WellFit) error {
	return s.insertAll(ctx, "fits", `
		INSERT INTO fits (run_id, api, stream, peak, ip, di, dmin, b, rmse, iterations, converged, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, len(fits), func(i int) []interface{} {
		f := fits[i]
		return []interface{}{runID, f.API, f.Stream, f.Peak, f.Params.InitialProduction,
			f.Params.HypDecline, f.Params.ExpDecline, f.Params.B, f.RMSE, f.Iterations, f.Converged, f.Status}
	})
}

// insertAll runs query once per row inside a single transaction
func (s *SQLiteStore) insertAll(ctx context.Context, table, query string, n int, row func(i int) []interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeStorage, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeStorage, "failed to prepare statement").WithDetail("table", table)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return apperror.Wrap(err, apperror.CodeStorage, "failed to insert row").
				WithDetail("table", table).WithDetail("row", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Wrap(err, apperror.CodeStorage, "failed to commit").WithDetail("table", table)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, command, version, started_at, valuation_date, wells FROM runs ORDER BY started_at DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to query runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var vd sql.NullString
		if err := rows.Scan(&run.ID, &run.Command, &run.Version, &run.StartedAt, &vd, &run.Wells); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to scan run")
		}
		if vd.Valid {
			run.ValuationDate, _ = time.Parse(timing.DateLayout, vd.String)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to read runs")
	}
	return runs, nil
}

// RunStats counts the stored rows of each output table for one run
func (s *SQLiteStore) RunStats(ctx context.Context, runID string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"econ_summary", "timing", "formations", "ip_grid", "fits"} {
		var n int64
		err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE run_id = ?`, table), runID).Scan(&n)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeStorage, "failed to count rows").WithDetail("table", table)
		}
		stats[table] = n
	}
	return stats, nil
}

// Prune removes runs started before now - olderThan together with their outputs
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeStorage, "failed to prune runs")
	}
	return result.RowsAffected()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullDate(d timing.Date) interface{} {
	if !d.IsSome() {
		return nil
	}
	return d.String()
}
