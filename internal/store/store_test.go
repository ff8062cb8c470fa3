package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/econ"
	"github.com/petroval/wellecon/internal/ipgrid"
	"github.com/petroval/wellecon/internal/timing"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		Command:       "econ",
		Version:       "1.0.0",
		ValuationDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Wells:         12,
	}
	require.NoError(t, s.SaveRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "econ", runs[0].Command)
	assert.Equal(t, 12, runs[0].Wells)
	assert.True(t, run.ValuationDate.Equal(runs[0].ValuationDate))

	err = s.SaveRun(ctx, &Run{ID: run.ID, Command: "econ", Version: "1.0.0"})
	assert.True(t, apperror.Is(err, apperror.CodeStorage))
}

func TestSQLiteStore_ListRunsOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, cmd := range []string{"timing", "econ", "fit"} {
		require.NoError(t, s.SaveRun(ctx, &Run{Command: cmd, Version: "1", StartedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fit", runs[0].Command)
	assert.Equal(t, "econ", runs[1].Command)
	assert.True(t, runs[1].ValuationDate.IsZero())
}

func TestSQLiteStore_Outputs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{Command: "all", Version: "1"}
	require.NoError(t, s.SaveRun(ctx, run))

	cents := decimal.RequireFromString("12.34")
	sum := econ.Summary{
		Wells:  1,
		Months: 3,
		Lines: []econ.SummaryLine{
			{Stream: econ.Oil, Category: econ.Producing, Production: cents, Revenue: cents, Tax: cents, Profit: cents},
			{Stream: econ.Gas, Category: econ.NonParticipating},
		},
		Total: econ.SummaryLine{Stream: -1, Category: -1, Revenue: cents},
	}
	require.NoError(t, s.SaveEconSummary(ctx, run.ID, sum))

	spud, err := timing.ParseDate("2024-05-01")
	require.NoError(t, err)
	records := []timing.Record{
		{Section: "01N-02W-03", Primary: timing.Bucket{FutureWells: 3, FutureSpud: spud}},
		{Section: "05N-06W-07"},
	}
	require.NoError(t, s.SaveTiming(ctx, run.ID, records))

	require.NoError(t, s.SaveFormations(ctx, run.ID, []FormationLabel{
		{API: "35017250010000", Label: "WOODFORD", Rule: "known_formation"},
	}))

	grid := ipgrid.NewGrid(1, 2, 2)
	grid.Set(0, ipgrid.StreamOil, 1, 1, 650)
	grid.Set(0, ipgrid.StreamGas, 0, 1, 1800)
	require.NoError(t, s.SaveIPGrid(ctx, run.ID, []string{"WOODFORD"}, grid))

	err = s.SaveIPGrid(ctx, run.ID, []string{"A", "B"}, grid)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	require.NoError(t, s.SaveFits(ctx, run.ID, []WellFit{
		{API: "35017250010000", Stream: "oil", Params: dca.DefaultGuess, RMSE: 1.5, Converged: true, Status: "FunctionConvergence"},
		{API: "35017250010000", Stream: "gas", Params: dca.DefaultGuess},
	}))

	stats, err := s.RunStats(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"econ_summary": 3,
		"timing":       4,
		"formations":   1,
		"ip_grid":      2,
		"fits":         2,
	}, stats)

	var revenue string
	require.NoError(t, s.db.QueryRow(`SELECT revenue FROM econ_summary WHERE stream = 'total'`).Scan(&revenue))
	assert.Equal(t, "12.34", revenue)

	var futureSpud, currentSpud *string
	require.NoError(t, s.db.QueryRow(
		`SELECT future_spud, current_spud FROM timing WHERE section = '01N-02W-03' AND bucket = 'primary'`,
	).Scan(&futureSpud, &currentSpud))
	require.NotNil(t, futureSpud)
	assert.Equal(t, "2024-05-01", *futureSpud)
	assert.Nil(t, currentSpud)
}

func TestSQLiteStore_UnknownRun(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveFormations(context.Background(), "missing", []FormationLabel{{API: "1", Label: "X", Rule: "r"}})
	assert.True(t, apperror.Is(err, apperror.CodeStorage))
}

func TestSQLiteStore_Prune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := &Run{Command: "econ", Version: "1", StartedAt: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := &Run{Command: "econ", Version: "1"}
	require.NoError(t, s.SaveRun(ctx, old))
	require.NoError(t, s.SaveRun(ctx, fresh))
	require.NoError(t, s.SaveFormations(ctx, old.ID, []FormationLabel{{API: "1", Label: "X", Rule: "r"}}))

	deleted, err := s.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, fresh.ID, runs[0].ID)

	stats, err := s.RunStats(ctx, old.ID)
	require.NoError(t, err)
	assert.Zero(t, stats["formations"])
}
