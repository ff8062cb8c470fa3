package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration)
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", string(out))
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "wellecon", cfg.General.Name)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, 600, cfg.Econ.ReportMonths)
	assert.Equal(t, 6, cfg.Econ.NonParStartMonth)
	assert.Equal(t, 60, cfg.Econ.MaxShiftMonths)
	assert.Equal(t, "flat_fill", cfg.Pricing.Oil.Strategy)
	assert.Equal(t, 60.0, cfg.Pricing.Oil.FlatPrice)
	assert.Equal(t, 2.5, cfg.Pricing.Gas.FlatPrice)
	assert.Equal(t, "two_tax_regime", cfg.Tax.Strategy)
	assert.Equal(t, 0.05, cfg.Tax.Tier1Rate)
	assert.Equal(t, 0.036, cfg.Tax.Tier2Rate)
	assert.Equal(t, 18, cfg.Tax.SwitchMonth)
	assert.Equal(t, 45, cfg.Timing.ToleranceDays)
	assert.Equal(t, 20, cfg.Timing.SpudToRigReleaseDays)
	assert.Equal(t, 1095, cfg.Timing.NotToGoPrimaryDays)
	assert.Equal(t, 2190, cfg.Timing.NotToGoSecondaryDays)
	assert.Equal(t, 1, cfg.Grid.Radius)
	assert.Equal(t, 5*time.Second, cfg.Fit.Timeout.Duration)
	assert.Equal(t, filepath.Join("./data", "wellecon.db"), cfg.Store.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	assert.Error(t, err)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[general]
name = "test-econ"
log_level = "debug"

[econ]
valuation_date = "2019-06-01"
report_months = 120

[pricing.oil]
strategy = "forward_esc_fill"
escalation_factor = 0.03

[fit]
workers = 2
timeout = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-econ", cfg.General.Name)
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, 120, cfg.Econ.ReportMonths)
	assert.Equal(t, "forward_esc_fill", cfg.Pricing.Oil.Strategy)
	assert.Equal(t, 0.03, cfg.Pricing.Oil.EscalationFactor)
	assert.Equal(t, "flat_fill", cfg.Pricing.Gas.Strategy)
	assert.Equal(t, 2, cfg.Fit.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Fit.Timeout.Duration)

	vd, err := cfg.ValuationDate(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), vd)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
general:
  name: yaml-econ
tax:
  tier1_rate: 0.07
  switch_month: 24
fit:
  timeout: 2s
formation:
  known_formations: [WOODFORD, MERAMEC]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "yaml-econ", cfg.General.Name)
	assert.Equal(t, 0.07, cfg.Tax.Tier1Rate)
	assert.Equal(t, 0.036, cfg.Tax.Tier2Rate)
	assert.Equal(t, 24, cfg.Tax.SwitchMonth)
	assert.Equal(t, 2*time.Second, cfg.Fit.Timeout.Duration)
	assert.Equal(t, []string{"WOODFORD", "MERAMEC"}, cfg.Formation.KnownFormations)
}

func TestLoad_ExplicitZeros(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", `
[econ]
max_shift_months = 0

[tax]
tier1_rate = 0.0
tier2_rate = 0.0
switch_month = 0

[grid]
radius = 0
`},
		{"yaml", "config.yaml", `
econ:
  max_shift_months: 0
tax:
  tier1_rate: 0
  tier2_rate: 0
  switch_month: 0
grid:
  radius: 0
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Zero(t, cfg.Econ.MaxShiftMonths)
			assert.Zero(t, cfg.Tax.Tier1Rate)
			assert.Zero(t, cfg.Tax.Tier2Rate)
			assert.Zero(t, cfg.Tax.SwitchMonth)
			assert.Zero(t, cfg.Grid.Radius)

			// keys the file leaves out still get defaults
			assert.Equal(t, "two_tax_regime", cfg.Tax.Strategy)
			assert.Equal(t, 600, cfg.Econ.ReportMonths)
			assert.Equal(t, 4, cfg.Fit.Workers)
		})
	}
}

func TestLoad_StorePathFollowsDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general]\ndata_dir = \"/srv/wellecon\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/wellecon", "wellecon.db"), cfg.Store.Path)
}

func TestLoad_ExplicitZeroStillValidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[fit]\nworkers = 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidConfig))
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\nname = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative report months", func(c *Config) { c.Econ.ReportMonths = -1 }, "econ.report_months"},
		{"non-par past horizon", func(c *Config) { c.Econ.NonParStartMonth = 601 }, "econ.non_par_start_month"},
		{"bad valuation date", func(c *Config) { c.Econ.ValuationDate = "06/01/2019" }, "econ.valuation_date"},
		{"switch at horizon", func(c *Config) { c.Tax.SwitchMonth = 600 }, "tax.switch_month"},
		{"rate above one", func(c *Config) { c.Tax.Tier2Rate = 1.5 }, "tax.tier2_rate"},
		{"negative radius", func(c *Config) { c.Grid.Radius = -2 }, "grid.radius"},
		{"no workers", func(c *Config) { c.Fit.Workers = -1 }, "fit.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidConfig))

			var coded *apperror.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.field, coded.Details()["field"])
		})
	}
}

func TestConfig_ValuationDateDefault(t *testing.T) {
	cfg := Default()
	now := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)

	vd, err := cfg.ValuationDate(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), vd)
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(path, []byte("[grid]\nradius = 3\n"), 0644))
	t.Setenv("WELLECON_CONFIG", path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Grid.Radius)
}
