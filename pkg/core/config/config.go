package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// DateLayout is the layout used for every date in configuration files
const DateLayout = "2006-01-02"

// Config holds the complete engine configuration
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Econ      EconConfig      `toml:"econ" yaml:"econ"`
	Pricing   PricingConfig   `toml:"pricing" yaml:"pricing"`
	Tax       TaxConfig       `toml:"tax" yaml:"tax"`
	Timing    TimingConfig    `toml:"timing" yaml:"timing"`
	Formation FormationConfig `toml:"formation" yaml:"formation"`
	Grid      GridConfig      `toml:"grid" yaml:"grid"`
	Fit       FitConfig       `toml:"fit" yaml:"fit"`
	Store     StoreConfig     `toml:"store" yaml:"store"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// EconConfig holds the reporting window and interest settings
type EconConfig struct {
	// First day of the reporting window; empty means first day of the current month
	ValuationDate    string `toml:"valuation_date" yaml:"valuation_date"`
	ReportMonths     int    `toml:"report_months" yaml:"report_months"`
	NonParStartMonth int    `toml:"non_par_start_month" yaml:"non_par_start_month"`
	SampleWells      int    `toml:"sample_wells" yaml:"sample_wells"`
	MaxShiftMonths   int    `toml:"max_shift_months" yaml:"max_shift_months"`
	Seed             int64  `toml:"seed" yaml:"seed"`
}

// PricingConfig holds per-stream pricing strategies
type PricingConfig struct {
	Oil StreamPricing `toml:"oil" yaml:"oil"`
	Gas StreamPricing `toml:"gas" yaml:"gas"`
}

// StreamPricing configures the strip for one commodity
type StreamPricing struct {
	Strategy         string  `toml:"strategy" yaml:"strategy"`
	FlatPrice        float64 `toml:"flat_price" yaml:"flat_price"`
	EscalationFactor float64 `toml:"escalation_factor" yaml:"escalation_factor"`
}

// TaxConfig holds the tax regime
type TaxConfig struct {
	Strategy    string  `toml:"strategy" yaml:"strategy"`
	Tier1Rate   float64 `toml:"tier1_rate" yaml:"tier1_rate"`
	Tier2Rate   float64 `toml:"tier2_rate" yaml:"tier2_rate"`
	SwitchMonth int     `toml:"switch_month" yaml:"switch_month"`
}

// TimingConfig holds the section timing offsets, all in days
type TimingConfig struct {
	ToleranceDays         int `toml:"tolerance_days" yaml:"tolerance_days"`
	SpudToRigReleaseDays  int `toml:"spud_to_rig_release_days" yaml:"spud_to_rig_release_days"`
	FracToSalesDays       int `toml:"frac_to_sales_days" yaml:"frac_to_sales_days"`
	PermitToSpudDays      int `toml:"permit_to_spud_days" yaml:"permit_to_spud_days"`
	OrderToSpudDays       int `toml:"order_to_spud_days" yaml:"order_to_spud_days"`
	ApplicationToSpudDays int `toml:"application_to_spud_days" yaml:"application_to_spud_days"`
	NotToGoPrimaryDays    int `toml:"not_to_go_primary_days" yaml:"not_to_go_primary_days"`
	NotToGoSecondaryDays  int `toml:"not_to_go_secondary_days" yaml:"not_to_go_secondary_days"`
}

// FormationConfig holds the normalization vocabulary
type FormationConfig struct {
	KnownFormations []string `toml:"known_formations" yaml:"known_formations"`
}

// GridConfig holds IP grid smoothing settings
type GridConfig struct {
	Radius     int      `toml:"radius" yaml:"radius"`
	Formations []string `toml:"formations" yaml:"formations"`
}

// FitConfig holds decline curve calibration settings
type FitConfig struct {
	MaxIter int      `toml:"max_iter" yaml:"max_iter"`
	Workers int      `toml:"workers" yaml:"workers"`
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// StoreConfig holds result store settings
type StoreConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Decode over the defaults so only keys present in the file change.
	// An explicit zero (a tax-free tier, radius 0) is kept as written.
	cfg := Default()
	cfg.Store.Path = ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// The store follows data_dir unless the file names its own path
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(cfg.General.DataDir, "wellecon.db")
	}
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from the WELLECON_CONFIG environment variable
// or the default locations. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("WELLECON_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./configs/config.toml",
			"./config.toml",
			"./configs/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/wellecon/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration. Only Default
// calls it; Load decodes over a defaulted Config instead, so zero values
// written in a file survive.
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "wellecon"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "json"
	}

	// Econ
	if c.Econ.ReportMonths == 0 {
		c.Econ.ReportMonths = 600
	}
	if c.Econ.NonParStartMonth == 0 {
		c.Econ.NonParStartMonth = 6
	}
	if c.Econ.SampleWells == 0 {
		c.Econ.SampleWells = 1000
	}
	if c.Econ.MaxShiftMonths == 0 {
		c.Econ.MaxShiftMonths = 60
	}

	// Pricing
	if c.Pricing.Oil.Strategy == "" {
		c.Pricing.Oil.Strategy = "flat_fill"
	}
	if c.Pricing.Oil.FlatPrice == 0 {
		c.Pricing.Oil.FlatPrice = 60.0
	}
	if c.Pricing.Gas.Strategy == "" {
		c.Pricing.Gas.Strategy = "flat_fill"
	}
	if c.Pricing.Gas.FlatPrice == 0 {
		c.Pricing.Gas.FlatPrice = 2.5
	}

	// Tax
	if c.Tax.Strategy == "" {
		c.Tax.Strategy = "two_tax_regime"
	}
	if c.Tax.Tier1Rate == 0 {
		c.Tax.Tier1Rate = 0.05
	}
	if c.Tax.Tier2Rate == 0 {
		c.Tax.Tier2Rate = 0.036
	}
	if c.Tax.SwitchMonth == 0 {
		c.Tax.SwitchMonth = 18
	}

	// Timing
	if c.Timing.ToleranceDays == 0 {
		c.Timing.ToleranceDays = 45
	}
	if c.Timing.SpudToRigReleaseDays == 0 {
		c.Timing.SpudToRigReleaseDays = 20
	}
	if c.Timing.FracToSalesDays == 0 {
		c.Timing.FracToSalesDays = 45
	}
	if c.Timing.PermitToSpudDays == 0 {
		c.Timing.PermitToSpudDays = 180
	}
	if c.Timing.OrderToSpudDays == 0 {
		c.Timing.OrderToSpudDays = 365
	}
	if c.Timing.ApplicationToSpudDays == 0 {
		c.Timing.ApplicationToSpudDays = 545
	}
	if c.Timing.NotToGoPrimaryDays == 0 {
		c.Timing.NotToGoPrimaryDays = 365 * 3
	}
	if c.Timing.NotToGoSecondaryDays == 0 {
		c.Timing.NotToGoSecondaryDays = 365 * 6
	}

	// Grid
	if c.Grid.Radius == 0 {
		c.Grid.Radius = 1
	}

	// Fit
	if c.Fit.MaxIter == 0 {
		c.Fit.MaxIter = 2000
	}
	if c.Fit.Workers == 0 {
		c.Fit.Workers = 4
	}
	if c.Fit.Timeout.Duration == 0 {
		c.Fit.Timeout.Duration = 5 * time.Second
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "wellecon.db")
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// Validate checks value ranges that defaults cannot repair
func (c *Config) Validate() error {
	invalid := func(field string, format string, args ...interface{}) error {
		return apperror.Newf(apperror.CodeInvalidConfig, format, args...).WithDetail("field", field)
	}

	if c.Econ.ReportMonths < 1 {
		return invalid("econ.report_months", "report months must be positive, got %d", c.Econ.ReportMonths)
	}
	if c.Econ.NonParStartMonth < 1 || c.Econ.NonParStartMonth > c.Econ.ReportMonths {
		return invalid("econ.non_par_start_month", "non-participating start month %d outside [1, %d]",
			c.Econ.NonParStartMonth, c.Econ.ReportMonths)
	}
	if c.Econ.MaxShiftMonths < 0 || c.Econ.MaxShiftMonths > c.Econ.ReportMonths {
		return invalid("econ.max_shift_months", "max shift %d outside [0, %d]", c.Econ.MaxShiftMonths, c.Econ.ReportMonths)
	}
	if _, err := c.ValuationDate(time.Now()); err != nil {
		return invalid("econ.valuation_date", "valuation date %q: %v", c.Econ.ValuationDate, err)
	}
	if c.Tax.SwitchMonth < 0 || c.Tax.SwitchMonth >= c.Econ.ReportMonths {
		return invalid("tax.switch_month", "tax switch month %d outside [0, %d)", c.Tax.SwitchMonth, c.Econ.ReportMonths)
	}
	for name, rate := range map[string]float64{"tax.tier1_rate": c.Tax.Tier1Rate, "tax.tier2_rate": c.Tax.Tier2Rate} {
		if rate < 0 || rate >= 1 {
			return invalid(name, "tax rate %v outside [0, 1)", rate)
		}
	}
	if c.Grid.Radius < 0 {
		return invalid("grid.radius", "grid radius must not be negative, got %d", c.Grid.Radius)
	}
	if c.Fit.Workers < 1 {
		return invalid("fit.workers", "fit workers must be positive, got %d", c.Fit.Workers)
	}
	if c.Fit.MaxIter < 1 {
		return invalid("fit.max_iter", "fit max_iter must be positive, got %d", c.Fit.MaxIter)
	}
	return nil
}

// ValuationDate returns the configured valuation date, or the first day of
// the month containing now when none is configured
func (c *Config) ValuationDate(now time.Time) (time.Time, error) {
	if c.Econ.ValuationDate == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(DateLayout, c.Econ.ValuationDate)
}
