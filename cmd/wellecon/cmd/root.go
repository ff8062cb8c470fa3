// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     cmd
// Description: Command line interface of the engine
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/petroval/wellecon/internal/loader"
	"github.com/petroval/wellecon/internal/store"
	"github.com/petroval/wellecon/internal/valuation"
	"github.com/petroval/wellecon/pkg/core/config"
	"github.com/petroval/wellecon/pkg/core/logging"
)

var (
	cfgFile string
	dataDir string
	verbose bool
	jsonOut bool
	noStore bool
)

var rootCmd = &cobra.Command{
	Use:   "wellecon",
	Short: "wellecon - Well economics engine",
	Long: `wellecon values oil and gas wells from regulatory filings,
production history, price strips and tax assumptions.

Commands:
  econ        - Production, revenue, tax and profit over the reporting window
  timing      - Current and future wells per section
  formations  - Normalized target formation per well
  ipgrid      - Smoothed initial production grid per formation
  fit         - Decline curve calibration per well`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $WELLECON_CONFIG or ./configs/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "directory with the input tables (default: general.data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "do not persist results even if the store is enabled")
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newService builds the service from flags and configuration. cleanup releases
// the store and flushes the logger.
func newService() (svc *valuation.Service, cleanup func(), err error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.NewLogger(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       level,
		Format:      cfg.General.LogFormat,
	})

	dir := cfg.General.DataDir
	if dataDir != "" {
		dir = dataDir
	}

	opts := []valuation.Option{}
	var st *store.SQLiteStore
	if cfg.Store.Enabled && !noStore {
		st, err = store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Store.Path})
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, valuation.WithStore(st))
		logger.Debug("result store enabled", "path", cfg.Store.Path)
	}

	cleanup = func() {
		if st != nil {
			st.Close()
		}
		logger.Sync()
	}
	return valuation.NewService(cfg, logger, loader.New(dir, logger), opts...), cleanup, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRunID(id string) {
	if id != "" {
		fmt.Printf("\nRun: %s\n", id)
	}
}
