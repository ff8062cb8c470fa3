// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     version
// Description: Central version management for the engine and its commands
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants for the engine
const (
	// Engine version
	Engine = "1.0.0"

	// Schema is the result store schema version
	Schema = "1"

	// Command versions
	Econ       = "1.0.0"
	Timing     = "1.0.0"
	Formations = "1.0.0"
	IPGrid     = "1.0.0"
	Fit        = "1.0.0"
)

// Set at build time via -ldflags
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// CommandVersion returns the version for a given command name
func CommandVersion(name string) string {
	switch name {
	case "econ":
		return Econ
	case "timing":
		return Timing
	case "formations":
		return Formations
	case "ipgrid":
		return IPGrid
	case "fit":
		return Fit
	default:
		return Engine
	}
}

// String returns the full version line
func String() string {
	return fmt.Sprintf("wellecon %s (schema %s, commit %s, built %s)", Engine, Schema, Commit, BuildDate)
}
