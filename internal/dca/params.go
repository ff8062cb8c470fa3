// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     dca
// Description: Modified Arps decline curves and their calibration
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package dca

import (
	"math/rand"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Parameters describes one well's decline curve.
// HypDecline and ExpDecline are effective annual decline fractions.
type Parameters struct {
	InitialProduction float64 `json:"ip"`
	HypDecline        float64 `json:"di"`
	ExpDecline        float64 `json:"dmin"`
	B                 float64 `json:"b"`
}

// vector returns the parameters in optimizer order
func (p Parameters) vector() []float64 {
	return []float64{p.InitialProduction, p.HypDecline, p.ExpDecline, p.B}
}

func fromVector(x []float64) Parameters {
	return Parameters{InitialProduction: x[0], HypDecline: x[1], ExpDecline: x[2], B: x[3]}
}

// Validate checks the parameter domain
func (p Parameters) Validate() error {
	switch {
	case p.InitialProduction < 0:
		return apperror.Newf(apperror.CodeMalformedInput, "initial production %v is negative", p.InitialProduction)
	case p.HypDecline <= 0 || p.HypDecline >= 1:
		return apperror.Newf(apperror.CodeMalformedInput, "hyperbolic decline %v outside (0, 1)", p.HypDecline)
	case p.ExpDecline <= 0 || p.ExpDecline >= 1:
		return apperror.Newf(apperror.CodeMalformedInput, "exponential decline %v outside (0, 1)", p.ExpDecline)
	case p.B < 0:
		return apperror.Newf(apperror.CodeMalformedInput, "b factor %v is negative", p.B)
	}
	return nil
}

// Bounds is a box constraint on Parameters
type Bounds struct {
	Lower Parameters
	Upper Parameters
}

// DefaultBounds are relative to a unit peak; see ScaleIP
var DefaultBounds = Bounds{
	Lower: Parameters{InitialProduction: 0.5, HypDecline: 0.05, ExpDecline: 0.01, B: 0},
	Upper: Parameters{InitialProduction: 1.5, HypDecline: 0.99, ExpDecline: 0.2, B: 2},
}

// DefaultGuess is relative to a unit peak; see Parameters.ScaleIP
var DefaultGuess = Parameters{InitialProduction: 1, HypDecline: 0.7, ExpDecline: 0.07, B: 1}

// ScaleIP multiplies the initial production by peak
func (p Parameters) ScaleIP(peak float64) Parameters {
	p.InitialProduction *= peak
	return p
}

// ScaleIP multiplies both initial production bounds by peak
func (b Bounds) ScaleIP(peak float64) Bounds {
	b.Lower = b.Lower.ScaleIP(peak)
	b.Upper = b.Upper.ScaleIP(peak)
	return b
}

// Validate requires Lower <= Upper on every parameter
func (b Bounds) Validate() error {
	lo, hi := b.Lower.vector(), b.Upper.vector()
	for i := range lo {
		if lo[i] > hi[i] {
			return apperror.Newf(apperror.CodeShapeMismatch, "bound %d inverted: %v > %v", i, lo[i], hi[i])
		}
	}
	return nil
}

// clamp projects x into the box in place and reports which entries were moved
// or already sat on a bound
func (b Bounds) clamp(x []float64) [4]bool {
	var at [4]bool
	lo, hi := b.Lower.vector(), b.Upper.vector()
	for i := range x {
		if x[i] <= lo[i] {
			x[i] = lo[i]
			at[i] = true
		} else if x[i] >= hi[i] {
			x[i] = hi[i]
			at[i] = true
		}
	}
	return at
}

// Range is a closed interval for random sampling
type Range struct {
	Min float64
	Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges bounds RandomParameters per field
type Ranges struct {
	InitialProduction Range
	HypDecline        Range
	ExpDecline        Range
	B                 Range
}

// DefaultRanges matches the sample workflow distribution
var DefaultRanges = Ranges{
	InitialProduction: Range{100, 3000},
	HypDecline:        Range{0.10, 1},
	ExpDecline:        Range{0.06, 0.08},
	B:                 Range{0, 2},
}

// RandomParameters draws n parameter sets uniformly from ranges.
// A drawn hyperbolic decline of exactly 1 is nudged below it.
func RandomParameters(rng *rand.Rand, n int, ranges Ranges) []Parameters {
	out := make([]Parameters, n)
	for i := range out {
		p := Parameters{
			InitialProduction: ranges.InitialProduction.sample(rng),
			HypDecline:        ranges.HypDecline.sample(rng),
			ExpDecline:        ranges.ExpDecline.sample(rng),
			B:                 ranges.B.sample(rng),
		}
		if p.HypDecline >= 1 {
			p.HypDecline = 0.999
		}
		out[i] = p
	}
	return out
}
