// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     econ
// Description: Production, tax and cash flow tensors for a set of wells
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package econ

import (
	"fmt"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Stream is the commodity axis of an econ tensor
type Stream int

const (
	Oil Stream = iota
	Gas
)

// NumStreams is the extent of the stream axis
const NumStreams = 2

func (s Stream) String() string {
	switch s {
	case Oil:
		return "oil"
	case Gas:
		return "gas"
	default:
		return fmt.Sprintf("stream(%d)", int(s))
	}
}

// Category is the interest axis of an econ tensor
type Category int

const (
	// Producing interests are paid from first production
	Producing Category = iota
	// NonParticipating interests are paid from the non-participating start
	// month, with the withheld volume credited in that month
	NonParticipating
)

// NumCategories is the extent of the category axis
const NumCategories = 2

func (c Category) String() string {
	switch c {
	case Producing:
		return "producing"
	case NonParticipating:
		return "non_participating"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Shift places a well's curve on the reporting calendar. PDP drops that many
// months from the front (the well is already producing); PUD delays first
// production by that many months. At most one is non-zero.
type Shift struct {
	PDP int `json:"pdp"`
	PUD int `json:"pud"`
}

// Validate checks the shift invariants
func (s Shift) Validate() error {
	if s.PDP < 0 || s.PUD < 0 {
		return apperror.ShapeMismatch("negative shift %+v", s)
	}
	if s.PDP != 0 && s.PUD != 0 {
		return apperror.ShapeMismatch("shift %+v has both PDP and PUD set", s)
	}
	return nil
}

// ShiftsFromOffsets converts signed month offsets: negative values are PDP
// months already produced, positive values are PUD months until first production
func ShiftsFromOffsets(offsets []int) []Shift {
	out := make([]Shift, len(offsets))
	for i, o := range offsets {
		switch {
		case o < 0:
			out[i].PDP = -o
		case o > 0:
			out[i].PUD = o
		}
	}
	return out
}

// Horizon is the curve length needed so every PDP window fits: months plus
// the largest PDP shift
func Horizon(months int, shifts []Shift) int {
	maxPDP := 0
	for _, s := range shifts {
		if s.PDP > maxPDP {
			maxPDP = s.PDP
		}
	}
	return months + maxPDP
}

// StreamShifts holds one shift set per stream
type StreamShifts [NumStreams][]Shift

// SameShifts places both streams with the same shifts
func SameShifts(shifts []Shift) StreamShifts {
	return StreamShifts{Oil: shifts, Gas: shifts}
}

// Horizon is the longest horizon over both streams
func (s StreamShifts) Horizon(months int) int {
	return max(Horizon(months, s[Oil]), Horizon(months, s[Gas]))
}

func splitShifts(shifts []Shift, months int) (pdp, pud []int, err error) {
	pdp = make([]int, len(shifts))
	pud = make([]int, len(shifts))
	for i, s := range shifts {
		if err := s.Validate(); err != nil {
			return nil, nil, apperror.Wrap(err, apperror.CodeInternal, "invalid shift").WithDetail("well", i)
		}
		if s.PUD > months {
			return nil, nil, apperror.ShapeMismatch("well %d PUD shift %d exceeds %d months", i, s.PUD, months)
		}
		pdp[i], pud[i] = s.PDP, s.PUD
	}
	return pdp, pud, nil
}
