// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     timing
// Description: Projects current and future well counts and dates per section
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package timing

import "time"

// Target is the planned development of one formation in a section
type Target struct {
	Wells     int `json:"wells"`
	Tolerance int `json:"tolerance"`
}

// Section holds the regulatory filing counts and dates of one section.
// Spud reports confirm drilling, permits precede spud, orders and
// applications precede permits.
type Section struct {
	ID        string `json:"id"`
	Primary   Target `json:"primary"`
	Secondary Target `json:"secondary"`

	SpudCount int  `json:"spud_count"`
	SpudFirst Date `json:"spud_first"`
	SpudLast  Date `json:"spud_last"`

	PermitCount int  `json:"permit_count"`
	PermitFirst Date `json:"permit_first"`
	PermitLast  Date `json:"permit_last"`

	OrderCount int  `json:"order_count"`
	OrderDate  Date `json:"order_date"`

	ApplicationCount int  `json:"application_count"`
	ApplicationDate  Date `json:"application_date"`

	CompletedPrimary       int  `json:"completed_primary"`
	CompletedPrimaryLast   Date `json:"completed_primary_last"`
	CompletedSecondary     int  `json:"completed_secondary"`
	CompletedSecondaryLast Date `json:"completed_secondary_last"`
}

// Params are the timing offsets in days
type Params struct {
	Tolerance         int
	SpudToRigRelease  int
	FracToSales       int
	PermitToSpud      int
	OrderToSpud       int
	ApplicationToSpud int
	NotToGoPrimary    int
	NotToGoSecondary  int
}

// DefaultParams returns the standard offsets
func DefaultParams() Params {
	return Params{
		Tolerance:         45,
		SpudToRigRelease:  20,
		FracToSales:       45,
		PermitToSpud:      180,
		OrderToSpud:       365,
		ApplicationToSpud: 545,
		NotToGoPrimary:    365 * 3,
		NotToGoSecondary:  365 * 6,
	}
}

// Bucket is the projection for one formation
type Bucket struct {
	Formation    int  `json:"formation"`
	CurrentWells int  `json:"current_wells"`
	CurrentSpud  Date `json:"current_spud"`
	CurrentSales Date `json:"current_sales"`
	FutureWells  int  `json:"future_wells"`
	FutureSpud   Date `json:"future_spud"`
	FutureSales  Date `json:"future_sales"`
}

// Record is the projection for one section
type Record struct {
	Section   string `json:"section"`
	Primary   Bucket `json:"primary"`
	Secondary Bucket `json:"secondary"`
}

// Engine projects sections against a fixed valuation day
type Engine struct {
	params Params
	today  Date
}

// NewEngine creates an engine; future wells are scheduled from today
func NewEngine(params Params, today time.Time) *Engine {
	return &Engine{params: params, today: Some(today)}
}

// Compute projects every section in order
func (e *Engine) Compute(sections []Section) []Record {
	out := make([]Record, len(sections))
	for i, s := range sections {
		out[i] = e.Section(s)
	}
	return out
}

// Section projects one section
func (e *Engine) Section(s Section) Record {
	p := e.params
	primary := Bucket{Formation: 1}
	secondary := Bucket{Formation: 2}

	primary.CurrentWells = e.currentWells(s)
	primary.CurrentSpud = e.currentSpud(s)
	if primary.CurrentWells > 0 {
		primary.CurrentSales = e.sales(primary.CurrentSpud, primary.CurrentWells)
	}

	if primary.CurrentWells+s.CompletedPrimary <= s.Primary.Tolerance {
		primary.FutureWells = max(s.Primary.Wells-primary.CurrentWells, 0)
	}
	if primary.FutureWells > 0 {
		primary.FutureSpud = e.today.AddDays(p.NotToGoPrimary)
		primary.FutureSales = e.sales(primary.FutureSpud, primary.FutureWells)
	}

	if s.CompletedSecondary < s.Secondary.Tolerance {
		secondary.FutureWells = max(s.Secondary.Wells-s.CompletedSecondary, 0)
	}
	if secondary.FutureWells > 0 {
		secondary.FutureSpud = e.today.AddDays(p.NotToGoSecondary)
		secondary.FutureSales = e.sales(secondary.FutureSpud, secondary.FutureWells)
	}

	return Record{Section: s.ID, Primary: primary, Secondary: secondary}
}

// currentWells picks the most advanced filing count. A later stage wins only
// when its last filing is more than the tolerance after the earlier stage's.
func (e *Engine) currentWells(s Section) int {
	tol := e.params.Tolerance
	switch {
	case s.SpudCount > 0:
		if s.PermitCount > 0 && !s.SpudLast.After(s.PermitLast.AddDays(tol)) {
			return s.PermitCount
		}
		return s.SpudCount
	case s.PermitCount > 0:
		if s.OrderCount > 0 && !s.PermitLast.After(s.OrderDate.AddDays(tol)) {
			return s.OrderCount
		}
		return s.PermitCount
	case s.OrderCount > 0:
		return s.OrderCount
	case s.ApplicationCount > 0:
		return s.ApplicationCount
	default:
		return 0
	}
}

func (e *Engine) currentSpud(s Section) Date {
	p := e.params
	switch {
	case s.SpudCount > 0 && s.SpudFirst.IsSome():
		return s.SpudFirst
	case s.PermitCount > 0 && s.PermitFirst.IsSome():
		return s.PermitFirst.AddDays(p.PermitToSpud)
	case s.OrderCount > 0 && s.OrderDate.IsSome():
		return s.OrderDate.AddDays(p.OrderToSpud)
	case s.ApplicationCount > 0 && s.ApplicationDate.IsSome():
		return s.ApplicationDate.AddDays(p.ApplicationToSpud)
	default:
		return None()
	}
}

func (e *Engine) sales(spud Date, wells int) Date {
	return spud.AddDays(wells*e.params.SpudToRigRelease + e.params.FracToSales)
}
