package loader

import (
	"sort"
	"strconv"
	"time"

	"github.com/petroval/wellecon/internal/dca"
	"github.com/petroval/wellecon/internal/formation"
	"github.com/petroval/wellecon/internal/ipgrid"
	"github.com/petroval/wellecon/internal/strip"
	"github.com/petroval/wellecon/internal/timing"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Decoders read cleaned frames only; cells are already normalized

func (f *Frame) intAt(i int, col string) int {
	n, _ := strconv.Atoi(f.Get(i, col))
	return n
}

func (f *Frame) floatAt(i int, col string) float64 {
	v, _ := strconv.ParseFloat(f.Get(i, col), 64)
	return v
}

func (f *Frame) dateAt(i int, col string) timing.Date {
	d, _ := timing.ParseDate(f.Get(i, col))
	return d
}

func (f *Frame) timeAt(i int, col string) (time.Time, error) {
	t, err := time.Parse(DateLayout, f.Get(i, col))
	if err != nil {
		return time.Time{}, apperror.Newf(apperror.CodeMalformedInput, "%s row %d has no %s", f.Table, i+1, col)
	}
	return t, nil
}

func expect(f *Frame, table Table) error {
	if f == nil || f.Table != table {
		return apperror.Newf(apperror.CodeMalformedInput, "expected a %s frame", table)
	}
	return nil
}

// Assumption is a section's development plan for two target formations
type Assumption struct {
	Section       string
	PortfolioArea string
	Formation1    string
	Formation2    string
	TypeCurve1    string
	TypeCurve2    string
	Primary       timing.Target
	Secondary     timing.Target
	Acres         float64
}

// Assumptions indexes section assumptions by section key
func Assumptions(f *Frame) (map[string]Assumption, error) {
	if err := expect(f, TableSectionAssumptions); err != nil {
		return nil, err
	}
	out := make(map[string]Assumption, f.Len())
	for i := range f.Rows {
		a := Assumption{
			Section:       f.Get(i, "trsm_heh"),
			PortfolioArea: f.Get(i, "portfolio_area"),
			Formation1:    f.Get(i, "formation_1"),
			Formation2:    f.Get(i, "formation_2"),
			TypeCurve1:    f.Get(i, "formation_1_tc"),
			TypeCurve2:    f.Get(i, "formation_2_tc"),
			Primary:       timing.Target{Wells: f.intAt(i, "nwells_1"), Tolerance: f.intAt(i, "tolerance_1")},
			Secondary:     timing.Target{Wells: f.intAt(i, "nwells_2"), Tolerance: f.intAt(i, "tolerance_2")},
			Acres:         f.floatAt(i, "section_acres"),
		}
		out[a.Section] = a
	}
	return out, nil
}

// Sections joins section onelines with their assumptions. Sections without
// assumptions get zero targets.
func Sections(onelines *Frame, assumptions map[string]Assumption) ([]timing.Section, error) {
	if err := expect(onelines, TableSectionOnelines); err != nil {
		return nil, err
	}
	out := make([]timing.Section, onelines.Len())
	for i := range onelines.Rows {
		id := onelines.Get(i, "trsm_heh")
		a := assumptions[id]
		out[i] = timing.Section{
			ID:                     id,
			Primary:                a.Primary,
			Secondary:              a.Secondary,
			SpudCount:              onelines.intAt(i, "no_wells_spud"),
			SpudFirst:              onelines.dateAt(i, "date_first_spud"),
			SpudLast:               onelines.dateAt(i, "date_last_spud"),
			PermitCount:            onelines.intAt(i, "no_wells_permitted"),
			PermitFirst:            onelines.dateAt(i, "date_first_permit"),
			PermitLast:             onelines.dateAt(i, "date_last_permit"),
			OrderCount:             onelines.intAt(i, "inc_den_order_nwells"),
			OrderDate:              onelines.dateAt(i, "date_inc_den_order"),
			ApplicationCount:       onelines.intAt(i, "inc_den_app_nwells"),
			ApplicationDate:        onelines.dateAt(i, "date_inc_den_app"),
			CompletedPrimary:       onelines.intAt(i, "no_wells_completed"),
			CompletedPrimaryLast:   onelines.dateAt(i, "date_last_completion"),
			CompletedSecondary:     onelines.intAt(i, "no_wells_completed_2"),
			CompletedSecondaryLast: onelines.dateAt(i, "date_last_completion_2"),
		}
	}
	return out, nil
}

// FormationWells reads wells with their section's target formations
func FormationWells(wells *Frame, assumptions map[string]Assumption) ([]formation.Well, error) {
	if err := expect(wells, TableWellOnelines); err != nil {
		return nil, err
	}
	out := make([]formation.Well, wells.Len())
	for i := range wells.Rows {
		a := assumptions[wells.Get(i, "trsm_heh")]
		out[i] = formation.Well{
			API:         wells.Get(i, "api"),
			Name:        wells.Get(i, "well_name"),
			Operator:    wells.Get(i, "operator_name"),
			Formation:   wells.Get(i, "formation"),
			Assumption1: a.Formation1,
			Assumption2: a.Formation2,
		}
	}
	return out, nil
}

// WellIPs places labelled wells on the section grid. Formation codes index
// the returned names; wells without a label are skipped.
func WellIPs(wells *Frame, labels []string) ([]ipgrid.WellIP, []string, error) {
	if err := expect(wells, TableWellOnelines); err != nil {
		return nil, nil, err
	}
	if len(labels) != wells.Len() {
		return nil, nil, apperror.ShapeMismatch("%d labels for %d wells", len(labels), wells.Len())
	}

	var names []string
	seen := make(map[string]bool)
	for _, l := range labels {
		if l != "" && !seen[l] {
			seen[l] = true
			names = append(names, l)
		}
	}
	sort.Strings(names)
	code := make(map[string]int, len(names))
	for i, n := range names {
		code[n] = i
	}

	var out []ipgrid.WellIP
	for i, l := range labels {
		if l == "" {
			continue
		}
		out = append(out, ipgrid.WellIP{
			X:           wells.intAt(i, "x"),
			Y:           wells.intAt(i, "y"),
			Formation:   code[l],
			OilReported: wells.floatAt(i, "ip_oil_reported"),
			OilMax30:    wells.floatAt(i, "ip_oil_max30"),
			GasReported: wells.floatAt(i, "ip_gas_reported"),
			GasMax30:    wells.floatAt(i, "ip_gas_max30"),
		})
	}
	return out, names, nil
}

// History is one well's production on consecutive months. Months missing
// from the table are filled with zero production.
type History struct {
	API   string
	Dates []time.Time
	Oil   []float64
	Gas   []float64
}

// Histories groups monthly rows by well in order of first appearance. Two
// rows in the same month for one well are MalformedInput.
func Histories(monthlies *Frame) ([]History, error) {
	if err := expect(monthlies, TableMonthlies); err != nil {
		return nil, err
	}
	type point struct {
		date     time.Time
		oil, gas float64
	}
	var order []string
	byAPI := make(map[string][]point)
	for i := range monthlies.Rows {
		api := monthlies.Get(i, "api")
		d, err := monthlies.timeAt(i, "date")
		if err != nil {
			return nil, err
		}
		if _, ok := byAPI[api]; !ok {
			order = append(order, api)
		}
		byAPI[api] = append(byAPI[api], point{strip.MonthStart(d), monthlies.floatAt(i, "oil"), monthlies.floatAt(i, "gas")})
	}

	out := make([]History, len(order))
	for k, api := range order {
		pts := byAPI[api]
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].date.Before(pts[j].date) })
		h := History{API: api}
		for i, p := range pts {
			if i > 0 {
				prev := pts[i-1].date
				if p.date.Equal(prev) {
					return nil, apperror.Newf(apperror.CodeMalformedInput,
						"well %s has two rows for %s", api, p.date.Format("2006-01")).
						WithDetail("table", string(TableMonthlies))
				}
				for gap := prev.AddDate(0, 1, 0); gap.Before(p.date); gap = gap.AddDate(0, 1, 0) {
					h.Dates = append(h.Dates, gap)
					h.Oil = append(h.Oil, 0)
					h.Gas = append(h.Gas, 0)
				}
			}
			h.Dates = append(h.Dates, p.date)
			h.Oil = append(h.Oil, p.oil)
			h.Gas = append(h.Gas, p.gas)
		}
		out[k] = h
	}
	return out, nil
}

// PriceStrip reads an oil or gas price table into a monthly strip
func PriceStrip(f *Frame) (strip.Strip, error) {
	if f == nil || (f.Table != TableOilPrices && f.Table != TableGasPrices) {
		return strip.Strip{}, apperror.New(apperror.CodeMalformedInput, "expected a price frame")
	}
	type point struct {
		date  time.Time
		price float64
	}
	pts := make([]point, f.Len())
	for i := range f.Rows {
		d, err := f.timeAt(i, "date")
		if err != nil {
			return strip.Strip{}, err
		}
		pts[i] = point{strip.MonthStart(d), f.floatAt(i, "price")}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].date.Before(pts[j].date) })

	s := strip.Strip{}
	for _, p := range pts {
		s.Dates = append(s.Dates, p.date)
		s.Values = append(s.Values, p.price)
	}
	if err := s.Validate(); err != nil {
		return strip.Strip{}, apperror.Wrap(err, apperror.CodeMalformedInput, string(f.Table))
	}
	return s, nil
}

// TypeCurve is a named pair of decline curves for undeveloped wells
type TypeCurve struct {
	PortfolioArea string
	Name          string
	Oil           dca.Parameters
	Gas           dca.Parameters
}

// Key identifies a type curve within its portfolio area
func (tc TypeCurve) Key() string {
	return tc.PortfolioArea + "/" + tc.Name
}

// TypeCurves indexes type curves by Key
func TypeCurves(f *Frame) (map[string]TypeCurve, error) {
	if err := expect(f, TableTypeCurves); err != nil {
		return nil, err
	}
	out := make(map[string]TypeCurve, f.Len())
	for i := range f.Rows {
		tc := TypeCurve{
			PortfolioArea: f.Get(i, "portfolio_area"),
			Name:          f.Get(i, "type_curve"),
			Oil: dca.Parameters{
				InitialProduction: f.floatAt(i, "ip_oil"),
				HypDecline:        f.floatAt(i, "di_oil"),
				ExpDecline:        f.floatAt(i, "dmin_oil"),
				B:                 f.floatAt(i, "b_oil"),
			},
			Gas: dca.Parameters{
				InitialProduction: f.floatAt(i, "ip_gas"),
				HypDecline:        f.floatAt(i, "di_gas"),
				ExpDecline:        f.floatAt(i, "dmin_gas"),
				B:                 f.floatAt(i, "b_gas"),
			},
		}
		for _, p := range []dca.Parameters{tc.Oil, tc.Gas} {
			if err := p.Validate(); err != nil {
				return nil, apperror.Wrap(err, apperror.CodeInternal, "type curve "+tc.Key()).WithDetail("row", i+1)
			}
		}
		out[tc.Key()] = tc
	}
	return out, nil
}
