package loader

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Table identifies an input table
type Table string

const (
	TableSectionOnelines    Table = "section_onelines"
	TableSectionAssumptions Table = "section_assumptions"
	TableWellOnelines       Table = "well_onelines"
	TableMonthlies          Table = "monthlies"
	TableOilPrices          Table = "oil_prices"
	TableGasPrices          Table = "gas_prices"
	TableTypeCurves         Table = "type_curves"
)

// DateLayout is the canonical date format after cleaning
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, "2006-01-02 15:04:05", "01/02/2006", time.RFC3339}

// schema lists the columns of a table by kind
type schema struct {
	text       []string
	formations []string
	counts     []string
	floats     []string
	dates      []string
	apis       []string
}

func (s schema) columns() []string {
	var out []string
	for _, group := range [][]string{s.apis, s.text, s.formations, s.counts, s.floats, s.dates} {
		out = append(out, group...)
	}
	return out
}

// Cleaner validates and normalizes a frame in place
type Cleaner func(*Frame) error

// Registry maps each table to its cleaner. It is built once and read only.
type Registry struct {
	schemas  map[Table]schema
	cleaners map[Table]Cleaner
}

// NewRegistry builds the registry of every known table
func NewRegistry() *Registry {
	r := &Registry{
		schemas: map[Table]schema{
			TableSectionOnelines: {
				text: []string{"trsm_heh"},
				counts: []string{
					"no_wells_permitted", "no_wells_spud", "no_wells_completed", "no_wells_completed_2",
					"inc_den_order_nwells", "inc_den_app_nwells",
				},
				dates: []string{
					"date_first_permit", "date_last_permit", "date_first_spud", "date_last_spud",
					"date_last_completion", "date_last_completion_2", "date_inc_den_app", "date_inc_den_order",
				},
			},
			TableSectionAssumptions: {
				text:       []string{"trsm_heh", "portfolio_area", "formation_1_tc", "formation_2_tc"},
				formations: []string{"formation_1", "formation_2"},
				counts:     []string{"nwells_1", "tolerance_1", "nwells_2", "tolerance_2"},
				floats:     []string{"section_acres"},
			},
			TableWellOnelines: {
				apis:       []string{"api"},
				text:       []string{"trsm_heh", "operator_name", "well_name"},
				formations: []string{"formation"},
				counts:     []string{"x", "y", "total_footage"},
				floats:     []string{"ip_oil_reported", "ip_oil_max30", "ip_gas_reported", "ip_gas_max30"},
			},
			TableMonthlies: {
				apis:   []string{"api"},
				dates:  []string{"date"},
				floats: []string{"oil", "gas"},
			},
			TableOilPrices: {
				dates:  []string{"date"},
				floats: []string{"price"},
			},
			TableGasPrices: {
				dates:  []string{"date"},
				floats: []string{"price"},
			},
			TableTypeCurves: {
				text:   []string{"portfolio_area", "type_curve"},
				floats: []string{"ip_oil", "ip_gas", "di_oil", "di_gas", "b_oil", "b_gas", "dmin_oil", "dmin_gas"},
			},
		},
		cleaners: make(map[Table]Cleaner),
	}
	for table, s := range r.schemas {
		r.cleaners[table] = r.schemaCleaner(table, s)
	}
	return r
}

// Tables lists every registered table in name order
func (r *Registry) Tables() []Table {
	out := make([]Table, 0, len(r.cleaners))
	for t := range r.cleaners {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Columns lists the required columns of table
func (r *Registry) Columns(table Table) []string {
	return r.schemas[table].columns()
}

// Clean runs the cleaner registered for the frame's table
func (r *Registry) Clean(f *Frame) error {
	clean, ok := r.cleaners[f.Table]
	if !ok {
		return apperror.Newf(apperror.CodeMalformedInput, "unknown table %q", f.Table)
	}
	return clean(f)
}

func (r *Registry) schemaCleaner(table Table, s schema) Cleaner {
	return func(f *Frame) error {
		if err := checkColumns(f, s.columns()); err != nil {
			return err
		}
		steps := []struct {
			cols []string
			fn   func(string) (string, error)
		}{
			{s.apis, cleanAPI},
			{s.formations, cleanFormation},
			{s.counts, cleanCount},
			{s.floats, cleanFloat},
			{s.dates, cleanDate},
		}
		for _, step := range steps {
			if err := f.apply(step.cols, step.fn); err != nil {
				return err
			}
		}
		return nil
	}
}

// checkColumns reports missing required columns
func checkColumns(f *Frame, required []string) error {
	var missing []string
	for _, c := range required {
		if !f.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return apperror.Newf(apperror.CodeMalformedInput, "column mismatch: %s missing %s",
			f.Table, strings.Join(missing, ", "))
	}
	return nil
}

// cleanAPI requires a 14 digit well API number
func cleanAPI(v string) (string, error) {
	v = strings.ReplaceAll(v, "-", "")
	if len(v) != 14 {
		return "", apperror.Newf(apperror.CodeMalformedInput, "api %q is not 14 digits", v)
	}
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return "", apperror.Newf(apperror.CodeMalformedInput, "api %q is not numeric", v)
	}
	return v, nil
}

// cleanFormation upper-cases formation text; NONE means no formation
func cleanFormation(v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "NONE" || v == "NAN" {
		return "", nil
	}
	return v, nil
}

// cleanCount parses a non-negative well count; NONE and blanks are 0
func cleanCount(v string) (string, error) {
	switch strings.ToUpper(v) {
	case "", "NONE", "NAN", "-":
		return "0", nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return "", apperror.Newf(apperror.CodeMalformedInput, "count %q is not a non-negative number", v)
	}
	return strconv.Itoa(int(f)), nil
}

// cleanFloat parses a number; blanks are 0
func cleanFloat(v string) (string, error) {
	switch strings.ToUpper(v) {
	case "", "NONE", "NAN", "-":
		return "0", nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return "", apperror.Newf(apperror.CodeMalformedInput, "value %q is not a number", v)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// cleanDate normalizes a date to YYYY-MM-DD; blanks stay blank
func cleanDate(v string) (string, error) {
	switch strings.ToUpper(v) {
	case "", "NONE", "NAT", "NAN":
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", apperror.Newf(apperror.CodeMalformedInput, "date %q has an unknown format", v)
}
