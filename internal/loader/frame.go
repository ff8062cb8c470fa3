// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     loader
// Description: Reads, cleans and decodes the engine's input tables
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Frame is a table of string cells with named columns
type Frame struct {
	Table   Table
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewFrame builds a frame; column names are normalized to snake case
func NewFrame(table Table, columns []string, rows [][]string) *Frame {
	f := &Frame{Table: table, Rows: rows, index: make(map[string]int, len(columns))}
	for i, c := range columns {
		key := columnKey(c)
		f.Columns = append(f.Columns, key)
		f.index[key] = i
	}
	return f
}

// ReadCSV parses a CSV stream whose first record is the header
func ReadCSV(r io.Reader, table Table) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers of %s: %w", table, err)
	}

	var rows [][]string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeMalformedInput, "malformed CSV row").
				WithDetail("table", string(table)).WithDetail("line", line)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rows = append(rows, row)
	}
	return NewFrame(table, headers, rows), nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Has reports whether the frame has column col
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Get returns the cell at row i, column col; missing cells are ""
func (f *Frame) Get(i int, col string) string {
	j, ok := f.index[col]
	if !ok || j >= len(f.Rows[i]) {
		return ""
	}
	return f.Rows[i][j]
}

// Set assigns the cell at row i, column col, growing short rows
func (f *Frame) Set(i int, col string, v string) {
	j, ok := f.index[col]
	if !ok {
		return
	}
	for len(f.Rows[i]) <= j {
		f.Rows[i] = append(f.Rows[i], "")
	}
	f.Rows[i][j] = v
}

// apply rewrites every cell of cols with fn, reporting the first failure
func (f *Frame) apply(cols []string, fn func(string) (string, error)) error {
	for _, col := range cols {
		for i := range f.Rows {
			v, err := fn(f.Get(i, col))
			if err != nil {
				return apperror.Wrap(err, apperror.CodeMalformedInput, "clean "+string(f.Table)).
					WithDetail("column", col).WithDetail("row", i+1)
			}
			f.Set(i, col, v)
		}
	}
	return nil
}

func columnKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
