// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     tensor
// Description: Flat row-major buffers for well x month data
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package tensor

import "fmt"

// Matrix is a dense row-major [Rows, Cols] buffer
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// NewMatrix allocates a zeroed matrix. Zero dimensions are allowed.
func NewMatrix(rows, cols int) Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("tensor: negative dimension %dx%d", rows, cols))
	}
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// FromRows builds a matrix from equal-length rows
func FromRows(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 {
		return Matrix{}, nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return Matrix{}, fmt.Errorf("row %d has %d columns, want %d", i, len(r), cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// At returns element (i, j)
func (m Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set assigns element (i, j)
func (m Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Row returns a view of row i; writes go to the matrix
func (m Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Rows2D copies the matrix out as a slice of rows
func (m Matrix) Rows2D() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}

// Clone returns a deep copy
func (m Matrix) Clone() Matrix {
	return Matrix{Rows: m.Rows, Cols: m.Cols, Data: append([]float64(nil), m.Data...)}
}

// SameShape reports whether both matrices have equal dimensions
func (m Matrix) SameShape(o Matrix) bool {
	return m.Rows == o.Rows && m.Cols == o.Cols
}

// Tile repeats row as every row of a [rows, len(row)] matrix
func Tile(row []float64, rows int) Matrix {
	m := NewMatrix(rows, len(row))
	for i := 0; i < rows; i++ {
		copy(m.Row(i), row)
	}
	return m
}

// Shape4 is the extent of a Tensor4 along [stream, category, well, month]
type Shape4 [4]int

// Size returns the number of elements
func (s Shape4) Size() int {
	return s[0] * s[1] * s[2] * s[3]
}

// Tensor4 is a dense row-major buffer indexed [stream, category, well, month]
type Tensor4 struct {
	Shape Shape4
	Data  []float64
}

// NewTensor4 allocates a zeroed tensor
func NewTensor4(streams, categories, wells, months int) Tensor4 {
	s := Shape4{streams, categories, wells, months}
	for _, d := range s {
		if d < 0 {
			panic(fmt.Sprintf("tensor: negative dimension in %v", s))
		}
	}
	return Tensor4{Shape: s, Data: make([]float64, s.Size())}
}

func (t Tensor4) offset(s, c, w, m int) int {
	return ((s*t.Shape[1]+c)*t.Shape[2]+w)*t.Shape[3] + m
}

// At returns element [s, c, w, m]
func (t Tensor4) At(s, c, w, m int) float64 {
	return t.Data[t.offset(s, c, w, m)]
}

// Set assigns element [s, c, w, m]
func (t Tensor4) Set(s, c, w, m int, v float64) {
	t.Data[t.offset(s, c, w, m)] = v
}

// Slab returns a [wells, months] view of one stream and category
func (t Tensor4) Slab(s, c int) Matrix {
	start := t.offset(s, c, 0, 0)
	n := t.Shape[2] * t.Shape[3]
	return Matrix{Rows: t.Shape[2], Cols: t.Shape[3], Data: t.Data[start : start+n : start+n]}
}

// SetSlab copies m into the [s, c] slab; m must be [wells, months]
func (t Tensor4) SetSlab(s, c int, m Matrix) error {
	if m.Rows != t.Shape[2] || m.Cols != t.Shape[3] {
		return fmt.Errorf("slab %dx%d does not fit tensor %v", m.Rows, m.Cols, t.Shape)
	}
	copy(t.Slab(s, c).Data, m.Data)
	return nil
}

// Clone returns a deep copy
func (t Tensor4) Clone() Tensor4 {
	return Tensor4{Shape: t.Shape, Data: append([]float64(nil), t.Data...)}
}
