// Package window shifts and folds [wells, months] matrices along the month axis.
// Every operation returns a new matrix and leaves its input untouched.
package window

import (
	"github.com/petroval/wellecon/internal/tensor"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

// AccumulateFront folds columns [start, end) of every row into column end-1
// and zeroes the rest of that range. Requires 0 <= start < end <= cols.
func AccumulateFront(m tensor.Matrix, start, end int) (tensor.Matrix, error) {
	if start < 0 || start >= end || end > m.Cols {
		return tensor.Matrix{}, apperror.ShapeMismatch("accumulate range [%d, %d) invalid for %d columns", start, end, m.Cols)
	}
	out := m.Clone()
	for i := 0; i < out.Rows; i++ {
		row := out.Row(i)
		var sum float64
		for j := start; j < end; j++ {
			sum += row[j]
			row[j] = 0
		}
		row[end-1] = sum
	}
	return out, nil
}

// StridedWindow takes columns [offsets[i], offsets[i]+length) of row i
func StridedWindow(m tensor.Matrix, offsets []int, length int) (tensor.Matrix, error) {
	if len(offsets) != m.Rows {
		return tensor.Matrix{}, apperror.ShapeMismatch("%d offsets for %d rows", len(offsets), m.Rows)
	}
	if length < 0 {
		return tensor.Matrix{}, apperror.ShapeMismatch("negative window length %d", length)
	}
	for i, off := range offsets {
		if off < 0 || off+length > m.Cols {
			return tensor.Matrix{}, apperror.ShapeMismatch("row %d window [%d, %d) exceeds %d columns",
				i, off, off+length, m.Cols).WithDetail("row", i)
		}
	}
	out := tensor.NewMatrix(m.Rows, length)
	for i, off := range offsets {
		copy(out.Row(i), m.Row(i)[off:off+length])
	}
	return out, nil
}

// PadFrontZeros shifts row i right by zeros[i] columns and sizes the result
// to length columns, truncating or zero-filling the tail
func PadFrontZeros(m tensor.Matrix, zeros []int, length int) (tensor.Matrix, error) {
	if len(zeros) != m.Rows {
		return tensor.Matrix{}, apperror.ShapeMismatch("%d pad counts for %d rows", len(zeros), m.Rows)
	}
	if length < 0 {
		return tensor.Matrix{}, apperror.ShapeMismatch("negative output length %d", length)
	}
	for i, z := range zeros {
		if z < 0 || z > length {
			return tensor.Matrix{}, apperror.ShapeMismatch("row %d pad %d outside [0, %d]", i, z, length).WithDetail("row", i)
		}
	}
	out := tensor.NewMatrix(m.Rows, length)
	for i, z := range zeros {
		copy(out.Row(i)[z:], m.Row(i))
	}
	return out, nil
}

// Align applies the strided window then the front padding, the usual way a
// per-well shift is applied to a horizon-length matrix
func Align(m tensor.Matrix, drop, pad []int, length int) (tensor.Matrix, error) {
	w, err := StridedWindow(m, drop, length)
	if err != nil {
		return tensor.Matrix{}, err
	}
	return PadFrontZeros(w, pad, length)
}
