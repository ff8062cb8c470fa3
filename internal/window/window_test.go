package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petroval/wellecon/internal/tensor"
	"github.com/petroval/wellecon/pkg/core/apperror"
)

func mustRows(t *testing.T, rows [][]float64) tensor.Matrix {
	t.Helper()
	m, err := tensor.FromRows(rows)
	require.NoError(t, err)
	return m
}

func TestAccumulateFront(t *testing.T) {
	in := mustRows(t, [][]float64{
		{1, 2, 3, 4, 5},
		{10, 0, 5, 1, 1},
	})

	out, err := AccumulateFront(in, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{0, 0, 6, 4, 5},
		{0, 0, 15, 1, 1},
	}, out.Rows2D())

	// input untouched
	assert.Equal(t, 1.0, in.At(0, 0))

	// row sums conserved
	for i := 0; i < in.Rows; i++ {
		var a, b float64
		for j := 0; j < in.Cols; j++ {
			a += in.At(i, j)
			b += out.At(i, j)
		}
		assert.Equal(t, a, b)
	}
}

func TestAccumulateFront_Invalid(t *testing.T) {
	in := mustRows(t, [][]float64{{1, 2, 3}})
	for _, r := range [][2]int{{-1, 2}, {2, 2}, {0, 4}, {3, 1}} {
		_, err := AccumulateFront(in, r[0], r[1])
		assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch), "range %v", r)
	}
}

func TestStridedWindow(t *testing.T) {
	in := mustRows(t, [][]float64{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
	})

	out, err := StridedWindow(in, []int{0, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {8, 9, 10}}, out.Rows2D())

	_, err = StridedWindow(in, []int{0, 3}, 3)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))

	_, err = StridedWindow(in, []int{0}, 3)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestPadFrontZeros(t *testing.T) {
	in := mustRows(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})

	out, err := PadFrontZeros(in, []int{0, 1, 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 2, 3, 0},
		{0, 4, 5, 6},
		{0, 0, 0, 7},
	}, out.Rows2D())

	_, err = PadFrontZeros(in, []int{0, 5, 0}, 4)
	assert.True(t, apperror.Is(err, apperror.CodeShapeMismatch))
}

func TestPadThenWindowRoundTrip(t *testing.T) {
	in := mustRows(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	})
	shift := []int{2, 1}

	padded, err := PadFrontZeros(in, shift, 6)
	require.NoError(t, err)
	back, err := StridedWindow(padded, shift, 4)
	require.NoError(t, err)

	assert.Equal(t, in.Rows2D(), back.Rows2D())
}

func TestAlign(t *testing.T) {
	in := mustRows(t, [][]float64{
		{1, 2, 3, 4, 5},
		{1, 2, 3, 4, 5},
	})

	out, err := Align(in, []int{2, 0}, []int{0, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 4, 5}, {0, 1, 2}}, out.Rows2D())
}
