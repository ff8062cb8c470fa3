package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_RowView(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Row(1)[2] = 7

	assert.Equal(t, 7.0, m.At(1, 2))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 7}, m.Data)
}

func TestMatrix_ZeroDims(t *testing.T) {
	m := NewMatrix(0, 5)
	assert.Equal(t, 0, len(m.Data))
	assert.Empty(t, m.Rows2D())
}

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.At(1, 0))

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestTileAndClone(t *testing.T) {
	m := Tile([]float64{1, 2, 3}, 2)
	c := m.Clone()
	c.Set(0, 0, 9)

	assert.Equal(t, [][]float64{{1, 2, 3}, {1, 2, 3}}, m.Rows2D())
	assert.Equal(t, 9.0, c.At(0, 0))
	assert.True(t, m.SameShape(c))
}

func TestTensor4_Slab(t *testing.T) {
	ts := NewTensor4(2, 2, 3, 4)
	ts.Set(1, 0, 2, 3, 5)

	slab := ts.Slab(1, 0)
	assert.Equal(t, 3, slab.Rows)
	assert.Equal(t, 4, slab.Cols)
	assert.Equal(t, 5.0, slab.At(2, 3))

	require.NoError(t, ts.SetSlab(0, 1, Tile([]float64{1, 1, 1, 1}, 3)))
	assert.Equal(t, 1.0, ts.At(0, 1, 2, 0))
	assert.Equal(t, 0.0, ts.At(0, 0, 2, 0))

	assert.Error(t, ts.SetSlab(0, 0, NewMatrix(2, 4)))
}
