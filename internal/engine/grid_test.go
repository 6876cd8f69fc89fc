package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CrateFill/internal/model"
)

func TestNewGrid_TruncatesToCells(t *testing.T) {
	g := NewGrid(model.NewContainer(103, 49, 100, 10), 5)
	assert.Equal(t, [3]int{20, 20, 9}, g.Dims())
}

func TestGrid_FitsBounds(t *testing.T) {
	g := NewGridCells([3]int{20, 20, 20})
	cube := model.SolidMask(10, 10, 10)

	assert.True(t, g.Fits([3]int{0, 0, 0}, cube))
	assert.True(t, g.Fits([3]int{10, 10, 10}, cube))
	assert.False(t, g.Fits([3]int{11, 0, 0}, cube), "overflow on x")
	assert.False(t, g.Fits([3]int{0, 0, 11}, cube), "overflow on z")
	assert.False(t, g.Fits([3]int{-1, 0, 0}, cube), "negative position")
}

func TestGrid_CommitAndOverlap(t *testing.T) {
	g := NewGridCells([3]int{20, 20, 20})
	cube := model.SolidMask(10, 10, 10)

	require.NoError(t, g.Commit([3]int{0, 0, 0}, cube))
	assert.Equal(t, 1000, g.OccupiedCount())
	assert.False(t, g.Fits([3]int{5, 5, 5}, cube))
	assert.True(t, g.Fits([3]int{10, 0, 0}, cube), "touching is not overlapping")

	err := g.Commit([3]int{5, 0, 0}, cube)
	require.ErrorIs(t, err, ErrOverlap)
	assert.Equal(t, 1000, g.OccupiedCount(), "failed commit must not change the grid")
	assert.Equal(t, 1, g.At(0, 0, 0))
}

func TestGrid_CommitOutOfRange(t *testing.T) {
	g := NewGridCells([3]int{4, 4, 4})
	err := g.Commit([3]int{2, 0, 0}, model.SolidMask(3, 1, 1))
	require.Error(t, err)
	assert.Equal(t, 0, g.OccupiedCount())
}

func TestGrid_FitsIgnoresEmptyMaskCells(t *testing.T) {
	g := NewGridCells([3]int{2, 2, 2})
	require.NoError(t, g.Commit([3]int{1, 1, 0}, model.SolidMask(1, 1, 1)))

	// The L shape leaves (1,1,0) empty so it fits around the occupied cell.
	assert.True(t, g.Fits([3]int{0, 0, 0}, model.LShape()))
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.LShape()))
	assert.Equal(t, 5, g.OccupiedCount())
}

func TestGrid_SupportThreshold(t *testing.T) {
	g := NewGridCells([3]int{20, 20, 20})
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.SolidMask(10, 10, 10)))
	slab := model.SolidMask(10, 10, 1)

	assert.True(t, g.Supported([3]int{15, 15, 0}, slab, 0.3), "floor is always supported")
	assert.Equal(t, 1.0, g.SupportFraction([3]int{0, 0, 10}, slab))

	// Three of ten columns rest on the block: exactly 30%.
	assert.InDelta(t, 0.3, g.SupportFraction([3]int{7, 0, 10}, slab), 1e-12)
	assert.True(t, g.Supported([3]int{7, 0, 10}, slab, 0.3))
	assert.False(t, g.Supported([3]int{8, 0, 10}, slab, 0.3))
	assert.False(t, g.Supported([3]int{10, 0, 10}, slab, 0.3), "nothing below")
}

func TestGrid_EmptyBaseIsUnsupported(t *testing.T) {
	g := NewGridCells([3]int{4, 4, 4})
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.SolidMask(4, 4, 1)))

	m := model.NewVoxelMask(1, 1, 2)
	m.Set(0, 0, 1, true)
	assert.Equal(t, 0.0, g.SupportFraction([3]int{0, 0, 1}, m))
	assert.False(t, g.Supported([3]int{0, 0, 1}, m, 0.3))
	assert.True(t, g.Supported([3]int{0, 0, 0}, m, 0.3))
}

func TestGrid_LayerFillAndReset(t *testing.T) {
	g := NewGridCells([3]int{20, 20, 20})
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.SolidMask(10, 10, 10)))

	fill := g.LayerFill()
	require.Len(t, fill, 20)
	assert.InDelta(t, 0.25, fill[0], 1e-12)
	assert.InDelta(t, 0.25, fill[9], 1e-12)
	assert.Equal(t, 0.0, fill[10])
	assert.Equal(t, 0, g.LayerCount(25))

	g.Reset()
	assert.Equal(t, 0, g.OccupiedCount())
}
