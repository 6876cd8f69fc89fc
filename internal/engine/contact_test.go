package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CrateFill/internal/model"
)

func TestContact_FloorOnly(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	assert.Equal(t, 4, Contact(g, [3]int{3, 3, 0}, model.SolidMask(2, 2, 1)))
}

func TestContact_SideFace(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	block := model.SolidMask(2, 2, 2)
	require.NoError(t, g.Commit([3]int{0, 0, 0}, block))

	// 4 floor cells plus the 2x2 face against the block on -x.
	assert.Equal(t, 8, Contact(g, [3]int{2, 0, 0}, block))
	// Same on -y.
	assert.Equal(t, 8, Contact(g, [3]int{0, 2, 0}, block))
	// Diagonal neighbour shares no face.
	assert.Equal(t, 4, Contact(g, [3]int{2, 2, 0}, block))
}

func TestContact_PositiveSideFaces(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	block := model.SolidMask(2, 2, 2)
	require.NoError(t, g.Commit([3]int{4, 4, 0}, block))

	assert.Equal(t, 8, Contact(g, [3]int{2, 4, 0}, block), "+x face")
	assert.Equal(t, 8, Contact(g, [3]int{4, 2, 0}, block), "+y face")
}

func TestContact_PartialFaceOverlap(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.SolidMask(2, 1, 2)))

	// Only one of the two depth rows of the -x face touches the block.
	assert.Equal(t, 4+2, Contact(g, [3]int{2, 0, 0}, model.SolidMask(2, 2, 2)))
}

func TestContact_StackedBottom(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.SolidMask(2, 2, 2)))

	assert.Equal(t, 4, Contact(g, [3]int{0, 0, 2}, model.SolidMask(2, 2, 1)))
	assert.Equal(t, 2, Contact(g, [3]int{1, 0, 2}, model.SolidMask(2, 2, 1)))
}

func TestContact_TopFaceIgnored(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	require.NoError(t, g.Commit([3]int{0, 0, 1}, model.SolidMask(2, 2, 1)))
	assert.Equal(t, 4, Contact(g, [3]int{0, 0, 0}, model.SolidMask(2, 2, 1)))
}

func TestContact_ShapeFaceUsesMaskVoxels(t *testing.T) {
	g := NewGridCells([3]int{10, 10, 10})
	require.NoError(t, g.Commit([3]int{0, 0, 0}, model.SolidMask(1, 2, 2)))

	// L shape at x=1: local x=0 face holds (0,0,0) and (0,1,0) only.
	assert.Equal(t, 3+2, Contact(g, [3]int{1, 0, 0}, model.LShape()))
}
