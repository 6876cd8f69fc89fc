package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSolidMaskCount(t *testing.T) {
	m := SolidMask(2, 3, 4)
	if m.Count() != 24 {
		t.Errorf("expected 24 voxels, got %d", m.Count())
	}
	if m.BottomCount() != 6 {
		t.Errorf("expected bottom layer of 6, got %d", m.BottomCount())
	}
	if m.Empty() {
		t.Error("solid mask should not be empty")
	}
}

func TestZeroAxisMaskIsEmpty(t *testing.T) {
	m := SolidMask(3, 0, 2)
	if !m.Empty() {
		t.Error("mask with a zero axis should be empty")
	}
}

func TestMaskFromNestedRejectsRagged(t *testing.T) {
	_, err := MaskFromNested([][][]int{
		{{1, 1}, {1}},
	})
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}

	_, err = MaskFromNested([][][]int{
		{{1}, {1}},
		{{1}},
	})
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape for short plane, got %v", err)
	}
}

func TestMaskJSONRoundTrip(t *testing.T) {
	src := LShape()
	data, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got VoxelMask
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Key() != src.Key() {
		t.Errorf("round trip changed mask: %s vs %s", got.Key(), src.Key())
	}
}

func TestTrimCropsToOccupiedExtent(t *testing.T) {
	m := NewVoxelMask(4, 4, 4)
	m.Set(1, 2, 1, true)
	m.Set(2, 2, 1, true)

	trimmed := m.Trim()
	if trimmed.Dims() != [3]int{2, 1, 1} {
		t.Errorf("expected dims [2 1 1], got %v", trimmed.Dims())
	}
	if trimmed.Count() != 2 {
		t.Errorf("expected 2 voxels after trim, got %d", trimmed.Count())
	}

	empty := NewVoxelMask(3, 3, 3).Trim()
	if empty.Dims() != [3]int{0, 0, 0} {
		t.Errorf("expected empty trim to 0x0x0, got %v", empty.Dims())
	}
}

func TestRotate90SwapsPlaneDims(t *testing.T) {
	m := SolidMask(2, 3, 5)
	tests := []struct {
		axis Axis
		want [3]int
	}{
		{AxisX, [3]int{2, 5, 3}},
		{AxisY, [3]int{5, 3, 2}},
		{AxisZ, [3]int{3, 2, 5}},
	}
	for _, tt := range tests {
		r := m.Rotate90(tt.axis, 1)
		if r.Dims() != tt.want {
			t.Errorf("axis %s: expected dims %v, got %v", tt.axis, tt.want, r.Dims())
		}
		if r.Count() != m.Count() {
			t.Errorf("axis %s: rotation changed voxel count", tt.axis)
		}
	}
}

func TestRotate90Formula(t *testing.T) {
	// A single voxel at x=0, y=0 in a 2x3 plane moves to x = Ny-1-y = 2
	// after one turn about z (r[p][q] = m[q][Nb-1-p]).
	m := NewVoxelMask(2, 3, 1)
	m.Set(0, 0, 0, true)
	r := m.Rotate90(AxisZ, 1)
	if r.Dims() != [3]int{3, 2, 1} {
		t.Fatalf("expected dims [3 2 1], got %v", r.Dims())
	}
	if !r.At(2, 0, 0) {
		t.Errorf("expected voxel at (2,0,0) after rotation, got key %s", r.Key())
	}
}

func TestRotate90FullTurnIsIdentity(t *testing.T) {
	m := LShape()
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		if got := m.Rotate90(axis, 4); got.Key() != m.Key() {
			t.Errorf("axis %s: four quarter turns should be identity", axis)
		}
		if got := m.Rotate90(axis, -1); got.Key() != m.Rotate90(axis, 3).Key() {
			t.Errorf("axis %s: -1 turn should equal 3 turns", axis)
		}
	}
}

func TestLShapeSample(t *testing.T) {
	m := LShape()
	if m.Count() != 4 {
		t.Errorf("expected 4 voxels, got %d", m.Count())
	}
	if m.Dims() != [3]int{2, 2, 2} {
		t.Errorf("expected 2x2x2 extent, got %v", m.Dims())
	}
}

func TestBoundsOfEmptyMask(t *testing.T) {
	_, _, ok := NewVoxelMask(2, 2, 2).Bounds()
	if ok {
		t.Error("expected no bounds for an empty mask")
	}
}
