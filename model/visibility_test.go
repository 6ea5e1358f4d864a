package model

import "testing"

func TestLineOfSightRange(t *testing.T) {
	los := LineOfSight{Grid: NewGrid(10, 10)}

	if !los.IsVisible(5, 0, 0, Standing, 3, 4, Standing) {
		t.Error("target at exactly max range should be visible")
	}
	if los.IsVisible(4.9, 0, 0, Standing, 3, 4, Standing) {
		t.Error("target beyond max range should not be visible")
	}
}

func TestLineOfSightCoverByStance(t *testing.T) {
	grid := NewGrid(5, 1)
	los := LineOfSight{Grid: grid}

	tests := []struct {
		cover  CellType
		stance Stance
		want   bool
	}{
		{LowCover, Standing, true},
		{LowCover, Kneeling, true},
		{LowCover, Prone, false},
		{MediumCover, Standing, true},
		{MediumCover, Kneeling, false},
		{HighCover, Standing, false},
	}
	for _, tc := range tests {
		grid.Set(Point{2, 0}, tc.cover)
		// The lower of the two stances decides.
		got := los.IsVisible(10, 0, 0, Standing, 4, 0, tc.stance)
		if got != tc.want {
			t.Errorf("cover %d, stance %v: visible = %v, want %v", tc.cover, tc.stance, got, tc.want)
		}
	}
}

func TestLineOfSightEndpointsNeverBlock(t *testing.T) {
	grid := NewGrid(3, 1)
	grid.Set(Point{0, 0}, HighCover)
	grid.Set(Point{2, 0}, HighCover)
	if !(LineOfSight{Grid: grid}).IsVisible(5, 0, 0, Prone, 2, 0, Prone) {
		t.Error("viewer and target cells should not block their own line")
	}
}

func TestVisibilityMatrixIndex(t *testing.T) {
	grid := NewGrid(2, 2)
	cells := make([]bool, 2*2*2*2*stanceCount)
	// Viewer (1,0) sees object (0,1) only when the lower stance is kneeling.
	idx := 1*2*2*2*stanceCount + 0*2*2*stanceCount + 0*2*stanceCount + 1*stanceCount + int(Kneeling)
	cells[idx] = true
	m := VisibilityMatrix{Grid: grid, Cells: cells}

	if !m.IsVisible(5, 1, 0, Standing, 0, 1, Kneeling) {
		t.Error("expected visible at kneeling")
	}
	if m.IsVisible(5, 1, 0, Standing, 0, 1, Standing) {
		t.Error("expected not visible at standing")
	}
	if m.IsVisible(1, 1, 0, Kneeling, 0, 1, Kneeling) {
		t.Error("expected range check to reject")
	}
}

func TestWorldIsVisiblePrefersOverride(t *testing.T) {
	w := &World{Grid: NewGrid(3, 3), Visibility: constVisibility(false)}
	if w.IsVisible(10, 0, 0, Standing, 1, 1, Standing) {
		t.Error("Visibility override should win over line of sight")
	}
	w.Visibility = nil
	if !w.IsVisible(10, 0, 0, Standing, 1, 1, Standing) {
		t.Error("expected line of sight fallback on an open grid")
	}
}

type constVisibility bool

func (c constVisibility) IsVisible(float64, int, int, Stance, int, int, Stance) bool { return bool(c) }
