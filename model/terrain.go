package model

// CellType classifies a battlefield cell. Values match the game server's
// wire encoding. Only Free cells can be entered; cover cells differ in which
// stances they hide.
type CellType int

const (
	Free        CellType = 0
	LowCover    CellType = 1 // blocks sight to and from prone units
	MediumCover CellType = 2 // blocks sight to and from kneeling and prone units
	HighCover   CellType = 3 // blocks sight for every stance
)

// Grid is the fixed-size battlefield for a match.
type Grid struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  []CellType `json:"cells"` // row-major: Cells[y*Width + x]
}

// NewGrid returns an all-free grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]CellType, width*height),
	}
}

func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

// At returns the cell type at p. Out-of-bounds cells read as HighCover so
// callers never walk or see off the map.
func (g *Grid) At(p Point) CellType {
	if !g.InBounds(p) || len(g.Cells) != g.Width*g.Height {
		return HighCover
	}
	return g.Cells[p.Y*g.Width+p.X]
}

// Set changes the cell at p; out-of-bounds writes are ignored.
func (g *Grid) Set(p Point, c CellType) {
	if g.InBounds(p) && len(g.Cells) == g.Width*g.Height {
		g.Cells[p.Y*g.Width+p.X] = c
	}
}

func (g *Grid) Passable(p Point) bool {
	return g.At(p) == Free
}

// Center returns the middle cell, rounding half-widths up.
func (g *Grid) Center() Point {
	return Point{X: (g.Width + 1) / 2, Y: (g.Height + 1) / 2}
}

// NearestPassable snaps p to the closest free cell by Euclidean distance.
// Ties resolve in row-major scan order. Returns p unchanged when it is
// already free, and false when the grid has no free cell at all.
func (g *Grid) NearestPassable(p Point) (Point, bool) {
	if g.Passable(p) {
		return p, true
	}
	best := p
	bestDist := -1.0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Point{x, y}
			if !g.Passable(c) {
				continue
			}
			d := p.Distance(c)
			if bestDist < 0 || d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	return best, bestDist >= 0
}
