package model

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

type SignedNumber interface {
	constraints.Signed | constraints.Float
}

func Abs[T SignedNumber](v T) T {
	if v >= T(0) {
		return v
	}
	return -v
}

func Clamp[T constraints.Ordered](v, min, max T) T {
	if v <= min {
		return min
	}
	if v >= max {
		return max
	}
	return v
}

// Point is a cell coordinate on the battlefield grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Distance is the Euclidean distance, which is what the game uses for
// shooting, vision and heal ranges.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
}

func (p Point) Manhattan(q Point) int {
	return Abs(q.X-p.X) + Abs(q.Y-p.Y)
}

// Neighbors returns the 4-connected neighbours in a fixed order. Bounds are
// not checked.
func (p Point) Neighbors() [4]Point {
	return [4]Point{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y + 1},
		{p.X, p.Y - 1},
	}
}

// Centroid returns the rounded mean of the points. Returns the zero point for
// an empty slice.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sx, sy int
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return Point{
		X: int(math.Round(float64(sx) / n)),
		Y: int(math.Round(float64(sy) / n)),
	}
}
