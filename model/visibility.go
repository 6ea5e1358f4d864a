package model

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/visibility.go -package=mocks . Visibility

// Visibility answers whether a viewer can see a target cell.
type Visibility interface {
	IsVisible(maxRange float64, fromX, fromY int, fromStance Stance, toX, toY int, toStance Stance) bool
}

const stanceCount = 3

func inRange(maxRange float64, fromX, fromY, toX, toY int) bool {
	dx := float64(toX - fromX)
	dy := float64(toY - fromY)
	return dx*dx+dy*dy <= maxRange*maxRange
}

// VisibilityMatrix is the server's precomputed cell visibility table,
// indexed by viewer cell, object cell and the lower of the two stances.
type VisibilityMatrix struct {
	Grid  *Grid
	Cells []bool
}

func (m VisibilityMatrix) IsVisible(maxRange float64, fromX, fromY int, fromStance Stance, toX, toY int, toStance Stance) bool {
	if m.Grid == nil || !inRange(maxRange, fromX, fromY, toX, toY) {
		return false
	}
	if !m.Grid.InBounds(Point{fromX, fromY}) || !m.Grid.InBounds(Point{toX, toY}) {
		return false
	}
	w, h := m.Grid.Width, m.Grid.Height
	idx := fromX*h*w*h*stanceCount +
		fromY*w*h*stanceCount +
		toX*h*stanceCount +
		toY*stanceCount +
		int(min(fromStance, toStance))
	if idx < 0 || idx >= len(m.Cells) {
		return false
	}
	return m.Cells[idx]
}

// LineOfSight derives visibility from the grid alone: range check plus a
// Bresenham ray over intermediate cells. Cover blocks the stances below its
// height; the viewer and target cells never block.
type LineOfSight struct {
	Grid *Grid
}

func (l LineOfSight) IsVisible(maxRange float64, fromX, fromY int, fromStance Stance, toX, toY int, toStance Stance) bool {
	if l.Grid == nil || !inRange(maxRange, fromX, fromY, toX, toY) {
		return false
	}
	from, to := Point{fromX, fromY}, Point{toX, toY}
	if !l.Grid.InBounds(from) || !l.Grid.InBounds(to) {
		return false
	}
	stance := min(fromStance, toStance)
	for _, p := range rayCells(from, to) {
		if blocks(l.Grid.At(p), stance) {
			return false
		}
	}
	return true
}

func blocks(c CellType, s Stance) bool {
	switch c {
	case HighCover:
		return true
	case MediumCover:
		return s <= Kneeling
	case LowCover:
		return s == Prone
	}
	return false
}

// rayCells returns the cells strictly between a and b on a Bresenham line.
func rayCells(a, b Point) []Point {
	dx := Abs(b.X - a.X)
	dy := -Abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	var out []Point
	err := dx + dy
	x, y := a.X, a.Y
	for {
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == b.X && y == b.Y {
			break
		}
		out = append(out, Point{x, y})
	}
	return out
}
