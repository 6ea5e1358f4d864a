// Package pathfind finds shortest 4-connected routes over the battlefield grid
// with Lee wave expansion, reusing the last computed route when it already
// covers a query.
package pathfind

import (
	"log/slog"
	"math/rand"
	"slices"

	"github.com/nstehr/trooper/model"
)

// Mode selects whether a query may be answered from the cached route.
type Mode int

const (
	Cached Mode = iota
	// NoCache forces a fresh search, for goals unrelated to the cached
	// route such as a nearby bonus item.
	NoCache
)

const unlabeled = -1

type cell struct {
	free bool
	wave int
}

// Finder is not safe for concurrent use. Each engine owns one.
type Finder struct {
	rng      *rand.Rand
	cells    []cell
	cache    []model.Point // start of the last fresh search, then its path
	searches int
}

// NewFinder returns a Finder whose tie-breaks draw from rng. A nil rng gets
// a fixed-seed source so behaviour stays reproducible.
func NewFinder(rng *rand.Rand) *Finder {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Finder{rng: rng}
}

// Searches reports how many wave expansions have run.
func (f *Finder) Searches() int { return f.searches }

// Cache returns a copy of the cached route, start cell included.
func (f *Finder) Cache() []model.Point { return slices.Clone(f.cache) }

// Find returns the cells from (excluding) from to (including) to. The result
// is empty when the goal is unreachable, the endpoints coincide, or either
// endpoint lies off the grid.
func (f *Finder) Find(g *model.Grid, units []model.Unit, from, to model.Point, mode Mode) []model.Point {
	if g == nil || !g.InBounds(from) || !g.InBounds(to) {
		slog.Error("invalid path query", "from", from, "to", to)
		return nil
	}
	if from == to {
		return nil
	}

	if mode == Cached {
		if p, ok := fromCache(f.cache, from, to); ok {
			slog.Debug("path served from cache", "from", from, "to", to, "len", len(p))
			return p
		}
	}

	p := f.search(g, units, from, to)
	if len(p) == 0 {
		slog.Debug("no path", "from", from, "to", to)
		return nil
	}
	f.cache = append([]model.Point{from}, p...)
	return p
}

// fromCache returns the run of the cached route between from and to when
// both are on it. The result excludes from and includes to, reversed when
// to precedes from.
func fromCache(cache []model.Point, from, to model.Point) ([]model.Point, bool) {
	i := slices.Index(cache, from)
	j := slices.Index(cache, to)
	if i < 0 || j < 0 || i == j {
		return nil, false
	}
	if i < j {
		return slices.Clone(cache[i+1 : j+1]), true
	}
	out := slices.Clone(cache[j:i])
	slices.Reverse(out)
	return out, true
}

func (f *Finder) search(g *model.Grid, units []model.Unit, from, to model.Point) []model.Point {
	f.searches++
	f.label(g, units, from)

	goal := g.Width*to.Y + to.X
	frontier := []model.Point{from}
	for wave := 0; len(frontier) > 0 && f.cells[goal].wave == unlabeled; wave++ {
		var next []model.Point
		for _, p := range frontier {
			for _, n := range p.Neighbors() {
				if !g.InBounds(n) {
					continue
				}
				c := &f.cells[g.Width*n.Y+n.X]
				if !c.free || c.wave != unlabeled {
					continue
				}
				c.wave = wave + 1
				next = append(next, n)
			}
		}
		frontier = next
	}

	if f.cells[goal].wave == unlabeled {
		return nil
	}
	return f.backtrack(g, to)
}

// label resets the wave array for a new search. Cells next to from that hold
// a unit are closed so the first step never collides.
func (f *Finder) label(g *model.Grid, units []model.Unit, from model.Point) {
	n := g.Width * g.Height
	if cap(f.cells) < n {
		f.cells = make([]cell, n)
	}
	f.cells = f.cells[:n]
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			f.cells[y*g.Width+x] = cell{free: g.Passable(model.Point{X: x, Y: y}), wave: unlabeled}
		}
	}
	for _, u := range units {
		p := u.Pos()
		if p.Manhattan(from) == 1 && g.InBounds(p) {
			f.cells[p.Y*g.Width+p.X].free = false
		}
	}
	start := &f.cells[from.Y*g.Width+from.X]
	start.free = true
	start.wave = 0
}

func (f *Finder) backtrack(g *model.Grid, to model.Point) []model.Point {
	var out []model.Point
	cur := to
	candidates := make([]model.Point, 0, 4)
	for {
		w := f.cells[cur.Y*g.Width+cur.X].wave
		if w == 0 {
			break
		}
		out = append(out, cur)
		candidates = candidates[:0]
		for _, n := range cur.Neighbors() {
			if g.InBounds(n) && f.cells[n.Y*g.Width+n.X].wave == w-1 {
				candidates = append(candidates, n)
			}
		}
		cur = candidates[f.rng.Intn(len(candidates))]
	}
	slices.Reverse(out)
	return out
}
