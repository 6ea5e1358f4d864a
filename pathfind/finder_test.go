package pathfind

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/nstehr/trooper/model"
	"pgregory.net/rapid"
)

func newTestFinder() *Finder {
	return NewFinder(rand.New(rand.NewSource(42)))
}

// checkPath verifies every step is a single 4-connected move onto a free cell.
func checkPath(t *testing.T, g *model.Grid, from model.Point, p []model.Point) {
	t.Helper()
	prev := from
	for i, c := range p {
		if prev.Manhattan(c) != 1 {
			t.Fatalf("step %d: %v -> %v is not a single move", i, prev, c)
		}
		if !g.Passable(c) {
			t.Fatalf("step %d: %v is not passable", i, c)
		}
		prev = c
	}
}

func TestFindOpenGridIsManhattan(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.IntRange(1, 12).Draw(rt, "w")
		h := rapid.IntRange(1, 12).Draw(rt, "h")
		from := model.Point{
			X: rapid.IntRange(0, w-1).Draw(rt, "fx"),
			Y: rapid.IntRange(0, h-1).Draw(rt, "fy"),
		}
		to := model.Point{
			X: rapid.IntRange(0, w-1).Draw(rt, "tx"),
			Y: rapid.IntRange(0, h-1).Draw(rt, "ty"),
		}
		g := model.NewGrid(w, h)
		p := NewFinder(rand.New(rand.NewSource(int64(w*h)))).Find(g, nil, from, to, NoCache)

		if len(p) != from.Manhattan(to) {
			rt.Fatalf("len(Find(%v, %v)) = %d, want %d", from, to, len(p), from.Manhattan(to))
		}
		if len(p) > 0 && p[len(p)-1] != to {
			rt.Fatalf("path ends at %v, want %v", p[len(p)-1], to)
		}
	})
}

func TestFindAroundWall(t *testing.T) {
	g := model.NewGrid(5, 5)
	// Vertical wall at x=2 with a gap at y=4.
	for y := 0; y < 4; y++ {
		g.Set(model.Point{X: 2, Y: y}, model.HighCover)
	}
	from, to := model.Point{X: 0, Y: 0}, model.Point{X: 4, Y: 0}

	p := newTestFinder().Find(g, nil, from, to, NoCache)
	checkPath(t, g, from, p)
	if len(p) != 12 {
		t.Errorf("len(path) = %d, want 12", len(p))
	}
}

func TestFindEnclosedGoal(t *testing.T) {
	g := model.NewGrid(7, 7)
	goal := model.Point{X: 5, Y: 5}
	for _, n := range goal.Neighbors() {
		g.Set(n, model.MediumCover)
	}
	f := newTestFinder()

	if p := f.Find(g, nil, model.Point{X: 0, Y: 0}, goal, NoCache); len(p) != 0 {
		t.Errorf("expected empty path to enclosed goal, got %v", p)
	}
	if f.Searches() != 1 {
		t.Errorf("Searches() = %d, want 1", f.Searches())
	}
}

func TestFindDisconnectedRegionTerminates(t *testing.T) {
	g := model.NewGrid(20, 20)
	for y := 0; y < 20; y++ {
		g.Set(model.Point{X: 10, Y: y}, model.HighCover)
	}
	p := newTestFinder().Find(g, nil, model.Point{X: 0, Y: 0}, model.Point{X: 19, Y: 19}, NoCache)
	if len(p) != 0 {
		t.Errorf("expected empty path across a solid wall, got %d steps", len(p))
	}
}

func TestFindObstacleGoal(t *testing.T) {
	g := model.NewGrid(3, 3)
	g.Set(model.Point{X: 2, Y: 2}, model.HighCover)
	if p := newTestFinder().Find(g, nil, model.Point{}, model.Point{X: 2, Y: 2}, NoCache); len(p) != 0 {
		t.Errorf("expected empty path to an obstacle, got %v", p)
	}
}

func TestFindInvalidQueries(t *testing.T) {
	g := model.NewGrid(4, 4)
	f := newTestFinder()

	tests := []struct {
		name     string
		from, to model.Point
	}{
		{"same cell", model.Point{X: 1, Y: 1}, model.Point{X: 1, Y: 1}},
		{"negative from", model.Point{X: -1, Y: 0}, model.Point{X: 1, Y: 1}},
		{"to beyond width", model.Point{X: 0, Y: 0}, model.Point{X: 4, Y: 0}},
		{"to beyond height", model.Point{X: 0, Y: 0}, model.Point{X: 0, Y: 9}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if p := f.Find(g, nil, tc.from, tc.to, Cached); len(p) != 0 {
				t.Errorf("expected empty path, got %v", p)
			}
		})
	}
	if f.Searches() != 0 {
		t.Errorf("invalid queries should not search, got %d searches", f.Searches())
	}
	if p := f.Find(nil, nil, model.Point{}, model.Point{X: 1}, Cached); len(p) != 0 {
		t.Errorf("expected empty path for nil grid, got %v", p)
	}
}

func TestFindAvoidsAdjacentUnits(t *testing.T) {
	// 3-wide corridor; units on the two neighbours that lead right.
	g := model.NewGrid(5, 3)
	from := model.Point{X: 1, Y: 1}
	units := []model.Unit{
		{ID: 1, X: 1, Y: 1}, // the mover itself
		{ID: 2, X: 2, Y: 1},
		{ID: 3, X: 1, Y: 0},
	}
	p := newTestFinder().Find(g, units, from, model.Point{X: 4, Y: 1}, NoCache)
	checkPath(t, g, from, p)
	if len(p) == 0 {
		t.Fatal("expected a path around the blocking units")
	}
	if p[0] == (model.Point{X: 2, Y: 1}) || p[0] == (model.Point{X: 1, Y: 0}) {
		t.Errorf("first step %v walks into an occupied cell", p[0])
	}
	if len(p) != 5 {
		t.Errorf("len(path) = %d, want 5", len(p))
	}
}

func TestFindIgnoresDistantUnits(t *testing.T) {
	g := model.NewGrid(5, 1)
	units := []model.Unit{{ID: 9, X: 3, Y: 0}}
	p := newTestFinder().Find(g, units, model.Point{}, model.Point{X: 4, Y: 0}, NoCache)
	if len(p) != 4 {
		t.Errorf("len(path) = %d, want 4 (units beyond one step do not block)", len(p))
	}
}

func TestFindCacheReuseForward(t *testing.T) {
	g := model.NewGrid(8, 8)
	f := newTestFinder()
	a, c := model.Point{X: 0, Y: 0}, model.Point{X: 6, Y: 5}

	full := f.Find(g, nil, a, c, Cached)
	if f.Searches() != 1 {
		t.Fatalf("Searches() = %d, want 1", f.Searches())
	}
	b := full[4]

	sub := f.Find(g, nil, a, b, Cached)
	if f.Searches() != 1 {
		t.Errorf("cached query ran a search: Searches() = %d", f.Searches())
	}
	if !slices.Equal(sub, full[:5]) {
		t.Errorf("Find(a, b) = %v, want %v", sub, full[:5])
	}

	mid := f.Find(g, nil, full[1], full[7], Cached)
	if !slices.Equal(mid, full[2:8]) {
		t.Errorf("Find(mid) = %v, want %v", mid, full[2:8])
	}
}

func TestFindCacheReuseBackward(t *testing.T) {
	g := model.NewGrid(6, 6)
	f := newTestFinder()
	a, c := model.Point{X: 0, Y: 0}, model.Point{X: 5, Y: 5}

	full := f.Find(g, nil, a, c, Cached)
	back := f.Find(g, nil, c, a, Cached)
	if f.Searches() != 1 {
		t.Errorf("reverse query ran a search: Searches() = %d", f.Searches())
	}

	want := append([]model.Point{a}, full[:len(full)-1]...)
	slices.Reverse(want)
	if !slices.Equal(back, want) {
		t.Errorf("Find(c, a) = %v, want %v", back, want)
	}
	checkPath(t, g, c, back)
}

func TestFindCacheMissRecomputes(t *testing.T) {
	g := model.NewGrid(6, 6)
	f := newTestFinder()
	f.Find(g, nil, model.Point{X: 0, Y: 0}, model.Point{X: 0, Y: 5}, Cached)

	// (5,5) is not on the cached column.
	p := f.Find(g, nil, model.Point{X: 0, Y: 0}, model.Point{X: 5, Y: 5}, Cached)
	if f.Searches() != 2 {
		t.Errorf("Searches() = %d, want 2", f.Searches())
	}
	if len(p) != 10 {
		t.Errorf("len(path) = %d, want 10", len(p))
	}
	if got := f.Cache(); got[0] != (model.Point{}) || got[len(got)-1] != (model.Point{X: 5, Y: 5}) {
		t.Errorf("cache not replaced by fresh path: %v", got)
	}
}

func TestFindNoCacheBypasses(t *testing.T) {
	g := model.NewGrid(6, 6)
	f := newTestFinder()
	full := f.Find(g, nil, model.Point{}, model.Point{X: 5, Y: 5}, Cached)

	f.Find(g, nil, model.Point{}, full[3], NoCache)
	if f.Searches() != 2 {
		t.Errorf("NoCache query should search, Searches() = %d", f.Searches())
	}
}

func TestFindFailedSearchKeepsCache(t *testing.T) {
	g := model.NewGrid(6, 6)
	f := newTestFinder()
	f.Find(g, nil, model.Point{}, model.Point{X: 3, Y: 3}, Cached)
	before := f.Cache()

	g.Set(model.Point{X: 5, Y: 5}, model.HighCover)
	f.Find(g, nil, model.Point{}, model.Point{X: 5, Y: 5}, Cached)
	if !slices.Equal(f.Cache(), before) {
		t.Errorf("failed search overwrote cache: %v", f.Cache())
	}
}

func TestFindSeededDeterminism(t *testing.T) {
	g := model.NewGrid(10, 10)
	from, to := model.Point{X: 0, Y: 0}, model.Point{X: 9, Y: 9}

	p1 := NewFinder(rand.New(rand.NewSource(7))).Find(g, nil, from, to, NoCache)
	p2 := NewFinder(rand.New(rand.NewSource(7))).Find(g, nil, from, to, NoCache)
	if !slices.Equal(p1, p2) {
		t.Errorf("same seed produced different paths:\n%v\n%v", p1, p2)
	}
}

func TestFromCacheIsPure(t *testing.T) {
	cache := []model.Point{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	snapshot := slices.Clone(cache)

	got, ok := fromCache(cache, model.Point{X: 3}, model.Point{X: 1})
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !slices.Equal(got, []model.Point{{X: 2}, {X: 1}}) {
		t.Errorf("fromCache = %v", got)
	}
	got[0] = model.Point{X: 99}
	if !slices.Equal(cache, snapshot) {
		t.Errorf("fromCache result aliases the cache: %v", cache)
	}
	if _, ok := fromCache(cache, model.Point{X: 0}, model.Point{X: 7}); ok {
		t.Error("expected miss when an endpoint is absent")
	}
}
