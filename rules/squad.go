package rules

import (
	"log/slog"

	"github.com/nstehr/trooper/model"
)

// SquadState is the squad's shared patrol route and progress. One instance
// is passed by reference into every decision for the match, so whichever
// unit is processed first in a turn can advance the waypoint for everyone
// processed after it. That ordering is part of the contract.
type SquadState struct {
	Route []model.Point
	Index int
}

// EnsureRoute computes the route from the first snapshot that contains
// squad members. Later calls are no-ops. Reports whether a route exists.
func (s *SquadState) EnsureRoute(w *model.World) bool {
	if len(s.Route) > 0 {
		return true
	}
	mates := w.Teammates()
	if len(mates) == 0 || w.Grid == nil {
		return false
	}
	centroid := squadCentroid(mates)
	s.Route = ComputeRoute(w.Grid, centroid)
	s.Index = 0
	slog.Info("squad route computed", "centroid", centroid, "waypoints", s.Route)
	return true
}

// Current returns the waypoint the squad is heading for.
func (s *SquadState) Current() (model.Point, bool) {
	if len(s.Route) == 0 {
		return model.Point{}, false
	}
	return s.Route[s.Index], true
}

// Final reports whether the squad is on its last waypoint.
func (s *SquadState) Final() bool {
	return len(s.Route) > 0 && s.Index == len(s.Route)-1
}

// Advance moves the shared index on when u is close enough to the current
// waypoint. It is the only place the index changes; it never decreases and
// never passes the last waypoint.
func (s *SquadState) Advance(u model.Unit, t Tuning) bool {
	wp, ok := s.Current()
	if !ok || s.Final() {
		return false
	}
	d := u.Pos().Distance(wp)
	if d >= t.WaypointReachFraction*u.VisionRange {
		return false
	}
	s.Index++
	slog.Info("waypoint reached", "unit", u.ID, "waypoint", wp, "next", s.Route[s.Index], "index", s.Index)
	return true
}

// ComputeRoute orders the four map corners as a greedy nearest-neighbour
// chain starting from the squad centroid and appends the map center. Every
// point is snapped to the nearest passable cell.
func ComputeRoute(g *model.Grid, centroid model.Point) []model.Point {
	corners := []model.Point{
		{X: 0, Y: 0},
		{X: 0, Y: g.Height - 1},
		{X: g.Width - 1, Y: g.Height - 1},
		{X: g.Width - 1, Y: 0},
	}
	for i, c := range corners {
		corners[i] = snap(g, c)
	}

	route := make([]model.Point, 0, len(corners)+1)
	last := centroid
	for len(corners) > 0 {
		best := 0
		for i := 1; i < len(corners); i++ {
			if last.Distance(corners[i]) < last.Distance(corners[best]) {
				best = i
			}
		}
		last = corners[best]
		route = append(route, last)
		corners = append(corners[:best], corners[best+1:]...)
	}
	return append(route, snap(g, g.Center()))
}

func snap(g *model.Grid, p model.Point) model.Point {
	if s, ok := g.NearestPassable(p); ok {
		return s
	}
	return p
}

func squadCentroid(mates []model.Unit) model.Point {
	pts := make([]model.Point, len(mates))
	for i, m := range mates {
		pts[i] = m.Pos()
	}
	return model.Centroid(pts)
}

func avgShootingRange(mates []model.Unit) float64 {
	if len(mates) == 0 {
		return 0
	}
	var sum float64
	for _, m := range mates {
		sum += m.ShootingRange
	}
	return sum / float64(len(mates))
}
