package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/trooper/model"
	"github.com/nstehr/trooper/rules"
)

// EventKind identifies the category of a turn event worth surfacing in logs
// and the status endpoint.
type EventKind string

const (
	EventFirstContact     EventKind = "first_contact"
	EventSquadmateLost    EventKind = "squadmate_lost"
	EventEnemyEliminated  EventKind = "enemy_eliminated"
	EventWaypointAdvanced EventKind = "waypoint_advanced"
)

// Event represents a significant change detected by diffing consecutive
// turn snapshots.
type Event struct {
	Kind   EventKind `json:"kind"`
	Move   int       `json:"move"`
	Detail string    `json:"detail"`
}

// stateSnapshot captures the diffable fields of one turn.
type stateSnapshot struct {
	move     int
	mates    map[int]model.Role // id → role for squad members
	enemies  map[int]bool
	contact  bool // any squad member sees an enemy
	waypoint int
}

// takeSnapshot captures the current diffable state for the next turn's comparison.
func takeSnapshot(w *model.World, squad rules.SquadState) stateSnapshot {
	snap := stateSnapshot{
		move:     w.MoveIndex,
		mates:    make(map[int]model.Role),
		enemies:  make(map[int]bool),
		waypoint: squad.Index,
	}
	mates, enemies := w.Teammates(), w.Enemies()
	for _, m := range mates {
		snap.mates[m.ID] = m.Role
	}
	for _, e := range enemies {
		snap.enemies[e.ID] = true
	}
	snap.contact = inContact(w, mates, enemies)
	return snap
}

func inContact(w *model.World, mates, enemies []model.Unit) bool {
	for _, m := range mates {
		for _, e := range enemies {
			if w.IsVisible(m.VisionRange, m.X, m.Y, m.Stance, e.X, e.Y, e.Stance) {
				return true
			}
		}
	}
	return false
}

// detectEvents compares the current turn against the previous snapshot and
// returns any triggered events. Returns nil if prev is nil (first turn).
func detectEvents(w *model.World, squad rules.SquadState, prev *stateSnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event
	cur := takeSnapshot(w, squad)

	// 1. first_contact: the squad sees an enemy for the first time
	if !prev.contact && cur.contact {
		events = append(events, Event{
			Kind:   EventFirstContact,
			Move:   cur.move,
			Detail: fmt.Sprintf("First contact: %d enemies on the field", len(cur.enemies)),
		})
	}

	// 2. squadmate_lost: a squad member present last turn is gone
	for _, id := range missing(prev.mates, cur.mates) {
		events = append(events, Event{
			Kind:   EventSquadmateLost,
			Move:   cur.move,
			Detail: fmt.Sprintf("Lost %s (id %d), %d remaining", prev.mates[id], id, len(cur.mates)),
		})
	}

	// 3. enemy_eliminated: an enemy present last turn is gone
	if gone := missing(prev.enemies, cur.enemies); len(gone) > 0 {
		events = append(events, Event{
			Kind:   EventEnemyEliminated,
			Move:   cur.move,
			Detail: fmt.Sprintf("Eliminated enemies %s, %d remaining", formatIDs(gone), len(cur.enemies)),
		})
	}

	// 4. waypoint_advanced: the shared route index moved on
	if cur.waypoint > prev.waypoint && len(squad.Route) > 0 {
		events = append(events, Event{
			Kind:   EventWaypointAdvanced,
			Move:   cur.move,
			Detail: fmt.Sprintf("Heading for waypoint %d/%d at %v", cur.waypoint+1, len(squad.Route), squad.Route[cur.waypoint]),
		})
	}

	return events
}

// missing returns, in ascending order, the ids in prev that are absent from cur.
func missing[V any](prev, cur map[int]V) []int {
	var ids []int
	for id := range prev {
		if _, ok := cur[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
