package agent

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/nstehr/trooper/model"
)

// maxRecentEvents bounds the per-session event history kept for status.
const maxRecentEvents = 20

// Status is a point-in-time view of one live session.
type Status struct {
	Session    string        `json:"session"`
	Player     int           `json:"player"`
	Connected  time.Time     `json:"connected"`
	MoveIndex  int           `json:"moveIndex"`
	Turns      int           `json:"turns"`
	Route      []model.Point `json:"route"`
	Waypoint   int           `json:"waypoint"`
	LastUnit   int           `json:"lastUnit"`
	LastAction string        `json:"lastAction"`
	Events     []Event       `json:"events"`
}

func (s Status) clone() Status {
	s.Route = slices.Clone(s.Route)
	s.Events = slices.Clone(s.Events)
	return s
}

// Registry tracks live sessions. Agents write their own entry from their
// connection goroutine; the status endpoint reads snapshots concurrently.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Status
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Status)}
}

func (r *Registry) Add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &Status{Session: id, Connected: time.Now()}
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Update applies fn to the session's status under the registry lock. Unknown
// sessions are ignored.
func (r *Registry) Update(id string, fn func(*Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		fn(s)
	}
}

func (r *Registry) Get(id string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return Status{}, false
	}
	return s.clone(), true
}

// List returns all sessions, oldest connection first.
func (r *Registry) List() []Status {
	r.mu.RLock()
	out := make([]Status, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Connected.Equal(out[j].Connected) {
			return out[i].Session < out[j].Session
		}
		return out[i].Connected.Before(out[j].Connected)
	})
	return out
}

func appendEvents(s *Status, events []Event) {
	s.Events = append(s.Events, events...)
	if n := len(s.Events) - maxRecentEvents; n > 0 {
		s.Events = slices.Delete(s.Events, 0, n)
	}
}
