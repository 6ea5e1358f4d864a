package rules

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/nstehr/trooper/model"
	"github.com/nstehr/trooper/pathfind"
)

// ErrNoWorld is returned when Decide is called without a grid to plan on.
var ErrNoWorld = errors.New("world snapshot has no grid")

// Options configures an Engine. A zero Tuning means DefaultTuning. Rand, when
// set, takes precedence over Seed.
type Options struct {
	Tuning Tuning
	Seed   int64
	Rand   *rand.Rand
}

// Engine decides one action per call for the units of a single squad. It
// owns the squad's route and the path cache, so it must not be shared across
// matches or used from more than one goroutine.
type Engine struct {
	policies map[string]*Policy
	tuning   Tuning
	squad    SquadState
	finder   *pathfind.Finder
}

// NewEngine compiles both role policies and seeds the path finder.
func NewEngine(opts Options) (*Engine, error) {
	t := opts.Tuning
	if t == (Tuning{}) {
		t = DefaultTuning()
	}
	t.Validate()

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	trooper, err := CompilePolicy(PolicyTrooper, TrooperRules())
	if err != nil {
		return nil, err
	}
	medic, err := CompilePolicy(PolicyMedic, MedicRules(trooper))
	if err != nil {
		return nil, err
	}
	return &Engine{
		policies: map[string]*Policy{PolicyTrooper: trooper, PolicyMedic: medic},
		tuning:   t,
		finder:   pathfind.NewFinder(rng),
	}, nil
}

// Decide returns the single action for self given the current snapshot.
// It computes the squad route on first use, lets self advance the shared
// waypoint, pulls stragglers back toward the squad and otherwise defers to
// the role policy.
func (e *Engine) Decide(self model.Unit, w *model.World, cfg model.GameConfig) (model.Action, error) {
	if w == nil || w.Grid == nil {
		return model.Pass, ErrNoWorld
	}
	policy, err := policyFor(e.policies, self.Role)
	if err != nil {
		return model.Pass, fmt.Errorf("decide for unit %d: %w", self.ID, err)
	}

	e.squad.EnsureRoute(w)
	e.squad.Advance(self, e.tuning)

	env := newUnitEnv(self, w, cfg, e.tuning, &e.squad, e.finder)
	if self.Role == model.FieldMedic && env.FirstTurn() {
		slog.Debug("medic holds on first turn", "unit", self.ID)
		return model.Pass, nil
	}
	if env.SquadRangeExceeded() {
		a := ActionRegroup(env)
		slog.Debug("squad range exceeded", "unit", self.ID, "limit", env.SquadRangeLimit(), "action", a)
		return a, nil
	}

	a, rule := policy.Evaluate(env)
	slog.Debug("decision", "unit", self.ID, "role", self.Role, "move", w.MoveIndex, "rule", rule, "action", a)
	return a, nil
}

// Squad returns a copy of the squad's route state.
func (e *Engine) Squad() SquadState {
	return SquadState{Route: slices.Clone(e.squad.Route), Index: e.squad.Index}
}

// Tuning returns the validated constants the engine plays with.
func (e *Engine) Tuning() Tuning { return e.tuning }

// Searches reports how many fresh path searches the engine has run.
func (e *Engine) Searches() int { return e.finder.Searches() }
