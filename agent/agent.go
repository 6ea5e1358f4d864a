package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nstehr/trooper/ipc"
	"github.com/nstehr/trooper/model"
	"github.com/nstehr/trooper/rules"
)

// Agent owns the decision-making for a single game session.
type Agent struct {
	Conn     *ipc.Connection
	Player   int
	Engine   *rules.Engine
	Registry *Registry

	config model.GameConfig
	grid   *model.Grid
	prev   *stateSnapshot
}

func New(conn *ipc.Connection, engine *rules.Engine, registry *Registry) *Agent {
	return &Agent{
		Conn:     conn,
		Engine:   engine,
		Registry: registry,
		config:   model.DefaultGameConfig(),
	}
}

// Serve runs one session over t until it closes or ctx is cancelled. Each
// session gets its own engine.
func Serve(ctx context.Context, t ipc.Transport, registry *Registry, opts rules.Options) {
	engine, err := rules.NewEngine(opts)
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		t.Close()
		return
	}
	c := ipc.NewConnection(t, nil)
	a := New(c, engine, registry)
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeTurn, a.HandleTurn)

	registry.Add(c.ID)
	defer registry.Remove(c.ID)
	slog.Info("session started", "session", c.ID)
	c.ReadLoop(ctx)
	slog.Info("session ended", "session", c.ID, "player", a.Player)
}

// HandleHello completes the handshake so the game server knows the bot is ready.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, err
	}

	a.Player = hello.Player
	a.Conn.Player = hello.Player
	if hello.Config != nil {
		a.config = *hello.Config
	}
	if hello.Grid != nil {
		a.grid = hello.Grid
	}
	a.Registry.Update(a.Conn.ID, func(s *Status) { s.Player = a.Player })

	attrs := []any{"session", a.Conn.ID, "player", a.Player, "customConfig", hello.Config != nil}
	if a.grid != nil {
		attrs = append(attrs, "width", a.grid.Width, "height", a.grid.Height)
	}
	slog.Info("player identified", attrs...)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Session: a.Conn.ID})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleTurn decides the action of the unit named in the turn.
func (a *Agent) HandleTurn(env ipc.Envelope) (*ipc.Envelope, error) {
	var turn ipc.TurnMessage
	if err := env.Decode(&turn); err != nil {
		return nil, err
	}

	w := &turn.World
	if w.Grid == nil {
		w.Grid = a.grid
	} else {
		a.grid = w.Grid
	}
	if w.Grid == nil {
		return nil, fmt.Errorf("turn %d: no grid received", w.MoveIndex)
	}
	if len(w.Grid.Cells) != w.Grid.Width*w.Grid.Height {
		return nil, fmt.Errorf("turn %d: grid %dx%d has %d cells", w.MoveIndex, w.Grid.Width, w.Grid.Height, len(w.Grid.Cells))
	}

	self, ok := w.Unit(turn.SelfID)
	if !ok {
		return nil, fmt.Errorf("turn %d: unit %d not in snapshot", w.MoveIndex, turn.SelfID)
	}
	if !self.Teammate {
		return nil, fmt.Errorf("turn %d: unit %d is not ours", w.MoveIndex, turn.SelfID)
	}

	action, err := a.Engine.Decide(self, w, a.config)
	if err != nil {
		return nil, fmt.Errorf("turn %d: %w", w.MoveIndex, err)
	}
	// After Decide, so a waypoint reached by this unit shows up this move.
	a.observe(w)

	squad := a.Engine.Squad()
	a.Registry.Update(a.Conn.ID, func(s *Status) {
		s.MoveIndex = w.MoveIndex
		s.Turns++
		s.Route = squad.Route
		s.Waypoint = squad.Index
		s.LastUnit = self.ID
		s.LastAction = action.String()
	})

	reply, err := ipc.NewEnvelope(ipc.TypeAction, ipc.NewActionMessage(self.ID, action))
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// observe diffs the snapshot against the previous move once per move index
// and logs what changed.
func (a *Agent) observe(w *model.World) {
	if a.prev != nil && a.prev.move == w.MoveIndex {
		return
	}
	squad := a.Engine.Squad()
	events := detectEvents(w, squad, a.prev)
	for _, e := range events {
		slog.Info("turn event", "session", a.Conn.ID, "kind", e.Kind, "move", e.Move, "detail", e.Detail)
	}
	if len(events) > 0 {
		a.Registry.Update(a.Conn.ID, func(s *Status) { appendEvents(s, events) })
	}
	snap := takeSnapshot(w, squad)
	a.prev = &snap
}
