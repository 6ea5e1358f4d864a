package ipc

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// TypeError reports a failed request back to the game server so it never
// waits on a reply that will not come.
const TypeError = "error"

type ErrorMessage struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single game server session talking to the bot.
// Each session gets its own connection, identified by a generated ID and,
// after the hello handshake, by the player it controls.
type Connection struct {
	ID        string
	Player    int
	transport Transport
	handlers  map[string]Handler
}

func NewConnection(t Transport, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		ID:        uuid.NewString(),
		transport: t,
		handlers:  handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(ctx context.Context, msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.transport.WriteEnvelope(ctx, env)
}

// ReadLoop blocks until the transport closes, errors, or ctx is cancelled.
// It owns the transport lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.transport.Close()
	stop := context.AfterFunc(ctx, func() { c.transport.Close() })
	defer stop()

	for {
		env, err := c.transport.ReadEnvelope(ctx)
		if err != nil {
			slog.Info("connection read ended", "session", c.ID, "player", c.Player, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "session", c.ID, "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "session", c.ID, "type", env.Type, "error", err)
			if err := c.Send(ctx, TypeError, ErrorMessage{Request: env.Type, Error: err.Error()}); err != nil {
				slog.Error("failed to send error", "session", c.ID, "error", err)
				return
			}
			continue
		}

		if resp != nil {
			if err := c.transport.WriteEnvelope(ctx, *resp); err != nil {
				slog.Error("failed to send response", "session", c.ID, "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "session", c.ID, "type", resp.Type, "player", c.Player)
		}
	}
}
