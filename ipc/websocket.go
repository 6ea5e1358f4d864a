package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// wsTransport carries one envelope per text message.
type wsTransport struct {
	conn *websocket.Conn
}

func NewWebSocketTransport(conn *websocket.Conn) Transport {
	conn.SetReadLimit(MaxMessageSize)
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadEnvelope(ctx context.Context) (Envelope, error) {
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	return unmarshalEnvelope(data)
}

func (t *wsTransport) WriteEnvelope(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := t.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (t *wsTransport) Close() error {
	return t.conn.Close(websocket.StatusNormalClosure, "")
}

// WebSocketHandler upgrades each request and hands the transport to serve,
// which owns it until it returns.
type WebSocketHandler struct {
	Serve          func(ctx context.Context, t Transport)
	OriginPatterns []string
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.OriginPatterns,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept websocket", "error", err)
		return
	}
	slog.DebugContext(ctx, "accepted websocket", "remote", r.RemoteAddr)
	h.Serve(ctx, NewWebSocketTransport(conn))
}
