package ipc

import (
	"context"
	"net"
)

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/transport.go -package=mocks . Transport

// Transport moves whole envelopes between the bot and one game server
// session. Implementations need not be safe for concurrent reads.
type Transport interface {
	ReadEnvelope(ctx context.Context) (Envelope, error)
	WriteEnvelope(ctx context.Context, env Envelope) error
	Close() error
}

// streamTransport frames envelopes over a byte stream such as a unix socket.
// Blocking calls ignore ctx; cancel them by closing the transport.
type streamTransport struct {
	conn net.Conn
}

func NewStreamTransport(conn net.Conn) Transport {
	return &streamTransport{conn: conn}
}

func (t *streamTransport) ReadEnvelope(context.Context) (Envelope, error) {
	return ReadFrame(t.conn)
}

func (t *streamTransport) WriteEnvelope(_ context.Context, env Envelope) error {
	return WriteFrame(t.conn, env)
}

func (t *streamTransport) Close() error {
	return t.conn.Close()
}
