package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/trooper/agent"
	"github.com/nstehr/trooper/config"
	"github.com/nstehr/trooper/ipc"
	"github.com/nstehr/trooper/rules"
	"github.com/nstehr/trooper/status"
	"golang.org/x/sync/errgroup"
)

const banner = `
 _____ ____   ___   ___  ____  _____ ____
|_   _|  _ \ / _ \ / _ \|  _ \| ____|  _ \
  | | | |_) | | | | | | | |_) |  _| | |_) |
  | | |  _ <| |_| | |_| |  __/| |___|  _ <
  |_| |_| \_\\___/ \___/|_|   |_____|_| \_\

Turn-Based Squad Tactics`

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		socketPath = flag.String("socket", "", "unix socket path (overrides config)")
		wsAddr     = flag.String("websocket", "", "websocket listen address (overrides config)")
		statusAddr = flag.String("status", "", "status endpoint listen address (overrides config)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	override(&cfg.Listen.Socket, *socketPath)
	override(&cfg.Listen.WebSocket, *wsAddr)
	override(&cfg.Listen.Status, *statusAddr)
	override(&cfg.LogLevel, *logLevel)

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting trooper", "seed", cfg.Seed, "tuning", cfg.Tuning)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := agent.NewRegistry()
	opts := rules.Options{Tuning: cfg.Tuning, Seed: cfg.Seed}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Listen.Socket != "" {
		g.Go(func() error { return serveSocket(ctx, cfg.Listen.Socket, registry, opts) })
	}
	if cfg.Listen.WebSocket != "" {
		g.Go(func() error { return serveWebSocket(ctx, cfg.Listen.WebSocket, registry, opts) })
	}
	if cfg.Listen.Status != "" {
		g.Go(func() error { return status.Serve(ctx, cfg.Listen.Status, registry) })
	}

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("shutting down")
}

func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

func serveSocket(ctx context.Context, socketPath string, registry *agent.Registry, opts rules.Options) error {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on socket %s: %w", socketPath, err)
	}
	defer os.Remove(socketPath)
	stopClose := context.AfterFunc(ctx, func() { listener.Close() })
	defer stopClose()

	slog.Info("listening on domain socket", "path", socketPath)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("new connection accepted")
		go agent.Serve(ctx, ipc.NewStreamTransport(conn), registry, opts)
	}
}

func serveWebSocket(ctx context.Context, addr string, registry *agent.Registry, opts rules.Options) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", &ipc.WebSocketHandler{
		Serve: func(ctx context.Context, t ipc.Transport) {
			agent.Serve(ctx, t, registry, opts)
		},
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		// Sessions end with the process, not with the HTTP server.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("listening for websocket sessions", "addr", addr, "path", "/ws")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket server: %w", err)
	}
	return nil
}
