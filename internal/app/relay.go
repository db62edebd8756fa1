// Package app contains the top-level orchestration for relay and client roles.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wtun-io/wtun/internal/config"
	"github.com/wtun-io/wtun/internal/transport"
	"github.com/wtun-io/wtun/internal/tunnel"
	"github.com/wtun-io/wtun/internal/util"
)

// shutdownGrace bounds how long the relay waits for the HTTP server during
// shutdown. Established channels are cut via context cancellation.
const shutdownGrace = 3 * time.Second

// RunRelay starts the relay: an HTTP server exposing the tunnel endpoint
// at /tunnel. Each upgraded connection becomes an independent session.
// Blocks until ctx is cancelled or the server fails.
func RunRelay(ctx context.Context, cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/tunnel", func(w http.ResponseWriter, r *http.Request) {
		conn, err := transport.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			util.LogWarning("upgrade failed from %s: %v", r.RemoteAddr, err)
			return
		}
		util.LogInfo("channel opened from %s", r.RemoteAddr)
		go serveSession(ctx, conn, cfg)
	})

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	util.LogInfo("relay listening on %s", cfg.Listen)
	util.StartStatsReporter(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveSession drives one client channel until the connection fails, the
// session rejects a packet, or ctx is cancelled.
func serveSession(ctx context.Context, conn *websocket.Conn, cfg *config.Config) {
	tr := transport.NewTransport(ctx, conn)
	defer tr.Close()

	sess := tunnel.NewRelaySession(ctx, tr, cfg.Secret, cfg.ConnectRate, cfg.ConnectBurst)

	err := tr.Serve(func(packet []byte) {
		if err := sess.HandleControl(packet); err != nil {
			util.LogWarning("closing channel: %v", err)
			tr.Close()
		}
	}, sess.HandleFrame)

	if err != nil {
		util.LogInfo("channel closed: %v", err)
	} else {
		util.LogInfo("channel closed")
	}
}
