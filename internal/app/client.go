package app

import (
	"context"
	"fmt"

	"github.com/wtun-io/wtun/internal/config"
	"github.com/wtun-io/wtun/internal/transport"
	"github.com/wtun-io/wtun/internal/tunnel"
	"github.com/wtun-io/wtun/internal/util"
)

// RunClient orchestrates the full client lifecycle:
//  1. Resolve the forward target
//  2. Dial the relay's tunnel endpoint
//  3. Send the authenticated handshake
//  4. Start the local listener — one logical connection per accept
//  5. Forward traffic until shutdown
func RunClient(ctx context.Context, cfg *config.Config) error {
	target, err := util.ResolveAddrPort(cfg.Target)
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	conn, err := transport.Dial(ctx, cfg.ServerURL)
	if err != nil {
		return err
	}

	tr := transport.NewTransport(ctx, conn)
	defer tr.Close()
	util.LogInfo("connected to relay: %s", cfg.ServerURL)

	sess := tunnel.NewClientSession(ctx, tr, cfg.Secret)
	sess.Handshake(target)
	util.LogSuccess("tunnel requested — forwarding 127.0.0.1:%d → %s", cfg.LocalPort, target)

	util.StartStatsReporter(ctx)

	// Local listener in the background; a listener failure tears the
	// channel down through tr.Close, which unblocks Serve below.
	go func() {
		if err := sess.ListenAndServe(cfg.LocalPort); err != nil {
			util.LogError("local service error: %v", err)
			tr.Close()
		}
	}()

	err = tr.Serve(func(packet []byte) {
		_ = sess.HandleControl(packet)
	}, sess.HandleFrame)

	if err != nil {
		return fmt.Errorf("channel closed: %w", err)
	}
	util.LogInfo("channel closed")
	return nil
}
