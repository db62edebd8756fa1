// Wtun — CLI entry point.
//
// This tool forwards a TCP service through a trusted relay over a single
// WebSocket channel. Every control packet is authenticated with a
// pre-shared secret (HMAC-SHA256 envelope); the handshake is
// replay-protected by a timestamp window.
//
// Configuration comes from CLI flags, optionally layered on top of a YAML
// config file (-config). Flags win.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"

	"github.com/wtun-io/wtun/internal/app"
	"github.com/wtun-io/wtun/internal/config"
	"github.com/wtun-io/wtun/internal/util"
)

var version = "dev"

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// CLI flags.
	configPath := flag.String("config", "", "Path to YAML config file")
	role := flag.String("role", "", "Role: relay or client")
	secret := flag.String("secret", "", "Pre-shared secret (both roles)")
	listen := flag.String("listen", "", "HTTP listen address for the tunnel endpoint (relay only)")
	serverURL := flag.String("url", "", "WebSocket URL of the relay, e.g. wss://relay.example.com/tunnel (client only)")
	localPort := flag.Int("port", 0, "Local port for the forwarded service, 1~65535 (client only)")
	target := flag.String("target", "", "host:port the relay should forward to (client only)")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("Wtun — v%s", version))
	pterm.Println()

	cfg, err := buildConfig(*configPath, *role, *secret, *listen, *serverURL, *localPort, *target)
	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	switch cfg.Role {
	case config.RoleRelay:
		err = app.RunRelay(ctx, cfg)
	case config.RoleClient:
		err = app.RunClient(ctx, cfg)
	}

	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}

	util.LogInfo("shut down cleanly")
}

// buildConfig layers flag values over the optional config file and
// validates the result.
func buildConfig(path, role, secret, listen, serverURL string, localPort int, target string) (*config.Config, error) {
	cfg := config.Default()

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if role != "" {
		cfg.Role = config.Role(role)
	}
	if secret != "" {
		cfg.Secret = secret
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if localPort != 0 {
		cfg.LocalPort = localPort
	}
	if target != "" {
		cfg.Target = target
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
