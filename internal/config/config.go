// Package config holds the process configuration for both roles.
package config

import (
	"errors"
	"fmt"
)

// Role selects which half of the tunnel this process runs.
type Role string

const (
	RoleRelay  Role = "relay"
	RoleClient Role = "client"
)

// Config stores all parameters gathered from flags and the optional
// YAML config file. Flag values override file values.
type Config struct {
	Role   Role   `yaml:"role"`
	Secret string `yaml:"secret"` // pre-shared HMAC key, required for both roles

	// Relay side
	Listen       string  `yaml:"listen"`        // HTTP listen address for the tunnel endpoint
	ConnectRate  float64 `yaml:"connect_rate"`  // new logical connections per second, per session
	ConnectBurst int     `yaml:"connect_burst"` // admission burst for new logical connections

	// Client side
	ServerURL string `yaml:"server_url"` // ws:// or wss:// URL of the relay tunnel endpoint
	LocalPort int    `yaml:"local_port"` // local port for the forwarded service
	Target    string `yaml:"target"`     // host:port the relay should forward to
}

// Default returns a Config with relay admission defaults filled in.
func Default() *Config {
	return &Config{
		Listen:       ":8400",
		ConnectRate:  32,
		ConnectBurst: 64,
	}
}

// Validate checks the fields required by the configured role.
func (c *Config) Validate() error {
	var errs []error

	if c.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	}

	switch c.Role {
	case RoleRelay:
		if c.Listen == "" {
			errs = append(errs, errors.New("listen address is required for the relay role"))
		}
		if c.ConnectRate <= 0 || c.ConnectBurst < 1 {
			errs = append(errs, fmt.Errorf("invalid connect admission limits: rate=%v burst=%d", c.ConnectRate, c.ConnectBurst))
		}
	case RoleClient:
		if c.ServerURL == "" {
			errs = append(errs, errors.New("server_url is required for the client role"))
		}
		if c.LocalPort < 1 || c.LocalPort > 65535 {
			errs = append(errs, fmt.Errorf("invalid local_port: %d", c.LocalPort))
		}
		if c.Target == "" {
			errs = append(errs, errors.New("target is required for the client role"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid role: %q", c.Role))
	}

	return errors.Join(errs...)
}
