// Package config loads and validates the TOML configuration consumed by
// the wlan_play client. It is treated as thin external glue: a direct
// Decode call plus field-by-field validation, mirroring a YAML config
// package's shape with TOML swapped in.
package config

import "fmt"

// AgentConfig is the [agent] table.
type AgentConfig struct {
	Platform       string   `toml:"platform"`
	Command        []string `toml:"command"`
	URL            string   `toml:"url"`
	AfterConnected string   `toml:"after_connected"`
	Device         string   `toml:"device"`
	Mode           string   `toml:"mode"`
	Server         string   `toml:"server"`
}

// Config is the top-level document.
type Config struct {
	Agent AgentConfig `toml:"agent"`
}

const (
	ModeHost    = "Host"
	ModeStation = "Station"
)

// Validate checks the fields wlan_play actually depends on.
func (c *Config) Validate() error {
	a := c.Agent

	if a.Platform != "Linux" {
		return fmt.Errorf("config: unsupported agent platform %q (only \"Linux\" is implemented)", a.Platform)
	}
	if a.Mode != ModeHost && a.Mode != ModeStation {
		return fmt.Errorf("config: mode must be %q or %q, got %q", ModeHost, ModeStation, a.Mode)
	}
	if a.Device == "" {
		return fmt.Errorf("config: device is required")
	}
	if a.Server == "" {
		return fmt.Errorf("config: server is required")
	}
	if len(a.Command) == 0 && a.URL == "" {
		return fmt.Errorf("config: agent needs either command or url")
	}
	if len(a.Command) > 0 && a.URL != "" {
		return fmt.Errorf("config: agent must set exactly one of command or url")
	}
	return nil
}
