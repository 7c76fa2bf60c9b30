package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the relayd daemon configuration, usually loaded from a YAML
// file and then overridden by command-line flags.
type Config struct {
	// Listen is the address client connections are accepted on.
	Listen string `yaml:"listen"`
	// Upstream is the address relayed connections are dialed to.
	Upstream string `yaml:"upstream"`
	// LogFile is the log destination; empty logs to standard error.
	LogFile string `yaml:"log_file,omitempty"`
	// Verbosity is the initial log threshold, 0 (emerg) to 11 (pverb).
	// Out-of-range values are clamped by the logger.
	Verbosity int `yaml:"verbosity"`
	// StatsAddr is the address the stats endpoint listens on; empty
	// disables it.
	StatsAddr string `yaml:"stats_addr,omitempty"`
	// DialTimeoutMS bounds the upstream dial, in milliseconds.
	DialTimeoutMS int `yaml:"dial_timeout_ms"`
}

// Default returns the built-in configuration. Upstream has no sensible
// default and must be supplied by file or flag.
func Default() *Config {
	return &Config{
		Listen:        "127.0.0.1:22121",
		Verbosity:     5, // notice
		StatsAddr:     "127.0.0.1:22222",
		DialTimeoutMS: 2000,
	}
}

// Load reads a YAML configuration file on top of the defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can actually run a relay.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	if c.Upstream == "" {
		return fmt.Errorf("upstream address is required")
	}
	if _, _, err := net.SplitHostPort(c.Upstream); err != nil {
		return fmt.Errorf("invalid upstream address %q: %w", c.Upstream, err)
	}
	if c.StatsAddr != "" {
		if _, _, err := net.SplitHostPort(c.StatsAddr); err != nil {
			return fmt.Errorf("invalid stats address %q: %w", c.StatsAddr, err)
		}
	}
	if c.DialTimeoutMS <= 0 {
		return fmt.Errorf("dial_timeout_ms must be positive, got %d", c.DialTimeoutMS)
	}
	return nil
}
