// Package config holds the runtime's non-consensus tunables: log
// level/format and the metrics listen address. Consensus-critical
// values (gas bucket costs, maxFrameDepth, maxTxInputNum, ...) are
// compiled-in constants in core/vm and never configurable, since a
// divergent value there would be a consensus fork (§4.9).
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the runtime's adjustable, non-consensus settings.
type Config struct {
	Log     LogConfig
	Metrics MetricsConfig
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9090",
		},
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics addr must not be empty when metrics is enabled")
	}
	return nil
}

// Load parses a TOML-like configuration from raw bytes: [section]
// headers followed by key = value pairs, matching the shape of this
// runtime's only two configurable sections.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	section := ""

	for lineNum, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, fmt.Errorf("line %d: unclosed section header", lineNum+1)
			}
			section = strings.TrimSpace(line[1:end])
			continue
		}
		eqIdx := strings.Index(line, "=")
		if eqIdx < 0 {
			return nil, fmt.Errorf("line %d: expected key = value", lineNum+1)
		}
		key := strings.TrimSpace(line[:eqIdx])
		val := unquote(strings.TrimSpace(line[eqIdx+1:]))
		if err := apply(cfg, section, key, val, lineNum+1); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func apply(cfg *Config, section, key, val string, lineNum int) error {
	switch section {
	case "log":
		switch key {
		case "level":
			cfg.Log.Level = val
		case "format":
			cfg.Log.Format = val
		default:
			return fmt.Errorf("line %d: unknown key %q in [log]", lineNum, key)
		}
	case "metrics":
		switch key {
		case "enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("line %d: invalid metrics enabled: %w", lineNum, err)
			}
			cfg.Metrics.Enabled = b
		case "addr":
			cfg.Metrics.Addr = val
		default:
			return fmt.Errorf("line %d: unknown key %q in [metrics]", lineNum, key)
		}
	default:
		return fmt.Errorf("line %d: unknown section [%s]", lineNum, section)
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
