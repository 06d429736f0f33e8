package config

import "fmt"

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (expected text or json)", c.LogFormat)
	}

	if c.Check.Jobs < 0 {
		return fmt.Errorf("check.jobs must not be negative, got %d", c.Check.Jobs)
	}

	if c.Serve.Addr == "" {
		return fmt.Errorf("serve.addr is required")
	}

	return nil
}
