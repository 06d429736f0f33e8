// Package config handles pgparser configuration loading and validation.
package config

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultServeAddr = ":8080"
)

// Config holds all CLI configuration options.
type Config struct {
	// LogLevel controls diagnostic logging: debug, info, warn, or error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// NoColor disables colored terminal output.
	NoColor bool `koanf:"no_color"`

	// Check configures the batch file checker.
	Check CheckConfig `koanf:"check"`

	// Serve configures the HTTP server.
	Serve ServeConfig `koanf:"serve"`
}

// CheckConfig holds settings for the check command.
type CheckConfig struct {
	// Jobs is the number of files checked in parallel. Zero means one
	// worker per CPU.
	Jobs int `koanf:"jobs"`
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	// Addr is the listen address, host:port.
	Addr string `koanf:"addr"`
}

// Default returns a configuration populated with default values. Commands
// that run outside the root command's config loading fall back to it.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Serve:     ServeConfig{Addr: DefaultServeAddr},
	}
}
