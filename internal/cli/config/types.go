// Package config provides configuration management for the formulate CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	From        string        `koanf:"from"`
	To          string        `koanf:"to"`
	BackendsDir string        `koanf:"backends_dir"`
	Verbose     bool          `koanf:"verbose"`
	Output      string        `koanf:"output"`
	Concurrency int           `koanf:"concurrency"`
	Server      *ServerConfig `koanf:"server"`
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr  string `koanf:"addr"`
	Watch bool   `koanf:"watch"` // reload backends_dir on change
}

// Default configuration values.
const (
	DefaultFrom        = "numexpr"
	DefaultTo          = "root"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=plain
	DefaultConcurrency = 4
	DefaultServerAddr  = ":8765"
)

// Output modes accepted by the output key.
var outputModes = []string{"auto", "text", "plain", "json"}

// OutputModes returns the accepted output modes, for flag completion.
func OutputModes() []string {
	return append([]string(nil), outputModes...)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		From:        DefaultFrom,
		To:          DefaultTo,
		Output:      DefaultOutput,
		Concurrency: DefaultConcurrency,
		Server:      &ServerConfig{Addr: DefaultServerAddr},
	}
}

// GetServerConfig returns the server config with defaults applied for any unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	if c.Server == nil {
		return &ServerConfig{Addr: DefaultServerAddr}
	}
	s := *c.Server
	if s.Addr == "" {
		s.Addr = DefaultServerAddr
	}
	return &s
}
