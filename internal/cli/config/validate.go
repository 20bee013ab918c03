package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/leapstack-labs/formulate/pkg/core"
)

// Validate checks if the configuration is valid. Backend names are checked
// by the commands that use them, after YAML backends are loaded.
func (c *Config) Validate() error {
	if !slices.Contains(outputModes, c.Output) {
		return fmt.Errorf("invalid output %q (want one of %v): %w", c.Output, outputModes, core.ErrConfig)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d: %w", c.Concurrency, core.ErrConfig)
	}
	return nil
}

// ValidateDirectories checks that the backends directory exists when set.
func (c *Config) ValidateDirectories() error {
	if c.BackendsDir == "" {
		return nil
	}
	info, err := os.Stat(c.BackendsDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("backends directory does not exist: %s\nHint: Create the directory or use --backends-dir to specify a different path", c.BackendsDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat backends directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backends_dir is not a directory: %s", c.BackendsDir)
	}
	return nil
}
