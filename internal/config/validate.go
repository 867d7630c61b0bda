package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		return fmt.Errorf("paths.media_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validateGeneration() error {
	// One model call per chunk; large chunks routinely blow out output
	// token limits and return truncated JSON.
	if c.Generation.ChunkSize > 10 {
		return fmt.Errorf("generation.chunk_size %d too large (max 10)", c.Generation.ChunkSize)
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.Enabled && c.Auth.Password == "" {
		return fmt.Errorf("auth.password must be set when auth is enabled")
	}
	return nil
}
