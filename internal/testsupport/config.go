package testsupport

import (
	"path/filepath"
	"testing"

	"telenovela/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Gemini.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAuth enables session auth with the given password.
func WithAuth(password string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Auth.Enabled = true
		cfg.Auth.Password = password
	}
}

// WithChunkSize overrides the generation chunk size.
func WithChunkSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generation.ChunkSize = size
	}
}
