package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGemini()
	c.normalizeGeneration()
	c.normalizeAuth()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if strings.TrimSpace(c.Gemini.TextModel) == "" {
		c.Gemini.TextModel = defaultTextModel
	}
	if strings.TrimSpace(c.Gemini.ImageModel) == "" {
		c.Gemini.ImageModel = defaultImageModel
	}
	if strings.TrimSpace(c.Gemini.VideoModel) == "" {
		c.Gemini.VideoModel = defaultVideoModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeoutSeconds
	}
}

func (c *Config) normalizeGeneration() {
	if c.Generation.ChunkSize <= 0 {
		c.Generation.ChunkSize = defaultChunkSize
	}
	if c.Generation.IdeaCount <= 0 {
		c.Generation.IdeaCount = defaultIdeaCount
	}
	if c.Generation.StuckThresholdMinutes <= 0 {
		c.Generation.StuckThresholdMinutes = defaultStuckThresholdMins
	}
	if c.Generation.SweepIntervalMinutes <= 0 {
		c.Generation.SweepIntervalMinutes = defaultSweepIntervalMins
	}
}

func (c *Config) normalizeAuth() {
	c.Auth.Password = strings.TrimSpace(c.Auth.Password)
	if c.Auth.SessionTTLMinutes <= 0 {
		c.Auth.SessionTTLMinutes = defaultSessionTTLMinutes
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		c.Auth.LoginRatePerMinute = defaultLoginRatePerMinute
	}
	if c.Auth.RequestRatePerSecond <= 0 {
		c.Auth.RequestRatePerSecond = defaultRequestRatePerSecond
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "console", "json":
	default:
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
