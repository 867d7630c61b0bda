package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"telenovela/internal/config"
	"telenovela/internal/logging"
)

const (
	defaultTextModel    = "gemini-2.5-flash"
	defaultImageModel   = "imagen-4.0-generate-001"
	defaultVideoModel   = "veo-3.0-generate-001"
	defaultCallTimeout  = 5 * time.Minute
	defaultPollInterval = 10 * time.Second
)

// Config captures the runtime settings required to talk to Gemini.
type Config struct {
	APIKey         string
	TextModel      string
	ImageModel     string
	VideoModel     string
	TimeoutSeconds int
	// MediaDir is where rendered stills and clips are written.
	MediaDir string
}

// Client wraps the Gemini API behind the generation.Generator contract.
type Client struct {
	cfg          Config
	api          *genai.Client
	logger       *slog.Logger
	pollInterval time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithLogger attaches a logger for call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With(logging.FieldComponent, "gemini")
		}
	}
}

// WithPollInterval overrides how often video operations are polled
// (useful for tests).
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// NewClient constructs a Gemini client using the supplied
// configuration.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	if cfg.VideoModel == "" {
		cfg.VideoModel = defaultVideoModel
	}

	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	client := &Client{
		cfg:          cfg,
		api:          api,
		logger:       logging.NewNop(),
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FromConfig builds a client from the application configuration.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	return NewClient(ctx, Config{
		APIKey:         cfg.Gemini.APIKey,
		TextModel:      cfg.Gemini.TextModel,
		ImageModel:     cfg.Gemini.ImageModel,
		VideoModel:     cfg.Gemini.VideoModel,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
		MediaDir:       cfg.Paths.MediaDir,
	}, WithLogger(logger))
}

func (c *Client) callTimeout() time.Duration {
	if c.cfg.TimeoutSeconds > 0 {
		return time.Duration(c.cfg.TimeoutSeconds) * time.Second
	}
	return defaultCallTimeout
}

// generateText runs one text completion and returns the raw response.
func (c *Client) generateText(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout())
	defer cancel()

	var genCfg *genai.GenerateContentConfig
	if system != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
		}
	}

	started := time.Now()
	resp, err := c.api.Models.GenerateContent(ctx, c.cfg.TextModel, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini generate: empty response")
	}
	c.logger.Debug("text generation finished",
		"model", c.cfg.TextModel,
		"response_chars", len(text),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return text, nil
}

// generateJSON runs one completion and decodes the payload into T.
func generateJSON[T any](ctx context.Context, c *Client, system, prompt string) (T, error) {
	var out T
	raw, err := c.generateText(ctx, system, prompt)
	if err != nil {
		return out, err
	}
	if err := DecodeModelJSON(raw, &out); err != nil {
		return out, fmt.Errorf("gemini decode: %w", err)
	}
	return out, nil
}
