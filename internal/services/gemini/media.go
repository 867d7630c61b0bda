package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/genai"

	"telenovela/internal/generation"
)

var _ generation.Generator = (*Client)(nil)

// RenderImages renders one still per request. A request whose render
// fails is omitted from the results rather than failing the whole
// batch; the orchestrator rolls the omitted entity back.
func (c *Client) RenderImages(ctx context.Context, reqs []generation.ImageRequest) ([]generation.ImageResult, error) {
	results := make([]generation.ImageResult, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		path, err := c.renderImage(ctx, req)
		if err != nil {
			c.logger.Warn("image render failed", "key", req.Key, "error", err)
			continue
		}
		results = append(results, generation.ImageResult{
			Key:  req.Key,
			Path: path,
			URL:  mediaURL(path, c.cfg.MediaDir),
		})
	}
	return results, nil
}

func (c *Client) renderImage(ctx context.Context, req generation.ImageRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout())
	defer cancel()

	genCfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	}
	if req.AspectRatio != "" {
		genCfg.AspectRatio = req.AspectRatio
	}
	if req.NegativePrompt != "" {
		genCfg.NegativePrompt = req.NegativePrompt
	}

	resp, err := c.api.Models.GenerateImages(ctx, c.cfg.ImageModel, req.Prompt, genCfg)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", errors.New("generate image: empty response")
	}
	data := resp.GeneratedImages[0].Image.ImageBytes
	if len(data) == 0 {
		return "", errors.New("generate image: no image bytes")
	}
	return c.writeMedia("images", req.Key+".png", data)
}

// RenderVideos renders one clip per request through the video model's
// long-running operations, polling until each completes. Like
// RenderImages, individual failures are omitted from the results.
func (c *Client) RenderVideos(ctx context.Context, reqs []generation.VideoRequest) ([]generation.VideoResult, error) {
	results := make([]generation.VideoResult, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		path, err := c.renderVideo(ctx, req)
		if err != nil {
			c.logger.Warn("video render failed", "key", req.Key, "error", err)
			continue
		}
		results = append(results, generation.VideoResult{
			Key:             req.Key,
			Path:            path,
			URL:             mediaURL(path, c.cfg.MediaDir),
			DurationSeconds: float64(req.DurationSeconds),
		})
	}
	return results, nil
}

func (c *Client) renderVideo(ctx context.Context, req generation.VideoRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout())
	defer cancel()

	genCfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
	}
	if req.AspectRatio != "" {
		genCfg.AspectRatio = req.AspectRatio
	}

	op, err := c.api.Models.GenerateVideos(ctx, c.cfg.VideoModel, req.Prompt, nil, genCfg)
	if err != nil {
		return "", fmt.Errorf("generate video: %w", err)
	}
	for !op.Done {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("generate video: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
		op, err = c.api.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", fmt.Errorf("poll video operation: %w", err)
		}
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return "", errors.New("generate video: empty response")
	}

	video := op.Response.GeneratedVideos[0].Video
	data := video.VideoBytes
	if len(data) == 0 {
		downloaded, err := c.api.Files.Download(ctx, video, nil)
		if err != nil {
			return "", fmt.Errorf("download video: %w", err)
		}
		data = downloaded
		if len(data) == 0 {
			data = video.VideoBytes
		}
	}
	if len(data) == 0 {
		return "", errors.New("generate video: no video bytes")
	}
	return c.writeMedia("videos", req.Key+".mp4", data)
}

// writeMedia stores rendered bytes under the media directory and
// returns the absolute path.
func (c *Client) writeMedia(kind, name string, data []byte) (string, error) {
	dir := filepath.Join(c.cfg.MediaDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path, nil
}

// mediaURL maps an absolute media path to the daemon's /media/ URL
// space.
func mediaURL(path, mediaDir string) string {
	rel, err := filepath.Rel(mediaDir, path)
	if err != nil {
		return ""
	}
	return "/media/" + filepath.ToSlash(rel)
}
