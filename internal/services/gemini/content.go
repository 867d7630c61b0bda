package gemini

import (
	"context"
	"fmt"
	"strings"

	"telenovela/internal/generation"
)

// Ideas pitches series premises.
func (c *Client) Ideas(ctx context.Context, req generation.IdeaRequest) ([]generation.IdeaResult, error) {
	if req.Count <= 0 {
		req.Count = 3
	}
	results, err := generateJSON[[]generation.IdeaResult](ctx, c, systemPrompt, ideasPrompt(req))
	if err != nil {
		return nil, err
	}
	kept := results[:0]
	for _, r := range results {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// Characters generates the cast for an approved premise.
func (c *Client) Characters(ctx context.Context, req generation.StructureRequest) ([]generation.CharacterResult, error) {
	results, err := generateJSON[[]generation.CharacterResult](ctx, c, systemPrompt, charactersPrompt(req))
	if err != nil {
		return nil, err
	}
	kept := results[:0]
	for _, r := range results {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		if r.Role == "" {
			r.Role = "supporting"
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// Locations generates the recurring sets.
func (c *Client) Locations(ctx context.Context, req generation.StructureRequest) ([]generation.LocationResult, error) {
	results, err := generateJSON[[]generation.LocationResult](ctx, c, systemPrompt, locationsPrompt(req))
	if err != nil {
		return nil, err
	}
	kept := results[:0]
	for _, r := range results {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		if r.Type == "" {
			r.Type = "interior"
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// EpisodeArc generates the per-episode outlines. Missing episode
// numbers are filled positionally.
func (c *Client) EpisodeArc(ctx context.Context, req generation.StructureRequest) ([]generation.SummaryResult, error) {
	results, err := generateJSON[[]generation.SummaryResult](ctx, c, systemPrompt, episodeArcPrompt(req))
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].EpisodeNumber <= 0 {
			results[i].EpisodeNumber = i + 1
		}
		if results[i].Title == "" {
			results[i].Title = fmt.Sprintf("Episode %d", results[i].EpisodeNumber)
		}
	}
	return results, nil
}

// EpisodeScripts writes full scripts for one chunk of episodes.
func (c *Client) EpisodeScripts(ctx context.Context, req generation.ScriptBatchRequest) ([]generation.ScriptResult, error) {
	results, err := generateJSON[[]generation.ScriptResult](ctx, c, systemPrompt, scriptsPrompt(req))
	if err != nil {
		return nil, err
	}
	for i := range results {
		for j := range results[i].Scenes {
			scene := &results[i].Scenes[j]
			if scene.SceneNumber <= 0 {
				scene.SceneNumber = j + 1
			}
			if scene.DurationSeconds <= 0 {
				scene.DurationSeconds = 15
			}
			if scene.TimeOfDay == "" {
				scene.TimeOfDay = "day"
			}
			if scene.Mood == "" {
				scene.Mood = "dramatic"
			}
		}
	}
	return results, nil
}

// ImagePrompts builds the shot list for one scene.
func (c *Client) ImagePrompts(ctx context.Context, req generation.ShotListRequest) ([]generation.ImagePromptResult, error) {
	results, err := generateJSON[[]generation.ImagePromptResult](ctx, c, systemPrompt, shotListPrompt(req))
	if err != nil {
		return nil, err
	}
	kept := results[:0]
	for i, r := range results {
		if strings.TrimSpace(r.PromptText) == "" {
			continue
		}
		if r.ShotNumber <= 0 {
			r.ShotNumber = i + 1
		}
		if r.ShotType == "" {
			r.ShotType = "medium"
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// CharacterRefPrompt writes the reference portrait prompt for one
// character.
func (c *Client) CharacterRefPrompt(ctx context.Context, ch generation.CharacterContext) (string, error) {
	text, err := c.generateText(ctx, systemPrompt, characterRefPrompt(ch))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// LocationRefPrompt writes the establishing shot prompt for one
// location.
func (c *Client) LocationRefPrompt(ctx context.Context, loc generation.LocationContext) (string, error) {
	text, err := c.generateText(ctx, systemPrompt, locationRefPrompt(loc))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ThumbnailPrompts writes promotional art prompts for one episode.
func (c *Client) ThumbnailPrompts(ctx context.Context, req generation.ThumbnailRequest) ([]generation.ThumbnailResult, error) {
	results, err := generateJSON[[]generation.ThumbnailResult](ctx, c, systemPrompt, thumbnailPrompt(req))
	if err != nil {
		return nil, err
	}
	kept := results[:0]
	for _, r := range results {
		if strings.TrimSpace(r.PromptText) == "" {
			continue
		}
		if r.Orientation != "vertical" {
			r.Orientation = "horizontal"
		}
		kept = append(kept, r)
	}
	return kept, nil
}

// VideoPrompts builds motion segments for one scene.
func (c *Client) VideoPrompts(ctx context.Context, req generation.MotionListRequest) ([]generation.VideoPromptResult, error) {
	results, err := generateJSON[[]generation.VideoPromptResult](ctx, c, systemPrompt, motionListPrompt(req))
	if err != nil {
		return nil, err
	}
	kept := results[:0]
	for i, r := range results {
		if strings.TrimSpace(r.PromptText) == "" {
			continue
		}
		if r.SegmentNumber <= 0 {
			r.SegmentNumber = i + 1
		}
		if r.DurationSeconds <= 0 {
			r.DurationSeconds = 5
		}
		kept = append(kept, r)
	}
	return kept, nil
}
