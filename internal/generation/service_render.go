package generation

import (
	"context"

	"telenovela/internal/logging"
	"telenovela/internal/show"
)

// renderable is the media lifecycle shared by every still-image entity.
type renderable interface {
	MarkGenerating() error
	MarkGenerated(path string) error
	ResetForRegen() error
}

// imageSpec adapts one media family to the chunk runner.
type imageSpec[T renderable] struct {
	aspect   string
	key      func(T) string
	prompt   func(T) string
	negative func(T) string
	setURL   func(T, string)
	update   func(context.Context, T) error
}

func runImageBatch[T renderable](ctx context.Context, svc *Service, entities []T, spec imageSpec[T]) (*Outcome, error) {
	targets := make([]Target[T], len(entities))
	for i, e := range entities {
		targets[i] = Target[T]{Key: spec.key(e), Entity: e}
	}
	hooks := Hooks[T, ImageResult]{
		MarkGenerating: func(ctx context.Context, e T) error {
			if err := e.MarkGenerating(); err != nil {
				return err
			}
			return spec.update(ctx, e)
		},
		Call: func(ctx context.Context, chunk []T) ([]Keyed[ImageResult], error) {
			reqs := make([]ImageRequest, len(chunk))
			for i, e := range chunk {
				reqs[i] = ImageRequest{
					Key:         spec.key(e),
					Prompt:      spec.prompt(e),
					AspectRatio: spec.aspect,
				}
				if spec.negative != nil {
					reqs[i].NegativePrompt = spec.negative(e)
				}
			}
			results, err := svc.gen.RenderImages(ctx, reqs)
			if err != nil {
				return nil, err
			}
			keyed := make([]Keyed[ImageResult], len(results))
			for i, r := range results {
				keyed[i] = Keyed[ImageResult]{Key: r.Key, Value: r}
			}
			return keyed, nil
		},
		Apply: func(ctx context.Context, e T, r ImageResult) error {
			if err := e.MarkGenerated(r.Path); err != nil {
				return err
			}
			spec.setURL(e, r.URL)
			return spec.update(ctx, e)
		},
		Rollback: func(ctx context.Context, e T) error {
			if err := e.ResetForRegen(); err != nil {
				return err
			}
			return spec.update(ctx, e)
		},
	}
	return RunChunks(ctx, svc.logger, svc.chunkSize(), targets, hooks)
}

// GenerateReferenceImages renders every pending character and location
// reference through the chunk runner.
func (svc *Service) GenerateReferenceImages(ctx context.Context, projectID string) (*Outcome, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var charRefs []*show.CharacterRef
	for _, character := range tree.Characters {
		if ref := tree.CharacterRefs[character.ID]; ref != nil && ref.State == show.MediaPending {
			charRefs = append(charRefs, ref)
		}
	}
	var locRefs []*show.LocationRef
	for _, location := range tree.Locations {
		if ref := tree.LocationRefs[location.ID]; ref != nil && ref.State == show.MediaPending {
			locRefs = append(locRefs, ref)
		}
	}

	outcome, err := runImageBatch(ctx, svc, charRefs, imageSpec[*show.CharacterRef]{
		aspect: "1:1",
		key:    func(r *show.CharacterRef) string { return r.ID },
		prompt: func(r *show.CharacterRef) string { return r.PromptText },
		setURL: func(r *show.CharacterRef, url string) { r.ImageURL = url },
		update: svc.store.UpdateCharacterRef,
	})
	if err != nil {
		return outcome, err
	}

	locOutcome, locErr := runImageBatch(ctx, svc, locRefs, imageSpec[*show.LocationRef]{
		aspect: "16:9",
		key:    func(r *show.LocationRef) string { return r.ID },
		prompt: func(r *show.LocationRef) string { return r.PromptText },
		setURL: func(r *show.LocationRef, url string) { r.ImageURL = url },
		update: svc.store.UpdateLocationRef,
	})
	mergeOutcomes(outcome, locOutcome)

	svc.logger.Info("reference images rendered",
		logging.FieldProjectID, projectID,
		"applied", outcome.Applied, "rolled_back", outcome.RolledBack)
	return outcome, locErr
}

// GenerateImages creates the missing image rows for approved prompts
// and renders every pending still.
func (svc *Service) GenerateImages(ctx context.Context, projectID string) (*Outcome, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return nil, err
	}

	promptsByImage := make(map[string]*show.ImagePrompt)
	var pending []*show.GeneratedImage
	for _, prompt := range tree.ImagePrompts {
		if prompt.State != show.PromptApproved {
			continue
		}
		image := tree.Images[prompt.ID]
		if image == nil {
			image = &show.GeneratedImage{ImagePromptID: prompt.ID}
			if err := svc.store.CreateGeneratedImage(ctx, image); err != nil {
				return nil, err
			}
		}
		if image.State == show.MediaPending {
			promptsByImage[image.ID] = prompt
			pending = append(pending, image)
		}
	}

	outcome, err := runImageBatch(ctx, svc, pending, imageSpec[*show.GeneratedImage]{
		aspect: "9:16",
		key:    func(g *show.GeneratedImage) string { return g.ID },
		prompt: func(g *show.GeneratedImage) string { return promptsByImage[g.ID].PromptText },
		negative: func(g *show.GeneratedImage) string {
			return promptsByImage[g.ID].NegativePrompt
		},
		setURL: func(g *show.GeneratedImage, url string) { g.ImageURL = url },
		update: svc.store.UpdateGeneratedImage,
	})
	if outcome != nil {
		svc.logger.Info("scene images rendered",
			logging.FieldProjectID, projectID,
			"applied", outcome.Applied, "rolled_back", outcome.RolledBack)
	}
	return outcome, err
}

// RenderThumbnails renders every pending thumbnail, honoring its
// orientation.
func (svc *Service) RenderThumbnails(ctx context.Context, projectID string) (*Outcome, error) {
	thumbnails, err := svc.store.ListThumbnails(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var pending []*show.Thumbnail
	for _, t := range thumbnails {
		if t.State == show.MediaPending {
			pending = append(pending, t)
		}
	}

	// Orientation varies per row, so the aspect is resolved per entity
	// rather than per batch.
	byOrientation := func(t *show.Thumbnail) string {
		if t.Orientation == "vertical" {
			return "9:16"
		}
		return "16:9"
	}
	vertical := make([]*show.Thumbnail, 0, len(pending))
	horizontal := make([]*show.Thumbnail, 0, len(pending))
	for _, t := range pending {
		if byOrientation(t) == "9:16" {
			vertical = append(vertical, t)
		} else {
			horizontal = append(horizontal, t)
		}
	}

	spec := func(aspect string) imageSpec[*show.Thumbnail] {
		return imageSpec[*show.Thumbnail]{
			aspect: aspect,
			key:    func(t *show.Thumbnail) string { return t.ID },
			prompt: func(t *show.Thumbnail) string { return t.PromptText },
			setURL: func(t *show.Thumbnail, url string) { t.ImageURL = url },
			update: svc.store.UpdateThumbnail,
		}
	}
	outcome, err := runImageBatch(ctx, svc, vertical, spec("9:16"))
	if err != nil {
		return outcome, err
	}
	horizontalOutcome, err := runImageBatch(ctx, svc, horizontal, spec("16:9"))
	mergeOutcomes(outcome, horizontalOutcome)

	svc.logger.Info("thumbnails rendered",
		logging.FieldProjectID, projectID,
		"applied", outcome.Applied, "rolled_back", outcome.RolledBack)
	return outcome, err
}

// GenerateVideos creates the missing clip rows for approved video
// prompts and renders every pending clip through the chunk runner.
func (svc *Service) GenerateVideos(ctx context.Context, projectID string) (*Outcome, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return nil, err
	}

	promptsByVideo := make(map[string]*show.VideoPrompt)
	var pending []*show.GeneratedVideo
	for _, prompt := range tree.VideoPrompts {
		if prompt.State != show.PromptApproved {
			continue
		}
		video := tree.Videos[prompt.ID]
		if video == nil {
			video = &show.GeneratedVideo{VideoPromptID: prompt.ID}
			if err := svc.store.CreateGeneratedVideo(ctx, video); err != nil {
				return nil, err
			}
		}
		if video.State == show.MediaPending {
			promptsByVideo[video.ID] = prompt
			pending = append(pending, video)
		}
	}

	targets := make([]Target[*show.GeneratedVideo], len(pending))
	for i, v := range pending {
		targets[i] = Target[*show.GeneratedVideo]{Key: v.ID, Entity: v}
	}
	hooks := Hooks[*show.GeneratedVideo, VideoResult]{
		MarkGenerating: func(ctx context.Context, v *show.GeneratedVideo) error {
			if err := v.MarkGenerating(); err != nil {
				return err
			}
			return svc.store.UpdateGeneratedVideo(ctx, v)
		},
		Call: func(ctx context.Context, chunk []*show.GeneratedVideo) ([]Keyed[VideoResult], error) {
			reqs := make([]VideoRequest, len(chunk))
			for i, v := range chunk {
				prompt := promptsByVideo[v.ID]
				reqs[i] = VideoRequest{
					Key:             v.ID,
					Prompt:          prompt.PromptText,
					DurationSeconds: prompt.DurationSeconds,
					AspectRatio:     "9:16",
				}
			}
			results, err := svc.gen.RenderVideos(ctx, reqs)
			if err != nil {
				return nil, err
			}
			keyed := make([]Keyed[VideoResult], len(results))
			for i, r := range results {
				keyed[i] = Keyed[VideoResult]{Key: r.Key, Value: r}
			}
			return keyed, nil
		},
		Apply: func(ctx context.Context, v *show.GeneratedVideo, r VideoResult) error {
			if err := v.MarkGenerated(r.Path, r.DurationSeconds); err != nil {
				return err
			}
			v.VideoURL = r.URL
			return svc.store.UpdateGeneratedVideo(ctx, v)
		},
		Rollback: func(ctx context.Context, v *show.GeneratedVideo) error {
			if err := v.ResetForRegen(); err != nil {
				return err
			}
			return svc.store.UpdateGeneratedVideo(ctx, v)
		},
	}

	outcome, err := RunChunks(ctx, svc.logger, svc.chunkSize(), targets, hooks)
	if outcome != nil {
		svc.logger.Info("videos rendered",
			logging.FieldProjectID, projectID,
			"applied", outcome.Applied, "rolled_back", outcome.RolledBack)
	}
	return outcome, err
}

func mergeOutcomes(dst, src *Outcome) {
	if dst == nil || src == nil {
		return
	}
	dst.Requested += src.Requested
	dst.Applied += src.Applied
	dst.RolledBack += src.RolledBack
	dst.Chunks += src.Chunks
	dst.SkippedKeys = append(dst.SkippedKeys, src.SkippedKeys...)
}
