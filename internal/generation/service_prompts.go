package generation

import (
	"context"
	"fmt"

	"telenovela/internal/logging"
	"telenovela/internal/show"
)

// GenerateImagePrompts builds shot lists for every scene of a finished
// episode that has none yet. Prompts land in the generated state so the
// user reviews them before rendering.
func (svc *Service) GenerateImagePrompts(ctx context.Context, projectID string) (int, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return 0, err
	}
	scenes := scriptedScenes(tree)
	if len(scenes) == 0 {
		return 0, fmt.Errorf("generate image prompts: project %s has no generated episodes", projectID)
	}

	covered := make(map[string]bool, len(tree.ImagePrompts))
	for _, p := range tree.ImagePrompts {
		covered[p.SceneID] = true
	}
	locationsByID := make(map[string]*show.Location, len(tree.Locations))
	for _, l := range tree.Locations {
		locationsByID[l.ID] = l
	}
	characters := make([]CharacterContext, 0, len(tree.Characters))
	for _, c := range tree.Characters {
		characters = append(characters, characterContext(c))
	}

	created := 0
	for _, scene := range scenes {
		if covered[scene.ID] {
			continue
		}
		req := ShotListRequest{
			SceneTitle:  scene.Title,
			Mood:        scene.Mood,
			ActionBeats: scene.ActionBeats,
			Characters:  characters,
		}
		if location := locationsByID[scene.LocationID]; location != nil {
			req.Location = locationContext(location)
		}
		shots, err := svc.gen.ImagePrompts(ctx, req)
		if err != nil {
			return created, fmt.Errorf("generate image prompts for scene %d: %w", scene.SceneNumber, err)
		}
		for _, shot := range shots {
			prompt := &show.ImagePrompt{
				SceneID:        scene.ID,
				ShotNumber:     shot.ShotNumber,
				ShotType:       shot.ShotType,
				Description:    shot.Description,
				PromptText:     shot.PromptText,
				NegativePrompt: shot.NegativePrompt,
				State:          show.PromptGenerated,
			}
			if err := svc.store.CreateImagePrompt(ctx, prompt); err != nil {
				return created, err
			}
			created++
		}
	}

	svc.logger.Info("image prompts generated",
		logging.FieldProjectID, projectID, "created", created)
	return created, nil
}

// GenerateReferencePrompts writes reference image prompt text for every
// character and location that has no reference yet. The refs start
// pending; GenerateReferenceImages renders them.
func (svc *Service) GenerateReferencePrompts(ctx context.Context, projectID string) (int, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, character := range tree.Characters {
		if tree.CharacterRefs[character.ID] != nil {
			continue
		}
		promptText, err := svc.gen.CharacterRefPrompt(ctx, characterContext(character))
		if err != nil {
			return created, fmt.Errorf("generate reference prompt for %q: %w", character.Name, err)
		}
		ref := &show.CharacterRef{CharacterID: character.ID, PromptText: promptText}
		if err := svc.store.CreateCharacterRef(ctx, ref); err != nil {
			return created, err
		}
		created++
	}
	for _, location := range tree.Locations {
		if tree.LocationRefs[location.ID] != nil {
			continue
		}
		promptText, err := svc.gen.LocationRefPrompt(ctx, locationContext(location))
		if err != nil {
			return created, fmt.Errorf("generate reference prompt for %q: %w", location.Name, err)
		}
		ref := &show.LocationRef{LocationID: location.ID, PromptText: promptText}
		if err := svc.store.CreateLocationRef(ctx, ref); err != nil {
			return created, err
		}
		created++
	}

	svc.logger.Info("reference prompts generated",
		logging.FieldProjectID, projectID, "created", created)
	return created, nil
}

// GenerateThumbnails writes promotional art prompts, one vertical and
// one horizontal, for every finished episode that has none yet. The
// thumbnails start pending; RenderThumbnails paints them.
func (svc *Service) GenerateThumbnails(ctx context.Context, projectID string) (int, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return 0, err
	}

	covered := make(map[string]bool, len(tree.Thumbnails))
	for _, t := range tree.Thumbnails {
		covered[t.EpisodeID] = true
	}
	characters := make([]CharacterContext, 0, len(tree.Characters))
	for _, c := range tree.Characters {
		characters = append(characters, characterContext(c))
	}

	created := 0
	for _, episode := range tree.Episodes {
		if covered[episode.ID] {
			continue
		}
		if episode.State != show.GenerationGenerated && episode.State != show.GenerationApproved {
			continue
		}
		results, err := svc.gen.ThumbnailPrompts(ctx, ThumbnailRequest{
			EpisodeNumber:     episode.EpisodeNumber,
			EpisodeTitle:      episode.Title,
			CliffhangerMoment: episode.CliffhangerMoment,
			Characters:        characters,
		})
		if err != nil {
			return created, fmt.Errorf("generate thumbnails for episode %d: %w", episode.EpisodeNumber, err)
		}
		for _, r := range results {
			orientation := r.Orientation
			if orientation != "vertical" && orientation != "horizontal" {
				orientation = "horizontal"
			}
			thumb := &show.Thumbnail{
				ProjectID:   projectID,
				EpisodeID:   episode.ID,
				Orientation: orientation,
				PromptText:  r.PromptText,
			}
			if err := svc.store.CreateThumbnail(ctx, thumb); err != nil {
				return created, err
			}
			created++
		}
	}

	svc.logger.Info("thumbnail prompts generated",
		logging.FieldProjectID, projectID, "created", created)
	return created, nil
}

// GenerateVideoPrompts builds motion segments for every scene that has
// image prompts but no video prompts yet.
func (svc *Service) GenerateVideoPrompts(ctx context.Context, projectID string) (int, error) {
	tree, err := svc.store.LoadTree(ctx, projectID)
	if err != nil {
		return 0, err
	}

	shotsByScene := make(map[string][]ImagePromptResult)
	for _, p := range tree.ImagePrompts {
		shotsByScene[p.SceneID] = append(shotsByScene[p.SceneID], ImagePromptResult{
			ShotNumber:  p.ShotNumber,
			ShotType:    p.ShotType,
			Description: p.Description,
		})
	}
	covered := make(map[string]bool, len(tree.VideoPrompts))
	for _, p := range tree.VideoPrompts {
		covered[p.SceneID] = true
	}
	imagesByShot := sceneShotImages(tree)

	created := 0
	for _, scene := range scriptedScenes(tree) {
		if covered[scene.ID] || len(shotsByScene[scene.ID]) == 0 {
			continue
		}
		segments, err := svc.gen.VideoPrompts(ctx, MotionListRequest{
			SceneTitle:      scene.Title,
			Mood:            scene.Mood,
			DurationSeconds: scene.DurationSeconds,
			ActionBeats:     scene.ActionBeats,
			Shots:           shotsByScene[scene.ID],
		})
		if err != nil {
			return created, fmt.Errorf("generate video prompts for scene %d: %w", scene.SceneNumber, err)
		}
		for _, seg := range segments {
			prompt := &show.VideoPrompt{
				SceneID:         scene.ID,
				SegmentNumber:   seg.SegmentNumber,
				PromptText:      seg.PromptText,
				DurationSeconds: seg.DurationSeconds,
				CameraMovement:  seg.CameraMovement,
				State:           show.PromptGenerated,
			}
			if image := imagesByShot[sceneShot{scene.ID, seg.ReferenceImageShot}]; image != nil {
				prompt.ReferenceImageID = image.ID
			}
			if err := svc.store.CreateVideoPrompt(ctx, prompt); err != nil {
				return created, err
			}
			created++
		}
	}

	svc.logger.Info("video prompts generated",
		logging.FieldProjectID, projectID, "created", created)
	return created, nil
}

// scriptedScenes returns the scenes of generated or approved episodes,
// in tree order.
func scriptedScenes(tree *show.Tree) []*show.Scene {
	ready := make(map[string]bool, len(tree.Episodes))
	for _, e := range tree.Episodes {
		if e.State == show.GenerationGenerated || e.State == show.GenerationApproved {
			ready[e.ID] = true
		}
	}
	var scenes []*show.Scene
	for _, s := range tree.Scenes {
		if ready[s.EpisodeID] {
			scenes = append(scenes, s)
		}
	}
	return scenes
}

type sceneShot struct {
	sceneID string
	shot    int
}

// sceneShotImages indexes rendered stills by scene and shot number so
// video prompts can anchor to them.
func sceneShotImages(tree *show.Tree) map[sceneShot]*show.GeneratedImage {
	index := make(map[sceneShot]*show.GeneratedImage)
	for _, p := range tree.ImagePrompts {
		if image := tree.Images[p.ID]; image != nil {
			index[sceneShot{p.SceneID, p.ShotNumber}] = image
		}
	}
	return index
}
