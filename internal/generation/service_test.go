package generation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"telenovela/internal/generation"
	"telenovela/internal/show"
	"telenovela/internal/testsupport"
)

// fakeGenerator answers every call with canned content. Individual
// tests override the function fields they care about.
type fakeGenerator struct {
	ideas        func(ctx context.Context, req generation.IdeaRequest) ([]generation.IdeaResult, error)
	scripts      func(ctx context.Context, req generation.ScriptBatchRequest) ([]generation.ScriptResult, error)
	renderImages func(ctx context.Context, reqs []generation.ImageRequest) ([]generation.ImageResult, error)
	renderVideos func(ctx context.Context, reqs []generation.VideoRequest) ([]generation.VideoResult, error)
}

func (f *fakeGenerator) Ideas(ctx context.Context, req generation.IdeaRequest) ([]generation.IdeaResult, error) {
	if f.ideas != nil {
		return f.ideas(ctx, req)
	}
	results := make([]generation.IdeaResult, req.Count)
	for i := range results {
		results[i] = generation.IdeaResult{
			Title:   fmt.Sprintf("Secretos del Mar %d", i+1),
			Setting: "a coastal resort",
			Logline: "she came back for revenge",
		}
	}
	return results, nil
}

func (f *fakeGenerator) Characters(ctx context.Context, req generation.StructureRequest) ([]generation.CharacterResult, error) {
	return []generation.CharacterResult{
		{Name: "Valentina", Role: "protagonist", PhysicalDescription: "dark hair, sharp eyes"},
		{Name: "Rodrigo", Role: "antagonist"},
	}, nil
}

func (f *fakeGenerator) Locations(ctx context.Context, req generation.StructureRequest) ([]generation.LocationResult, error) {
	return []generation.LocationResult{
		{Name: "Hacienda", Type: "interior", Mood: "tense"},
	}, nil
}

func (f *fakeGenerator) EpisodeArc(ctx context.Context, req generation.StructureRequest) ([]generation.SummaryResult, error) {
	results := make([]generation.SummaryResult, req.NumEpisodes)
	for i := range results {
		results[i] = generation.SummaryResult{
			EpisodeNumber: i + 1,
			Title:         fmt.Sprintf("Episode %d", i+1),
			Summary:       "betrayal escalates",
			Cliffhanger:   "the door opens",
		}
	}
	return results, nil
}

func (f *fakeGenerator) EpisodeScripts(ctx context.Context, req generation.ScriptBatchRequest) ([]generation.ScriptResult, error) {
	if f.scripts != nil {
		return f.scripts(ctx, req)
	}
	results := make([]generation.ScriptResult, len(req.Summaries))
	for i, summary := range req.Summaries {
		results[i] = scriptFor(summary.EpisodeNumber)
	}
	return results, nil
}

func scriptFor(episodeNumber int) generation.ScriptResult {
	return generation.ScriptResult{
		EpisodeNumber:     episodeNumber,
		Title:             fmt.Sprintf("La Verdad %d", episodeNumber),
		ColdOpen:          "a letter burns in the fireplace",
		CliffhangerMoment: "she sees the ring",
		Scenes: []generation.SceneResult{
			{
				SceneNumber: 1,
				Title:       "Confrontation",
				Location:    "hacienda",
				TimeOfDay:   "night",
				Mood:        "tense",
				Dialogue: []generation.DialogueResult{
					{Character: "Valentina", Line: "I know what you did.", Emotion: "cold"},
					{Character: "A Stranger", Line: "Do you?", Emotion: "amused"},
				},
			},
		},
	}
}

func (f *fakeGenerator) ImagePrompts(ctx context.Context, req generation.ShotListRequest) ([]generation.ImagePromptResult, error) {
	return []generation.ImagePromptResult{
		{ShotNumber: 1, ShotType: "wide", PromptText: "establishing shot"},
		{ShotNumber: 2, ShotType: "close-up", PromptText: "her eyes", NegativePrompt: "blur"},
	}, nil
}

func (f *fakeGenerator) CharacterRefPrompt(ctx context.Context, ch generation.CharacterContext) (string, error) {
	return "portrait of " + ch.Name, nil
}

func (f *fakeGenerator) LocationRefPrompt(ctx context.Context, loc generation.LocationContext) (string, error) {
	return "establishing shot of " + loc.Name, nil
}

func (f *fakeGenerator) ThumbnailPrompts(ctx context.Context, req generation.ThumbnailRequest) ([]generation.ThumbnailResult, error) {
	return []generation.ThumbnailResult{
		{Orientation: "vertical", PromptText: "dramatic vertical"},
		{Orientation: "horizontal", PromptText: "dramatic horizontal"},
	}, nil
}

func (f *fakeGenerator) VideoPrompts(ctx context.Context, req generation.MotionListRequest) ([]generation.VideoPromptResult, error) {
	return []generation.VideoPromptResult{
		{SegmentNumber: 1, PromptText: "slow push in", DurationSeconds: 5, CameraMovement: "dolly", ReferenceImageShot: 1},
	}, nil
}

func (f *fakeGenerator) RenderImages(ctx context.Context, reqs []generation.ImageRequest) ([]generation.ImageResult, error) {
	if f.renderImages != nil {
		return f.renderImages(ctx, reqs)
	}
	results := make([]generation.ImageResult, len(reqs))
	for i, req := range reqs {
		results[i] = generation.ImageResult{Key: req.Key, Path: "/media/" + req.Key + ".png"}
	}
	return results, nil
}

func (f *fakeGenerator) RenderVideos(ctx context.Context, reqs []generation.VideoRequest) ([]generation.VideoResult, error) {
	if f.renderVideos != nil {
		return f.renderVideos(ctx, reqs)
	}
	results := make([]generation.VideoResult, len(reqs))
	for i, req := range reqs {
		results[i] = generation.VideoResult{
			Key:             req.Key,
			Path:            "/media/" + req.Key + ".mp4",
			DurationSeconds: float64(req.DurationSeconds),
		}
	}
	return results, nil
}

func newService(t *testing.T, gen generation.Generator) (*generation.Service, *show.Store, *show.Project) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "")
	return generation.NewService(store, gen, cfg, nil), store, project
}

// seedApprovedStructure creates an approved cast, set, and arc of
// count episode summaries.
func seedApprovedStructure(t *testing.T, store *show.Store, projectID string, count int) {
	t.Helper()
	ctx := context.Background()

	for _, name := range []string{"Valentina", "Rodrigo"} {
		character := &show.Character{ProjectID: projectID, Name: name, State: show.StructureApproved}
		if err := store.CreateCharacter(ctx, character); err != nil {
			t.Fatalf("create character: %v", err)
		}
	}
	location := &show.Location{ProjectID: projectID, Name: "Hacienda", State: show.StructureApproved}
	if err := store.CreateLocation(ctx, location); err != nil {
		t.Fatalf("create location: %v", err)
	}
	for i := 1; i <= count; i++ {
		summary := &show.EpisodeSummary{
			ProjectID:     projectID,
			EpisodeNumber: i,
			Title:         fmt.Sprintf("Episode %d", i),
			Summary:       "betrayal escalates",
			State:         show.StructureApproved,
		}
		if err := store.CreateEpisodeSummary(ctx, summary); err != nil {
			t.Fatalf("create summary: %v", err)
		}
	}
}

func TestGenerateIdeasCreatesDrafts(t *testing.T) {
	svc, store, project := newService(t, &fakeGenerator{})
	ctx := context.Background()

	ideas, err := svc.GenerateIdeas(ctx, project.ID, "a vineyard")
	if err != nil {
		t.Fatalf("generate ideas: %v", err)
	}
	if len(ideas) == 0 {
		t.Fatal("expected ideas")
	}
	stored, err := store.ListIdeas(ctx, project.ID)
	if err != nil {
		t.Fatalf("list ideas: %v", err)
	}
	for _, idea := range stored {
		if idea.State != show.IdeaDraft {
			t.Fatalf("idea %q should start as draft, got %s", idea.Title, idea.State)
		}
	}
}

func TestGenerateStructureRequiresApprovedIdea(t *testing.T) {
	svc, store, project := newService(t, &fakeGenerator{})
	ctx := context.Background()

	if _, err := svc.GenerateStructure(ctx, project.ID); err == nil {
		t.Fatal("expected structure generation to fail without an approved idea")
	}

	idea := &show.Idea{ProjectID: project.ID, Title: "Secretos", Setting: "a resort"}
	if err := store.CreateIdea(ctx, idea); err != nil {
		t.Fatalf("create idea: %v", err)
	}
	if _, err := store.ApproveIdea(ctx, idea.ID); err != nil {
		t.Fatalf("approve idea: %v", err)
	}

	counts, err := svc.GenerateStructure(ctx, project.ID)
	if err != nil {
		t.Fatalf("generate structure: %v", err)
	}
	if counts.Characters != 2 || counts.Locations != 1 || counts.Summaries != project.NumEpisodes {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	characters, err := store.ListCharacters(ctx, project.ID)
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	for _, c := range characters {
		if c.State != show.StructureDraft {
			t.Fatalf("character %q should start as draft, got %s", c.Name, c.State)
		}
	}
}

func TestGenerateEpisodesWritesScriptsAndScenes(t *testing.T) {
	svc, store, project := newService(t, &fakeGenerator{})
	ctx := context.Background()
	seedApprovedStructure(t, store, project.ID, 2)

	outcome, err := svc.GenerateEpisodes(ctx, project.ID, 2)
	if err != nil {
		t.Fatalf("generate episodes: %v", err)
	}
	if outcome.Applied != 2 || outcome.RolledBack != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	episodes, err := store.ListEpisodes(ctx, project.ID)
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	if len(episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(episodes))
	}
	for _, episode := range episodes {
		if episode.State != show.GenerationGenerated {
			t.Fatalf("episode %d: unexpected state %s", episode.EpisodeNumber, episode.State)
		}
		scenes, err := store.ListScenes(ctx, episode.ID)
		if err != nil {
			t.Fatalf("list scenes: %v", err)
		}
		if len(scenes) != 1 {
			t.Fatalf("episode %d: expected 1 scene, got %d", episode.EpisodeNumber, len(scenes))
		}
		if scenes[0].LocationID == "" {
			t.Fatal("scene location should match by name, case-insensitively")
		}
		lines, err := store.ListDialogueLines(ctx, scenes[0].ID)
		if err != nil {
			t.Fatalf("list dialogue: %v", err)
		}
		if len(lines) != 2 {
			t.Fatalf("expected 2 dialogue lines, got %d", len(lines))
		}
		if lines[0].CharacterID == "" {
			t.Fatal("known speaker should link to the character")
		}
		if lines[1].CharacterID != "" {
			t.Fatalf("unknown speaker should stay unlinked, got %q", lines[1].CharacterID)
		}
	}
}

func TestGenerateEpisodesRollsBackWhenModelFails(t *testing.T) {
	boom := errors.New("quota exhausted")
	gen := &fakeGenerator{
		scripts: func(ctx context.Context, req generation.ScriptBatchRequest) ([]generation.ScriptResult, error) {
			return nil, boom
		},
	}
	svc, store, project := newService(t, gen)
	ctx := context.Background()
	seedApprovedStructure(t, store, project.ID, 3)

	_, err := svc.GenerateEpisodes(ctx, project.ID, 3)
	var batchErr *generation.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("cause not preserved: %v", err)
	}

	episodes, err := store.ListEpisodes(ctx, project.ID)
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	for _, episode := range episodes {
		if episode.State != show.GenerationPending {
			t.Fatalf("episode %d left in %s after failed batch", episode.EpisodeNumber, episode.State)
		}
	}
}

func TestGenerateEpisodesRollsBackOmittedEpisode(t *testing.T) {
	gen := &fakeGenerator{
		scripts: func(ctx context.Context, req generation.ScriptBatchRequest) ([]generation.ScriptResult, error) {
			// Answer for every episode except number 2.
			var results []generation.ScriptResult
			for _, summary := range req.Summaries {
				if summary.EpisodeNumber == 2 {
					continue
				}
				results = append(results, scriptFor(summary.EpisodeNumber))
			}
			return results, nil
		},
	}
	svc, store, project := newService(t, gen)
	ctx := context.Background()
	seedApprovedStructure(t, store, project.ID, 3)

	outcome, err := svc.GenerateEpisodes(ctx, project.ID, 3)
	if err != nil {
		t.Fatalf("generate episodes: %v", err)
	}
	if outcome.Applied != 2 || outcome.RolledBack != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	episodes, err := store.ListEpisodes(ctx, project.ID)
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}
	for _, episode := range episodes {
		want := show.GenerationGenerated
		if episode.EpisodeNumber == 2 {
			want = show.GenerationPending
		}
		if episode.State != want {
			t.Fatalf("episode %d: got %s, want %s", episode.EpisodeNumber, episode.State, want)
		}
	}
}

func TestReferencePipelineRendersPendingRefs(t *testing.T) {
	svc, store, project := newService(t, &fakeGenerator{})
	ctx := context.Background()
	seedApprovedStructure(t, store, project.ID, 1)

	created, err := svc.GenerateReferencePrompts(ctx, project.ID)
	if err != nil {
		t.Fatalf("generate reference prompts: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 refs (2 characters, 1 location), got %d", created)
	}

	outcome, err := svc.GenerateReferenceImages(ctx, project.ID)
	if err != nil {
		t.Fatalf("generate reference images: %v", err)
	}
	if outcome.Applied != 3 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	characters, err := store.ListCharacters(ctx, project.ID)
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	for _, character := range characters {
		ref, err := store.GetCharacterRefByCharacter(ctx, character.ID)
		if err != nil {
			t.Fatalf("get ref for %q: %v", character.Name, err)
		}
		if ref.State != show.MediaGenerated || ref.ImagePath == "" {
			t.Fatalf("ref for %q not rendered: %+v", character.Name, ref)
		}
	}
}

func TestGenerateImagesRendersOnlyApprovedPrompts(t *testing.T) {
	svc, store, project := newService(t, &fakeGenerator{})
	ctx := context.Background()
	seedApprovedStructure(t, store, project.ID, 1)

	if _, err := svc.GenerateEpisodes(ctx, project.ID, 1); err != nil {
		t.Fatalf("generate episodes: %v", err)
	}
	if _, err := svc.GenerateImagePrompts(ctx, project.ID); err != nil {
		t.Fatalf("generate image prompts: %v", err)
	}

	tree, err := store.LoadTree(ctx, project.ID)
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if len(tree.ImagePrompts) != 2 {
		t.Fatalf("expected 2 image prompts, got %d", len(tree.ImagePrompts))
	}
	approved := tree.ImagePrompts[0]
	if err := approved.Approve(); err != nil {
		t.Fatalf("approve prompt: %v", err)
	}
	if err := store.UpdateImagePrompt(ctx, approved); err != nil {
		t.Fatalf("update prompt: %v", err)
	}

	outcome, err := svc.GenerateImages(ctx, project.ID)
	if err != nil {
		t.Fatalf("generate images: %v", err)
	}
	if outcome.Requested != 1 || outcome.Applied != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	image, err := store.GetGeneratedImageByPrompt(ctx, approved.ID)
	if err != nil {
		t.Fatalf("get image: %v", err)
	}
	if image.State != show.MediaGenerated || image.ImagePath == "" {
		t.Fatalf("image not rendered: %+v", image)
	}
}

func TestGenerateVideosAppliesPathAndDuration(t *testing.T) {
	svc, store, project := newService(t, &fakeGenerator{})
	ctx := context.Background()
	seedApprovedStructure(t, store, project.ID, 1)

	if _, err := svc.GenerateEpisodes(ctx, project.ID, 1); err != nil {
		t.Fatalf("generate episodes: %v", err)
	}
	if _, err := svc.GenerateImagePrompts(ctx, project.ID); err != nil {
		t.Fatalf("generate image prompts: %v", err)
	}
	if _, err := svc.GenerateVideoPrompts(ctx, project.ID); err != nil {
		t.Fatalf("generate video prompts: %v", err)
	}

	tree, err := store.LoadTree(ctx, project.ID)
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if len(tree.VideoPrompts) != 1 {
		t.Fatalf("expected 1 video prompt, got %d", len(tree.VideoPrompts))
	}
	prompt := tree.VideoPrompts[0]
	if err := prompt.Approve(); err != nil {
		t.Fatalf("approve video prompt: %v", err)
	}
	if err := store.UpdateVideoPrompt(ctx, prompt); err != nil {
		t.Fatalf("update video prompt: %v", err)
	}

	outcome, err := svc.GenerateVideos(ctx, project.ID)
	if err != nil {
		t.Fatalf("generate videos: %v", err)
	}
	if outcome.Applied != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	video, err := store.GetGeneratedVideoByPrompt(ctx, prompt.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if video.State != show.MediaGenerated || video.VideoPath == "" || video.DurationSeconds != 5 {
		t.Fatalf("video not rendered: %+v", video)
	}
}
