package show_test

import (
	"context"
	"errors"
	"testing"

	"telenovela/internal/show"
	"telenovela/internal/testsupport"
)

func TestStoreProjectRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	project, err := store.CreateProject(ctx, "Amor y Traición", "a vineyard dynasty", 8)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.CurrentStep != 1 {
		t.Fatalf("new project should start at step 1, got %d", project.CurrentStep)
	}

	loaded, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if loaded.Title != "Amor y Traición" || loaded.NumEpisodes != 8 {
		t.Fatalf("unexpected project: %+v", loaded)
	}

	loaded.Title = "Amor Eterno"
	if err := store.UpdateProject(ctx, loaded); err != nil {
		t.Fatalf("update project: %v", err)
	}
	again, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if again.Title != "Amor Eterno" {
		t.Fatalf("update not persisted: %q", again.Title)
	}

	if _, err := store.GetProject(ctx, "missing"); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveIdeaRejectsSiblingsAndCopiesOntoProject(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	project := testsupport.NewProject(t, store, "")

	ideas := []*show.Idea{
		{ProjectID: project.ID, Title: "La Casa del Mar", Setting: "a beach villa"},
		{ProjectID: project.ID, Title: "Fuego Lento", Setting: "a restaurant kitchen"},
		{ProjectID: project.ID, Title: "Doble Vida", Setting: "twin cities"},
	}
	for _, idea := range ideas {
		if err := store.CreateIdea(ctx, idea); err != nil {
			t.Fatalf("create idea: %v", err)
		}
	}

	approved, err := store.ApproveIdea(ctx, ideas[1].ID)
	if err != nil {
		t.Fatalf("approve idea: %v", err)
	}
	if approved.State != show.IdeaApproved {
		t.Fatalf("unexpected state: %s", approved.State)
	}

	list, err := store.ListIdeas(ctx, project.ID)
	if err != nil {
		t.Fatalf("list ideas: %v", err)
	}
	for _, idea := range list {
		want := show.IdeaRejected
		if idea.ID == ideas[1].ID {
			want = show.IdeaApproved
		}
		if idea.State != want {
			t.Fatalf("idea %q: got state %s, want %s", idea.Title, idea.State, want)
		}
	}

	updated, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if updated.Title != "Fuego Lento" || updated.Setting != "a restaurant kitchen" {
		t.Fatalf("idea not copied onto project: %+v", updated)
	}

	// Approving a second idea must fail: the first approval rejected it.
	if _, err := store.ApproveIdea(ctx, ideas[0].ID); err == nil {
		t.Fatal("expected approving a rejected idea to fail")
	}
}

func TestAdvanceStepEnforcesSuccessor(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	project := testsupport.NewProject(t, store, "")

	if _, err := store.AdvanceStep(ctx, project.ID, 4); err == nil {
		t.Fatal("expected skipping to step 4 to fail")
	}
	advanced, err := store.AdvanceStep(ctx, project.ID, 2)
	if err != nil {
		t.Fatalf("advance to step 2: %v", err)
	}
	if advanced.CurrentStep != 2 {
		t.Fatalf("unexpected step: %d", advanced.CurrentStep)
	}
	if _, err := store.AdvanceStep(ctx, project.ID, 2); err == nil {
		t.Fatal("expected re-advancing to step 2 to fail")
	}
}

func TestSaveEpisodeScriptReplacesPriorScenes(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	project := testsupport.NewProject(t, store, "")

	episode := &show.Episode{ProjectID: project.ID, EpisodeNumber: 1}
	if err := store.CreateEpisode(ctx, episode); err != nil {
		t.Fatalf("create episode: %v", err)
	}
	if err := episode.MarkGenerating(); err != nil {
		t.Fatalf("mark generating: %v", err)
	}
	if err := episode.MarkGenerated(); err != nil {
		t.Fatalf("mark generated: %v", err)
	}

	episode.Title = "El Regreso"
	firstScene := &show.Scene{EpisodeID: episode.ID, SceneNumber: 1, Title: "Llegada"}
	firstLine := &show.DialogueLine{SceneID: "", LineNumber: 1, CharacterName: "MARISOL", LineText: "¿Por qué volviste?"}
	if err := store.SaveEpisodeScript(ctx, episode, []*show.Scene{firstScene}, nil); err != nil {
		t.Fatalf("save script: %v", err)
	}
	firstLine.SceneID = firstScene.ID
	if err := store.SaveEpisodeScript(ctx, episode, []*show.Scene{firstScene}, []*show.DialogueLine{firstLine}); err != nil {
		t.Fatalf("save script with dialogue: %v", err)
	}

	scenes, err := store.ListScenes(ctx, episode.ID)
	if err != nil {
		t.Fatalf("list scenes: %v", err)
	}
	if len(scenes) != 1 || scenes[0].Title != "Llegada" {
		t.Fatalf("unexpected scenes: %+v", scenes)
	}
	lines, err := store.ListDialogueLines(ctx, scenes[0].ID)
	if err != nil {
		t.Fatalf("list dialogue: %v", err)
	}
	if len(lines) != 1 || lines[0].CharacterName != "MARISOL" {
		t.Fatalf("unexpected dialogue: %+v", lines)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	project := testsupport.NewProject(t, store, "")

	character := &show.Character{ProjectID: project.ID, Name: "Valentina"}
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create character: %v", err)
	}
	ref := &show.CharacterRef{CharacterID: character.ID}
	if err := store.CreateCharacterRef(ctx, ref); err != nil {
		t.Fatalf("create character ref: %v", err)
	}
	episode := &show.Episode{ProjectID: project.ID, EpisodeNumber: 1}
	if err := store.CreateEpisode(ctx, episode); err != nil {
		t.Fatalf("create episode: %v", err)
	}
	scene := &show.Scene{EpisodeID: episode.ID, SceneNumber: 1}
	if err := store.SaveEpisodeScript(ctx, episode, []*show.Scene{scene}, nil); err != nil {
		t.Fatalf("save script: %v", err)
	}
	prompt := &show.ImagePrompt{SceneID: scene.ID, ShotNumber: 1}
	if err := store.CreateImagePrompt(ctx, prompt); err != nil {
		t.Fatalf("create image prompt: %v", err)
	}
	image := &show.GeneratedImage{ImagePromptID: prompt.ID}
	if err := store.CreateGeneratedImage(ctx, image); err != nil {
		t.Fatalf("create generated image: %v", err)
	}

	if err := store.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, err := store.GetCharacter(ctx, character.ID); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("character should cascade, got %v", err)
	}
	if _, err := store.GetCharacterRef(ctx, ref.ID); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("character ref should cascade, got %v", err)
	}
	if _, err := store.GetEpisode(ctx, episode.ID); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("episode should cascade, got %v", err)
	}
	if _, err := store.GetScene(ctx, scene.ID); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("scene should cascade, got %v", err)
	}
	if _, err := store.GetImagePrompt(ctx, prompt.ID); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("image prompt should cascade, got %v", err)
	}
	if _, err := store.GetGeneratedImage(ctx, image.ID); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("generated image should cascade, got %v", err)
	}
}

func TestLoadTreeWiresRelations(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	project := testsupport.NewProject(t, store, "")

	character := &show.Character{ProjectID: project.ID, Name: "Valentina"}
	if err := store.CreateCharacter(ctx, character); err != nil {
		t.Fatalf("create character: %v", err)
	}
	ref := &show.CharacterRef{CharacterID: character.ID}
	if err := store.CreateCharacterRef(ctx, ref); err != nil {
		t.Fatalf("create character ref: %v", err)
	}
	episode := &show.Episode{ProjectID: project.ID, EpisodeNumber: 1}
	if err := store.CreateEpisode(ctx, episode); err != nil {
		t.Fatalf("create episode: %v", err)
	}
	scene := &show.Scene{EpisodeID: episode.ID, SceneNumber: 1}
	if err := store.SaveEpisodeScript(ctx, episode, []*show.Scene{scene}, nil); err != nil {
		t.Fatalf("save script: %v", err)
	}
	prompt := &show.ImagePrompt{SceneID: scene.ID, ShotNumber: 1}
	if err := store.CreateImagePrompt(ctx, prompt); err != nil {
		t.Fatalf("create image prompt: %v", err)
	}
	image := &show.GeneratedImage{ImagePromptID: prompt.ID}
	if err := store.CreateGeneratedImage(ctx, image); err != nil {
		t.Fatalf("create generated image: %v", err)
	}

	tree, err := store.LoadTree(ctx, project.ID)
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if len(tree.Characters) != 1 || len(tree.Episodes) != 1 || len(tree.Scenes) != 1 {
		t.Fatalf("unexpected tree sizes: %d chars, %d episodes, %d scenes",
			len(tree.Characters), len(tree.Episodes), len(tree.Scenes))
	}
	if tree.CharacterRefs[character.ID] == nil {
		t.Fatal("character ref not keyed by character ID")
	}
	if tree.Images[prompt.ID] == nil {
		t.Fatal("generated image not keyed by prompt ID")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.SetSetting(ctx, "gemini_api_key", "abc"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := store.SetSetting(ctx, "gemini_api_key", "xyz"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	setting, err := store.GetSetting(ctx, "gemini_api_key")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if setting.Value != "xyz" {
		t.Fatalf("unexpected value: %q", setting.Value)
	}
	if err := store.DeleteSetting(ctx, "gemini_api_key"); err != nil {
		t.Fatalf("delete setting: %v", err)
	}
	if _, err := store.GetSetting(ctx, "gemini_api_key"); !errors.Is(err, show.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
