package screenplay_test

import (
	"strings"
	"testing"

	"telenovela/internal/screenplay"
	"telenovela/internal/show"
)

func sampleTree() (*show.Tree, *show.Episode) {
	loc := &show.Location{ID: "loc-1", Name: "Hacienda Ballroom", Type: "interior"}
	ext := &show.Location{ID: "loc-2", Name: "Vineyard Gate", Type: "exterior"}
	episode := &show.Episode{
		ID:                "ep-1",
		EpisodeNumber:     3,
		Title:             "The Letter",
		ColdOpen:          "Valentina finds a sealed envelope on her pillow.",
		MusicCue:          "tense strings",
		CliffhangerMoment: "The envelope bears Rodrigo's handwriting.",
	}
	tree := &show.Tree{
		Project:   &show.Project{ID: "p-1", Title: "Corazon Salvaje"},
		Locations: []*show.Location{loc, ext},
		Episodes:  []*show.Episode{episode},
		Scenes: []*show.Scene{
			{
				ID: "sc-2", EpisodeID: "ep-1", LocationID: "loc-2",
				SceneNumber: 2, Title: "Confrontation", TimeOfDay: "night",
				DurationSeconds: 20, Mood: "explosive",
				ActionBeats: []string{"Rodrigo blocks the gate."},
			},
			{
				ID: "sc-1", EpisodeID: "ep-1", LocationID: "loc-1",
				SceneNumber: 1, Title: "The Discovery", TimeOfDay: "day",
				DurationSeconds: 15, Mood: "tense",
				ActionBeats: []string{"Valentina turns the envelope over in her hands."},
				CameraNotes: "slow push-in on her face",
			},
		},
		DialogueLines: []*show.DialogueLine{
			{SceneID: "sc-1", LineNumber: 2, CharacterName: "Rodrigo", LineText: "You were never meant to see that."},
			{SceneID: "sc-1", LineNumber: 1, CharacterName: "Valentina", LineText: "Who left this here?", Direction: "whispering"},
		},
	}
	return tree, episode
}

func TestFormatEpisodeLayout(t *testing.T) {
	tree, episode := sampleTree()
	out := screenplay.FormatEpisode(tree, episode)

	for _, want := range []string{
		`EPISODE 3: "The Letter"`,
		"[Music: tense strings]",
		"COLD OPEN: Valentina finds a sealed envelope on her pillow.",
		"INT. HACIENDA BALLROOM",
		"EXT. VINEYARD GATE",
		"// Scene 1: The Discovery",
		"  > slow push-in on her face",
		"*** CLIFFHANGER: The envelope bears Rodrigo's handwriting. ***",
		"END OF EPISODE 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestFormatEpisodeOrdersScenesAndLines(t *testing.T) {
	tree, episode := sampleTree()
	out := screenplay.FormatEpisode(tree, episode)

	discovery := strings.Index(out, "// Scene 1")
	confrontation := strings.Index(out, "// Scene 2")
	if discovery < 0 || confrontation < 0 || discovery > confrontation {
		t.Fatalf("scenes out of order: scene1 at %d, scene2 at %d", discovery, confrontation)
	}

	valentina := strings.Index(out, "VALENTINA")
	rodrigo := strings.Index(out, "RODRIGO")
	if valentina < 0 || rodrigo < 0 || valentina > rodrigo {
		t.Fatalf("dialogue out of order: valentina at %d, rodrigo at %d", valentina, rodrigo)
	}
}

func TestFormatEpisodeWrapsDirectionInParens(t *testing.T) {
	tree, episode := sampleTree()
	out := screenplay.FormatEpisode(tree, episode)
	if !strings.Contains(out, "(whispering)") {
		t.Fatalf("expected parenthetical direction in output:\n%s", out)
	}
}

func TestFormatProjectHeader(t *testing.T) {
	tree, _ := sampleTree()
	out := screenplay.FormatProject(tree)

	if !strings.Contains(out, "Corazon Salvaje") {
		t.Errorf("missing project title in header")
	}
	if !strings.Contains(out, "COMPLETE SCREENPLAY") {
		t.Errorf("missing document banner")
	}
	if !strings.Contains(out, "Total Episodes: 1") {
		t.Errorf("missing episode count")
	}
}

func TestFormatEpisodeUnknownLocation(t *testing.T) {
	tree, episode := sampleTree()
	tree.Scenes[1].LocationID = ""
	out := screenplay.FormatEpisode(tree, episode)
	if !strings.Contains(out, "INT. UNKNOWN LOCATION") {
		t.Fatalf("expected fallback slugline, got:\n%s", out)
	}
}
