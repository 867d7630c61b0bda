package show_test

import (
	"testing"

	"telenovela/internal/show"
)

func newTree(step int) *show.Tree {
	return &show.Tree{
		Project:       &show.Project{ID: "p1", CurrentStep: step, NumEpisodes: 4},
		CharacterRefs: map[string]*show.CharacterRef{},
		LocationRefs:  map[string]*show.LocationRef{},
		Images:        map[string]*show.GeneratedImage{},
		Videos:        map[string]*show.GeneratedVideo{},
	}
}

func TestGateAllowsBackwardAndCurrentSteps(t *testing.T) {
	tree := newTree(6)
	for step := 1; step <= 6; step++ {
		if d := tree.CanAdvanceTo(step); !d.Allowed {
			t.Fatalf("step %d should always be allowed: %s", step, d.Reason)
		}
	}
}

func TestGateRefusesSkippingSteps(t *testing.T) {
	tree := newTree(1)
	tree.Ideas = []*show.Idea{{State: show.IdeaApproved}}
	if d := tree.CanAdvanceTo(3); d.Allowed {
		t.Fatal("expected skip from step 1 to 3 to be denied")
	}
	if d := tree.CanAdvanceTo(2); !d.Allowed {
		t.Fatalf("expected step 2 to be allowed: %s", d.Reason)
	}
}

func TestGateStep2RequiresApprovedIdea(t *testing.T) {
	tree := newTree(1)
	tree.Ideas = []*show.Idea{{State: show.IdeaDraft}, {State: show.IdeaRejected}}
	if d := tree.CanAdvanceTo(2); d.Allowed {
		t.Fatal("expected denial without an approved idea")
	}
	tree.Ideas[0].State = show.IdeaApproved
	if d := tree.CanAdvanceTo(2); !d.Allowed {
		t.Fatalf("expected approval: %s", d.Reason)
	}
}

func TestGateStep4RequiresFullStructure(t *testing.T) {
	tree := newTree(3)
	tree.Characters = []*show.Character{{State: show.StructureDraft}}
	tree.Locations = []*show.Location{{State: show.StructureDraft}}
	if d := tree.CanAdvanceTo(4); d.Allowed {
		t.Fatal("expected denial without episode summaries")
	}
	tree.Summaries = []*show.EpisodeSummary{{State: show.StructureDraft}}
	if d := tree.CanAdvanceTo(4); !d.Allowed {
		t.Fatalf("expected approval with all three structure types: %s", d.Reason)
	}
}

func TestGateStep5RequiresEveryStructureApproved(t *testing.T) {
	tree := newTree(4)
	tree.Characters = []*show.Character{
		{ID: "c1", State: show.StructureDraft},
		{ID: "c2", State: show.StructureDraft},
	}
	tree.Locations = []*show.Location{{ID: "l1", State: show.StructureDraft}}
	tree.Summaries = []*show.EpisodeSummary{{ID: "s1", State: show.StructureDraft}}

	d := tree.CanAdvanceTo(5)
	if d.Allowed {
		t.Fatal("expected denial with unapproved structure")
	}
	if d.Reason == "" {
		t.Fatal("expected a blocking reason")
	}

	// Approving only the characters is not enough.
	tree.Characters[0].State = show.StructureApproved
	tree.Characters[1].State = show.StructureApproved
	if d := tree.CanAdvanceTo(5); d.Allowed {
		t.Fatal("expected denial while locations and summaries remain unapproved")
	}

	tree.Locations[0].State = show.StructureApproved
	tree.Summaries[0].State = show.StructureApproved
	if d := tree.CanAdvanceTo(5); !d.Allowed {
		t.Fatalf("expected approval with everything approved: %s", d.Reason)
	}
}

func TestGateStep6RequiresGeneratedEpisode(t *testing.T) {
	tree := newTree(5)
	tree.Episodes = []*show.Episode{{State: show.GenerationPending}, {State: show.GenerationGenerating}}
	if d := tree.CanAdvanceTo(6); d.Allowed {
		t.Fatal("expected denial without a generated episode")
	}
	tree.Episodes[0].State = show.GenerationGenerated
	if d := tree.CanAdvanceTo(6); !d.Allowed {
		t.Fatalf("expected approval: %s", d.Reason)
	}
}

func TestGateStep8RequiresPromptsAndRefs(t *testing.T) {
	tree := newTree(7)
	tree.Characters = []*show.Character{{ID: "c1", State: show.StructureApproved}}
	tree.Locations = []*show.Location{{ID: "l1", State: show.StructureApproved}}
	tree.ImagePrompts = []*show.ImagePrompt{{ID: "ip1", State: show.PromptPending}}

	if d := tree.CanAdvanceTo(8); d.Allowed {
		t.Fatal("expected denial without generated prompts")
	}

	// One generated prompt anywhere is sufficient, full coverage is not
	// required.
	tree.ImagePrompts[0].State = show.PromptGenerated
	if d := tree.CanAdvanceTo(8); d.Allowed {
		t.Fatal("expected denial without reference images")
	}

	tree.CharacterRefs["c1"] = &show.CharacterRef{CharacterID: "c1", State: show.MediaPending}
	tree.LocationRefs["l1"] = &show.LocationRef{LocationID: "l1", State: show.MediaGenerated}
	if d := tree.CanAdvanceTo(8); d.Allowed {
		t.Fatal("expected denial while a character ref is pending")
	}

	tree.CharacterRefs["c1"].State = show.MediaGenerating
	if d := tree.CanAdvanceTo(8); !d.Allowed {
		t.Fatalf("expected approval once every ref left pending: %s", d.Reason)
	}
}

func TestGateStep10RequiresGeneratedImage(t *testing.T) {
	tree := newTree(9)
	tree.ImagePrompts = []*show.ImagePrompt{{ID: "ip1", State: show.PromptApproved}}
	if d := tree.CanAdvanceTo(10); d.Allowed {
		t.Fatal("expected denial without images")
	}
	tree.Images["ip1"] = &show.GeneratedImage{ImagePromptID: "ip1", State: show.MediaGenerating}
	if d := tree.CanAdvanceTo(10); d.Allowed {
		t.Fatal("expected denial while image is still generating")
	}
	tree.Images["ip1"].State = show.MediaGenerated
	if d := tree.CanAdvanceTo(10); !d.Allowed {
		t.Fatalf("expected approval: %s", d.Reason)
	}
}

func TestGateStep11RequiresFullReviewWithOneApproval(t *testing.T) {
	tree := newTree(10)
	tree.ImagePrompts = []*show.ImagePrompt{
		{ID: "ip1", State: show.PromptApproved},
		{ID: "ip2", State: show.PromptApproved},
	}
	if d := tree.CanAdvanceTo(11); d.Allowed {
		t.Fatal("expected denial with no images at all")
	}

	tree.Images["ip1"] = &show.GeneratedImage{ImagePromptID: "ip1", State: show.MediaApproved}
	tree.Images["ip2"] = &show.GeneratedImage{ImagePromptID: "ip2", State: show.MediaGenerated}
	if d := tree.CanAdvanceTo(11); d.Allowed {
		t.Fatal("expected denial with an unreviewed image")
	}

	tree.Images["ip2"].State = show.MediaRejected
	if d := tree.CanAdvanceTo(11); !d.Allowed {
		t.Fatalf("expected approval once every image is reviewed: %s", d.Reason)
	}

	// All rejected, none approved: still blocked.
	tree.Images["ip1"].State = show.MediaRejected
	if d := tree.CanAdvanceTo(11); d.Allowed {
		t.Fatal("expected denial when no image is approved")
	}
}

func TestGateStep12RequiresApprovedVideoPrompt(t *testing.T) {
	tree := newTree(11)
	tree.VideoPrompts = []*show.VideoPrompt{{State: show.PromptGenerated}}
	if d := tree.CanAdvanceTo(12); d.Allowed {
		t.Fatal("expected denial without an approved video prompt")
	}
	tree.VideoPrompts[0].State = show.PromptApproved
	if d := tree.CanAdvanceTo(12); !d.Allowed {
		t.Fatalf("expected approval: %s", d.Reason)
	}
}

func TestGateDecisionIsIdempotent(t *testing.T) {
	tree := newTree(4)
	tree.Characters = []*show.Character{{ID: "c1", State: show.StructureDraft}}
	first := tree.CanAdvanceTo(5)
	second := tree.CanAdvanceTo(5)
	if first != second {
		t.Fatalf("gate decision changed between identical calls: %#v vs %#v", first, second)
	}
}

func TestProgressCountsApprovals(t *testing.T) {
	tree := newTree(4)
	tree.Characters = []*show.Character{
		{ID: "c1", State: show.StructureApproved},
		{ID: "c2", State: show.StructureDraft},
	}
	tree.Locations = []*show.Location{{ID: "l1", State: show.StructureApproved}}
	tree.Summaries = []*show.EpisodeSummary{{ID: "s1", State: show.StructureDraft}}

	progress := tree.Progress()
	if progress.StepName != "Approve Structure" {
		t.Fatalf("unexpected step name: %q", progress.StepName)
	}
	if progress.ItemsTotal != 4 || progress.ItemsCompleted != 2 || progress.ItemsPending != 2 {
		t.Fatalf("unexpected counts: %+v", progress)
	}
	if progress.CanProceed {
		t.Fatal("expected blocked progress")
	}
	if progress.BlockingReason == "" {
		t.Fatal("expected blocking reason")
	}
}
