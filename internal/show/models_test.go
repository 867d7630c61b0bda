package show_test

import (
	"errors"
	"testing"

	"telenovela/internal/show"
	"telenovela/internal/state"
)

func TestIdeaLifecycle(t *testing.T) {
	idea := &show.Idea{State: show.IdeaDraft}
	if err := idea.Approve(); err != nil {
		t.Fatalf("approve draft idea: %v", err)
	}
	if idea.State != show.IdeaApproved {
		t.Fatalf("unexpected state: %s", idea.State)
	}
	// Approved is terminal.
	if err := idea.Reject(); err == nil {
		t.Fatal("expected rejecting an approved idea to fail")
	}

	rejected := &show.Idea{State: show.IdeaRejected}
	if err := rejected.Approve(); err == nil {
		t.Fatal("expected approving a rejected idea to fail")
	}
}

func TestStructureModifyIsNoOpWhenApproved(t *testing.T) {
	c := &show.Character{State: show.StructureDraft}
	if err := c.Approve(); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := c.Modify(); err != nil {
		t.Fatalf("modify approved character: %v", err)
	}
	if c.State != show.StructureApproved {
		t.Fatalf("modify should leave approved state alone, got %s", c.State)
	}
	if err := c.Unapprove(); err != nil {
		t.Fatalf("unapprove: %v", err)
	}
	if c.State != show.StructureModified {
		t.Fatalf("unexpected state after unapprove: %s", c.State)
	}
	if err := c.Approve(); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
}

func TestEpisodeGenerationCycle(t *testing.T) {
	e := &show.Episode{State: show.GenerationPending}
	if err := e.MarkGenerated(); err == nil {
		t.Fatal("expected pending -> generated to fail")
	}
	if err := e.MarkGenerating(); err != nil {
		t.Fatalf("mark generating: %v", err)
	}
	if err := e.ResetForRegen(); err != nil {
		t.Fatalf("reset for regen: %v", err)
	}
	if e.State != show.GenerationPending {
		t.Fatalf("unexpected state after reset: %s", e.State)
	}
	if err := e.MarkGenerating(); err != nil {
		t.Fatalf("mark generating again: %v", err)
	}
	if err := e.MarkGenerated(); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if err := e.Approve(); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := e.Unapprove(); err != nil {
		t.Fatalf("unapprove: %v", err)
	}
	if e.State != show.GenerationGenerated {
		t.Fatalf("unexpected state after unapprove: %s", e.State)
	}
}

func TestMediaMarkGeneratedSetsPathOnlyOnSuccess(t *testing.T) {
	img := &show.GeneratedImage{State: show.MediaPending}
	if err := img.MarkGenerated("/x.png"); err == nil {
		t.Fatal("expected pending -> generated to fail")
	}
	if img.ImagePath != "" {
		t.Fatalf("failed transition must not set path, got %q", img.ImagePath)
	}

	if err := img.MarkGenerating(); err != nil {
		t.Fatalf("mark generating: %v", err)
	}
	if err := img.MarkGenerated("/x.png"); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if img.ImagePath != "/x.png" {
		t.Fatalf("unexpected path: %q", img.ImagePath)
	}
}

func TestMediaResetForRegenClearsPath(t *testing.T) {
	img := &show.GeneratedImage{State: show.MediaRejected, ImagePath: "/x.png"}
	if err := img.ResetForRegen(); err != nil {
		t.Fatalf("reset for regen: %v", err)
	}
	if img.State != show.MediaPending {
		t.Fatalf("unexpected state: %s", img.State)
	}
	if img.ImagePath != "" {
		t.Fatalf("reset must clear path, got %q", img.ImagePath)
	}
}

func TestMediaRejectionLoop(t *testing.T) {
	ref := &show.CharacterRef{State: show.MediaPending}
	steps := []func() error{
		ref.MarkGenerating,
		func() error { return ref.MarkGenerated("/ref.png") },
		ref.Approve,
		ref.Reject,
		ref.ResetForRegen,
		ref.MarkGenerating,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if ref.State != show.MediaGenerating {
		t.Fatalf("unexpected final state: %s", ref.State)
	}
}

func TestPromptRegenerationAfterApproval(t *testing.T) {
	p := &show.VideoPrompt{State: show.PromptPending}
	if err := p.Approve(); err == nil {
		t.Fatal("expected approving a pending prompt to fail")
	}
	if err := p.MarkGenerated(); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if err := p.Approve(); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Regeneration moves an approved prompt back to generated.
	if err := p.MarkGenerated(); err != nil {
		t.Fatalf("regenerate approved prompt: %v", err)
	}
}

func TestInvalidTransitionCarriesEntityName(t *testing.T) {
	thumb := &show.Thumbnail{State: show.MediaPending}
	err := thumb.Approve()
	var invalid *state.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if invalid.Entity != "Thumbnail" {
		t.Fatalf("unexpected entity: %q", invalid.Entity)
	}
	if invalid.Current != "pending" || invalid.Target != "approved" {
		t.Fatalf("unexpected states: %#v", invalid)
	}
}

func TestGeneratedVideoDuration(t *testing.T) {
	v := &show.GeneratedVideo{State: show.MediaGenerating}
	if err := v.MarkGenerated("/clip.mp4", 4.8); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if v.DurationSeconds != 4.8 {
		t.Fatalf("unexpected duration: %v", v.DurationSeconds)
	}
	if err := v.Reject(); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := v.ResetForRegen(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v.VideoPath != "" {
		t.Fatalf("reset must clear video path, got %q", v.VideoPath)
	}
}
