package main

import (
	"strings"
	"testing"
)

func TestRenderTableFallsBackToTSV(t *testing.T) {
	// Test processes never run on a terminal, so the piped path renders.
	out := renderTable(
		[]string{"ID", "Title"},
		[][]string{{"p-1", "Amor Prohibido"}, {"p-2", "La Usurpadora"}},
		nil,
	)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if lines[0] != "ID\tTitle" {
		t.Fatalf("header %q", lines[0])
	}
	if !strings.Contains(lines[1], "p-1\tAmor Prohibido") {
		t.Fatalf("row %q", lines[1])
	}
}

func TestAPIErrorPrefersServerMessage(t *testing.T) {
	err := apiError(409, []byte(`{"error":"episode ep-1: invalid transition"}`))
	if !strings.Contains(err.Error(), "invalid transition") {
		t.Fatalf("error %q lost the server message", err)
	}
	if !strings.Contains(err.Error(), "409") {
		t.Fatalf("error %q lost the status code", err)
	}

	err = apiError(500, []byte("not json"))
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Fatalf("error %q", err)
	}
}

func TestGenerateEndpointsCoverPipeline(t *testing.T) {
	for _, stage := range []string{
		"ideas", "structure", "episodes", "image-prompts",
		"reference-prompts", "reference-images", "images",
		"thumbnails", "thumbnail-images", "video-prompts", "videos",
	} {
		if _, ok := generateEndpoints[stage]; !ok {
			t.Errorf("stage %q has no endpoint", stage)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"project", "advance", "progress", "generate", "stuck", "export", "settings", "login", "health"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
