package testsupport

import (
	"context"
	"testing"

	"telenovela/internal/config"
	"telenovela/internal/show"
)

// MustOpenStore opens a show.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *show.Store {
	t.Helper()

	store, err := show.Open(cfg)
	if err != nil {
		t.Fatalf("show.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewProject creates a project for tests using the provided store.
func NewProject(t testing.TB, store *show.Store, title string) *show.Project {
	t.Helper()

	project, err := store.CreateProject(context.Background(), title, "a coastal town with secrets", 4)
	if err != nil {
		t.Fatalf("store.CreateProject: %v", err)
	}
	return project
}
