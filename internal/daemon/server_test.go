package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"telenovela/internal/config"
	"telenovela/internal/daemon"
	"telenovela/internal/generation"
	"telenovela/internal/show"
	"telenovela/internal/testsupport"
)

// stubGenerator satisfies generation.Generator with canned output so
// handler tests never touch a model backend.
type stubGenerator struct{}

func (stubGenerator) Ideas(_ context.Context, req generation.IdeaRequest) ([]generation.IdeaResult, error) {
	count := req.Count
	if count <= 0 {
		count = 3
	}
	results := make([]generation.IdeaResult, count)
	for i := range results {
		results[i] = generation.IdeaResult{
			Title:   "Idea " + string(rune('A'+i)),
			Setting: "a vineyard estate",
			Logline: "love against the harvest",
		}
	}
	return results, nil
}

func (stubGenerator) Characters(context.Context, generation.StructureRequest) ([]generation.CharacterResult, error) {
	return nil, nil
}

func (stubGenerator) Locations(context.Context, generation.StructureRequest) ([]generation.LocationResult, error) {
	return nil, nil
}

func (stubGenerator) EpisodeArc(context.Context, generation.StructureRequest) ([]generation.SummaryResult, error) {
	return nil, nil
}

func (stubGenerator) EpisodeScripts(context.Context, generation.ScriptBatchRequest) ([]generation.ScriptResult, error) {
	return nil, nil
}

func (stubGenerator) ImagePrompts(context.Context, generation.ShotListRequest) ([]generation.ImagePromptResult, error) {
	return nil, nil
}

func (stubGenerator) CharacterRefPrompt(context.Context, generation.CharacterContext) (string, error) {
	return "portrait prompt", nil
}

func (stubGenerator) LocationRefPrompt(context.Context, generation.LocationContext) (string, error) {
	return "establishing prompt", nil
}

func (stubGenerator) ThumbnailPrompts(context.Context, generation.ThumbnailRequest) ([]generation.ThumbnailResult, error) {
	return nil, nil
}

func (stubGenerator) VideoPrompts(context.Context, generation.MotionListRequest) ([]generation.VideoPromptResult, error) {
	return nil, nil
}

func (stubGenerator) RenderImages(context.Context, []generation.ImageRequest) ([]generation.ImageResult, error) {
	return nil, nil
}

func (stubGenerator) RenderVideos(context.Context, []generation.VideoRequest) ([]generation.VideoResult, error) {
	return nil, nil
}

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (http.Handler, *show.Store, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	svc := generation.NewService(store, stubGenerator{}, cfg, nil)
	d, err := daemon.New(cfg, store, svc, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d.Handler(), store, cfg
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/projects",
		map[string]any{"title": "Amor Prohibido", "setting": "a border town", "num_episodes": 4}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: got %d: %s", rec.Code, rec.Body.String())
	}
	var project show.Project
	decodeResponse(t, rec, &project)
	if project.CurrentStep != 1 {
		t.Fatalf("new project at step %d, want 1", project.CurrentStep)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/projects/"+project.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get project: got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/projects", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list projects: got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodDelete, "/api/projects/"+project.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete project: got %d", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/projects/"+project.ID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted project: got %d, want 404", rec.Code)
	}
}

func TestAdvanceStepConsultsGate(t *testing.T) {
	handler, store, _ := newTestServer(t)
	project := testsupport.NewProject(t, store, "Pasion de Gavilanes")

	rec := doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/advance-step",
		map[string]int{"step": 2}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("advance without approved idea: got %d, want 400", rec.Code)
	}
	var denial map[string]string
	decodeResponse(t, rec, &denial)
	if denial["error"] == "" {
		t.Fatal("gate denial carries no reason")
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/ideas",
		map[string]string{"title": "The Forbidden Harvest"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create idea: got %d: %s", rec.Code, rec.Body.String())
	}
	var idea show.Idea
	decodeResponse(t, rec, &idea)

	rec = doRequest(t, handler, http.MethodPost, "/api/ideas/"+idea.ID+"/approve", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("approve idea: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/advance-step",
		map[string]int{"step": 2}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("advance after approval: got %d: %s", rec.Code, rec.Body.String())
	}
	var advanced show.Project
	decodeResponse(t, rec, &advanced)
	if advanced.CurrentStep != 2 {
		t.Fatalf("project at step %d, want 2", advanced.CurrentStep)
	}

	// Skipping ahead is never allowed.
	rec = doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/advance-step",
		map[string]int{"step": 5}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("skip ahead: got %d, want 400", rec.Code)
	}
}

func TestInvalidTransitionMapsToConflict(t *testing.T) {
	handler, store, _ := newTestServer(t)
	project := testsupport.NewProject(t, store, "La Usurpadora")

	rec := doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/ideas",
		map[string]string{"title": "Twin Switch"}, "")
	var idea show.Idea
	decodeResponse(t, rec, &idea)

	if rec := doRequest(t, handler, http.MethodPost, "/api/ideas/"+idea.ID+"/reject", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("reject idea: got %d", rec.Code)
	}
	if rec := doRequest(t, handler, http.MethodPost, "/api/ideas/"+idea.ID+"/approve", nil, ""); rec.Code != http.StatusConflict {
		t.Fatalf("approve rejected idea: got %d, want 409", rec.Code)
	}
}

func TestGenerateIdeasEndpoint(t *testing.T) {
	handler, store, _ := newTestServer(t)
	project := testsupport.NewProject(t, store, "Cafe con Aroma")

	rec := doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/ideas/generate",
		map[string]string{"setting_hint": "coffee plantation"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("generate ideas: got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Ideas []*show.Idea `json:"ideas"`
	}
	decodeResponse(t, rec, &payload)
	if len(payload.Ideas) != 3 {
		t.Fatalf("got %d ideas, want 3", len(payload.Ideas))
	}
	for _, idea := range payload.Ideas {
		if idea.State != show.IdeaDraft {
			t.Fatalf("generated idea in state %q, want draft", idea.State)
		}
	}
}

func TestResetStuckRefusalMapsToConflict(t *testing.T) {
	handler, store, _ := newTestServer(t)
	project := testsupport.NewProject(t, store, "El Clon")

	episode := &show.Episode{ProjectID: project.ID, EpisodeNumber: 1, Title: "Pilot"}
	if err := store.CreateEpisode(context.Background(), episode); err != nil {
		t.Fatalf("create episode: %v", err)
	}

	rec := doRequest(t, handler, http.MethodPost, "/api/projects/"+project.ID+"/stuck/reset",
		map[string]string{"kind": string(show.KindEpisode), "id": episode.ID}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("reset healthy episode: got %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionAuthFlow(t *testing.T) {
	handler, store, _ := newTestServer(t, testsupport.WithAuth("secreto"))
	testsupport.NewProject(t, store, "Rubí")

	if rec := doRequest(t, handler, http.MethodGet, "/api/projects", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: got %d, want 401", rec.Code)
	}

	rec := doRequest(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"password": "wrong"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d, want 401", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"password": "secreto"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeResponse(t, rec, &login)
	if login.Token == "" {
		t.Fatal("login returned empty token")
	}

	if rec := doRequest(t, handler, http.MethodGet, "/api/projects", nil, login.Token); rec.Code != http.StatusOK {
		t.Fatalf("authenticated list: got %d", rec.Code)
	}

	if rec := doRequest(t, handler, http.MethodPost, "/api/auth/logout", nil, login.Token); rec.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rec.Code)
	}
	if rec := doRequest(t, handler, http.MethodGet, "/api/projects", nil, login.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: got %d, want 401", rec.Code)
	}
}

func TestExportScreenplayReturnsPlainText(t *testing.T) {
	handler, store, _ := newTestServer(t)
	project := testsupport.NewProject(t, store, "Corazon Indomable")

	rec := doRequest(t, handler, http.MethodGet, "/api/projects/"+project.ID+"/export/screenplay", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export screenplay: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("content type %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("COMPLETE SCREENPLAY")) {
		t.Fatal("screenplay banner missing")
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler, _, _ := newTestServer(t)
	rec := doRequest(t, handler, http.MethodGet, "/api/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: got %d", rec.Code)
	}
}
