package daemon

import (
	"net/http"
	"strings"
)

func (s *apiServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.daemon.store.ListProjectSummaries(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"projects": summaries})
}

func (s *apiServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Setting     string `json:"setting"`
		NumEpisodes int    `json:"num_episodes"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	project, err := s.daemon.store.CreateProject(r.Context(), req.Title, req.Setting, req.NumEpisodes)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, project)
}

func (s *apiServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	summary, err := s.daemon.store.GetProjectSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *apiServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.daemon.store.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *apiServer) handleProgress(w http.ResponseWriter, r *http.Request) {
	tree, err := s.daemon.store.LoadTree(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tree.Progress())
}

func (s *apiServer) handleAdvanceStep(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	var req struct {
		Step int `json:"step"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tree, err := s.daemon.store.LoadTree(r.Context(), projectID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	step := req.Step
	if step == 0 {
		step = tree.Project.CurrentStep + 1
	}
	// Moving backward or standing still is always a no-op success.
	if step <= tree.Project.CurrentStep {
		s.writeJSON(w, http.StatusOK, tree.Project)
		return
	}
	if decision := tree.CanAdvanceTo(step); !decision.Allowed {
		s.writeError(w, http.StatusBadRequest, decision.Reason)
		return
	}
	project, err := s.daemon.store.AdvanceStep(r.Context(), projectID, step)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}
