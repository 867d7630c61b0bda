package daemon

import (
	"net/http"
	"strings"

	"telenovela/internal/show"
)

func (s *apiServer) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := s.daemon.store.ListIdeas(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}

func (s *apiServer) handleGenerateIdeas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SettingHint string `json:"setting_hint"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ideas, err := s.daemon.gen.GenerateIdeas(r.Context(), r.PathValue("id"), req.SettingHint)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}

// handleCreateIdea stores a hand-written premise alongside generated
// ones; it competes for approval like any other draft.
func (s *apiServer) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string `json:"title"`
		Setting      string `json:"setting"`
		Logline      string `json:"logline"`
		Hook         string `json:"hook"`
		MainConflict string `json:"main_conflict"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	idea := &show.Idea{
		ProjectID:    r.PathValue("id"),
		Title:        req.Title,
		Setting:      req.Setting,
		Logline:      req.Logline,
		Hook:         req.Hook,
		MainConflict: req.MainConflict,
	}
	if err := s.daemon.store.CreateIdea(r.Context(), idea); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, idea)
}

func (s *apiServer) handleApproveIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := s.daemon.store.ApproveIdea(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, idea)
}

func (s *apiServer) handleRejectIdea(w http.ResponseWriter, r *http.Request) {
	idea, err := s.daemon.store.RejectIdea(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, idea)
}
