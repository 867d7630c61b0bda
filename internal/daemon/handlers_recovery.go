package daemon

import (
	"net/http"
	"strings"

	"telenovela/internal/show"
)

func (s *apiServer) handleListStuck(w http.ResponseWriter, r *http.Request) {
	stuck, err := s.daemon.store.StuckEntities(r.Context(), r.PathValue("id"), s.daemon.cfg.StuckThreshold())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"stuck": stuck})
}

func (s *apiServer) handleResetStuck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
		ID   string `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Kind == "" || req.ID == "" {
		s.writeError(w, http.StatusBadRequest, "kind and id are required")
		return
	}
	if err := s.daemon.store.ResetStuck(r.Context(), show.EntityKind(req.Kind), req.ID); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *apiServer) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.daemon.store.ListSettings(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"settings": settings})
}

func (s *apiServer) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.PathValue("key"))
	if key == "" {
		s.writeError(w, http.StatusBadRequest, "setting key is required")
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.daemon.store.SetSetting(r.Context(), key, req.Value); err != nil {
		s.handleError(w, err)
		return
	}
	setting, err := s.daemon.store.GetSetting(r.Context(), key)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, setting)
}
