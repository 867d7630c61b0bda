package daemon

import (
	"net/http"

	"telenovela/internal/screenplay"
	"telenovela/internal/show"
)

func (s *apiServer) handleListEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := s.daemon.store.ListEpisodes(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"episodes": episodes})
}

func (s *apiServer) handleGenerateEpisodes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BatchSize int `json:"batch_size"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := s.daemon.gen.GenerateEpisodes(r.Context(), r.PathValue("id"), req.BatchSize)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

// episodeDetail is an episode with its scenes and dialogue inlined.
type episodeDetail struct {
	*show.Episode
	Scenes []*sceneDetail `json:"scenes"`
}

type sceneDetail struct {
	*show.Scene
	LocationName string               `json:"location_name,omitempty"`
	Dialogue     []*show.DialogueLine `json:"dialogue"`
}

func (s *apiServer) handleGetEpisode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	episode, err := s.daemon.store.GetEpisode(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	detail := &episodeDetail{Episode: episode, Scenes: []*sceneDetail{}}

	scenes, err := s.daemon.store.ListScenes(ctx, episode.ID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	locationNames := make(map[string]string)
	locations, err := s.daemon.store.ListLocations(ctx, episode.ProjectID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
	}
	for _, scene := range scenes {
		lines, err := s.daemon.store.ListDialogueLines(ctx, scene.ID)
		if err != nil {
			s.handleError(w, err)
			return
		}
		detail.Scenes = append(detail.Scenes, &sceneDetail{
			Scene:        scene,
			LocationName: locationNames[scene.LocationID],
			Dialogue:     lines,
		})
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *apiServer) handleApproveEpisode(w http.ResponseWriter, r *http.Request) {
	s.transitionEpisode(w, r, (*show.Episode).Approve)
}

func (s *apiServer) handleUnapproveEpisode(w http.ResponseWriter, r *http.Request) {
	s.transitionEpisode(w, r, (*show.Episode).Unapprove)
}

func (s *apiServer) transitionEpisode(w http.ResponseWriter, r *http.Request, verb func(*show.Episode) error) {
	ctx := r.Context()
	episode, err := s.daemon.store.GetEpisode(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := verb(episode); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateEpisodeState(ctx, episode.ID, episode.State); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, episode)
}

// handleExportEpisode renders one episode as screenplay text.
func (s *apiServer) handleExportEpisode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	episode, err := s.daemon.store.GetEpisode(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	tree, err := s.daemon.store.LoadTree(ctx, episode.ProjectID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(screenplay.FormatEpisode(tree, episode)))
}
