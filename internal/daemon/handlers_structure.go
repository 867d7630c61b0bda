package daemon

import (
	"net/http"

	"telenovela/internal/show"
)

func (s *apiServer) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := r.PathValue("id")

	characters, err := s.daemon.store.ListCharacters(ctx, projectID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	locations, err := s.daemon.store.ListLocations(ctx, projectID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	summaries, err := s.daemon.store.ListEpisodeSummaries(ctx, projectID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"characters":        characters,
		"locations":         locations,
		"episode_summaries": summaries,
	})
}

func (s *apiServer) handleGenerateStructure(w http.ResponseWriter, r *http.Request) {
	counts, err := s.daemon.gen.GenerateStructure(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, counts)
}

func (s *apiServer) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	character, err := s.daemon.store.GetCharacter(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	update := *character
	if err := decodeBody(r, &update); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	update.ID = character.ID
	update.ProjectID = character.ProjectID
	update.State = character.State
	if err := update.Modify(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateCharacter(ctx, &update); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &update)
}

func (s *apiServer) handleApproveCharacter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	character, err := s.daemon.store.GetCharacter(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := character.Approve(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateCharacter(ctx, character); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, character)
}

func (s *apiServer) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location, err := s.daemon.store.GetLocation(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	update := *location
	if err := decodeBody(r, &update); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	update.ID = location.ID
	update.ProjectID = location.ProjectID
	update.State = location.State
	if err := update.Modify(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateLocation(ctx, &update); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &update)
}

func (s *apiServer) handleApproveLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location, err := s.daemon.store.GetLocation(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := location.Approve(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateLocation(ctx, location); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, location)
}

func (s *apiServer) handleUpdateSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := s.daemon.store.GetEpisodeSummary(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	update := *summary
	if err := decodeBody(r, &update); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	update.ID = summary.ID
	update.ProjectID = summary.ProjectID
	update.EpisodeNumber = summary.EpisodeNumber
	update.State = summary.State
	if err := update.Modify(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateEpisodeSummary(ctx, &update); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &update)
}

func (s *apiServer) handleApproveSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := s.daemon.store.GetEpisodeSummary(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := summary.Approve(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateEpisodeSummary(ctx, summary); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// handleApproveAllStructure approves every remaining draft character,
// location, and episode summary in one pass.
func (s *apiServer) handleApproveAllStructure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, err := s.daemon.store.LoadTree(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}

	approved := 0
	for _, c := range tree.Characters {
		if c.State == show.StructureApproved {
			continue
		}
		if err := c.Approve(); err != nil {
			s.handleError(w, err)
			return
		}
		if err := s.daemon.store.UpdateCharacter(ctx, c); err != nil {
			s.handleError(w, err)
			return
		}
		approved++
	}
	for _, l := range tree.Locations {
		if l.State == show.StructureApproved {
			continue
		}
		if err := l.Approve(); err != nil {
			s.handleError(w, err)
			return
		}
		if err := s.daemon.store.UpdateLocation(ctx, l); err != nil {
			s.handleError(w, err)
			return
		}
		approved++
	}
	for _, es := range tree.Summaries {
		if es.State == show.StructureApproved {
			continue
		}
		if err := es.Approve(); err != nil {
			s.handleError(w, err)
			return
		}
		if err := s.daemon.store.UpdateEpisodeSummary(ctx, es); err != nil {
			s.handleError(w, err)
			return
		}
		approved++
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"approved": approved})
}
