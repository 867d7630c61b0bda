package daemon

import (
	"errors"
	"fmt"
	"net/http"

	"telenovela/internal/show"
)

var errUnknownAction = errors.New("unknown media action")

// mediaVerbs is the action surface shared by every rendered asset:
// reference images, scene images, thumbnails, and videos.
type mediaVerbs interface {
	Approve() error
	Reject() error
	ResetForRegen() error
}

func applyMediaAction(entity mediaVerbs, action string) error {
	switch action {
	case "approve":
		return entity.Approve()
	case "reject":
		return entity.Reject()
	case "regenerate":
		return entity.ResetForRegen()
	default:
		return fmt.Errorf("%w %q", errUnknownAction, action)
	}
}

func (s *apiServer) handleGenerateImagePrompts(w http.ResponseWriter, r *http.Request) {
	created, err := s.daemon.gen.GenerateImagePrompts(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *apiServer) handleApproveImagePrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prompt, err := s.daemon.store.GetImagePrompt(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := prompt.Approve(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateImagePrompt(ctx, prompt); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, prompt)
}

func (s *apiServer) handleGenerateReferencePrompts(w http.ResponseWriter, r *http.Request) {
	created, err := s.daemon.gen.GenerateReferencePrompts(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *apiServer) handleGenerateReferenceImages(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.daemon.gen.GenerateReferenceImages(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func (s *apiServer) handleCharacterRefAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, err := s.daemon.store.GetCharacterRef(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := applyMediaAction(ref, r.PathValue("action")); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateCharacterRef(ctx, ref); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ref)
}

func (s *apiServer) handleLocationRefAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, err := s.daemon.store.GetLocationRef(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := applyMediaAction(ref, r.PathValue("action")); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateLocationRef(ctx, ref); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ref)
}

func (s *apiServer) handleListImages(w http.ResponseWriter, r *http.Request) {
	tree, err := s.daemon.store.LoadTree(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	type imageReview struct {
		PromptID       string `json:"prompt_id"`
		ShotNumber     int    `json:"shot_number"`
		ShotType       string `json:"shot_type"`
		PromptText     string `json:"prompt_text"`
		ImageID        string `json:"image_id,omitempty"`
		ImagePath      string `json:"image_path,omitempty"`
		ImageState     string `json:"image_state,omitempty"`
		SceneID        string `json:"scene_id"`
		PromptApproved bool   `json:"prompt_approved"`
	}
	reviews := make([]imageReview, 0, len(tree.ImagePrompts))
	for _, prompt := range tree.ImagePrompts {
		review := imageReview{
			PromptID:       prompt.ID,
			ShotNumber:     prompt.ShotNumber,
			ShotType:       prompt.ShotType,
			PromptText:     prompt.PromptText,
			SceneID:        prompt.SceneID,
			PromptApproved: prompt.State == show.PromptApproved,
		}
		if image, ok := tree.Images[prompt.ID]; ok {
			review.ImageID = image.ID
			review.ImagePath = image.ImagePath
			review.ImageState = string(image.State)
		}
		reviews = append(reviews, review)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"images": reviews})
}

func (s *apiServer) handleGenerateImages(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.daemon.gen.GenerateImages(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func (s *apiServer) handleImageAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	image, err := s.daemon.store.GetGeneratedImage(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := applyMediaAction(image, r.PathValue("action")); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateGeneratedImage(ctx, image); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, image)
}

func (s *apiServer) handleGenerateThumbnails(w http.ResponseWriter, r *http.Request) {
	created, err := s.daemon.gen.GenerateThumbnails(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *apiServer) handleRenderThumbnails(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.daemon.gen.RenderThumbnails(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func (s *apiServer) handleThumbnailAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	thumbnail, err := s.daemon.store.GetThumbnail(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := applyMediaAction(thumbnail, r.PathValue("action")); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateThumbnail(ctx, thumbnail); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, thumbnail)
}

func (s *apiServer) handleGenerateVideoPrompts(w http.ResponseWriter, r *http.Request) {
	created, err := s.daemon.gen.GenerateVideoPrompts(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"created": created})
}

func (s *apiServer) handleApproveVideoPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	prompt, err := s.daemon.store.GetVideoPrompt(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := prompt.Approve(); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateVideoPrompt(ctx, prompt); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, prompt)
}

func (s *apiServer) handleGenerateVideos(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.daemon.gen.GenerateVideos(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func (s *apiServer) handleVideoAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	video, err := s.daemon.store.GetGeneratedVideo(ctx, r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := applyMediaAction(video, r.PathValue("action")); err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.daemon.store.UpdateGeneratedVideo(ctx, video); err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, video)
}
