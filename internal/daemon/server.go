package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"telenovela/internal/config"
	"telenovela/internal/generation"
	"telenovela/internal/logging"
	"telenovela/internal/show"
	"telenovela/internal/state"
)

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	limiter *rate.Limiter

	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logger,
		daemon: d,
	}
	if rps := cfg.Auth.RequestRatePerSecond; rps > 0 {
		srv.limiter = rate.NewLimiter(rate.Limit(rps), rps*2)
	}

	mux := http.NewServeMux()
	srv.routes(mux, cfg)
	srv.handler = mux
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes(mux *http.ServeMux, cfg *config.Config) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.auth(s.handleLogout))
	mux.HandleFunc("GET /api/auth/status", s.handleAuthStatus)

	mux.HandleFunc("GET /api/projects", s.auth(s.handleListProjects))
	mux.HandleFunc("POST /api/projects", s.auth(s.handleCreateProject))
	mux.HandleFunc("GET /api/projects/{id}", s.auth(s.handleGetProject))
	mux.HandleFunc("DELETE /api/projects/{id}", s.auth(s.handleDeleteProject))
	mux.HandleFunc("GET /api/projects/{id}/progress", s.auth(s.handleProgress))
	mux.HandleFunc("POST /api/projects/{id}/advance-step", s.auth(s.handleAdvanceStep))

	mux.HandleFunc("GET /api/projects/{id}/ideas", s.auth(s.handleListIdeas))
	mux.HandleFunc("POST /api/projects/{id}/ideas", s.auth(s.handleCreateIdea))
	mux.HandleFunc("POST /api/projects/{id}/ideas/generate", s.auth(s.generate(s.handleGenerateIdeas)))
	mux.HandleFunc("POST /api/ideas/{id}/approve", s.auth(s.handleApproveIdea))
	mux.HandleFunc("POST /api/ideas/{id}/reject", s.auth(s.handleRejectIdea))

	mux.HandleFunc("GET /api/projects/{id}/structure", s.auth(s.handleGetStructure))
	mux.HandleFunc("POST /api/projects/{id}/structure/generate", s.auth(s.generate(s.handleGenerateStructure)))
	mux.HandleFunc("POST /api/projects/{id}/structure/approve-all", s.auth(s.handleApproveAllStructure))
	mux.HandleFunc("PUT /api/characters/{id}", s.auth(s.handleUpdateCharacter))
	mux.HandleFunc("POST /api/characters/{id}/approve", s.auth(s.handleApproveCharacter))
	mux.HandleFunc("PUT /api/locations/{id}", s.auth(s.handleUpdateLocation))
	mux.HandleFunc("POST /api/locations/{id}/approve", s.auth(s.handleApproveLocation))
	mux.HandleFunc("PUT /api/summaries/{id}", s.auth(s.handleUpdateSummary))
	mux.HandleFunc("POST /api/summaries/{id}/approve", s.auth(s.handleApproveSummary))

	mux.HandleFunc("GET /api/projects/{id}/episodes", s.auth(s.handleListEpisodes))
	mux.HandleFunc("POST /api/projects/{id}/episodes/generate", s.auth(s.generate(s.handleGenerateEpisodes)))
	mux.HandleFunc("GET /api/episodes/{id}", s.auth(s.handleGetEpisode))
	mux.HandleFunc("POST /api/episodes/{id}/approve", s.auth(s.handleApproveEpisode))
	mux.HandleFunc("POST /api/episodes/{id}/unapprove", s.auth(s.handleUnapproveEpisode))
	mux.HandleFunc("GET /api/episodes/{id}/export", s.auth(s.handleExportEpisode))

	mux.HandleFunc("POST /api/projects/{id}/image-prompts/generate", s.auth(s.generate(s.handleGenerateImagePrompts)))
	mux.HandleFunc("POST /api/image-prompts/{id}/approve", s.auth(s.handleApproveImagePrompt))
	mux.HandleFunc("POST /api/projects/{id}/references/prompts/generate", s.auth(s.generate(s.handleGenerateReferencePrompts)))
	mux.HandleFunc("POST /api/projects/{id}/references/images/generate", s.auth(s.generate(s.handleGenerateReferenceImages)))
	mux.HandleFunc("POST /api/character-refs/{id}/{action}", s.auth(s.handleCharacterRefAction))
	mux.HandleFunc("POST /api/location-refs/{id}/{action}", s.auth(s.handleLocationRefAction))

	mux.HandleFunc("GET /api/projects/{id}/images", s.auth(s.handleListImages))
	mux.HandleFunc("POST /api/projects/{id}/images/generate", s.auth(s.generate(s.handleGenerateImages)))
	mux.HandleFunc("POST /api/images/{id}/{action}", s.auth(s.handleImageAction))

	mux.HandleFunc("POST /api/projects/{id}/thumbnails/generate", s.auth(s.generate(s.handleGenerateThumbnails)))
	mux.HandleFunc("POST /api/projects/{id}/thumbnails/render", s.auth(s.generate(s.handleRenderThumbnails)))
	mux.HandleFunc("POST /api/thumbnails/{id}/{action}", s.auth(s.handleThumbnailAction))

	mux.HandleFunc("POST /api/projects/{id}/video-prompts/generate", s.auth(s.generate(s.handleGenerateVideoPrompts)))
	mux.HandleFunc("POST /api/video-prompts/{id}/approve", s.auth(s.handleApproveVideoPrompt))
	mux.HandleFunc("POST /api/projects/{id}/videos/generate", s.auth(s.generate(s.handleGenerateVideos)))
	mux.HandleFunc("POST /api/videos/{id}/{action}", s.auth(s.handleVideoAction))

	mux.HandleFunc("GET /api/projects/{id}/stuck", s.auth(s.handleListStuck))
	mux.HandleFunc("POST /api/projects/{id}/stuck/reset", s.auth(s.handleResetStuck))

	mux.HandleFunc("GET /api/projects/{id}/export", s.auth(s.handleExportProject))
	mux.HandleFunc("GET /api/projects/{id}/export/screenplay", s.auth(s.handleExportScreenplay))

	mux.HandleFunc("GET /api/settings", s.auth(s.handleListSettings))
	mux.HandleFunc("PUT /api/settings/{key}", s.auth(s.handleSetSetting))

	if dir := cfg.Paths.MediaDir; dir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(dir))))
	}
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// ServeHTTP lets tests drive the API without a listener.
func (s *apiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// generate wraps model-backed endpoints with the shared rate limiter.
func (s *apiServer) generate(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "generation rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps domain errors onto HTTP statuses: missing entities
// to 404, invalid lifecycle transitions and refused resets to 409,
// aborted generation batches to 502.
func (s *apiServer) handleError(w http.ResponseWriter, err error) {
	var transitionErr *state.InvalidTransitionError
	var notStuck *show.NotStuckError
	var batchErr *generation.BatchError
	switch {
	case errors.Is(err, show.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errUnknownAction):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &transitionErr):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notStuck):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &batchErr):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes an optional JSON request body. An empty body
// leaves the target at its zero value.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("decode request body: %w", err)
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.FieldComponent, "api-server")
	}
	return logging.NewNop()
}
