package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const defaultSessionTTL = 24 * time.Hour

// sessionStore tracks bearer tokens issued by login. Tokens expire
// after the configured TTL and are pruned lazily on validation.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]time.Time
	now      func() time.Time

	loginLimiter *rate.Limiter
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		ttl:      ttl,
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Create issues a new session token.
func (s *sessionStore) Create() string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = s.now().Add(s.ttl)
	return token
}

// Validate reports whether the token names a live session, dropping it
// if expired.
func (s *sessionStore) Validate(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Delete revokes a session.
func (s *sessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// auth gates a handler behind session authentication. When no password
// is configured the API is open and every request passes through.
func (s *apiServer) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled() {
			next(w, r)
			return
		}
		if !s.daemon.sessions.Validate(bearerToken(r)) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *apiServer) authEnabled() bool {
	cfg := s.daemon.cfg
	return cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.Password) != ""
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func (s *apiServer) loginLimiter() *rate.Limiter {
	store := s.daemon.sessions
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.loginLimiter == nil {
		perMinute := s.daemon.cfg.Auth.LoginRatePerMinute
		if perMinute <= 0 {
			perMinute = 10
		}
		store.loginLimiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	}
	return store.loginLimiter
}

func (s *apiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled() {
		s.writeJSON(w, http.StatusOK, map[string]any{"auth_required": false})
		return
	}
	if !s.loginLimiter().Allow() {
		s.writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	expected := []byte(s.daemon.cfg.Auth.Password)
	if subtle.ConstantTimeCompare([]byte(req.Password), expected) != 1 {
		s.writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	token := s.daemon.sessions.Create()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(s.daemon.sessions.ttl.Seconds()),
	})
}

func (s *apiServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		s.daemon.sessions.Delete(token)
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *apiServer) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"auth_required": s.authEnabled(),
		"authenticated": !s.authEnabled() || s.daemon.sessions.Validate(bearerToken(r)),
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.daemon.store.Health(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
