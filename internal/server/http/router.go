// Package httpx is the HTTP boundary of the auth core: login, a protected
// profile endpoint and a health probe.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/credgate/internal/logging"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
)

const maxBodyBytes = 1 << 20

// AuthService is the use-case surface the router depends on.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Authorize(ctx context.Context, authorization string, op func(ctx context.Context) error) error
	Profile(ctx context.Context) (auth.Claims, error)
	Ping(ctx context.Context) error
}

// Router wires HTTP endpoints to services.
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  logging.Logger
	auth    AuthService
}

func NewRouter(logger logging.Logger, authSvc AuthService) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger.With("module", "http"),
		auth:   authSvc,
	}
	r.register()
	r.handler = r.logRequests(r.mux)
	return r
}

// ServeHTTP delegates to the logged mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("GET /healthz", r.handleHealthz)
	r.mux.HandleFunc("POST /auth/login", r.handleLogin)
	r.mux.HandleFunc("GET /auth/profile", r.requireAuth(r.handleProfile))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type profileResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes)).Decode(&payload); err != nil {
		writeError(w, req, http.StatusBadRequest, "invalid JSON body", "")
		return
	}

	token, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}

func (r *Router) handleProfile(w http.ResponseWriter, req *http.Request) {
	claims, err := r.auth.Profile(req.Context())
	if err != nil {
		r.logger.Error(req.Context(), "claims missing on protected route",
			"path", req.URL.Path,
			"request_id", RequestIDFromContext(req.Context()),
		)
		writeError(w, req, http.StatusInternalServerError, "internal error", "")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{UserID: claims.UserID, Email: claims.Email})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	status, code := "ok", http.StatusOK
	database := map[string]any{"status": "up"}

	if err := r.auth.Ping(req.Context()); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
		database = map[string]any{"status": "down"}
		if !errors.Is(err, context.Canceled) {
			r.logger.Error(req.Context(), "health check failed", "error", err)
		}
	}

	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": map[string]any{"database": database},
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	})
}
