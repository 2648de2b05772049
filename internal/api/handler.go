// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-portfolio/internal/auth"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

const maxBodyBytes = 1 << 20

// Pipeline is the part of the ingestion pipeline the API serves.
type Pipeline interface {
	ListProjects(ctx context.Context) model.ProjectList
	ListActivity(ctx context.Context) model.ActivityReport
	FeaturedConfig(ctx context.Context) model.FeaturedConfig
	UpdateFeatured(ctx context.Context, names []string) (model.FeaturedConfig, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	pipeline Pipeline
	auth     *auth.Authenticator
	logger   *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
// metricsHandler is mounted at /metrics when not nil.
func NewRouter(p Pipeline, authenticator *auth.Authenticator, metricsHandler http.Handler, logger *slog.Logger) http.Handler {
	h := &Handler{
		pipeline: p,
		auth:     authenticator,
		logger:   logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.healthCheck)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/projects", h.getProjects)
		r.Get("/projects/featured", h.getFeaturedProjects)
		r.Get("/activity", h.getActivity)
		r.Get("/featured-projects", h.getFeaturedConfig)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Get("/status", h.authStatus)
			r.Post("/logout", h.logout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.auth.Middleware)
			r.Get("/featured-projects", h.getFeaturedConfig)
			r.Put("/featured-projects", h.updateFeaturedConfig)
			r.Post("/featured-projects", h.updateFeaturedConfig)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type projectsResponse struct {
	Success  bool            `json:"success"`
	Projects []model.Project `json:"projects"`
	Count    int             `json:"count"`
	Featured int             `json:"featured"`
	Source   model.Source    `json:"source"`
}

// getProjects returns every project, featured first.
// GET /v1/projects
func (h *Handler) getProjects(w http.ResponseWriter, r *http.Request) {
	list := h.pipeline.ListProjects(r.Context())

	featured := 0
	for _, p := range list.Projects {
		if p.Featured {
			featured++
		}
	}
	respondWithJSON(w, http.StatusOK, projectsResponse{
		Success:  true,
		Projects: list.Projects,
		Count:    len(list.Projects),
		Featured: featured,
		Source:   list.Source,
	})
}

// getFeaturedProjects returns only featured projects.
// GET /v1/projects/featured
func (h *Handler) getFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	list := h.pipeline.ListProjects(r.Context())

	projects := make([]model.Project, 0, len(list.Projects))
	for _, p := range list.Projects {
		if p.Featured {
			projects = append(projects, p)
		}
	}
	respondWithJSON(w, http.StatusOK, projectsResponse{
		Success:  true,
		Projects: projects,
		Count:    len(projects),
		Featured: len(projects),
		Source:   list.Source,
	})
}

// getActivity returns the contribution summary.
// GET /v1/activity
func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	report := h.pipeline.ListActivity(r.Context())
	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"activity": report.Summary,
		"source":   report.Source,
	})
}

// getFeaturedConfig returns the manually curated list.
// GET /v1/featured-projects
func (h *Handler) getFeaturedConfig(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.pipeline.FeaturedConfig(r.Context()))
}

// updateFeaturedConfig replaces the curated list.
// PUT /v1/admin/featured-projects
func (h *Handler) updateFeaturedConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeaturedProjects *[]string `json:"featuredProjects"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.FeaturedProjects == nil {
		respondWithError(w, http.StatusBadRequest, "featuredProjects must be an array")
		return
	}

	cfg, err := h.pipeline.UpdateFeatured(r.Context(), *req.FeaturedProjects)
	if err != nil {
		var (
			tooMany     *custom_errors.TooManyFeaturedError
			invalidName *custom_errors.InvalidFeaturedNameError
		)
		switch {
		case errors.As(err, &tooMany):
			respondWithError(w, http.StatusBadRequest, "Maximum 6 featured projects allowed")
		case errors.As(err, &invalidName):
			respondWithError(w, http.StatusBadRequest, invalidName.Error())
		default:
			h.logger.Error("Failed to update featured projects", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to update featured projects")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Featured projects updated successfully",
		"config":  cfg,
	})
}

// login exchanges the admin password for a session cookie.
// POST /v1/auth/login
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, expires, err := h.auth.Login(req.Password)
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		h.logger.Error("Admin login attempted without a configured password")
		respondWithError(w, http.StatusInternalServerError, "Admin password not configured")
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		h.logger.Warn("Admin login failed", "remote_addr", r.RemoteAddr)
		respondWithError(w, http.StatusUnauthorized, "Invalid password")
		return
	case err != nil:
		h.logger.Error("Admin login error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.auth.SetCookie(w, token, expires)
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// authStatus reports whether the caller holds a valid session.
// GET /v1/auth/status
func (h *Handler) authStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"authenticated": h.auth.Authenticated(r)})
}

// logout clears the session cookie.
// POST /v1/auth/logout
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearCookie(w)
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
