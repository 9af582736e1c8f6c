package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/catalog"
	"github.com/kalambet/cgs/internal/profile"
	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

type Deps struct {
	Store       *storage.Store
	Auth        *auth.Service
	Profile     *profile.Manager
	Recommender *recommend.Service
	Catalog     *catalog.Loader

	CORSOrigins    []string
	LoginRateLimit int // per IP per minute; 0 disables
}

// NewHandler returns the HTTP API. Routes under /api that change courses,
// playlists or job postings require an admin session.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	if len(deps.CORSOrigins) > 0 {
		r.Use(corsMiddleware(deps.CORSOrigins))
	}
	r.Use(SessionAuth(deps.Auth))

	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/register", handleRegister(deps))
	r.With(loginLimiter(deps.LoginRateLimit)).Post("/login", handleLogin(deps))
	r.Post("/logout", handleLogout(deps))

	r.Route("/api", func(r chi.Router) {
		r.Get("/recommend-courses", handleRecommend(deps))
		r.Get("/data/job-skills-mapping", handleJobSkillsMapping(deps))

		r.Get("/courses", handleListCourses(deps))
		r.Get("/courses/by-skill", handleCoursesBySkill(deps))
		r.Get("/courses/{id}", handleGetCourse(deps))

		r.Get("/playlist/course/{courseID}", handleListPlaylists(deps))
		r.Get("/playlist/{id}", handleGetPlaylist(deps))

		r.Get("/jobs", handleListJobs(deps))
		r.Get("/jobs/{id}", handleGetJob(deps))

		r.Post("/messages", handleCreateMessage(deps))

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/me", handleMe)
			r.Get("/profile", handleGetProfile(deps))
			r.Patch("/profile", handlePatchProfile(deps))
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/courses", handleCreateCourse(deps))
			r.Put("/courses/{id}", handleUpdateCourse(deps))
			r.Delete("/courses/{id}", handleDeleteCourse(deps))

			r.Post("/playlist", handleCreatePlaylist(deps))
			r.Put("/playlist/{id}", handleUpdatePlaylist(deps))
			r.Delete("/playlist/{id}", handleDeletePlaylist(deps))

			r.Post("/jobs", handleCreateJob(deps))
			r.Delete("/jobs/{id}", handleDeleteJob(deps))

			r.Get("/messages", handleListMessages(deps))
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
