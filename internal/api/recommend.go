package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

// reasonHeader carries recommend.Reason so empty results can be told apart.
const reasonHeader = "X-Recommendation-Reason"

func handleRecommend(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, []storage.Course{})
			return
		}

		res, err := deps.Recommender.RecommendForEmail(r.Context(), id.Email)
		if err != nil && r.Context().Err() != nil {
			slog.Debug("recommendation abandoned by client", "email", id.Email, "error", err)
			return
		}
		if errors.Is(err, recommend.ErrCatalogUnavailable) {
			slog.Error("recommendation failed", "email", id.Email, "error", err)
			httpError(w, http.StatusServiceUnavailable, "service_unavailable", "job-skills catalog unavailable")
			return
		}
		if err != nil {
			slog.Error("recommendation failed", "email", id.Email, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to compute recommendations: %v", err)
			return
		}

		w.Header().Set(reasonHeader, string(res.Reason))
		writeJSON(w, http.StatusOK, res.Courses())
	}
}

func handleJobSkillsMapping(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := deps.Catalog.Raw(r.Context())
		if err != nil {
			slog.Error("loading job-skills catalog", "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load job-skills mapping")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}
}
