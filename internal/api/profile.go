package api

import (
	"errors"
	"net/http"

	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/profile"
	"github.com/kalambet/cgs/internal/storage"
)

func handleGetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.FromContext(r.Context())

		p, err := deps.Profile.GetProfile(id.Email)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handlePatchProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.FromContext(r.Context())

		var patch profile.Patch
		if !decodeJSON(w, r, &patch) {
			return
		}

		p, err := deps.Profile.Update(id.Email, patch)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
