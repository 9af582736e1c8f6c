package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kalambet/cgs/internal/storage"
)

type playlistRequest struct {
	CourseID   int64  `json:"courseid" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required,max=200"`
	CoverImage string `json:"coverImage" validate:"max=2048"`
	VideoURL   string `json:"videoUrl" validate:"required,max=2048"`
}

type playlistResponse struct {
	storage.Playlist
	VideoID string `json:"videoId"`
}

func newPlaylistResponse(p storage.Playlist) playlistResponse {
	return playlistResponse{Playlist: p, VideoID: youtubeID(p.VideoURL)}
}

// youtubeID extracts the video id from watch?v=, youtu.be/ and embed/ URLs.
// Anything else is assumed to already be an id and is returned unchanged.
func youtubeID(url string) string {
	switch {
	case strings.Contains(url, "watch?v="):
		id := url[strings.Index(url, "v=")+2:]
		id, _, _ = strings.Cut(id, "&")
		return id
	case strings.Contains(url, "youtu.be/"):
		_, id, _ := strings.Cut(url, "youtu.be/")
		id, _, _ = strings.Cut(id, "?")
		return id
	case strings.Contains(url, "embed/"):
		_, id, _ := strings.Cut(url, "embed/")
		id, _, _ = strings.Cut(id, "?")
		return id
	default:
		return url
	}
}

func handleListPlaylists(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, ok := parseID(w, r, "courseID")
		if !ok {
			return
		}
		list, err := deps.Store.ListPlaylistsByCourse(courseID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list playlist: %v", err)
			return
		}
		out := make([]playlistResponse, len(list))
		for i, p := range list {
			out[i] = newPlaylistResponse(p)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetPlaylist(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		p, err := deps.Store.GetPlaylist(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "playlist entry not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get playlist entry: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, newPlaylistResponse(p))
	}
}

func handleCreatePlaylist(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playlistRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if _, err := deps.Store.GetCourse(req.CourseID); errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "course %d not found", req.CourseID)
			return
		}
		p, err := deps.Store.CreatePlaylist(storage.Playlist{
			CourseID:   req.CourseID,
			Title:      req.Title,
			CoverImage: req.CoverImage,
			VideoURL:   req.VideoURL,
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create playlist entry: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, newPlaylistResponse(p))
	}
}

func handleUpdatePlaylist(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		var req playlistRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		p := storage.Playlist{ID: id, CourseID: req.CourseID, Title: req.Title, CoverImage: req.CoverImage, VideoURL: req.VideoURL}
		err := deps.Store.UpdatePlaylist(p)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "playlist entry not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update playlist entry: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, newPlaylistResponse(p))
	}
}

func handleDeletePlaylist(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		err := deps.Store.DeletePlaylist(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "playlist entry not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete playlist entry: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
