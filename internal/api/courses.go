package api

import (
	"errors"
	"net/http"

	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

type courseRequest struct {
	Title              string    `json:"courseTitle" validate:"required,max=200"`
	Description        string    `json:"description" validate:"max=5000"`
	TrainerName        string    `json:"name" validate:"max=120"`
	TrainerDesignation string    `json:"trainerDesignation" validate:"max=120"`
	ImageURL           string    `json:"imageUrl" validate:"max=2048"`
	CoverImage         string    `json:"coverImage" validate:"max=2048"`
	Skills             *[]string `json:"skills" validate:"omitempty,max=100,dive,max=100"`
}

func (req courseRequest) course(id int64) storage.Course {
	c := storage.Course{
		ID:                 id,
		Title:              req.Title,
		Description:        req.Description,
		TrainerName:        req.TrainerName,
		TrainerDesignation: req.TrainerDesignation,
		ImageURL:           req.ImageURL,
		CoverImage:         req.CoverImage,
	}
	if req.Skills != nil {
		c.Skills = *req.Skills
		if c.Skills == nil {
			c.Skills = []string{}
		}
	}
	return c
}

func handleListCourses(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := deps.Store.ListCourses()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list courses: %v", err)
			return
		}
		if courses == nil {
			courses = []storage.Course{}
		}
		writeJSON(w, http.StatusOK, courses)
	}
}

func handleGetCourse(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		c, err := deps.Store.GetCourse(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "course not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get course: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleCoursesBySkill(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill := r.URL.Query().Get("skill")
		if skill == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "skill query parameter is required")
			return
		}
		courses, err := deps.Store.ListCourses()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list courses: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, recommend.FilterBySkill(courses, skill))
	}
}

func handleCreateCourse(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req courseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := deps.Store.CreateCourse(req.course(0))
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create course: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// handleUpdateCourse replaces the course's skills only when the body has a
// "skills" field.
func handleUpdateCourse(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		var req courseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := deps.Store.UpdateCourse(req.course(id))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "course not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update course: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleDeleteCourse(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		err := deps.Store.DeleteCourse(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "course not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete course: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
