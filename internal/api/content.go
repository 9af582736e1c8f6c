package api

import (
	"errors"
	"net/http"

	"github.com/kalambet/cgs/internal/storage"
)

type jobRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Company     string `json:"company" validate:"max=200"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description" validate:"max=10000"`
	ApplyURL    string `json:"applyUrl" validate:"omitempty,url,max=2048"`
}

type messageRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"max=200"`
	Body    string `json:"message" validate:"required,max=5000"`
}

func handleListJobs(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 50, 200)
		offset := parseIntParam(r, "offset", 0, 0)

		jobs, err := deps.Store.ListJobPostings(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list jobs: %v", err)
			return
		}
		if jobs == nil {
			jobs = []storage.JobPosting{}
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func handleGetJob(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		j, err := deps.Store.GetJobPosting(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "job posting not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get job posting: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, j)
	}
}

func handleCreateJob(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		j, err := deps.Store.CreateJobPosting(storage.JobPosting{
			Title:       req.Title,
			Company:     req.Company,
			Location:    req.Location,
			Description: req.Description,
			ApplyURL:    req.ApplyURL,
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create job posting: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, j)
	}
}

func handleDeleteJob(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r, "id")
		if !ok {
			return
		}
		err := deps.Store.DeleteJobPosting(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "job posting not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete job posting: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleCreateMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		m, err := deps.Store.SaveMessage(storage.Message{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Body:    req.Body,
		})
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save message: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func handleListMessages(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 50, 200)
		offset := parseIntParam(r, "offset", 0, 0)

		msgs, err := deps.Store.ListMessages(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list messages: %v", err)
			return
		}
		if msgs == nil {
			msgs = []storage.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}
