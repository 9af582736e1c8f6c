package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kalambet/cgs/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func handleRegister(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.Registration
		if !decodeJSON(w, r, &req) {
			return
		}

		u, err := deps.Auth.Register(req)
		if errors.Is(err, auth.ErrEmailTaken) {
			httpError(w, http.StatusConflict, "conflict_error", "email %s is already registered", auth.NormalizeEmail(req.Email))
			return
		}
		if errors.Is(err, auth.ErrPasswordTooLong) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to register: %v", err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func handleLogin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		sess, err := deps.Auth.Login(req.Email, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Info("login rejected", "email", auth.NormalizeEmail(req.Email))
			httpError(w, http.StatusUnauthorized, "authentication_error", "invalid email or password")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to log in: %v", err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.Token,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleLogout(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := tokenFromRequest(r); token != "" {
			if err := deps.Auth.Logout(token); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to log out: %v", err)
				return
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
	}
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, id)
}
