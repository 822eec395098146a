package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type userHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

type newUserRequest struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Photo  string `json:"photo"`
	Gender string `json:"gender"`
	DOB    string `json:"dob"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.Validation("dob must be a date (YYYY-MM-DD)")
	}
	return t, nil
}

func (h *userHandler) NewUser(w http.ResponseWriter, r *http.Request) {
	var req newUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var dob time.Time
	if req.DOB != "" {
		parsed, err := parseDate(req.DOB)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		dob = parsed
	}

	user, created, err := h.users.NewUser(r.Context(), service.NewUserInput{
		ID:     req.ID,
		Name:   req.Name,
		Email:  req.Email,
		Photo:  req.Photo,
		Gender: req.Gender,
		DOB:    dob,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, ok(envelope{"message": "Welcome, " + user.Name}))
		return
	}
	writeJSON(w, http.StatusCreated, ok(envelope{"message": "Welcome, " + user.Name}))
}

func (h *userHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.AllUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"users": users}))
}

func (h *userHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.User(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"user": user}))
}

func (h *userHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ok(envelope{"message": "User deleted successfully"}))
}
