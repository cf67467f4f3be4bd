package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/leoyin88/user-api/internal/models"
	"github.com/leoyin88/user-api/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo *repo.UserRepo
}

// parseID validates the path id as a positive integer before any repo call.
// Non-numeric or non-positive input is a client error, not a lookup miss.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		slog.Error("list users", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	WriteEnvelope(w, http.StatusOK, "Success", users)
}

// ==========================
// Get User
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("get user", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
		return
	}

	WriteEnvelope(w, http.StatusOK, "Success", user)
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input models.CreateUserParams
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if fields := validateCreate(input); fields != nil {
		WriteValidationError(w, "validation failed", fields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
		return
	}
	input.Password = string(hash)

	user, err := h.Repo.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			WriteError(w, http.StatusConflict, "email already exists")
			return
		}
		slog.Error("create user", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
		return
	}

	WriteEnvelope(w, http.StatusCreated, "User created successfully", map[string]int{"id": user.ID})
}

// ==========================
// Update User (partial)
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var input models.UpdateUserParams
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if fields := validateUpdate(input); fields != nil {
		WriteValidationError(w, "validation failed", fields)
		return
	}

	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("hash password", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
			return
		}
		hashed := string(hash)
		input.Password = &hashed
	}

	user, err := h.Repo.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNoFields):
			WriteError(w, http.StatusBadRequest, "no fields to update")
		case errors.Is(err, repo.ErrNotFound):
			WriteError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, repo.ErrDuplicateEmail):
			WriteError(w, http.StatusConflict, "email already exists")
		default:
			slog.Error("update user", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
		}
		return
	}

	WriteEnvelope(w, http.StatusOK, "User updated successfully", user)
}

// ==========================
// Delete User
// ==========================
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("delete user", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrMessageInternal)
		return
	}

	WriteEnvelope(w, http.StatusOK, "User deleted successfully", nil)
}
