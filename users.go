package recipeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// UserHandlers exposes the CRUD surface of the users collection. Each
// handler is a validation step followed by one store call.
type UserHandlers struct {
	Store UserStore
}

type userRequest struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	FavoriteRecipes []string `json:"favoriteRecipes"`
}

func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if users == nil {
		users = []*User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := &User{
		Username:        req.Username,
		Email:           req.Email,
		FavoriteRecipes: req.FavoriteRecipes,
	}
	if err := ValidateNewUser(user, req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	// Email is the unique key of the collection.
	if _, err := h.Store.FindUserByEmail(r.Context(), req.Email); err == nil {
		writeMessage(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	user.PasswordHash = hash

	id, err := h.Store.InsertUser(r.Context(), user)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	updated := &User{
		ID:              existing.ID,
		Username:        req.Username,
		Email:           req.Email,
		PasswordHash:    existing.PasswordHash,
		FavoriteRecipes: req.FavoriteRecipes,
		CreatedAt:       existing.CreatedAt,
	}
	if err := ValidateUserUpdate(updated, req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "err", err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		updated.PasswordHash = hash
	}

	if err := h.Store.UpdateUser(r.Context(), id, updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeMessage(w, http.StatusOK, "User updated successfully")
}

func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
