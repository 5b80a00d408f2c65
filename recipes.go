package recipeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// RecipeHandlers exposes the CRUD surface of the recipes collection.
type RecipeHandlers struct {
	Store RecipeStore
}

func validateRecipe(rec *Recipe) error {
	if rec.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(rec.Ingredients) == 0 {
		return fmt.Errorf("ingredients are required")
	}
	if rec.Instructions == "" {
		return fmt.Errorf("instructions are required")
	}
	if rec.PrepTime <= 0 {
		return fmt.Errorf("prepTime must be positive")
	}
	if rec.CookTime < 0 {
		return fmt.Errorf("cookTime must not be negative")
	}
	if rec.Servings <= 0 {
		return fmt.Errorf("servings must be positive")
	}
	if rec.Cuisine == "" {
		return fmt.Errorf("cuisine is required")
	}
	if !strings.HasPrefix(rec.ImageURL, "http://") && !strings.HasPrefix(rec.ImageURL, "https://") {
		return fmt.Errorf("imageUrl must be a valid URL")
	}
	return nil
}

func (h *RecipeHandlers) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.Store.ListRecipes(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if recipes == nil {
		recipes = []*Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.Store.GetRecipe(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Recipe not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var recipe Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRecipe(&recipe); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Store.InsertRecipe(r.Context(), &recipe)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *RecipeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var recipe Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRecipe(&recipe); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Store.UpdateRecipe(r.Context(), id, &recipe); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Recipe not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeMessage(w, http.StatusOK, "Recipe updated successfully")
}

func (h *RecipeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteRecipe(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Recipe not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeMessage(w, http.StatusOK, "Recipe deleted successfully")
}
