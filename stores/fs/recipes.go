package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openmeal/recipeapi"
)

// RecipeStore keeps recipe documents as JSON files under <root>/recipes.
type RecipeStore struct {
	Root string
}

func NewRecipeStore(root string) *RecipeStore {
	return &RecipeStore{Root: root}
}

func (s *RecipeStore) dir() string {
	return filepath.Join(s.Root, "recipes")
}

func (s *RecipeStore) path(id string) string {
	return filepath.Join(s.dir(), id+".json")
}

func (s *RecipeStore) ListRecipes(ctx context.Context) ([]*recipeapi.Recipe, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var recipes []*recipeapi.Recipe
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir(), entry.Name()))
		if err != nil {
			return nil, err
		}
		var recipe recipeapi.Recipe
		if err := json.Unmarshal(data, &recipe); err != nil {
			return nil, err
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

func (s *RecipeStore) GetRecipe(ctx context.Context, id string) (*recipeapi.Recipe, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, recipeapi.ErrNotFound
		}
		return nil, err
	}
	var recipe recipeapi.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeStore) InsertRecipe(ctx context.Context, recipe *recipeapi.Recipe) (string, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	if err := s.write(recipe); err != nil {
		return "", err
	}
	return recipe.ID, nil
}

func (s *RecipeStore) UpdateRecipe(ctx context.Context, id string, recipe *recipeapi.Recipe) error {
	existing, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	recipe.ID = id
	// Callers usually decode the request body straight into the document,
	// so the creation timestamp arrives zeroed. Carry the stored one.
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = existing.CreatedAt
	}
	recipe.UpdatedAt = time.Now()
	return s.write(recipe)
}

func (s *RecipeStore) DeleteRecipe(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return recipeapi.ErrNotFound
	}
	return err
}

func (s *RecipeStore) write(recipe *recipeapi.Recipe) error {
	if err := os.MkdirAll(s.dir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomicFile(s.path(recipe.ID), data)
}
