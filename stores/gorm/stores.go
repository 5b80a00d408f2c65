//go:build !wasm
// +build !wasm

// Package gorm provides GORM-based implementations of the recipeapi store
// interfaces. It supports any database that GORM supports (PostgreSQL,
// MySQL, SQLite, etc.) and is suitable for deployments that prefer a
// relational database over MongoDB.
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/openmeal/recipeapi"
)

// AutoMigrate runs database migrations for all recipeapi tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&RecipeModel{},
	)
}

// UserStore implements api.UserStore using GORM
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) ListUsers(ctx context.Context) ([]*api.User, error) {
	var models []UserModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]*api.User, 0, len(models))
	for i := range models {
		users = append(users, models[i].ToUser())
	}
	return users, nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*api.User, error) {
	var model UserModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToUser(), nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*api.User, error) {
	var model UserModel
	err := s.db.WithContext(ctx).First(&model, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToUser(), nil
}

func (s *UserStore) InsertUser(ctx context.Context, user *api.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := UserToModel(user)
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return "", err
	}
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return user.ID, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, id string, user *api.User) error {
	user.ID = id
	res := s.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(UserToModel(user))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&UserModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return api.ErrNotFound
	}
	return nil
}

// RecipeStore implements api.RecipeStore using GORM
type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func (s *RecipeStore) ListRecipes(ctx context.Context) ([]*api.Recipe, error) {
	var models []RecipeModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	recipes := make([]*api.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, models[i].ToRecipe())
	}
	return recipes, nil
}

func (s *RecipeStore) GetRecipe(ctx context.Context, id string) (*api.Recipe, error) {
	var model RecipeModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToRecipe(), nil
}

func (s *RecipeStore) InsertRecipe(ctx context.Context, recipe *api.Recipe) (string, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	model := RecipeToModel(recipe)
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return "", err
	}
	recipe.CreatedAt = model.CreatedAt
	recipe.UpdatedAt = model.UpdatedAt
	return recipe.ID, nil
}

func (s *RecipeStore) UpdateRecipe(ctx context.Context, id string, recipe *api.Recipe) error {
	recipe.ID = id
	res := s.db.WithContext(ctx).Model(&RecipeModel{}).Where("id = ?", id).Updates(RecipeToModel(recipe))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (s *RecipeStore) DeleteRecipe(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&RecipeModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return api.ErrNotFound
	}
	return nil
}
