//go:build !wasm
// +build !wasm

package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	api "github.com/openmeal/recipeapi"
)

// StringSlice is a helper type for storing string slices in GORM
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// UserModel is the GORM model for users
type UserModel struct {
	ID              string      `gorm:"primaryKey;size:64"`
	Username        string      `gorm:"size:64"`
	Email           string      `gorm:"size:320;index"`
	PasswordHash    string      `gorm:"size:128"`
	FavoriteRecipes StringSlice `gorm:"type:jsonb"`
	CreatedAt       time.Time   `gorm:"autoCreateTime"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToUser() *api.User {
	return &api.User{
		ID:              m.ID,
		Username:        m.Username,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		FavoriteRecipes: m.FavoriteRecipes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func UserToModel(u *api.User) *UserModel {
	return &UserModel{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FavoriteRecipes: u.FavoriteRecipes,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// RecipeModel is the GORM model for recipes
type RecipeModel struct {
	ID           string      `gorm:"primaryKey;size:64"`
	Name         string      `gorm:"size:255"`
	Ingredients  StringSlice `gorm:"type:jsonb"`
	Instructions string      `gorm:"type:text"`
	PrepTime     int
	CookTime     int
	Servings     int
	Cuisine      string      `gorm:"size:64"`
	ImageURL     string      `gorm:"size:1024"`
	Difficulty   string      `gorm:"size:16"`
	Tags         StringSlice `gorm:"type:jsonb"`
	Author       string      `gorm:"size:64"`
	Rating       float64
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (m *RecipeModel) ToRecipe() *api.Recipe {
	return &api.Recipe{
		ID:           m.ID,
		Name:         m.Name,
		Ingredients:  m.Ingredients,
		Instructions: m.Instructions,
		PrepTime:     m.PrepTime,
		CookTime:     m.CookTime,
		Servings:     m.Servings,
		Cuisine:      m.Cuisine,
		ImageURL:     m.ImageURL,
		Difficulty:   m.Difficulty,
		Tags:         m.Tags,
		Author:       m.Author,
		Rating:       m.Rating,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func RecipeToModel(r *api.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:           r.ID,
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Cuisine:      r.Cuisine,
		ImageURL:     r.ImageURL,
		Difficulty:   r.Difficulty,
		Tags:         r.Tags,
		Author:       r.Author,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
