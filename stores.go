package recipeapi

import (
	"context"
	"time"
)

// User is a flat user document. PasswordHash never leaves the server:
// it is excluded from JSON and only compared through CheckPassword.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	FavoriteRecipes []string  `json:"favoriteRecipes"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Identity builds the local-login Identity for this user.
func (u *User) Identity() *Identity {
	ident := &Identity{
		SubjectID: u.ID,
		Username:  u.Username,
		Provider:  ProviderLocal,
	}
	if u.Email != "" {
		ident.Emails = []string{u.Email}
	}
	return ident
}

// Recipe is a flat recipe document. The optional fields (difficulty, tags,
// author, rating) are carried through unvalidated.
type Recipe struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	PrepTime     int       `json:"prepTime"`
	CookTime     int       `json:"cookTime"`
	Servings     int       `json:"servings"`
	Cuisine      string    `json:"cuisine"`
	ImageURL     string    `json:"imageUrl"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Author       string    `json:"author,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	CreatedAt    time.Time `json:"dateCreated,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// UserStore is the document-store surface the handlers depend on.
// Implementations return ErrNotFound for unknown or malformed ids and
// must not assume transactional semantics across calls.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	InsertUser(ctx context.Context, user *User) (id string, err error)
	UpdateUser(ctx context.Context, id string, user *User) error
	DeleteUser(ctx context.Context, id string) error
}

// RecipeStore mirrors UserStore for the recipes collection.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]*Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	InsertRecipe(ctx context.Context, recipe *Recipe) (id string, err error)
	UpdateRecipe(ctx context.Context, id string, recipe *Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}
