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

// UserStore keeps user documents as JSON files under <root>/users. It is
// meant for development and tests; lookups scan the directory.
type UserStore struct {
	Root string
}

func NewUserStore(root string) *UserStore {
	return &UserStore{Root: root}
}

func (s *UserStore) dir() string {
	return filepath.Join(s.Root, "users")
}

func (s *UserStore) path(id string) string {
	return filepath.Join(s.dir(), id+".json")
}

func (s *UserStore) ListUsers(ctx context.Context) ([]*recipeapi.User, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var users []*recipeapi.User
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		user, err := s.read(filepath.Join(s.dir(), entry.Name()))
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*recipeapi.User, error) {
	user, err := s.read(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, recipeapi.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*recipeapi.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, recipeapi.ErrNotFound
}

func (s *UserStore) InsertUser(ctx context.Context, user *recipeapi.User) (string, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := s.write(user); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, id string, user *recipeapi.User) error {
	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	user.ID = id
	if user.CreatedAt.IsZero() {
		user.CreatedAt = existing.CreatedAt
	}
	user.UpdatedAt = time.Now()
	return s.write(user)
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return recipeapi.ErrNotFound
	}
	return err
}

func (s *UserStore) read(path string) (*recipeapi.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}

func (s *UserStore) write(user *recipeapi.User) error {
	if err := os.MkdirAll(s.dir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fromUser(user), "", "  ")
	if err != nil {
		return err
	}
	return writeAtomicFile(s.path(user.ID), data)
}

// userDoc is the on-disk shape. The password hash is excluded from the
// User JSON encoding, so persistence needs its own struct.
type userDoc struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"password_hash"`
	FavoriteRecipes []string  `json:"favorite_recipes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func fromUser(u *recipeapi.User) *userDoc {
	return &userDoc{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FavoriteRecipes: u.FavoriteRecipes,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (d *userDoc) toUser() *recipeapi.User {
	return &recipeapi.User{
		ID:              d.ID,
		Username:        d.Username,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		FavoriteRecipes: d.FavoriteRecipes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
