// Package mongo implements the document stores on MongoDB, the backend
// the original deployment runs against.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/openmeal/recipeapi"
)

// Connect dials the cluster and returns the database named in the URI
// path, defaulting to "recipe-manager".
func Connect(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, client.Database(databaseName(uri)), nil
}

func databaseName(uri string) string {
	u, err := url.Parse(strings.Replace(uri, "mongodb+srv://", "mongodb://", 1))
	if err != nil {
		return "recipe-manager"
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return "recipe-manager"
}

// UserStore implements recipeapi.UserStore on the "users" collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection("users")}
}

type userDoc struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Username        string        `bson:"username"`
	Email           string        `bson:"email"`
	PasswordHash    string        `bson:"password"`
	FavoriteRecipes []string      `bson:"favoriteRecipes,omitempty"`
	CreatedAt       time.Time     `bson:"created_at,omitempty"`
	UpdatedAt       time.Time     `bson:"updated_at,omitempty"`
}

func (d *userDoc) toUser() *recipeapi.User {
	return &recipeapi.User{
		ID:              d.ID.Hex(),
		Username:        d.Username,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		FavoriteRecipes: d.FavoriteRecipes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func userToDoc(u *recipeapi.User) *userDoc {
	return &userDoc{
		Username:        u.Username,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FavoriteRecipes: u.FavoriteRecipes,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (s *UserStore) ListUsers(ctx context.Context) ([]*recipeapi.User, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []*userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]*recipeapi.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*recipeapi.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, recipeapi.ErrNotFound
	}
	var doc userDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, recipeapi.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*recipeapi.User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, recipeapi.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}

func (s *UserStore) InsertUser(ctx context.Context, user *recipeapi.User) (string, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, userToDoc(user))
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()
	return user.ID, nil
}

func (s *UserStore) UpdateUser(ctx context.Context, id string, user *recipeapi.User) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return recipeapi.ErrNotFound
	}
	user.UpdatedAt = time.Now()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": userToDoc(user)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return recipeapi.ErrNotFound
	}
	return nil
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return recipeapi.ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return recipeapi.ErrNotFound
	}
	return nil
}

// RecipeStore implements recipeapi.RecipeStore on the "recipes" collection.
type RecipeStore struct {
	coll *mongo.Collection
}

func NewRecipeStore(db *mongo.Database) *RecipeStore {
	return &RecipeStore{coll: db.Collection("recipes")}
}

type recipeDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Name         string        `bson:"name"`
	Ingredients  []string      `bson:"ingredients"`
	Instructions string        `bson:"instructions"`
	PrepTime     int           `bson:"prepTime"`
	CookTime     int           `bson:"cookTime"`
	Servings     int           `bson:"servings"`
	Cuisine      string        `bson:"cuisine"`
	ImageURL     string        `bson:"imageUrl"`
	Difficulty   string        `bson:"difficulty,omitempty"`
	Tags         []string      `bson:"tags,omitempty"`
	Author       string        `bson:"author,omitempty"`
	Rating       float64       `bson:"rating,omitempty"`
	CreatedAt    time.Time     `bson:"dateCreated,omitempty"`
	UpdatedAt    time.Time     `bson:"updated_at,omitempty"`
}

func (d *recipeDoc) toRecipe() *recipeapi.Recipe {
	return &recipeapi.Recipe{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Ingredients:  d.Ingredients,
		Instructions: d.Instructions,
		PrepTime:     d.PrepTime,
		CookTime:     d.CookTime,
		Servings:     d.Servings,
		Cuisine:      d.Cuisine,
		ImageURL:     d.ImageURL,
		Difficulty:   d.Difficulty,
		Tags:         d.Tags,
		Author:       d.Author,
		Rating:       d.Rating,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func recipeToDoc(r *recipeapi.Recipe) *recipeDoc {
	return &recipeDoc{
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

func (s *RecipeStore) ListRecipes(ctx context.Context) ([]*recipeapi.Recipe, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []*recipeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	recipes := make([]*recipeapi.Recipe, 0, len(docs))
	for _, doc := range docs {
		recipes = append(recipes, doc.toRecipe())
	}
	return recipes, nil
}

func (s *RecipeStore) GetRecipe(ctx context.Context, id string) (*recipeapi.Recipe, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, recipeapi.ErrNotFound
	}
	var doc recipeDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, recipeapi.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toRecipe(), nil
}

func (s *RecipeStore) InsertRecipe(ctx context.Context, recipe *recipeapi.Recipe) (string, error) {
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, recipeToDoc(recipe))
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	recipe.ID = oid.Hex()
	return recipe.ID, nil
}

func (s *RecipeStore) UpdateRecipe(ctx context.Context, id string, recipe *recipeapi.Recipe) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return recipeapi.ErrNotFound
	}
	recipe.UpdatedAt = time.Now()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": recipeToDoc(recipe)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return recipeapi.ErrNotFound
	}
	return nil
}

func (s *RecipeStore) DeleteRecipe(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return recipeapi.ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return recipeapi.ErrNotFound
	}
	return nil
}
