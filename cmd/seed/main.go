// Command seed populates the configured store with sample users and
// recipes for local development.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	api "github.com/openmeal/recipeapi"
	fsstore "github.com/openmeal/recipeapi/stores/fs"
	mongostore "github.com/openmeal/recipeapi/stores/mongo"
)

type seedUser struct {
	username string
	email    string
	password string
	// indexes into the seeded recipe list
	favorites []int
}

var sampleRecipes = []*api.Recipe{
	{
		Name: "Spaghetti Carbonara",
		Ingredients: []string{
			"400g spaghetti",
			"200g pancetta",
			"4 large eggs",
			"100g Pecorino Romano cheese",
			"Black pepper",
			"Salt",
		},
		Instructions: "Cook spaghetti in salted boiling water. Fry pancetta until crispy. Whisk eggs with grated cheese and pepper. Drain pasta, combine with pancetta off the heat, then stir in the egg mixture until creamy.",
		PrepTime:     15,
		CookTime:     20,
		Servings:     4,
		Cuisine:      "Italian",
		ImageURL:     "https://example.com/images/carbonara.jpg",
		Difficulty:   "medium",
		Tags:         []string{"pasta", "classic", "quick"},
		Author:       "chef_mario",
		Rating:       4.7,
	},
	{
		Name: "Chicken Tikka Masala",
		Ingredients: []string{
			"800g chicken breast",
			"200ml yogurt",
			"400ml tomato sauce",
			"200ml heavy cream",
			"2 tbsp garam masala",
			"1 tbsp ginger paste",
			"1 tbsp garlic paste",
			"Basmati rice",
		},
		Instructions: "Marinate chicken in yogurt and spices for at least an hour. Grill until charred. Simmer tomato sauce with cream and garam masala, add the chicken and cook through. Serve over basmati rice.",
		PrepTime:     30,
		CookTime:     40,
		Servings:     6,
		Cuisine:      "Indian",
		ImageURL:     "https://example.com/images/tikka-masala.jpg",
		Difficulty:   "medium",
		Tags:         []string{"curry", "spicy", "dinner"},
		Author:       "jane_smith",
		Rating:       4.9,
	},
	{
		Name: "Chocolate Chip Cookies",
		Ingredients: []string{
			"250g flour",
			"150g butter",
			"100g brown sugar",
			"100g white sugar",
			"1 egg",
			"200g chocolate chips",
			"1 tsp vanilla extract",
			"1/2 tsp baking soda",
		},
		Instructions: "Cream butter with both sugars. Beat in the egg and vanilla. Fold in flour, baking soda and chocolate chips. Scoop onto a baking sheet and bake at 180C for 10-12 minutes.",
		PrepTime:     20,
		CookTime:     12,
		Servings:     24,
		Cuisine:      "American",
		ImageURL:     "https://example.com/images/cookies.jpg",
		Difficulty:   "easy",
		Tags:         []string{"dessert", "baking"},
		Author:       "john_doe",
		Rating:       4.5,
	},
}

var sampleUsers = []seedUser{
	{username: "john_doe", email: "john.doe@example.com", password: "password123", favorites: []int{0, 2}},
	{username: "jane_smith", email: "jane.smith@example.com", password: "password456", favorites: []int{1}},
	{username: "chef_mario", email: "chef.mario@example.com", password: "chefpassword", favorites: []int{0}},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := api.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, recipes, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := reset(ctx, users, recipes); err != nil {
		slog.Error("failed to clear existing data", "error", err)
		os.Exit(1)
	}

	recipeIDs := make([]string, 0, len(sampleRecipes))
	for _, recipe := range sampleRecipes {
		id, err := recipes.InsertRecipe(ctx, recipe)
		if err != nil {
			slog.Error("failed to insert recipe", "name", recipe.Name, "error", err)
			os.Exit(1)
		}
		slog.Info("inserted recipe", "name", recipe.Name, "id", id)
		recipeIDs = append(recipeIDs, id)
	}

	for _, seed := range sampleUsers {
		hash, err := api.HashPassword(seed.password)
		if err != nil {
			slog.Error("failed to hash password", "email", seed.email, "error", err)
			os.Exit(1)
		}

		user := &api.User{
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: hash,
		}
		for _, idx := range seed.favorites {
			user.FavoriteRecipes = append(user.FavoriteRecipes, recipeIDs[idx])
		}

		id, err := users.InsertUser(ctx, user)
		if err != nil {
			slog.Error("failed to insert user", "email", seed.email, "error", err)
			os.Exit(1)
		}
		slog.Info("inserted user", "username", seed.username, "id", id)
	}

	slog.Info("seeding complete", "recipes", len(sampleRecipes), "users", len(sampleUsers))
}

// reset removes all existing documents so seeding is repeatable.
func reset(ctx context.Context, users api.UserStore, recipes api.RecipeStore) error {
	existingRecipes, err := recipes.ListRecipes(ctx)
	if err != nil {
		return err
	}
	for _, r := range existingRecipes {
		if err := recipes.DeleteRecipe(ctx, r.ID); err != nil {
			return err
		}
	}

	existingUsers, err := users.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range existingUsers {
		if err := users.DeleteUser(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

func openStores(ctx context.Context, cfg api.Config) (api.UserStore, api.RecipeStore, func(), error) {
	if cfg.MongoURI != "" {
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() {
			disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelDisconnect()
			_ = client.Disconnect(disconnectCtx)
		}
		return mongostore.NewUserStore(db), mongostore.NewRecipeStore(db), cleanup, nil
	}
	return &fsstore.UserStore{Root: cfg.DataDir},
		&fsstore.RecipeStore{Root: cfg.DataDir},
		func() {}, nil
}
