package models

import "time"

// Ingredient is one ingredient line of a recipe.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// RecipeStep is one instruction of a recipe.
type RecipeStep struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
}

// CachedRecipe is the list-level snapshot of a remote recipe record.
type CachedRecipe struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	Servings    int       `json:"servings,omitempty"`
	PrepMinutes int       `json:"prepMinutes,omitempty"`
	CookMinutes int       `json:"cookMinutes,omitempty"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CachedRecipeDetail is a recipe together with its ingredients and steps.
type CachedRecipeDetail struct {
	CachedRecipe
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []RecipeStep `json:"steps"`
}
