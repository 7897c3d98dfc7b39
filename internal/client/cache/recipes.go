package cache

import "github.com/dmitrijs2005/recipekeeper/internal/client/models"

const recipeListKey = "recipes"

func recipeDetailKey(id string) string { return "recipe-" + id }

// Recipes returns the cached recipe list.
func (s *Store) Recipes() ([]models.CachedRecipe, bool) {
	var list []models.CachedRecipe
	if !s.Get(recipeListKey, &list) {
		return nil, false
	}
	return list, true
}

// PutRecipes replaces the cached recipe list.
func (s *Store) PutRecipes(list []models.CachedRecipe) error {
	return s.Put(recipeListKey, list)
}

// RecipeDetail returns the cached detail record for id.
func (s *Store) RecipeDetail(id string) (*models.CachedRecipeDetail, bool) {
	if id == "" {
		return nil, false
	}
	var d models.CachedRecipeDetail
	if !s.Get(recipeDetailKey(id), &d) {
		return nil, false
	}
	return &d, true
}

// PutRecipeDetail replaces the cached detail record for d.ID.
func (s *Store) PutRecipeDetail(d *models.CachedRecipeDetail) error {
	if d == nil || d.ID == "" {
		return ErrEmptyKey
	}
	return s.Put(recipeDetailKey(d.ID), d)
}
