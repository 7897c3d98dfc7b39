package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// RecipeCache is the subset of cache.Store used for recipe snapshots.
type RecipeCache interface {
	Recipes() ([]models.CachedRecipe, bool)
	PutRecipes(list []models.CachedRecipe) error
	RecipeDetail(id string) (*models.CachedRecipeDetail, bool)
	PutRecipeDetail(d *models.CachedRecipeDetail) error
	Clear() error
}

type RecipeList struct {
	Recipes   []models.CachedRecipe
	FromCache bool
}

type RecipeDetail struct {
	Recipe    *models.CachedRecipeDetail
	FromCache bool
}

// RecipeService reads recipes network-first and mirrors every successful
// read into the cache. When the backend is unreachable the cached snapshot
// is served instead.
type RecipeService interface {
	List(ctx context.Context) (RecipeList, error)
	Get(ctx context.Context, id string) (RecipeDetail, error)
	Cached() ([]models.CachedRecipe, bool)
	CachedDetail(id string) (*models.CachedRecipeDetail, bool)
	SignOut(ctx context.Context) error
}

type recipeService struct {
	client client.Client
	cache  RecipeCache
	log    logging.Logger
}

func NewRecipeService(c client.Client, cache RecipeCache, log logging.Logger) RecipeService {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &recipeService{client: c, cache: cache, log: log}
}

func (s *recipeService) List(ctx context.Context) (RecipeList, error) {
	list, err := s.client.ListRecipes(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			if cached, ok := s.cache.Recipes(); ok {
				s.log.Info(ctx, "serving cached recipe list", "count", len(cached))
				return RecipeList{Recipes: cached, FromCache: true}, nil
			}
		}
		return RecipeList{}, err
	}

	if err := s.cache.PutRecipes(list); err != nil {
		s.log.Warn(ctx, "cache write failed", "key", "recipes", "error", err)
	}
	return RecipeList{Recipes: list}, nil
}

func (s *recipeService) Get(ctx context.Context, id string) (RecipeDetail, error) {
	d, err := s.client.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			if cached, ok := s.cache.RecipeDetail(id); ok {
				s.log.Info(ctx, "serving cached recipe", "id", id)
				return RecipeDetail{Recipe: cached, FromCache: true}, nil
			}
		}
		var ce *client.ContentError
		if errors.As(err, &ce) && ce.Status == http.StatusNotFound {
			return RecipeDetail{}, common.ErrorNotFound
		}
		return RecipeDetail{}, err
	}

	if d.ID == "" {
		d.ID = id
	}
	if err := s.cache.PutRecipeDetail(d); err != nil {
		s.log.Warn(ctx, "cache write failed", "key", id, "error", err)
	}
	return RecipeDetail{Recipe: d}, nil
}

func (s *recipeService) Cached() ([]models.CachedRecipe, bool) {
	return s.cache.Recipes()
}

func (s *recipeService) CachedDetail(id string) (*models.CachedRecipeDetail, bool) {
	return s.cache.RecipeDetail(id)
}

// SignOut drops every cached snapshot.
func (s *recipeService) SignOut(ctx context.Context) error {
	if err := s.cache.Clear(); err != nil {
		return err
	}
	s.log.Info(ctx, "recipe cache cleared")
	return nil
}
