package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// URLImportRequest is the body of POST /import/url.
type URLImportRequest struct {
	URL        string
	Language   string
	VideoRange *models.VideoRange
}

// MediaImportRequest is the body of POST /import/media. StoragePaths point at
// blobs already uploaded to temporary storage.
type MediaImportRequest struct {
	StoragePaths []string
	MediaType    models.MediaKind
	Language     string
}

type Client interface {
	ImportURL(ctx context.Context, req URLImportRequest) (models.RecipeImportResult, error)
	ImportMedia(ctx context.Context, req MediaImportRequest) (models.RecipeImportResult, error)
	Balance(ctx context.Context) (int, error)
	RedeemReceipt(ctx context.Context, receipt models.Receipt) (int, error)
	ListRecipes(ctx context.Context) ([]models.CachedRecipe, error)
	GetRecipe(ctx context.Context, id string) (*models.CachedRecipeDetail, error)
	// Ping checks the backend health endpoint and works without a session.
	Ping(ctx context.Context) error
}

type urlImportBody struct {
	URL            string `json:"url"`
	Language       string `json:"language,omitempty"`
	Translate      bool   `json:"translate"`
	StartTimestamp *int   `json:"startTimestamp,omitempty"`
	EndTimestamp   *int   `json:"endTimestamp,omitempty"`
}

func (r URLImportRequest) body() urlImportBody {
	b := urlImportBody{URL: r.URL, Language: r.Language, Translate: r.Language != ""}
	if r.VideoRange != nil {
		start := int(r.VideoRange.Start / time.Second)
		end := int(r.VideoRange.End / time.Second)
		b.StartTimestamp, b.EndTimestamp = &start, &end
	}
	return b
}

type mediaImportBody struct {
	StoragePaths []string `json:"storagePaths"`
	MediaType    string   `json:"mediaType"`
	Language     string   `json:"language,omitempty"`
	Translate    bool     `json:"translate"`
}

func (r MediaImportRequest) body() mediaImportBody {
	return mediaImportBody{
		StoragePaths: r.StoragePaths,
		MediaType:    string(r.MediaType),
		Language:     r.Language,
		Translate:    r.Language != "",
	}
}

type importResponse struct {
	RecipeID         string `json:"recipeId"`
	RecipeName       string `json:"recipeName"`
	StepsCount       int    `json:"stepsCount"`
	IngredientsCount int    `json:"ingredientsCount"`
	Error            string `json:"error"`
	Code             string `json:"code"`
}

type balanceResponse struct {
	Balance int `json:"balance"`
}

type recipesResponse struct {
	Recipes []models.CachedRecipe `json:"recipes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type healthResponse struct {
	Status string `json:"status"`
}
