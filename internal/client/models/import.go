// Package models defines the data shared by the recipe import flow, the token
// ledger and the local recipe cache.
package models

import "time"

// SourceType tags the variant held by a Source.
type SourceType string

const (
	SourceURL      SourceType = "url"
	SourceImageSet SourceType = "images"
	SourcePDF      SourceType = "pdf"
)

// MediaKind is the media type reported to the backend for OCR imports.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaPDF   MediaKind = "pdf"
)

// Source is a tagged union: exactly one of URL, Images or PDF is meaningful,
// selected by Type.
type Source struct {
	Type   SourceType
	URL    string
	Images [][]byte
	PDF    []byte
}

// URLSource builds a Source for a web or video link.
func URLSource(u string) Source { return Source{Type: SourceURL, URL: u} }

// ImageSource builds a Source for one or more photos.
func ImageSource(images ...[]byte) Source { return Source{Type: SourceImageSet, Images: images} }

// PDFSource builds a Source for a single PDF document.
func PDFSource(pdf []byte) Source { return Source{Type: SourcePDF, PDF: pdf} }

// Blobs returns the binary payloads of a media source.
func (s Source) Blobs() [][]byte {
	switch s.Type {
	case SourceImageSet:
		return s.Images
	case SourcePDF:
		if s.PDF == nil {
			return nil
		}
		return [][]byte{s.PDF}
	default:
		return nil
	}
}

// MediaKind reports the backend media type for media sources.
func (s Source) MediaKind() (MediaKind, bool) {
	switch s.Type {
	case SourceImageSet:
		return MediaImage, true
	case SourcePDF:
		return MediaPDF, true
	default:
		return "", false
	}
}

// VideoRange restricts a video import to a segment of the clip.
type VideoRange struct {
	Start time.Duration
	End   time.Duration
}

// ImportRequest is built when the user submits the add-recipe form and is
// consumed once by the gateway.
type ImportRequest struct {
	Source       Source
	LanguageHint string
	VideoRange   *VideoRange
}

// ImportKind is the pipeline chosen by the classifier.
type ImportKind string

const (
	KindWebsite ImportKind = "website"
	KindVideo   ImportKind = "video"
	KindMedia   ImportKind = "media"
)

// RecipeImportResult mirrors the backend import response.
type RecipeImportResult struct {
	Success          bool   `json:"success"`
	RecipeID         string `json:"recipeId,omitempty"`
	RecipeName       string `json:"recipeName,omitempty"`
	StepsCount       int    `json:"stepsCount,omitempty"`
	IngredientsCount int    `json:"ingredientsCount,omitempty"`
	ErrorMessage     string `json:"errorMessage,omitempty"`
}

// Summary converts a successful result into the summary shown to the user.
func (r RecipeImportResult) Summary() ImportSummary {
	return ImportSummary{
		RecipeID:         r.RecipeID,
		RecipeName:       r.RecipeName,
		StepsCount:       r.StepsCount,
		IngredientsCount: r.IngredientsCount,
	}
}

// ImportSummary describes the recipe created by a successful import.
type ImportSummary struct {
	RecipeID         string
	RecipeName       string
	StepsCount       int
	IngredientsCount int
}
