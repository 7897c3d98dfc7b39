package importer

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var (
	ErrEmptyRequest      = errors.New("nothing to import")
	ErrUnclassifiable    = errors.New("link is not a valid web address")
	ErrRangeWithoutVideo = errors.New("timestamps only apply to video links")
	ErrUnknownSourceType = errors.New("unknown source type")
)

// ClassifyRequest validates req and classifies its source. It is the single
// entry point used before any token check or gateway call.
func ClassifyRequest(req models.ImportRequest) (Classification, error) {
	if _, err := NormalizeLanguage(req.LanguageHint); err != nil {
		return Classification{}, err
	}

	switch req.Source.Type {
	case models.SourceURL:
		c, ok := Classify(req.Source.URL)
		if !ok {
			if req.Source.URL == "" {
				return Classification{}, ErrEmptyRequest
			}
			return Classification{}, ErrUnclassifiable
		}
		if req.VideoRange != nil {
			if c.Kind != models.KindVideo {
				return Classification{}, ErrRangeWithoutVideo
			}
			if err := validateRange(req.VideoRange); err != nil {
				return Classification{}, err
			}
		}
		return c, nil

	case models.SourceImageSet, models.SourcePDF:
		blobs := req.Source.Blobs()
		if len(blobs) == 0 {
			return Classification{}, ErrEmptyRequest
		}
		for i, b := range blobs {
			if len(b) == 0 {
				return Classification{}, fmt.Errorf("%w: attachment %d is empty", ErrEmptyRequest, i+1)
			}
		}
		if req.VideoRange != nil {
			return Classification{}, ErrRangeWithoutVideo
		}
		kind, _ := req.Source.MediaKind()
		return ClassifyMedia(kind), nil

	case "":
		return Classification{}, ErrEmptyRequest

	default:
		return Classification{}, fmt.Errorf("%w: %q", ErrUnknownSourceType, req.Source.Type)
	}
}
