// Package services contains application services for the recipekeeper
// client: the import gateway adapter, the token ledger and cache-backed
// recipe reads.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
	"github.com/dmitrijs2005/recipekeeper/internal/client/media"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/storage"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// maxParallelUploads bounds concurrent blob uploads for one import.
const maxParallelUploads = 4

// ImportService adapts import requests to backend calls and reports
// estimated progress.
//
// Contract:
//   - ImportFromURL: one POST /import/url call.
//   - ImportFromMedia: upload every blob, then one POST /import/media call.
//   - Import: dispatch on the request source.
//
// None of the methods retry. Progress is an elapsed-time estimate and is
// never reported after the method returns.
type ImportService interface {
	ImportFromURL(ctx context.Context, url, language string, videoRange *models.VideoRange, progress models.ProgressFunc) (models.RecipeImportResult, error)
	ImportFromMedia(ctx context.Context, blobs [][]byte, kind models.MediaKind, language string, progress models.ProgressFunc) (models.RecipeImportResult, error)
	Import(ctx context.Context, req models.ImportRequest, progress models.ProgressFunc) (models.RecipeImportResult, error)
}

// ScheduledStep shows Step once After has elapsed since the schedule started.
type ScheduledStep struct {
	After time.Duration
	Step  models.Step
}

// DefaultSchedules approximate the backend pipelines. They are cosmetic.
var DefaultSchedules = map[models.ImportKind][]ScheduledStep{
	models.KindWebsite: {
		{0, models.StepFetching},
		{4 * time.Second, models.StepParsing},
		{10 * time.Second, models.StepExtracting},
		{25 * time.Second, models.StepSaving},
	},
	models.KindVideo: {
		{0, models.StepFetching},
		{3 * time.Second, models.StepFetchingTranscript},
		{40 * time.Second, models.StepParsing},
		{70 * time.Second, models.StepExtracting},
		{100 * time.Second, models.StepSaving},
	},
	// runs after the uploads finished
	models.KindMedia: {
		{0, models.StepParsing},
		{15 * time.Second, models.StepExtracting},
		{40 * time.Second, models.StepSaving},
	},
}

type importService struct {
	client        client.Client
	uploader      storage.Uploader
	maxImageBytes int
	schedules     map[models.ImportKind][]ScheduledStep
	log           logging.Logger
}

// NewImportService wires the gateway. maxImageBytes <= 0 disables
// recompression; schedules == nil selects DefaultSchedules.
func NewImportService(c client.Client, uploader storage.Uploader, maxImageBytes int,
	schedules map[models.ImportKind][]ScheduledStep, log logging.Logger) ImportService {
	if schedules == nil {
		schedules = DefaultSchedules
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &importService{
		client:        c,
		uploader:      uploader,
		maxImageBytes: maxImageBytes,
		schedules:     schedules,
		log:           log,
	}
}

func (s *importService) Import(ctx context.Context, req models.ImportRequest, progress models.ProgressFunc) (models.RecipeImportResult, error) {
	switch req.Source.Type {
	case models.SourceURL:
		return s.ImportFromURL(ctx, req.Source.URL, req.LanguageHint, req.VideoRange, progress)
	case models.SourceImageSet, models.SourcePDF:
		kind, _ := req.Source.MediaKind()
		return s.ImportFromMedia(ctx, req.Source.Blobs(), kind, req.LanguageHint, progress)
	default:
		return models.RecipeImportResult{}, fmt.Errorf("%w: %q", importer.ErrUnknownSourceType, req.Source.Type)
	}
}

func (s *importService) ImportFromURL(ctx context.Context, url, language string, videoRange *models.VideoRange,
	progress models.ProgressFunc) (models.RecipeImportResult, error) {
	c, ok := importer.Classify(url)
	if !ok {
		return models.RecipeImportResult{}, importer.ErrUnclassifiable
	}
	lang, err := importer.NormalizeLanguage(language)
	if err != nil {
		return models.RecipeImportResult{}, err
	}

	log := s.log.With("kind", c.Kind, "platform", c.Platform)
	log.Info(ctx, "url import started")
	started := time.Now()

	stop := s.runSchedule(ctx, s.schedules[c.Kind], progress)
	res, err := s.client.ImportURL(ctx, client.URLImportRequest{URL: c.URL, Language: lang, VideoRange: videoRange})
	stop()

	res, err = checkResult(res, err)
	if err != nil {
		log.Warn(ctx, "url import failed", "error", err, "elapsed", time.Since(started))
		return res, err
	}
	log.Info(ctx, "url import finished", "recipe_id", res.RecipeID, "elapsed", time.Since(started))
	return res, nil
}

func (s *importService) ImportFromMedia(ctx context.Context, blobs [][]byte, kind models.MediaKind, language string,
	progress models.ProgressFunc) (models.RecipeImportResult, error) {
	if len(blobs) == 0 {
		return models.RecipeImportResult{}, importer.ErrEmptyRequest
	}
	lang, err := importer.NormalizeLanguage(language)
	if err != nil {
		return models.RecipeImportResult{}, err
	}

	log := s.log.With("kind", models.KindMedia, "media", kind, "pages", len(blobs))
	log.Info(ctx, "media import started")
	started := time.Now()

	report(progress, models.StepFetching)

	paths, err := s.uploadAll(ctx, blobs, kind)
	if err != nil {
		log.Warn(ctx, "media upload failed", "error", err)
		return models.RecipeImportResult{}, err
	}

	stop := s.runSchedule(ctx, s.schedules[models.KindMedia], progress)
	res, err := s.client.ImportMedia(ctx, client.MediaImportRequest{StoragePaths: paths, MediaType: kind, Language: lang})
	stop()

	res, err = checkResult(res, err)
	if err != nil {
		log.Warn(ctx, "media import failed", "error", err, "elapsed", time.Since(started))
		return res, err
	}
	log.Info(ctx, "media import finished", "recipe_id", res.RecipeID, "elapsed", time.Since(started))
	return res, nil
}

// uploadAll uploads blobs concurrently and returns storage paths in input
// order.
func (s *importService) uploadAll(ctx context.Context, blobs [][]byte, kind models.MediaKind) ([]string, error) {
	paths := make([]string, len(blobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	for i, blob := range blobs {
		g.Go(func() error {
			data, contentType, err := s.prepare(blob, kind)
			if err != nil {
				return &client.ContentError{Message: fmt.Sprintf("Page %d could not be read.", i+1)}
			}

			path, err := s.uploader.Upload(gctx, data, contentType)
			if err != nil {
				if ctx.Err() != nil {
					return client.ErrCanceled
				}
				return fmt.Errorf("%w: upload page %d: %v", client.ErrUnavailable, i+1, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *importService) prepare(blob []byte, kind models.MediaKind) ([]byte, string, error) {
	if kind == models.MediaPDF {
		return blob, "application/pdf", nil
	}
	return media.Compress(blob, s.maxImageBytes)
}

// runSchedule reports steps as their time comes. Leading steps due at once
// are reported before it returns. The returned stop blocks until the
// reporting goroutine is gone.
func (s *importService) runSchedule(ctx context.Context, steps []ScheduledStep, progress models.ProgressFunc) (stop func()) {
	if progress == nil {
		return func() {}
	}

	start := time.Now()
	for len(steps) > 0 && steps[0].After <= 0 {
		progress(steps[0].Step)
		steps = steps[1:]
	}
	if len(steps) == 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for _, st := range steps {
			wait := st.After - time.Since(start)
			if wait > 0 {
				t := time.NewTimer(wait)
				select {
				case <-t.C:
				case <-done:
					t.Stop()
					return
				case <-ctx.Done():
					t.Stop()
					return
				}
			}
			select {
			case <-done:
				return
			default:
			}
			progress(st.Step)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}

func report(progress models.ProgressFunc, step models.Step) {
	if progress != nil {
		progress(step)
	}
}

func checkResult(res models.RecipeImportResult, err error) (models.RecipeImportResult, error) {
	if err != nil {
		return res, err
	}
	if !res.Success || res.RecipeID == "" {
		return res, &client.ContentError{Message: res.ErrorMessage}
	}
	return res, nil
}
