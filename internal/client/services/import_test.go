package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var okResult = models.RecipeImportResult{
	Success: true, RecipeID: "r1", RecipeName: "Dal", StepsCount: 4, IngredientsCount: 6,
}

// instantSchedules report every step immediately.
var instantSchedules = map[models.ImportKind][]ScheduledStep{
	models.KindWebsite: {{0, models.StepFetching}, {0, models.StepParsing}, {0, models.StepExtracting}},
	models.KindVideo:   {{0, models.StepFetching}, {0, models.StepFetchingTranscript}},
	models.KindMedia:   {{0, models.StepParsing}},
}

type stepRecorder struct {
	mu    sync.Mutex
	steps []models.Step
}

func (r *stepRecorder) record(s models.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func (r *stepRecorder) get() []models.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Step(nil), r.steps...)
}

func TestImportFromURL_Video(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult, ImportBlock: make(chan struct{})}
	svc := NewImportService(fc, nil, 0, instantSchedules, nil)
	rec := &stepRecorder{}

	vr := &models.VideoRange{Start: time.Minute, End: 2 * time.Minute}
	go func() {
		assert.Eventually(t, func() bool { return len(rec.get()) == 2 }, time.Second, time.Millisecond)
		close(fc.ImportBlock)
	}()

	res, err := svc.ImportFromURL(context.Background(), "youtu.be/dQw4w9WgXcQ", "pt_BR", vr, rec.record)
	require.NoError(t, err)
	assert.Equal(t, okResult, res)

	assert.Equal(t, []models.Step{models.StepFetching, models.StepFetchingTranscript}, rec.get())
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", fc.LastURL.URL)
	assert.Equal(t, "pt", fc.LastURL.Language)
	assert.Equal(t, vr, fc.LastURL.VideoRange)
}

func TestImportFromURL_Invalid(t *testing.T) {
	fc := &fakeClient{}
	svc := NewImportService(fc, nil, 0, instantSchedules, nil)

	_, err := svc.ImportFromURL(context.Background(), "not a link", "", nil, nil)
	require.ErrorIs(t, err, importer.ErrUnclassifiable)

	_, err = svc.ImportFromURL(context.Background(), "https://example.com", "!!", nil, nil)
	require.ErrorIs(t, err, importer.ErrInvalidLanguage)

	assert.Zero(t, fc.calls("ImportURL"))
}

func TestImportFromURL_NoProgressAfterReturn(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult}
	slow := map[models.ImportKind][]ScheduledStep{
		models.KindWebsite: {{0, models.StepFetching}, {time.Hour, models.StepParsing}},
	}
	svc := NewImportService(fc, nil, 0, slow, nil)
	rec := &stepRecorder{}

	_, err := svc.ImportFromURL(context.Background(), "https://example.com/x", "", nil, rec.record)
	require.NoError(t, err)

	before := len(rec.get())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.get(), before)
	assert.NotContains(t, rec.get(), models.StepParsing)
}

func TestImportFromURL_Errors(t *testing.T) {
	tests := []struct {
		name string
		ret  models.RecipeImportResult
		err  error
		want func(t *testing.T, err error)
	}{
		{
			name: "passes gateway error",
			err:  client.ErrUnavailable,
			want: func(t *testing.T, err error) { assert.ErrorIs(t, err, client.ErrUnavailable) },
		},
		{
			name: "unsuccessful result",
			ret:  models.RecipeImportResult{Success: false, ErrorMessage: "No recipe found"},
			want: func(t *testing.T, err error) {
				var ce *client.ContentError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "No recipe found", ce.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{ImportRet: tt.ret, ImportErr: tt.err}
			svc := NewImportService(fc, nil, 0, instantSchedules, nil)
			_, err := svc.ImportFromURL(context.Background(), "https://example.com", "", nil, nil)
			require.Error(t, err)
			tt.want(t, err)
		})
	}
}

// noisyPNG does not compress well as PNG, so JPEG re-encoding shrinks it.
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(7))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportFromMedia_UploadsInOrder(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult}
	up := &fakeUploader{}
	svc := NewImportService(fc, up, 0, instantSchedules, nil)
	rec := &stepRecorder{}

	blobs := [][]byte{[]byte("p1"), []byte("p2"), []byte("p3"), []byte("p4"), []byte("p5")}
	res, err := svc.ImportFromMedia(context.Background(), blobs, models.MediaImage, "", rec.record)
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, []string{"imports/p1", "imports/p2", "imports/p3", "imports/p4", "imports/p5"}, fc.LastMedia.StoragePaths)
	assert.Equal(t, models.MediaImage, fc.LastMedia.MediaType)
	assert.Equal(t, []models.Step{models.StepFetching, models.StepParsing}, rec.get())
}

func TestImportFromMedia_PDF(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult}
	up := &fakeUploader{}
	svc := NewImportService(fc, up, 1, instantSchedules, nil)

	req := models.ImportRequest{Source: models.PDFSource([]byte("%PDF-1.4 doc")), LanguageHint: "de"}
	_, err := svc.Import(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, fc.LastMedia.StoragePaths, 1)
	assert.Equal(t, "application/pdf", up.Types[fc.LastMedia.StoragePaths[0]])
	assert.Equal(t, models.MediaPDF, fc.LastMedia.MediaType)
	assert.Equal(t, "de", fc.LastMedia.Language)
}

func TestImportFromMedia_CompressesLargeImages(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult}
	up := &fakeUploader{}
	img := noisyPNG(t, 300, 300)
	svc := NewImportService(fc, up, len(img)-1, instantSchedules, nil)

	_, err := svc.ImportFromMedia(context.Background(), [][]byte{img}, models.MediaImage, "", nil)
	require.NoError(t, err)

	path := fc.LastMedia.StoragePaths[0]
	assert.Equal(t, "image/jpeg", up.Types[path])
	assert.Less(t, len(up.Uploaded[path]), len(img))
}

func TestImportFromMedia_UnreadableImage(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult}
	svc := NewImportService(fc, &fakeUploader{}, 4, instantSchedules, nil)

	_, err := svc.ImportFromMedia(context.Background(), [][]byte{[]byte("not an image")}, models.MediaImage, "", nil)
	var ce *client.ContentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Page 1 could not be read.", ce.Message)
	assert.Zero(t, fc.calls("ImportMedia"))
}

func TestImportFromMedia_UploadFailure(t *testing.T) {
	fc := &fakeClient{ImportRet: okResult}
	svc := NewImportService(fc, &fakeUploader{Err: errors.New("connection reset")}, 0, instantSchedules, nil)

	_, err := svc.ImportFromMedia(context.Background(), [][]byte{[]byte("a")}, models.MediaImage, "", nil)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Zero(t, fc.calls("ImportMedia"), "media trigger must not run without uploads")
}

func TestImportFromMedia_Empty(t *testing.T) {
	svc := NewImportService(&fakeClient{}, &fakeUploader{}, 0, nil, nil)
	_, err := svc.ImportFromMedia(context.Background(), nil, models.MediaImage, "", nil)
	require.ErrorIs(t, err, importer.ErrEmptyRequest)
}

func TestImport_UnknownSource(t *testing.T) {
	svc := NewImportService(&fakeClient{}, nil, 0, nil, nil)
	_, err := svc.Import(context.Background(), models.ImportRequest{Source: models.Source{Type: "fax"}}, nil)
	require.ErrorIs(t, err, importer.ErrUnknownSourceType)
}

func TestRunSchedule_ImmediateStepsReportedBeforeReturn(t *testing.T) {
	svc := &importService{}
	rec := &stepRecorder{}

	stop := svc.runSchedule(context.Background(), []ScheduledStep{
		{0, models.StepParsing},
		{0, models.StepExtracting},
		{time.Hour, models.StepSaving},
	}, rec.record)
	stop()

	assert.Equal(t, []models.Step{models.StepParsing, models.StepExtracting}, rec.get())
}

func TestRunSchedule_AllImmediate(t *testing.T) {
	svc := &importService{}
	rec := &stepRecorder{}

	stop := svc.runSchedule(context.Background(), instantSchedules[models.KindWebsite], rec.record)
	stop()

	assert.Equal(t, []models.Step{models.StepFetching, models.StepParsing, models.StepExtracting}, rec.get())
}

func TestRunSchedule_StopsOnCancel(t *testing.T) {
	svc := &importService{}
	rec := &stepRecorder{}
	ctx, cancel := context.WithCancel(context.Background())

	stop := svc.runSchedule(ctx, []ScheduledStep{{0, models.StepFetching}, {time.Hour, models.StepSaving}}, rec.record)
	assert.Equal(t, []models.Step{models.StepFetching}, rec.get())
	cancel()
	stop()
	stop()

	assert.Equal(t, []models.Step{models.StepFetching}, rec.get())
}
