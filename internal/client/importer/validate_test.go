package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

func TestClassifyRequest(t *testing.T) {
	video := &models.VideoRange{Start: 10 * time.Second, End: time.Minute}

	tests := []struct {
		name    string
		req     models.ImportRequest
		wantErr error
		kind    models.ImportKind
	}{
		{name: "website", req: models.ImportRequest{Source: models.URLSource("https://example.com/recipe")}, kind: models.KindWebsite},
		{name: "video with range", req: models.ImportRequest{Source: models.URLSource("https://youtu.be/x"), VideoRange: video}, kind: models.KindVideo},
		{name: "website with range", req: models.ImportRequest{Source: models.URLSource("https://example.com/r"), VideoRange: video}, wantErr: ErrRangeWithoutVideo},
		{name: "bad range", req: models.ImportRequest{Source: models.URLSource("https://youtu.be/x"), VideoRange: &models.VideoRange{Start: time.Minute, End: time.Second}}, wantErr: ErrInvalidRange},
		{name: "empty url", req: models.ImportRequest{Source: models.URLSource("")}, wantErr: ErrEmptyRequest},
		{name: "malformed url", req: models.ImportRequest{Source: models.URLSource("hello")}, wantErr: ErrUnclassifiable},
		{name: "images", req: models.ImportRequest{Source: models.ImageSource([]byte("jpg"))}, kind: models.KindMedia},
		{name: "no images", req: models.ImportRequest{Source: models.ImageSource()}, wantErr: ErrEmptyRequest},
		{name: "empty image", req: models.ImportRequest{Source: models.ImageSource([]byte("a"), nil)}, wantErr: ErrEmptyRequest},
		{name: "pdf", req: models.ImportRequest{Source: models.PDFSource([]byte("%PDF-1.7"))}, kind: models.KindMedia},
		{name: "pdf with range", req: models.ImportRequest{Source: models.PDFSource([]byte("%PDF")), VideoRange: video}, wantErr: ErrRangeWithoutVideo},
		{name: "zero request", req: models.ImportRequest{}, wantErr: ErrEmptyRequest},
		{name: "unknown type", req: models.ImportRequest{Source: models.Source{Type: "fax"}}, wantErr: ErrUnknownSourceType},
		{name: "bad language", req: models.ImportRequest{Source: models.URLSource("https://example.com"), LanguageHint: "!!"}, wantErr: ErrInvalidLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ClassifyRequest(tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, CostOf(tt.kind), c.Cost)
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	got, err := NormalizeLanguage("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NormalizeLanguage("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "pt", got)

	got, err = NormalizeLanguage("de_DE")
	require.NoError(t, err)
	assert.Equal(t, "de", got)

	got, err = NormalizeLanguage(" EN ")
	require.NoError(t, err)
	assert.Equal(t, "en", got)

	_, err = NormalizeLanguage("!!")
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}
