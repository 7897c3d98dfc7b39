package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

func TestParseImportArgs(t *testing.T) {
	req, err := parseImportArgs([]string{"lang=de", "https://youtu.be/abc", "130", "4:05"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceURL, req.Source.Type)
	assert.Equal(t, "https://youtu.be/abc", req.Source.URL)
	assert.Equal(t, "de", req.LanguageHint)
	require.NotNil(t, req.VideoRange)
	assert.Equal(t, 90*time.Second, req.VideoRange.Start)
	assert.Equal(t, 245*time.Second, req.VideoRange.End)

	req, err = parseImportArgs([]string{"example.com/pancakes"})
	require.NoError(t, err)
	assert.Nil(t, req.VideoRange)
	assert.Empty(t, req.LanguageHint)
}

func TestParseImportArgs_Errors(t *testing.T) {
	for name, args := range map[string][]string{
		"no url":        {"lang=en"},
		"single time":   {"https://youtu.be/abc", "1:00"},
		"too many":      {"https://youtu.be/abc", "1", "2", "3"},
		"end not after": {"https://youtu.be/abc", "2:00", "1:00"},
		"bad seconds":   {"https://youtu.be/abc", "1:75", "2:00"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseImportArgs(args)
			assert.Error(t, err)
		})
	}
}

func TestSplitLang(t *testing.T) {
	lang, rest := splitLang([]string{"a.jpg", "lang=fr", "b.jpg"})
	assert.Equal(t, "fr", lang)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, rest)
}

func TestProgressRenderer_Plain(t *testing.T) {
	var out bytes.Buffer
	r := &progressRenderer{out: &out}

	r.render(models.ImportState{Phase: models.PhaseValidating})
	r.render(models.ImportState{Phase: models.PhaseInProgress, Step: models.StepFetching})
	r.render(models.ImportState{Phase: models.PhaseSuccess, Result: &models.ImportSummary{
		RecipeID: "r1", RecipeName: "Pancakes", IngredientsCount: 3, StepsCount: 4,
	}})

	assert.Equal(t, "Checking...\nFetching content...\nImported \"Pancakes\": 3 ingredients, 4 steps.\n", out.String())
}

func TestProgressRenderer_TerminalOverwritesLine(t *testing.T) {
	var out bytes.Buffer
	r := &progressRenderer{out: &out, tty: true}

	r.render(models.ImportState{Phase: models.PhaseInProgress, Step: models.StepFetching})
	r.render(models.ImportState{Phase: models.PhaseInProgress, Step: models.StepSaving})
	r.render(models.ImportState{Phase: models.PhaseError, Message: "No recipe found."})

	assert.Equal(t,
		"\r\033[KFetching content...\r\033[KSaving recipe...\nImport failed: No recipe found.\n",
		out.String())
	assert.False(t, r.pending)
}
