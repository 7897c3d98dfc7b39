package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/importer"
	"github.com/dmitrijs2005/recipekeeper/internal/client/importflow"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// notifyInterrupt is a test seam around signal.Notify.
var notifyInterrupt = func() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}

// Import handles "import <url> [start end] [lang=xx]".
func (a *App) Import(ctx context.Context, args []string) error {
	req, err := parseImportArgs(args)
	if err != nil {
		return err
	}

	if c, ok := importer.Classify(req.Source.URL); ok {
		if c.Kind == models.KindVideo {
			a.printf("%s video, %d tokens.\n", c.Platform, c.Cost)
		} else {
			a.printf("Website, %d token.\n", c.Cost)
		}
		switch {
		case req.VideoRange == nil:
		case !c.ShowsVideoRange():
			a.println("Start and end times only apply to video links; ignoring them.")
			req.VideoRange = nil
		default:
			a.printf("Segment %s to %s.\n",
				importer.FormatTimestamp(req.VideoRange.Start), importer.FormatTimestamp(req.VideoRange.End))
		}
	}
	return a.runImport(ctx, req)
}

// ImportImages handles "importimg <file>... [lang=xx]". Pages are sent in
// the given order.
func (a *App) ImportImages(ctx context.Context, args []string) error {
	lang, paths := splitLang(args)
	if len(paths) == 0 {
		return errors.New("usage: importimg <file> [file...] [lang=xx]")
	}

	images := make([][]byte, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		images = append(images, b)
	}
	return a.runImport(ctx, models.ImportRequest{Source: models.ImageSource(images...), LanguageHint: lang})
}

// ImportPDF handles "importpdf <file>".
func (a *App) ImportPDF(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return a.runImport(ctx, models.ImportRequest{Source: models.PDFSource(b)})
}

// runImport drives one import on a fresh machine, the CLI equivalent of
// opening the add-recipe screen. Ctrl-C discards the machine.
func (a *App) runImport(ctx context.Context, req models.ImportRequest) error {
	m := importflow.New(a.ledger, a.imports, importflow.WithLogger(a.log.With("component", "importflow")))
	r := &progressRenderer{out: a.out, tty: isTerminal(int(os.Stdout.Fd()))}
	unsubscribe := m.Subscribe(r.render)
	defer unsubscribe()
	m.OnInsufficientTokens(a.promptPurchase)

	sig, stop := notifyInterrupt()
	defer stop()
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-sig:
			m.Discard()
		case <-finished:
		}
	}()

	sum, err := m.Submit(ctx, req)
	switch {
	case err == nil:
		a.printf("Open it with: show %s\n", sum.RecipeID)
		return nil
	case errors.Is(err, importflow.ErrDiscarded):
		r.finish()
		a.println("Import canceled.")
		return nil
	case errors.Is(err, importflow.ErrInvalidRequest):
		return errors.New(importflow.UserMessage(err))
	default:
		// already rendered from the Error state or the purchase prompt
		return nil
	}
}

// parseImportArgs reads "<url> [start end] [lang=xx]".
func parseImportArgs(args []string) (models.ImportRequest, error) {
	lang, rest := splitLang(args)
	if len(rest) == 0 {
		return models.ImportRequest{}, errors.New("usage: import <url> [start end] [lang=xx]")
	}

	req := models.ImportRequest{Source: models.URLSource(rest[0]), LanguageHint: lang}

	switch times := rest[1:]; len(times) {
	case 0:
	case 2:
		vr, err := importer.ParseVideoRange(importer.AutoFormatTimestamp(times[0]), importer.AutoFormatTimestamp(times[1]))
		if err != nil {
			return models.ImportRequest{}, err
		}
		req.VideoRange = vr
	default:
		return models.ImportRequest{}, errors.New("give both a start and an end time, e.g. 1:30 4:05")
	}
	return req, nil
}

func splitLang(args []string) (string, []string) {
	var (
		lang string
		rest []string
	)
	for _, a := range args {
		if v, ok := strings.CutPrefix(a, "lang="); ok {
			lang = v
			continue
		}
		rest = append(rest, a)
	}
	return lang, rest
}

// progressRenderer prints state changes. On a terminal progress steps
// overwrite one line.
type progressRenderer struct {
	out     io.Writer
	tty     bool
	pending bool
}

func (r *progressRenderer) render(s models.ImportState) {
	switch s.Phase {
	case models.PhaseValidating:
		r.line("Checking...")
	case models.PhaseInProgress:
		r.line(s.Step.Label() + "...")
	case models.PhaseSuccess:
		r.finish()
		if s.Result != nil {
			fmt.Fprintf(r.out, "Imported %q: %d ingredients, %d steps.\n",
				s.Result.RecipeName, s.Result.IngredientsCount, s.Result.StepsCount)
		}
	case models.PhaseError:
		r.finish()
		fmt.Fprintf(r.out, "Import failed: %s\n", s.Message)
	case models.PhaseIdle:
		r.finish()
	}
}

func (r *progressRenderer) line(text string) {
	if !r.tty {
		fmt.Fprintln(r.out, text)
		return
	}
	fmt.Fprint(r.out, "\r\033[K"+text)
	r.pending = true
}

func (r *progressRenderer) finish() {
	if r.pending {
		fmt.Fprintln(r.out)
		r.pending = false
	}
}
