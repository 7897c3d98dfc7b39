package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/dmitrijs2005/recipekeeper/internal/client/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/client/cache"
	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/config"
	"github.com/dmitrijs2005/recipekeeper/internal/client/services"
	"github.com/dmitrijs2005/recipekeeper/internal/client/storage"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	session *auth.TokenSession
	client  client.Client
	ledger  *services.TokenLedger
	imports services.ImportService
	recipes services.RecipeService
	Mode    Mode
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the client stack for c on the process stdin/stdout.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	return newApp(c, log, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	session := auth.NewTokenSession()

	apiClient, err := client.NewRecipeClient(c.BackendURL, c.RequestTimeout, session)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewStore(c.CacheDir, log.With("component", "cache"))
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(in)
	provider := &promptPurchaseProvider{reader: reader, out: out}

	return &App{
		config:  c,
		log:     log,
		session: session,
		client:  apiClient,
		ledger:  services.NewTokenLedger(apiClient, provider, log.With("component", "ledger")),
		imports: services.NewImportService(apiClient, storage.NewS3Uploader(c), c.MaxImageBytes, nil,
			log.With("component", "import")),
		recipes: services.NewRecipeService(apiClient, store, log.With("component", "recipes")),
		reader:  reader,
		out:     out,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.SignedIn()
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// pingWindow bounds the startup connectivity probe.
var pingWindow = 3 * time.Second

// checkOnline pings the backend, retrying unreachable errors with backoff
// for up to pingWindow, and records the result in Mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingWindow)
	defer cancel()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := a.client.Ping(ctx)
		if err != nil && !errors.Is(err, client.ErrUnavailable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(pingWindow))
	if err != nil {
		a.log.Debug(ctx, "backend ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
