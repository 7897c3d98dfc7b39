package fakebackend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/recipekeeper/internal/fakebackend/config"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App runs a Server over HTTP for local development of the CLI.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
	out    io.Writer
}

// NewApp seeds a Server from c. The startup token and its subject's balance
// are printed to out when Run starts.
func NewApp(c *config.Config, logger logging.Logger, out io.Writer) *App {
	s := New([]byte(c.SecretKey))
	s.SetBalance(c.Subject, c.InitialBalance)
	s.SetImportDelay(c.ImportDelay)
	return &App{config: c, logger: logger, server: s, out: out}
}

// Handler is the Server's router with request logging and panic recovery.
func (app *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(app.logRequests)
	r.Mount("/", app.server.Handler())
	return r
}

func (app *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		app.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Run serves until ctx is canceled or SIGINT/SIGTERM arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Addr, err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	token, err := app.server.IssueToken(app.config.Subject, app.config.TokenValidity)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintf(app.out, "Listening on %s\nAccess token for %q (%d tokens):\n%s\n",
		ln.Addr(), app.config.Subject, app.config.InitialBalance, token)

	srv := &http.Server{Handler: app.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
