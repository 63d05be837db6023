// Package server exposes the keep-alive and status endpoints of a running bot.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tamnara/scrumbot/internal/schedule"
)

// Holidays reports the cached holiday flag.
type Holidays interface {
	IsHoliday() bool
	LastRefresh() time.Time
}

// Channels counts the chat channels the bot can post to.
type Channels interface {
	Count() int
}

// Jobs reports the latest run of every scheduled job.
type Jobs interface {
	Statuses() []schedule.Status
}

type Config struct {
	Holidays Holidays
	Channels Channels
	Jobs     Jobs
	Version  string
}

type StatusBody struct {
	Holiday        bool              `json:"holiday"`
	HolidayChecked *time.Time        `json:"holiday_checked,omitempty"`
	Channels       int               `json:"channels"`
	Jobs           []schedule.Status `json:"jobs"`
}

// New returns the HTTP handler of the bot.
func New(cfg Config) http.Handler {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	huma.DefaultArrayNullable = false

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	hcfg := huma.DefaultConfig("scrumbot", cfg.Version)
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = ""
	api := humachi.New(router, hcfg)

	registerHealth(api)
	registerStatus(api, cfg)

	return router
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerStatus(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Holiday flag, channels and job runs",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body StatusBody `json:"body"`
	}, error) {
		body := StatusBody{Jobs: []schedule.Status{}}
		if cfg.Holidays != nil {
			body.Holiday = cfg.Holidays.IsHoliday()
			if t := cfg.Holidays.LastRefresh(); !t.IsZero() {
				body.HolidayChecked = &t
			}
		}
		if cfg.Channels != nil {
			body.Channels = cfg.Channels.Count()
		}
		if cfg.Jobs != nil {
			body.Jobs = cfg.Jobs.Statuses()
		}
		return &struct {
			Body StatusBody `json:"body"`
		}{Body: body}, nil
	})
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
