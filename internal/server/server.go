package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-autoformat"
	"github.com/alnah/go-autoformat/internal/ai"
	"github.com/alnah/go-autoformat/internal/logger"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// DefaultMaxBodyBytes bounds request bodies when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Formatter formats content with AI fallback.
type Formatter interface {
	Format(ctx context.Context, content string, tone autoformat.Tone) (*autoformat.FormattingResult, error)
}

// Exporter produces export files.
type Exporter interface {
	Export(ctx context.Context, req autoformat.ExportRequest) (*autoformat.ExportResult, error)
}

// Config holds server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string // empty allows any origin
	MaxBodyBytes   int64
}

// Server serves the HTTP API.
type Server struct {
	cfg       Config
	formatter Formatter
	exporter  Exporter
	aiClient  ai.Client // nil when no AI provider is configured
	log       *logger.Logger
	router    chi.Router
}

// New creates a Server. aiClient backs /format-with-ai and may be nil.
func New(cfg Config, formatter Formatter, exporter Exporter, aiClient ai.Client, log *logger.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:       cfg,
		formatter: formatter,
		exporter:  exporter,
		aiClient:  aiClient,
		log:       log,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.AllowedOrigins))
	r.Use(limitBody(s.cfg.MaxBodyBytes))

	r.Get("/healthz", s.handleHealth)

	r.Options("/format-with-ai", handlePreflight)
	r.Post("/format-with-ai", s.handleFormatWithAI)

	r.Route("/api", func(r chi.Router) {
		r.Options("/*", handlePreflight)
		r.Post("/format", s.handleFormat)
		r.Post("/export", s.handleExport)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", s.cfg.Addr)
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

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
