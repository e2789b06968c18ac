// Package server is the HTTP presentation adapter. It owns no extraction
// logic: handlers classify the upload, call the core operations, and shape
// their results and errors for the client.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/export"
	"github.com/mikael-ade/transdoc/internal/extract"
	"github.com/mikael-ade/transdoc/internal/session"
	"github.com/mikael-ade/transdoc/internal/translate"
)

// Server wires the core services behind an HTTP API.
type Server struct {
	router    chi.Router
	sessions  *session.Store
	extractor *extract.Service
	engine    *translate.Engine
	exporter  *export.Service
	cfg       common.ServerConfig
	log       *slog.Logger
}

func NewServer(
	sessions *session.Store,
	extractor *extract.Service,
	engine *translate.Engine,
	exporter *export.Service,
	cfg common.ServerConfig,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		sessions:  sessions,
		extractor: extractor,
		engine:    engine,
		exporter:  exporter,
		cfg:       cfg,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/extract", s.handleExtract)
			r.Post("/translate", s.handleTranslate)
			r.Get("/result", s.handleResult)
			r.Get("/export/spreadsheet", s.handleExportSpreadsheet)
			r.Get("/export/word", s.handleExportWord)
			r.Delete("/", s.handleReset)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
