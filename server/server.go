// Package server exposes the manuscript structure and live pagination over
// HTTP. Every structural mutation triggers a repagination; results are pushed
// to preview clients over a websocket.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quillworks/folio/layout"
	"github.com/quillworks/folio/manuscript"
)

// Server is the preview HTTP server.
type Server struct {
	router    chi.Router
	store     *manuscript.Store
	paginator *layout.Paginator
	hub       *Hub
	log       *slog.Logger

	formatting layout.FormattingConfig
	geometry   layout.PageGeometry
	meta       map[string]any
}

// New wires a store and a paginator into an HTTP handler. Published page sets
// are broadcast to preview clients with right-page starts applied.
func New(store *manuscript.Store, paginator *layout.Paginator, formatting layout.FormattingConfig, geometry layout.PageGeometry, meta map[string]any, log *slog.Logger) *Server {
	s := &Server{
		store:      store,
		paginator:  paginator,
		hub:        NewHub(),
		log:        log,
		formatting: formatting,
		geometry:   geometry,
		meta:       meta,
	}
	paginator.Subscribe(func(set layout.PageSet) {
		set.Pages = layout.ApplyRightPageStarts(set.Pages)
		s.hub.BroadcastJSON(set)
	})
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

	r.Route("/api", func(r chi.Router) {
		r.Get("/manuscript", s.handleGetManuscript)
		r.Get("/sequence", s.handleGetSequence)
		r.Get("/pages", s.handleGetPages)
		r.Get("/formatting", s.handleGetFormatting)

		r.Post("/chapters", s.handleAddChapter)
		r.Get("/chapters/{id}", s.handleGetChapter)
		r.Patch("/chapters/{id}", s.handleUpdateChapter)
		r.Delete("/chapters/{id}", s.handleRemoveChapter)
		r.Post("/chapters/{id}/move", s.handleMoveChapter)

		r.Post("/parts", s.handleAddPart)
		r.Patch("/parts/{id}", s.handleUpdatePart)
		r.Delete("/parts/{id}", s.handleRemovePart)

		r.Post("/reorder", s.handleReorder)
	})

	r.Get("/ws/preview", s.handlePreviewWS)

	s.router = r
}

// Repaginate assembles the current reading sequence and starts a pagination
// run. Called after every mutation and once at startup.
func (s *Server) Repaginate() uint64 {
	run := layout.AssembleRun(s.store.Sequence(), s.meta)
	return s.paginator.Trigger(run, s.formatting, s.geometry)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
