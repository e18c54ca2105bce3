package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aquanet-ops/aquanet/pkg/usecase"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/incidents", func(r chi.Router) {
			// Enriched projections (must be registered before /{id})
			r.Get("/enriched", s.listEnrichedIncidents)

			r.Get("/", s.listIncidents)
			r.Post("/", s.createIncident)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/enriched", s.getEnrichedIncident)
				r.Get("/", s.getIncident)
				r.Delete("/", s.deleteIncident)
				r.Post("/assign", s.assignIncident)
				r.Post("/resolve", s.resolveIncident)
				r.Post("/attachments", s.attachPhoto)
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondOK(r.Context(), w, "ok", nil)
}
