package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	mux        *chi.Mux
	apiTimeout time.Duration
}

// New builds the router. apiTimeout bounds the JSON API only; the pages wait
// for the model, which reports its own failures inline.
func New(apiTimeout time.Duration) *Server {
	m := chi.NewRouter()

	// middlewares go before any route
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Access(log.Logger))

	return &Server{mux: m, apiTimeout: apiTimeout}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
