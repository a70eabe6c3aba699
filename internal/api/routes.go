package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/", s.handleHome)
	// The quiz endpoint answers GET so the round-tripped state survives
	// bookmarking and reloads; POST is accepted for the same handler.
	r.Get("/quiz", s.handleQuiz)
	r.Post("/quiz", s.handleQuiz)
	r.Get("/result/{id}", s.handleResult)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return r
}
