package api

import (
	"html/template"
	"net/http"

	"github.com/miyabe/wordage/internal/bank"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/quiz"
	"github.com/miyabe/wordage/internal/resultstore"
)

type Server struct {
	Bank          *bank.Bank
	Controller    *quiz.Controller
	Estimator     *quiz.Estimator
	Results       *resultstore.Store
	Templates     *template.Template
	SessionSecret []byte
	NumRounds     int
	MaxNameLen    int
}

type pageData map[string]any

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering home page")

	s.render(w, r, "pages/home.html", pageData{
		"rounds":       s.NumRounds,
		"max_name_len": s.MaxNameLen,
		"bank_size":    s.Bank.Size(),
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
