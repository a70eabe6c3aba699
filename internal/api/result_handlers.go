package api

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/miyabe/wordage/internal/bank"
	"github.com/miyabe/wordage/internal/errors"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/models"
	"github.com/miyabe/wordage/internal/quiz"
)

// resultRow is one answered round resolved for display.
type resultRow struct {
	Word    string
	Age     float64
	Correct bool
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id := chi.URLParam(r, "id")
	res, err := s.Results.Load(id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log = log.WithField("result_id", id)
	log.Debug("scoring stored result, rounds=%d", len(res.History))

	// Resolve each answered rank back to its word and age. Ranks that no
	// longer resolve are skipped: the bank may have been rebuilt since the
	// session was played.
	var aged []quiz.AgedAnswer
	var rows []resultRow
	for _, a := range res.History {
		it, err := s.Bank.GetItem(ctx, a.Rank)
		if stderrors.Is(err, bank.ErrNotFound) || stderrors.Is(err, bank.ErrMalformedRecord) {
			log.Warn("rank %d no longer resolves, skipping", a.Rank)
			continue
		}
		if err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}
		aged = append(aged, quiz.AgedAnswer{Age: it.AcquisitionAge, Correct: a.Correct})
		rows = append(rows, resultRow{Word: it.Word, Age: it.AcquisitionAge, Correct: a.Correct})
	}

	age := s.Estimator.Estimate(aged)
	est := models.Estimate{Age: age, Band: quiz.Band(age)}
	s.render(w, r, "pages/result.html", pageData{
		"result":  res,
		"rows":    rows,
		"age":     est.Age,
		"band":    est.Band,
		"correct": res.History.CountCorrect(),
		"rounds":  len(res.History),
	})
}
