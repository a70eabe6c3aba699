package api

import (
	"crypto/rand"
	"encoding/binary"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/miyabe/wordage/internal/errors"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/quiz"
)

// handleQuiz drives the whole session through one endpoint. The client
// carries the full state in its query parameters; each request optionally
// records one answer, then either renders the next question or redirects to
// the stored result once all rounds are answered.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	name := s.sanitizeName(r.FormValue("u"))
	if name == "" {
		log.Debug("quiz request without a user name, redirecting home")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess := &quiz.Session{Name: name}
	if r.FormValue("s") == "" {
		seed, err := mintSeed()
		if err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}
		sess.Seed = seed
		s.Controller.Start(sess)
		log.Info("session started: user=%q seed=%d", name, seed)
	} else {
		if err := s.resumeSession(r, sess); err != nil {
			handleError(w, r, err)
			return
		}

		if ans := r.FormValue("a"); ans != "" {
			if sess.ThemeWord == "" {
				// Stale form replay: the answer has nothing to score.
				log.Debug("ignoring answer %q with no pending question", ans)
			} else {
				if ans != "0" && ans != "1" {
					handleError(w, r, errors.NewBadRequestError("answer must be 0 or 1"))
					return
				}
				if err := s.Controller.Apply(ctx, sess, ans == "1"); err != nil {
					handleError(w, r, err)
					return
				}
			}
		}
	}

	if s.Controller.StateOf(sess) == quiz.Finished {
		id, err := s.Results.Save(sess.Name, sess.Seed, sess.History)
		if err != nil {
			handleError(w, r, err)
			return
		}
		log.Info("session finished: user=%q correct=%d/%d", sess.Name, sess.History.CountCorrect(), len(sess.History))
		http.Redirect(w, r, "/result/"+id, http.StatusSeeOther)
		return
	}

	question, err := s.Controller.NextQuestion(ctx, sess)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) && appErr.Code == errors.ErrCodeNoRecords {
			// Recoverable: the answer (if any) is already recorded, only the
			// next question is missing. Offer a retry with the same state.
			s.render(w, r, "pages/quiz.html", pageData{
				"notice": "Not enough suitable words were found for this round. Please try again.",
				"state":  s.hiddenState(sess),
				"round":  len(sess.History) + 1,
				"rounds": s.NumRounds,
			})
			return
		}
		handleError(w, r, err)
		return
	}
	if question == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.render(w, r, "pages/quiz.html", pageData{
		"question": question,
		"state":    s.hiddenState(sess),
		"round":    len(sess.History) + 1,
		"rounds":   s.NumRounds,
		"correct":  sess.History.CountCorrect(),
	})
}

// resumeSession rebuilds the session from the round-tripped parameters and
// rejects any state that fails its integrity tag.
func (s *Server) resumeSession(r *http.Request, sess *quiz.Session) error {
	seed, err := strconv.ParseInt(r.FormValue("s"), 10, 64)
	if err != nil {
		return errors.NewBadRequestError("bad session seed")
	}
	pointer, err := strconv.Atoi(r.FormValue("c"))
	if err != nil || pointer < 0 {
		return errors.NewBadRequestError("bad rank pointer")
	}
	history, err := quiz.DecodeHistory(r.FormValue("h"))
	if err != nil {
		return errors.NewBadRequestError("bad answer history")
	}

	sess.Seed = seed
	sess.Pointer = pointer
	sess.ThemeWord = r.FormValue("q")
	sess.History = history

	if !quiz.VerifyTag(s.SessionSecret, sess, r.FormValue("t")) {
		return errors.NewBadRequestError("session state does not match its integrity tag")
	}
	return nil
}

// sanitizeName normalizes the submitted user name: control characters are
// stripped, surrounding space is trimmed and the length cap applies. The name
// becomes the first line of the persisted result file, so it must never be
// able to break the line-oriented format.
func (s *Server) sanitizeName(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.TrimSpace(cleaned)
	if runes := []rune(cleaned); len(runes) > s.MaxNameLen {
		cleaned = string(runes[:s.MaxNameLen])
	}
	return cleaned
}

// hiddenState serializes the session back into the form fields the next
// request must echo.
func (s *Server) hiddenState(sess *quiz.Session) map[string]string {
	return map[string]string{
		"u": sess.Name,
		"s": strconv.FormatInt(sess.Seed, 10),
		"c": strconv.Itoa(sess.Pointer),
		"q": sess.ThemeWord,
		"h": quiz.EncodeHistory(sess.History),
		"t": quiz.Tag(s.SessionSecret, sess),
	}
}

// mintSeed draws a fresh non-negative session seed from the OS entropy pool.
func mintSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:]) &^ (1 << 63)), nil
}
