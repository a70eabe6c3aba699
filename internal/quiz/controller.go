package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/miyabe/wordage/internal/bank"
	apperrors "github.com/miyabe/wordage/internal/errors"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/models"
)

// State of a session within the quiz state machine.
type State int

const (
	NotStarted State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Config carries the controller's tunables so tests can vary them
// independently of the process environment.
type Config struct {
	NumRounds      int
	WindowWidth    int
	StartRank      int
	CandidateCount int
	MinRank        int
}

// Controller drives the adaptive search over the ranked item bank: one round
// per request, moving the rank pointer by asymmetric steps that shrink as
// the history grows.
type Controller struct {
	bank    *bank.Bank
	sampler *Sampler
	cfg     Config
}

// NewController creates a Controller over the given bank and sampler.
func NewController(b *bank.Bank, sampler *Sampler, cfg Config) *Controller {
	return &Controller{bank: b, sampler: sampler, cfg: cfg}
}

// StateOf classifies a session.
func (c *Controller) StateOf(sess *Session) State {
	switch {
	case len(sess.History) >= c.cfg.NumRounds:
		return Finished
	case len(sess.History) > 0 || sess.ThemeWord != "":
		return InProgress
	default:
		return NotStarted
	}
}

// Start initializes a fresh session at the configured starting rank.
func (c *Controller) Start(sess *Session) {
	sess.Pointer = c.cfg.StartRank
	sess.History = nil
	sess.ThemeWord = ""
}

// Apply records the answer to the previous round and moves the rank pointer.
// The previous theme word is resolved back to its rank through the window
// the question was generated from; a theme word absent from that window
// means the client sent a state the server never produced.
func (c *Controller) Apply(ctx context.Context, sess *Session, correct bool) error {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	if sess.ThemeWord == "" {
		return apperrors.NewBadRequestError("no pending question to answer")
	}
	if len(sess.History) >= c.cfg.NumRounds {
		return apperrors.NewBadRequestError("session already finished")
	}

	items, err := c.bank.WindowItems(ctx, sess.Pointer, c.cfg.WindowWidth)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	prevRank := -1
	for _, it := range items {
		if it.Word == sess.ThemeWord {
			prevRank = it.Rank
			break
		}
	}
	if prevRank < 0 {
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown theme word %q", sess.ThemeWord))
	}

	sess.History = append(sess.History, models.Answer{Rank: prevRank, Correct: correct})
	sess.ThemeWord = ""

	before := sess.Pointer
	sess.Pointer = c.movePointer(sess.Pointer, len(sess.History), correct)
	log.Debug("pointer moved: round=%d correct=%v %d -> %d", len(sess.History), correct, before, sess.Pointer)
	return nil
}

// movePointer applies the asymmetric step rule. Steps are capped by
// bankSize/(rounds+1) so the pointer converges instead of oscillating as
// evidence accumulates.
func (c *Controller) movePointer(pointer, rounds int, correct bool) int {
	size := c.bank.Size()
	maxMove := size / (rounds + 1)

	if correct {
		move := (size - pointer) / 8
		if move > maxMove {
			move = maxMove
		}
		pointer += move
		if ceil := size - c.cfg.WindowWidth/4; pointer > ceil {
			pointer = ceil
		}
	} else {
		move := pointer / 6
		if move > maxMove {
			move = maxMove
		}
		pointer -= move
		if pointer < c.cfg.MinRank {
			pointer = c.cfg.MinRank
		}
	}
	return pointer
}

// NextQuestion generates the next round's question, or nil once the session
// is finished. A NO_RECORDS error is recoverable: the history is unchanged
// and the same request may be retried.
func (c *Controller) NextQuestion(ctx context.Context, sess *Session) (*models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("quiz")

	if len(sess.History) >= c.cfg.NumRounds {
		return nil, nil
	}

	window, err := c.bank.WindowItems(ctx, sess.Pointer, c.cfg.WindowWidth)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	used, err := c.usedWords(ctx, sess.History)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	rng := RoundRNG(sess.Seed, len(sess.History))
	cands, themePOS := c.sampler.Sample(rng, window, used, c.cfg.CandidateCount)
	if len(cands) == 0 {
		log.Warn("sampler exhausted: pointer=%d round=%d", sess.Pointer, len(sess.History))
		return nil, apperrors.NewNoRecordsError()
	}

	theme := cands[0]
	shuffled := make([]models.Candidate, len(cands))
	copy(shuffled, cands)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	sess.ThemeWord = theme.Word
	log.Debug("question ready: theme=%q rank=%d options=%d", theme.Word, theme.Rank, len(shuffled))
	return &models.Question{Theme: theme, ThemePOS: themePOS, Candidates: shuffled}, nil
}

// usedWords resolves the history's ranks back to words so no word repeats
// within a session.
func (c *Controller) usedWords(ctx context.Context, h models.History) (map[string]bool, error) {
	used := make(map[string]bool, len(h))
	for _, a := range h {
		it, err := c.bank.GetItem(ctx, a.Rank)
		if errors.Is(err, bank.ErrNotFound) || errors.Is(err, bank.ErrMalformedRecord) {
			continue
		}
		if err != nil {
			return nil, err
		}
		used[it.Word] = true
	}
	return used, nil
}
