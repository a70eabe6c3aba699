package quiz

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miyabe/wordage/internal/bank"
	apperrors "github.com/miyabe/wordage/internal/errors"
	"github.com/miyabe/wordage/internal/models"
	"github.com/miyabe/wordage/internal/phonetics"
	"github.com/miyabe/wordage/internal/testutil"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	b := testutil.NewTestBank(t, 1000)
	sampler := NewSampler(phonetics.Default(), 4, 40)
	return NewController(b, sampler, Config{
		NumRounds:      22,
		WindowWidth:    400,
		StartRank:      500,
		CandidateCount: 5,
		MinRank:        50,
	})
}

func TestMovePointer_CorrectAnswerRaises(t *testing.T) {
	c := newTestController(t)

	// First correct answer from rank 400: step is (1000-400)/8 = 75.
	assert.Equal(t, 475, c.movePointer(400, 1, true))
	// Second from 475: (1000-475)/8 = 65.
	assert.Equal(t, 540, c.movePointer(475, 2, true))
}

func TestMovePointer_WrongAnswerLowers(t *testing.T) {
	c := newTestController(t)

	// Wrong answer from rank 400: step is 400/6 = 66.
	assert.Equal(t, 334, c.movePointer(400, 1, false))
}

func TestMovePointer_StepCapShrinksWithRounds(t *testing.T) {
	c := newTestController(t)

	// At round 10 the cap is 1000/11 = 90, below the raw step of
	// (1000-100)/8 = 112.
	assert.Equal(t, 190, c.movePointer(100, 10, true))
}

func TestMovePointer_CeilingClamp(t *testing.T) {
	c := newTestController(t)

	// The ceiling keeps a quarter window of headroom: 1000 - 400/4 = 900.
	assert.Equal(t, 900, c.movePointer(899, 1, true))
	assert.Equal(t, 900, c.movePointer(900, 1, true))
}

func TestMovePointer_FloorClamp(t *testing.T) {
	c := newTestController(t)

	assert.Equal(t, 50, c.movePointer(55, 1, false))
	assert.Equal(t, 50, c.movePointer(50, 1, false))
}

func TestStart(t *testing.T) {
	c := newTestController(t)
	sess := &Session{Name: "alice", Seed: 7, Pointer: 123, ThemeWord: "x", History: models.History{{Rank: 1}}}

	c.Start(sess)
	assert.Equal(t, 500, sess.Pointer)
	assert.Empty(t, sess.History)
	assert.Equal(t, "", sess.ThemeWord)
	assert.Equal(t, NotStarted, c.StateOf(sess))
}

func TestApply_NoPendingQuestion(t *testing.T) {
	c := newTestController(t)
	sess := &Session{Name: "alice", Seed: 7}
	c.Start(sess)

	err := c.Apply(context.Background(), sess, true)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)
}

func TestApply_UnknownThemeWord(t *testing.T) {
	c := newTestController(t)
	sess := &Session{Name: "alice", Seed: 7}
	c.Start(sess)
	sess.ThemeWord = "notaword"

	err := c.Apply(context.Background(), sess, true)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeBadRequest, appErr.Code)
}

func TestApply_RecordsAnswerAndMoves(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	sess := &Session{Name: "alice", Seed: 7}
	c.Start(sess)

	q, err := c.NextQuestion(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, q)
	require.Equal(t, q.Theme.Word, sess.ThemeWord)

	before := sess.Pointer
	require.NoError(t, c.Apply(ctx, sess, true))

	require.Len(t, sess.History, 1)
	assert.Equal(t, q.Theme.Rank, sess.History[0].Rank)
	assert.True(t, sess.History[0].Correct)
	assert.Equal(t, "", sess.ThemeWord)
	assert.Greater(t, sess.Pointer, before)
}

func TestNextQuestion_ShufflesButKeepsThemeAmongOptions(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	sess := &Session{Name: "alice", Seed: 11}
	c.Start(sess)

	q, err := c.NextQuestion(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, q)

	found := false
	for _, cand := range q.Candidates {
		if cand.Word == q.Theme.Word {
			found = true
		}
	}
	assert.True(t, found, "theme must be among the presented options")
}

func TestNextQuestion_Deterministic(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()

	a := &Session{Name: "alice", Seed: 99}
	c.Start(a)
	qa, err := c.NextQuestion(ctx, a)
	require.NoError(t, err)

	b := &Session{Name: "bob", Seed: 99}
	c.Start(b)
	qb, err := c.NextQuestion(ctx, b)
	require.NoError(t, err)

	// Same seed and round, same question regardless of who asks.
	assert.Equal(t, qa.Theme.Word, qb.Theme.Word)
	assert.Equal(t, qa.Candidates, qb.Candidates)
}

func TestNextQuestion_NoRepeatsWithinSession(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	sess := &Session{Name: "alice", Seed: 5}
	c.Start(sess)

	seen := map[string]bool{}
	for round := 0; round < 22; round++ {
		q, err := c.NextQuestion(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.False(t, seen[q.Theme.Word], "theme %q repeated", q.Theme.Word)
		seen[q.Theme.Word] = true
		require.NoError(t, c.Apply(ctx, sess, round%2 == 0))
	}
}

func TestFullSession_AllCorrect(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	sess := &Session{Name: "alice", Seed: 3}
	c.Start(sess)

	prevPointer := sess.Pointer
	for round := 0; round < 22; round++ {
		if round > 0 {
			require.Equal(t, InProgress, c.StateOf(sess))
		}
		q, err := c.NextQuestion(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, q)
		require.NoError(t, c.Apply(ctx, sess, true))

		assert.GreaterOrEqual(t, sess.Pointer, prevPointer, "correct answers never lower the pointer")
		assert.LessOrEqual(t, sess.Pointer, 900, "pointer must respect the ceiling")
		prevPointer = sess.Pointer
	}

	assert.Equal(t, Finished, c.StateOf(sess))
	assert.Len(t, sess.History, 22)

	q, err := c.NextQuestion(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, q)

	err = c.Apply(ctx, sess, true)
	assert.Error(t, err)
}

func TestFullSession_ScoreConvergesToCeiling(t *testing.T) {
	// 1000-item bank with ages spread linearly 3.0 to 20.0. Starting at rank
	// 400 and answering every round correctly walks the pointer up by
	// (size-pointer)/8 per round, so the answered ages trend to the top of
	// the scale and the final estimate lands at the ceiling.
	b := testutil.NewTestBank(t, 1000)
	c := NewController(b, NewSampler(phonetics.Default(), 4, 40), Config{
		NumRounds:      22,
		WindowWidth:    40,
		StartRank:      400,
		CandidateCount: 5,
		MinRank:        50,
	})
	ctx := context.Background()

	sess := &Session{Name: "alice", Seed: 17}
	c.Start(sess)
	require.Equal(t, 400, sess.Pointer)

	prev := sess.Pointer
	for round := 0; round < 22; round++ {
		q, err := c.NextQuestion(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, q)
		require.NoError(t, c.Apply(ctx, sess, true))
		assert.Greater(t, sess.Pointer, prev, "round %d must raise the pointer", round)
		prev = sess.Pointer
	}
	var aged []AgedAnswer
	for _, a := range sess.History {
		it, err := b.GetItem(ctx, a.Rank)
		require.NoError(t, err)
		aged = append(aged, AgedAnswer{Age: it.AcquisitionAge, Correct: a.Correct})
	}
	score := NewEstimator(22, 3, 20).Estimate(aged)
	// The range below is not a tolerance. The step rule closes only 1/8 of
	// the remaining gap per correct answer, so from rank 400 the pointer
	// geometrically approaches but never reaches the top of a 1000-item
	// bank; with this linear age spread the third-highest answered age
	// settles around 19.2, which rounds to 19. A steeper bank or higher
	// start rank would yield 20, so both are accepted.
	assert.GreaterOrEqual(t, score, 19)
	assert.LessOrEqual(t, score, 20)
}

func TestNextQuestion_SamplerExhaustion(t *testing.T) {
	// A bank of one-letter words defeats every draw, which must surface as
	// the recoverable exhaustion error rather than a question.
	db, err := sql.Open("sqlite3", ":memory:?_busy_timeout=5000")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, bank.CreateSchema(context.Background(), db))

	var items []models.LexicalItem
	for i := 0; i < 26; i++ {
		items = append(items, models.LexicalItem{
			Word:           string(rune('a' + i)),
			AcquisitionAge: float64(3 + i),
			PartsOfSpeech:  []string{"noun"},
			Glosses:        []string{"語義"},
		})
	}
	_, err = bank.WriteRanked(context.Background(), db, items)
	require.NoError(t, err)

	b, err := bank.NewWithDB(db)
	require.NoError(t, err)
	defer b.Close()

	c := NewController(b, NewSampler(phonetics.Default(), 4, 40), Config{
		NumRounds:      22,
		WindowWidth:    400,
		StartRank:      10,
		CandidateCount: 5,
		MinRank:        0,
	})

	sess := &Session{Name: "alice", Seed: 1}
	c.Start(sess)

	_, err = c.NextQuestion(context.Background(), sess)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNoRecords, appErr.Code)
	assert.Empty(t, sess.History)
	assert.Equal(t, "", sess.ThemeWord)
}
