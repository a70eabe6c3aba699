package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/miyabe/wordage/internal/bank"
	"github.com/miyabe/wordage/internal/models"
)

// NewTestBank creates an in-memory word bank holding n items with acquisition
// ages spread linearly from 3.0 to 20.0 by rank. Words are synthetic but
// satisfy every sampler rule: lowercase, letter-only, two or more runes, and
// every gloss is unique and katakana-free.
func NewTestBank(t *testing.T, n int) *bank.Bank {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_busy_timeout=5000")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, bank.CreateSchema(context.Background(), db))

	written, err := bank.WriteRanked(context.Background(), db, TestItems(n))
	require.NoError(t, err)
	require.Equal(t, n, written)

	b, err := bank.NewWithDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

// TestItems generates n synthetic lexical items with ascending ages.
func TestItems(n int) []models.LexicalItem {
	items := make([]models.LexicalItem, n)
	for i := 0; i < n; i++ {
		age := 3.0
		if n > 1 {
			age = 3.0 + 17.0*float64(i)/float64(n-1)
		}
		items[i] = models.LexicalItem{
			Word:           TestWord(i),
			AcquisitionAge: age,
			PartsOfSpeech:  []string{"noun"},
			Glosses:        []string{fmt.Sprintf("意味%d", i)},
		}
	}
	return items
}

// TestWord encodes i as a unique lowercase letter-only word.
func TestWord(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	buf := make([]byte, 5)
	for pos := len(buf) - 1; pos >= 0; pos-- {
		buf[pos] = letters[i%26]
		i /= 26
	}
	return string(buf)
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
