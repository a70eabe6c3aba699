package resultstore

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/miyabe/wordage/internal/errors"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/models"
)

// Store persists finished sessions as flat files, one per result. A result
// is written once and never mutated afterwards.
//
// File format: line 1 is the user name; each following line is
// "rank<TAB>correctness" in the order answered.
type Store struct {
	dir string
	log *logger.Logger
}

// New creates the result directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, log: logger.Default().WithPrefix("results")}, nil
}

// ResultID derives the identifier for a finished session. Deterministic but
// not collision-free: two sessions sharing (name, seed) silently map to the
// same file.
func ResultID(name string, seed int64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%d", name, seed)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Save writes a finished session and returns its id. A concurrent session
// with the same id will race; last writer wins.
func (s *Store) Save(name string, seed int64, history models.History) (string, error) {
	id := ResultID(name, seed)

	var sb strings.Builder
	sb.WriteString(singleLine(name))
	sb.WriteString("\n")
	for _, a := range history {
		c := 0
		if a.Correct {
			c = 1
		}
		fmt.Fprintf(&sb, "%d\t%d\n", a.Rank, c)
	}

	path := filepath.Join(s.dir, id+".txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		s.log.Error("failed to write result %s: %v", id, err)
		return "", err
	}
	s.log.Info("result saved: id=%s rounds=%d", id, len(history))
	return id, nil
}

// Load reads a stored result. Missing files yield NOT_FOUND; files that
// exist but do not decode yield BAD_DATA.
func (s *Store) Load(id string) (*models.Result, error) {
	if !validID(id) {
		return nil, errors.NewNotFoundError("result", id)
	}

	f, err := os.Open(filepath.Join(s.dir, id+".txt"))
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("result", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, errors.NewBadDataError(fmt.Errorf("result %s is empty", id))
	}
	result := &models.Result{ID: id, UserName: scanner.Text()}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rankStr, corrStr, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, errors.NewBadDataError(fmt.Errorf("result %s: bad line %q", id, line))
		}
		rank, err := strconv.Atoi(rankStr)
		if err != nil || rank < 0 {
			return nil, errors.NewBadDataError(fmt.Errorf("result %s: bad rank %q", id, rankStr))
		}
		switch corrStr {
		case "0":
			result.History = append(result.History, models.Answer{Rank: rank})
		case "1":
			result.History = append(result.History, models.Answer{Rank: rank, Correct: true})
		default:
			return nil, errors.NewBadDataError(fmt.Errorf("result %s: bad correctness %q", id, corrStr))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return result, nil
}

// singleLine strips control characters from the name. The name occupies
// exactly line 1 of the file; a stray newline would shift every following
// line and make the result unreadable.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// validID guards path construction: ids are 16 lowercase hex digits.
func validID(id string) bool {
	if len(id) != 16 {
		return false
	}
	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
