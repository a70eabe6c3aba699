package quiz

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/miyabe/wordage/internal/models"
)

// Session is the full quiz state round-tripped through the client on every
// request. Nothing is held in server memory between rounds; the session is
// rebuilt from the transmitted fields and re-emitted as hidden form fields.
type Session struct {
	Name      string
	Seed      int64
	Pointer   int
	ThemeWord string
	History   models.History
}

// EncodeHistory serializes a history as comma-separated rank:correctness
// pairs, the wire form of the h parameter.
func EncodeHistory(h models.History) string {
	if len(h) == 0 {
		return ""
	}
	parts := make([]string, len(h))
	for i, a := range h {
		c := 0
		if a.Correct {
			c = 1
		}
		parts[i] = fmt.Sprintf("%d:%d", a.Rank, c)
	}
	return strings.Join(parts, ",")
}

// DecodeHistory parses the h parameter. Decode after Encode reproduces the
// identical ordered list.
func DecodeHistory(s string) (models.History, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	h := make(models.History, 0, len(parts))
	for _, part := range parts {
		rankStr, corrStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad history entry %q", part)
		}
		rank, err := strconv.Atoi(rankStr)
		if err != nil || rank < 0 {
			return nil, fmt.Errorf("bad history rank %q", rankStr)
		}
		switch corrStr {
		case "0":
			h = append(h, models.Answer{Rank: rank, Correct: false})
		case "1":
			h = append(h, models.Answer{Rank: rank, Correct: true})
		default:
			return nil, fmt.Errorf("bad history correctness %q", corrStr)
		}
	}
	return h, nil
}

// Tag computes the integrity tag carried alongside the round-tripped state.
// The client sees its own state but cannot alter it without invalidating the
// tag. Fields are length-prefixed so no character of one field can act as a
// delimiter and make two different states share a tag.
func Tag(secret []byte, s *Session) string {
	mac := hmac.New(sha256.New, secret)
	fields := []string{
		s.Name,
		strconv.FormatInt(s.Seed, 10),
		strconv.Itoa(s.Pointer),
		s.ThemeWord,
		EncodeHistory(s.History),
	}
	for _, field := range fields {
		fmt.Fprintf(mac, "%d:%s", len(field), field)
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyTag checks a received tag against the received state.
func VerifyTag(secret []byte, s *Session, tag string) bool {
	want, err := hex.DecodeString(tag)
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(Tag(secret, s))
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}

// RoundRNG derives the pseudo-random state for one round from the session
// seed and the round index. Part of the public contract: the same seed and
// round always reproduce the same draws, with no generator surviving across
// requests.
func RoundRNG(seed int64, round int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(round)))
}
