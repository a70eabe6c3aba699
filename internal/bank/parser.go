package bank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miyabe/wordage/internal/models"
)

// ErrMalformedRecord marks a stored record that cannot be decoded. Callers
// skip such records; they are never fatal to a request.
var ErrMalformedRecord = fmt.Errorf("malformed bank record")

// recordFields is the fixed layout of a raw record:
// word <TAB> acquisition age <TAB> pos,pos,... <TAB> gloss,gloss,...
const recordFields = 4

// RankKey converts a rank to its fixed-width storage key. Zero padding keeps
// lexical key order identical to numeric rank order.
func RankKey(rank int) string {
	return fmt.Sprintf("%05d", rank)
}

// ParseRecord decodes one raw tab-delimited record into a LexicalItem.
func ParseRecord(rank int, raw string) (models.LexicalItem, error) {
	fields := strings.Split(raw, "\t")
	if len(fields) != recordFields {
		return models.LexicalItem{}, fmt.Errorf("%w: rank %d has %d fields", ErrMalformedRecord, rank, len(fields))
	}

	age, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return models.LexicalItem{}, fmt.Errorf("%w: rank %d age %q", ErrMalformedRecord, rank, fields[1])
	}

	return models.LexicalItem{
		Rank:           rank,
		Word:           fields[0],
		AcquisitionAge: age,
		PartsOfSpeech:  splitList(fields[2]),
		Glosses:        splitList(fields[3]),
	}, nil
}

// FormatRecord encodes a LexicalItem into the raw record layout. Inverse of
// ParseRecord; used by the bank build tool.
func FormatRecord(it models.LexicalItem) string {
	return strings.Join([]string{
		it.Word,
		strconv.FormatFloat(it.AcquisitionAge, 'f', 2, 64),
		strings.Join(it.PartsOfSpeech, ","),
		strings.Join(it.Glosses, ","),
	}, "\t")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
