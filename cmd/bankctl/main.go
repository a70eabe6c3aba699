package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/miyabe/wordage/internal/bank"
	"github.com/miyabe/wordage/internal/config"
	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/models"
)

// bankctl builds the ranked word bank from a tab-separated source file.
//
// Input format, one entry per line:
//
//	word<TAB>aoa<TAB>pos,pos,...<TAB>gloss,gloss,...
//
// The aoa column may be empty when a probability column is present; in that
// case an age surrogate is derived from the word's corpus probability.
func main() {
	var (
		input  = flag.String("input", "", "tab-separated source file (required)")
		output = flag.String("output", "", "bank database path (default: BANK_PATH)")
	)
	flag.Parse()

	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: bankctl -input words.tsv [-output bank.db]")
		os.Exit(2)
	}
	path := *output
	if path == "" {
		path = cfg.BankPath
	}

	items, err := readSource(*input)
	if err != nil {
		log.Error("failed to read %s: %v", *input, err)
		os.Exit(1)
	}
	log.Info("source parsed: entries=%d", len(items))

	db, err := bank.OpenForWrite(path)
	if err != nil {
		log.Error("failed to open %s for writing: %v", path, err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := logger.NewContext(context.Background(), log)
	written, err := bank.WriteRanked(ctx, db, items)
	if err != nil {
		log.Error("failed to write bank: %v", err)
		os.Exit(1)
	}
	log.Info("bank built: path=%s records=%d", path, written)
}

// readSource parses the tab-separated word list. Lines that do not parse are
// skipped with a warning rather than aborting the whole build.
func readSource(path string) ([]models.LexicalItem, error) {
	log := logger.Default().WithPrefix("bankctl")

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var items []models.LexicalItem
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			log.Warn("line %d: expected 4 fields, got %d", lineNo, len(fields))
			continue
		}
		word := strings.TrimSpace(fields[0])
		if word == "" {
			log.Warn("line %d: empty word", lineNo)
			continue
		}

		age, err := parseAge(fields[1], fields)
		if err != nil {
			log.Warn("line %d: %v", lineNo, err)
			continue
		}

		items = append(items, models.LexicalItem{
			Word:           word,
			AcquisitionAge: age,
			PartsOfSpeech:  splitList(fields[2]),
			Glosses:        splitList(fields[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// parseAge reads the aoa column, falling back to a frequency surrogate when
// the column is empty and a fifth probability column exists. Rarer words map
// to higher surrogate ages.
func parseAge(raw string, fields []string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		age, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("bad aoa %q", raw)
		}
		return age, nil
	}
	if len(fields) >= 5 {
		prob, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
		if err == nil && prob > 0 {
			return -math.Log(prob) + 3.5, nil
		}
	}
	return 0, fmt.Errorf("no aoa and no usable probability")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
