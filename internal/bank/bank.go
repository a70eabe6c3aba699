package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/models"
)

// ErrNotFound is returned by Get for a rank outside the stored range.
var ErrNotFound = errors.New("bank: rank not found")

// Entry is one raw record of a window scan, paired with its rank.
type Entry struct {
	Rank   int
	Record string
}

// Bank is read-only access to the rank-ordered lexical store. Keys are
// fixed-width rank strings, so range scans walk ranks in numeric order.
type Bank struct {
	db   *sql.DB
	size int
	log  *logger.Logger
}

// Open opens the bank at path for reading and caches its size.
func Open(path string) (*Bank, error) {
	log := logger.Default().WithPrefix("bank")

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	log.Info("opening item bank: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open item bank: %v", err)
		return nil, err
	}
	return newBank(db, log)
}

// NewWithDB wraps an already-open database. Used by tests and the build tool.
func NewWithDB(db *sql.DB) (*Bank, error) {
	return newBank(db, logger.Default().WithPrefix("bank"))
}

func newBank(db *sql.DB, log *logger.Logger) (*Bank, error) {
	b := &Bank{db: db, log: log}
	if err := b.refreshSize(context.Background()); err != nil {
		log.Error("failed to count bank records: %v", err)
		return nil, err
	}
	log.Info("item bank ready: %d records", b.size)
	return b, nil
}

func (b *Bank) refreshSize(ctx context.Context) error {
	query, args, err := sq.Select("COUNT(*)").From("items").ToSql()
	if err != nil {
		return err
	}
	return b.db.QueryRowContext(ctx, query, args...).Scan(&b.size)
}

// Size returns the number of records in the bank.
func (b *Bank) Size() int {
	return b.size
}

// Close releases the underlying database handle.
func (b *Bank) Close() error {
	return b.db.Close()
}

// Get returns the raw record stored at rank, or ErrNotFound.
func (b *Bank) Get(ctx context.Context, rank int) (string, error) {
	query, args, err := sq.Select("record").
		From("items").
		Where(sq.Eq{"rank_key": RankKey(rank)}).
		ToSql()
	if err != nil {
		return "", err
	}

	var record string
	err = b.db.QueryRowContext(ctx, query, args...).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return record, nil
}

// GetItem looks up and decodes the item at rank.
func (b *Bank) GetItem(ctx context.Context, rank int) (models.LexicalItem, error) {
	record, err := b.Get(ctx, rank)
	if err != nil {
		return models.LexicalItem{}, err
	}
	return ParseRecord(rank, record)
}

// Window returns up to width consecutive records starting at
// max(0, centerRank-width/2), in ascending rank order, clipped at the end of
// the store. Out-of-range centers yield a short or empty slice, never an
// error.
func (b *Bank) Window(ctx context.Context, centerRank, width int) ([]Entry, error) {
	if width <= 0 {
		return nil, nil
	}
	start := centerRank - width/2
	if start < 0 {
		start = 0
	}

	query, args, err := sq.Select("rank_key", "record").
		From("items").
		Where(sq.GtOrEq{"rank_key": RankKey(start)}).
		OrderBy("rank_key").
		Limit(uint64(width)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var key, record string
		if err := rows.Scan(&key, &record); err != nil {
			return nil, err
		}
		rank, err := strconv.Atoi(key)
		if err != nil {
			// A non-numeric key cannot come from the build tool; skip it.
			b.log.Warn("skipping bank row with bad key %q", key)
			continue
		}
		entries = append(entries, Entry{Rank: rank, Record: record})
	}
	return entries, rows.Err()
}

// WindowItems is Window plus decoding; malformed records are skipped.
func (b *Bank) WindowItems(ctx context.Context, centerRank, width int) ([]models.LexicalItem, error) {
	log := logger.FromContext(ctx).WithPrefix("bank")

	entries, err := b.Window(ctx, centerRank, width)
	if err != nil {
		return nil, err
	}
	items := make([]models.LexicalItem, 0, len(entries))
	for _, e := range entries {
		it, err := ParseRecord(e.Rank, e.Record)
		if err != nil {
			log.Debug("skipping record: %v", err)
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
