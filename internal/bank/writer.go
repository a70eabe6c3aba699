package bank

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/miyabe/wordage/internal/logger"
	"github.com/miyabe/wordage/internal/models"
)

// MaxRecords caps the stored bank, matching the upstream rank extraction.
const MaxRecords = 100000

// OpenForWrite creates or truncates the bank at path.
func OpenForWrite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := CreateSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema prepares an empty items table.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS items`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `
CREATE TABLE items (
    rank_key TEXT PRIMARY KEY,
    record   TEXT NOT NULL
)`)
	return err
}

// WriteRanked sorts items by acquisition age, assigns dense ranks from zero
// and inserts them, stopping at MaxRecords. Returns the number written.
func WriteRanked(ctx context.Context, db *sql.DB, items []models.LexicalItem) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("bank")

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AcquisitionAge < items[j].AcquisitionAge
	})

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, it := range items {
		if written >= MaxRecords {
			break
		}
		it.Rank = written
		query, args, err := sq.Insert("items").
			Columns("rank_key", "record").
			Values(RankKey(written), FormatRecord(it)).
			ToSql()
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		written++
		if written%10000 == 0 {
			log.Info("writing bank: records=%d", written)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info("bank written: records=%d", written)
	return written, nil
}
