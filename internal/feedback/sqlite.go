package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

// recentRecordLimit bounds how many stored records one similarity scan
// considers; corrections older than the retention window are pruned anyway.
const recentRecordLimit = 500

// SQLiteStore implements service.FeedbackStore on a local SQLite mirror of
// the correction history. The production feedback index ranks records by
// vector similarity; this store approximates that with token-set overlap
// between fingerprints, behind the same interface.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and if necessary creates) the feedback database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS feedback_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fingerprint TEXT NOT NULL,
		corrected_code TEXT NOT NULL,
		confidence REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback_records(created_at);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate feedback schema: %w", err)
	}
	return nil
}

// Record appends a correction. The engine itself never calls this; the
// correction workflow and CLI tooling do.
func (s *SQLiteStore) Record(ctx context.Context, rec model.FeedbackRecord) error {
	if rec.Fingerprint == "" || rec.CorrectedCode == "" {
		return fmt.Errorf("feedback record requires fingerprint and corrected code")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback_records (fingerprint, corrected_code, confidence, created_at) VALUES (?, ?, ?, ?)`,
		rec.Fingerprint, rec.CorrectedCode, rec.Confidence, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save feedback record: %w", err)
	}
	return nil
}

// Similar returns up to topK records ranked by fingerprint similarity to the
// given text, most similar first. Similarity is set on each returned record.
func (s *SQLiteStore) Similar(ctx context.Context, text string, topK int) ([]model.FeedbackRecord, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, corrected_code, confidence, created_at
		 FROM feedback_records
		 ORDER BY created_at DESC
		 LIMIT ?`, recentRecordLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	queryTokens := tokenSet(text)
	var records []model.FeedbackRecord
	for rows.Next() {
		var rec model.FeedbackRecord
		if scanErr := rows.Scan(&rec.Fingerprint, &rec.CorrectedCode, &rec.Confidence, &rec.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan feedback record: %w", scanErr)
		}
		rec.Similarity = jaccard(queryTokens, tokenSet(rec.Fingerprint))
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Similarity > records[j].Similarity
	})
	if len(records) > topK {
		records = records[:topK]
	}
	return records, nil
}

// PruneOlderThan deletes records past the retention window and returns how
// many were removed.
func (s *SQLiteStore) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := s.db.ExecContext(ctx, `DELETE FROM feedback_records WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune feedback records: %w", err)
	}
	return res.RowsAffected()
}

// All returns every stored record, newest first. Used by CLI inspection.
func (s *SQLiteStore) All(ctx context.Context) ([]model.FeedbackRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, corrected_code, confidence, created_at
		 FROM feedback_records ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []model.FeedbackRecord
	for rows.Next() {
		var rec model.FeedbackRecord
		if scanErr := rows.Scan(&rec.Fingerprint, &rec.CorrectedCode, &rec.Confidence, &rec.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan feedback record: %w", scanErr)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// tokenSet lowercases and splits text into its distinct tokens.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		set[tok] = true
	}
	return set
}

// jaccard computes token-set overlap in [0, 1].
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
