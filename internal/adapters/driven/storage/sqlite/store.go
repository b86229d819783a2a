// Package sqlite provides the durable feedback log backed by SQLite.
// Feedback events and learning insights survive process restarts; the
// learning loop's in-memory queue is rebuilt from the unprocessed events.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fetchit-ai/fetchit/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FeedbackLog = (*Store)(nil)

// Store is a SQLite-backed feedback log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the feedback database in dataDir.
// If dataDir is empty, defaults to ~/.fetchit/data/feedback.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fetchit", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "feedback.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate applies embedded up-migrations newer than the schema version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// AppendEvent durably records a feedback event.
func (s *Store) AppendEvent(ctx context.Context, event domain.FeedbackEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_events (id, query, document_id, content_type, judgment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Query, event.DocumentID, event.ContentType,
		string(event.Judgment), event.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert feedback event: %w", err)
	}
	return nil
}

// AppendInsight durably records an insight and trims the table to the
// retention capacity, oldest first.
func (s *Store) AppendInsight(ctx context.Context, insight domain.LearningInsight) error {
	preferred, err := json.Marshal(insight.PreferredContentTypes)
	if err != nil {
		return fmt.Errorf("marshal preferred types: %w", err)
	}
	avoided, err := json.Marshal(insight.AvoidedContentTypes)
	if err != nil {
		return fmt.Errorf("marshal avoided types: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insight tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO learning_insights (id, created_at, preferred_types, avoided_types, recommendation, total_feedback)
		VALUES (?, ?, ?, ?, ?, ?)`,
		insight.ID, insight.Timestamp.UTC().Format(time.RFC3339Nano),
		string(preferred), string(avoided), insight.Recommendation, insight.TotalFeedback,
	)
	if err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM learning_insights WHERE id NOT IN (
			SELECT id FROM learning_insights ORDER BY created_at DESC LIMIT ?
		)`, domain.InsightCapacity)
	if err != nil {
		return fmt.Errorf("trim insights: %w", err)
	}

	return tx.Commit()
}

// RecentInsights returns up to limit insights, newest first.
func (s *Store) RecentInsights(ctx context.Context, limit int) ([]domain.LearningInsight, error) {
	if limit <= 0 {
		limit = domain.InsightCapacity
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, preferred_types, avoided_types, recommendation, total_feedback
		FROM learning_insights ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	var insights []domain.LearningInsight
	for rows.Next() {
		var (
			insight   domain.LearningInsight
			createdAt string
			preferred string
			avoided   string
		)
		if err := rows.Scan(&insight.ID, &createdAt, &preferred, &avoided,
			&insight.Recommendation, &insight.TotalFeedback); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}

		insight.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse insight timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(preferred), &insight.PreferredContentTypes); err != nil {
			return nil, fmt.Errorf("decode preferred types: %w", err)
		}
		if err := json.Unmarshal([]byte(avoided), &insight.AvoidedContentTypes); err != nil {
			return nil, fmt.Errorf("decode avoided types: %w", err)
		}

		insights = append(insights, insight)
	}
	return insights, rows.Err()
}

// PendingEvents returns unprocessed events, oldest first.
func (s *Store) PendingEvents(ctx context.Context) ([]domain.FeedbackEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, document_id, content_type, judgment, created_at
		FROM feedback_events WHERE processed = 0 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query pending events: %w", err)
	}
	defer rows.Close()

	var events []domain.FeedbackEvent
	for rows.Next() {
		var (
			event     domain.FeedbackEvent
			judgment  string
			createdAt string
		)
		if err := rows.Scan(&event.ID, &event.Query, &event.DocumentID,
			&event.ContentType, &judgment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		event.Judgment = domain.Judgment(judgment)
		event.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}

		events = append(events, event)
	}
	return events, rows.Err()
}

// MarkProcessed flags events as folded into an insight.
func (s *Store) MarkProcessed(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(eventIDs)), ",")
	args := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE feedback_events SET processed = 1 WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
