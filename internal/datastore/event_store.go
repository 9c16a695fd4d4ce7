package datastore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/aleister1102/futwatch/internal/common"
	"github.com/aleister1102/futwatch/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const eventTimeLayout = "2006-01-02T15:04:05.000Z"

// EventStore persists change events to a SQLite database. It is the durable
// counterpart to the in-memory feed: the feed evicts, the store does not.
type EventStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewEventStore opens the SQLite database at dbPath and runs pending migrations.
func NewEventStore(dbPath string, logger zerolog.Logger) (*EventStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, common.WrapErrorf(err, "failed to create database directory for '%s'", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, common.WrapError(err, "failed to open sqlite database")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "failed to set WAL mode")
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &EventStore{
		db:     db,
		logger: logger.With().Str("module", "EventStore").Logger(),
	}, nil
}

// runMigrations applies all pending embedded migrations
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return common.WrapError(err, "failed to set goose dialect")
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return common.WrapError(err, "failed to run migrations")
	}
	return nil
}

// Close closes the underlying database connection.
func (es *EventStore) Close() error {
	return es.db.Close()
}

// RecordEvent appends one change event to the log.
func (es *EventStore) RecordEvent(ctx context.Context, event models.ChangeEvent) error {
	lines, err := json.Marshal(event.Lines)
	if err != nil {
		return common.WrapError(err, "failed to marshal event lines")
	}

	_, err = es.db.ExecContext(ctx,
		`INSERT INTO change_events (ts, target, kind, topic, severity, headline, lines, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Timestamp.UTC().Format(eventTimeLayout),
		event.Target,
		string(event.Kind),
		string(event.Topic),
		string(event.Severity),
		event.Headline,
		string(lines),
		event.Summary,
	)
	if err != nil {
		return common.WrapError(err, "failed to insert change event")
	}

	es.logger.Debug().
		Str("target", event.Target).
		Str("topic", string(event.Topic)).
		Msg("Change event recorded")
	return nil
}

// RecentEvents returns up to limit events, newest first.
func (es *EventStore) RecentEvents(ctx context.Context, limit int) ([]models.ChangeEvent, error) {
	rows, err := es.db.QueryContext(ctx,
		`SELECT ts, target, kind, topic, severity, headline, lines, summary
		 FROM change_events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, common.WrapError(err, "failed to query change events")
	}
	defer func() { _ = rows.Close() }()
	return scanEvents(rows)
}

// EventsForTarget returns up to limit events for one target, newest first.
func (es *EventStore) EventsForTarget(ctx context.Context, target string, limit int) ([]models.ChangeEvent, error) {
	rows, err := es.db.QueryContext(ctx,
		`SELECT ts, target, kind, topic, severity, headline, lines, summary
		 FROM change_events WHERE target = ? ORDER BY id DESC LIMIT ?`, target, limit,
	)
	if err != nil {
		return nil, common.WrapError(err, "failed to query change events for target")
	}
	defer func() { _ = rows.Close() }()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.ChangeEvent, error) {
	var events []models.ChangeEvent
	for rows.Next() {
		var (
			event                            models.ChangeEvent
			ts, kind, topic, severity, lines string
		)
		if err := rows.Scan(&ts, &event.Target, &kind, &topic, &severity, &event.Headline, &lines, &event.Summary); err != nil {
			return nil, common.WrapError(err, "failed to scan change event")
		}
		event.Timestamp, _ = time.Parse(eventTimeLayout, ts)
		event.Kind = models.EventKind(kind)
		event.Topic = models.Topic(topic)
		event.Severity = models.Severity(severity)
		if err := json.Unmarshal([]byte(lines), &event.Lines); err != nil {
			return nil, common.WrapError(err, "failed to unmarshal event lines")
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
