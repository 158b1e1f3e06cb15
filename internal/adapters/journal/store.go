// Package journal stores committed contract events in a SQLite database so
// that they survive between invocations.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govlock/internal/domain"
	"github.com/trebuchet-org/govlock/internal/domain/config"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
	_ "modernc.org/sqlite"
)

// Store is a SQLite backed EventJournal. The database is opened on first use
// so that commands which never touch the journal do not create it.
type Store struct {
	path string
	log  *slog.Logger
	now  func() time.Time

	once    sync.Once
	db      *sql.DB
	openErr error
}

// NewStore creates a Store at <data dir>/events.db.
func NewStore(cfg *config.RuntimeConfig, log *slog.Logger) *Store {
	return &Store{
		path: filepath.Join(cfg.DataDir, "events.db"),
		log:  log.With("component", "EventJournal"),
		now:  time.Now,
	}
}

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	dsn := clean + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.once.Do(func() {
		s.db, s.openErr = Open(ctx, s.path)
		if s.openErr == nil {
			s.log.Debug("journal opened", "path", s.path)
		}
	})
	return s.db, s.openErr
}

// Close closes the database handle if it was opened.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append stores events in one transaction, preserving their order.
func (s *Store) Append(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO events (
		   id, name, emitter, block, timestamp, summary, payload, recorded_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	for _, e := range events {
		record, err := NewRecord(e, now)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			record.ID,
			record.Name,
			record.Emitter.Hex(),
			int64(record.Block),
			int64(record.Timestamp),
			record.Summary,
			string(record.Payload),
			record.RecordedAt.UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s event: %w", record.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	s.log.Debug("events journaled", "count", len(events))
	return nil
}

// List returns the events matching filter in emission order. A limit keeps
// the most recent matches.
func (s *Store) List(ctx context.Context, filter domain.EventFilter) ([]*models.EventRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.Name != "" {
		where = append(where, "name = ? COLLATE NOCASE")
		args = append(args, filter.Name)
	}
	if filter.Emitter != "" {
		if !common.IsHexAddress(filter.Emitter) {
			return nil, fmt.Errorf("invalid emitter address %q", filter.Emitter)
		}
		where = append(where, "emitter = ?")
		args = append(args, common.HexToAddress(filter.Emitter).Hex())
	}
	if filter.FromBlock > 0 {
		where = append(where, "block >= ?")
		args = append(args, int64(filter.FromBlock))
	}

	query := `SELECT seq, id, name, emitter, block, timestamp, summary, payload, recorded_at FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []*models.EventRecord
	for rows.Next() {
		var (
			record           models.EventRecord
			emitter, payload string
			block, timestamp int64
			recordedAtMillis int64
		)
		if err := rows.Scan(&record.Seq, &record.ID, &record.Name, &emitter, &block, &timestamp, &record.Summary, &payload, &recordedAtMillis); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Emitter = common.HexToAddress(emitter)
		record.Block = uint64(block)
		record.Timestamp = uint64(timestamp)
		record.Payload = []byte(payload)
		record.RecordedAt = time.UnixMilli(recordedAtMillis).UTC()
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return lo.Reverse(records), nil
}

// Clear removes every stored event.
func (s *Store) Clear(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

var _ usecase.EventJournal = (*Store)(nil)
