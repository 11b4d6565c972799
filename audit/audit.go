// Package audit implements the Audit Log (A4): a durable, append-only
// record of every settlement check and override mutation, grounded on the
// teacher's data package (jmoiron/sqlx over modernc.org/sqlite, schema
// migration run at construction, typed store interface).
package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection backing the audit log.
type Store struct {
	*sqlx.DB
}

// NewStore opens (creating if necessary) the audit database at path and
// runs its schema migration.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit log: %w", err)
	}

	log.Info().Str("path", path).Msg("connected to audit log")

	store := &Store{db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run audit log migrations: %w", err)
	}
	return store, nil
}

// migrate runs the audit log's schema, per SPEC_FULL.md §6.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_records (
		id TEXT PRIMARY KEY,
		occurred_at DATETIME NOT NULL,
		trade_date DATE NOT NULL,
		buy_market TEXT NOT NULL,
		sell_market TEXT NOT NULL,
		status TEXT NOT NULL,
		execution_time DATETIME NULL,
		requested_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_records_trade_date ON audit_records(trade_date);
	CREATE INDEX IF NOT EXISTS idx_audit_records_occurred_at ON audit_records(occurred_at);

	CREATE TABLE IF NOT EXISTS override_events (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		market_code TEXT NOT NULL,
		date DATE NOT NULL,
		name TEXT,
		reason TEXT,
		created_at DATETIME NOT NULL
	);
	`
	if _, err := s.Exec(schema); err != nil {
		return fmt.Errorf("audit log schema migration failed: %w", err)
	}
	log.Info().Msg("audit log migrations complete")
	return nil
}

// RecordCheck appends one AuditRecord for a completed check_settlement
// call. A write failure is logged, never returned to the settlement
// engine's caller — the engine has no side effects a caller can observe
// as failed.
func (s *Store) RecordCheck(record models.AuditRecord) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO audit_records (id, occurred_at, trade_date, buy_market, sell_market, status, execution_time, requested_by)
		VALUES (:id, :occurred_at, :trade_date, :buy_market, :sell_market, :status, :execution_time, :requested_by)
	`
	if _, err := s.NamedExec(query, record); err != nil {
		log.Error().Err(err).Str("buy_market", record.BuyMarket).Str("sell_market", record.SellMarket).Msg("audit log write failed")
	}
}

// OverrideChanged implements holidaydata.EventSink, recording every
// override mutation as it happens.
func (s *Store) OverrideChanged(kind string, override models.ManualOverride) {
	s.RecordOverrideEvent(kind, override)
}

// RecordOverrideEvent appends one row marking an override mutation.
func (s *Store) RecordOverrideEvent(kind string, override models.ManualOverride) {
	query := `
		INSERT INTO override_events (id, kind, market_code, date, name, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.Exec(query, uuid.New().String(), kind, override.MarketCode, override.Date, override.Name, override.Reason, override.CreatedAt); err != nil {
		log.Error().Err(err).Str("market", override.MarketCode).Msg("audit log override write failed")
	}
}

// RecentChecks returns the most recent limit audit records, newest first.
func (s *Store) RecentChecks(limit int) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	query := `SELECT id, occurred_at, trade_date, buy_market, sell_market, status, execution_time, requested_by
	          FROM audit_records ORDER BY occurred_at DESC LIMIT ?`
	if err := s.Select(&records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	return records, nil
}
