package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JakeFAU/jobshare/internal/store"
)

// DefaultStatusTable is the table created by the bundled migrations.
const DefaultStatusTable = "status_checks"

// StatusStoreConfig controls the Postgres pool used for status checks.
type StatusStoreConfig struct {
	PoolConfig
	Table string
}

// StatusStore persists status checks as JSONB documents.
type StatusStore struct {
	pool  pool
	table string
}

// NewStatusStore creates a Postgres-backed StatusStore using the provided config.
func NewStatusStore(ctx context.Context, cfg StatusStoreConfig) (*StatusStore, error) {
	table, err := checkTable(cfg.Table, DefaultStatusTable)
	if err != nil {
		return nil, err
	}
	p, err := newPool(ctx, cfg.PoolConfig)
	if err != nil {
		return nil, err
	}
	return &StatusStore{pool: p, table: table}, nil
}

// NewStatusStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewStatusStoreWithPool(p pool, table string) (*StatusStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	table, err := checkTable(table, DefaultStatusTable)
	if err != nil {
		return nil, err
	}
	return &StatusStore{pool: p, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *StatusStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Ping checks connectivity.
func (s *StatusStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping status store: %w", err)
	}
	return nil
}

// CreateStatusCheck inserts the check as a JSONB document.
func (s *StatusStore) CreateStatusCheck(ctx context.Context, check store.StatusCheck) error {
	if err := check.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("marshal status check: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, document) VALUES ($1, $2)`, s.table)
	if _, err := s.pool.Exec(ctx, query, check.ID, doc); err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

// ListStatusChecks returns up to limit checks in insertion order.
func (s *StatusStore) ListStatusChecks(ctx context.Context, limit int) ([]store.StatusCheck, error) {
	query := fmt.Sprintf(`SELECT document FROM %s ORDER BY created_at LIMIT $1`, s.table)
	rows, err := s.pool.Query(ctx, query, store.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query status checks: %w", err)
	}
	defer rows.Close()

	checks := make([]store.StatusCheck, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan status check: %w", err)
		}
		var check store.StatusCheck
		if err := json.Unmarshal(doc, &check); err != nil {
			return nil, fmt.Errorf("decode status check: %w", err)
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status checks: %w", err)
	}
	return checks, nil
}
