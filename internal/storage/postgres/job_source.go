package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JakeFAU/jobshare/internal/jobs"
)

// DefaultJobTable is the published job postings table.
const DefaultJobTable = "public_jobs"

// JobSourceConfig controls the Postgres pool used for job lookups.
type JobSourceConfig struct {
	PoolConfig
	Table string
}

// JobSource reads job postings directly from Postgres.
type JobSource struct {
	pool  pool
	table string
}

// NewJobSource creates a Postgres-backed jobs.Source.
func NewJobSource(ctx context.Context, cfg JobSourceConfig) (*JobSource, error) {
	table, err := checkTable(cfg.Table, DefaultJobTable)
	if err != nil {
		return nil, err
	}
	p, err := newPool(ctx, cfg.PoolConfig)
	if err != nil {
		return nil, err
	}
	return &JobSource{pool: p, table: table}, nil
}

// NewJobSourceWithPool constructs a source from an existing pool (primarily for testing).
func NewJobSourceWithPool(p pool, table string) (*JobSource, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	table, err := checkTable(table, DefaultJobTable)
	if err != nil {
		return nil, err
	}
	return &JobSource{pool: p, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *JobSource) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// FindJob loads one job by id. The id is compared as text so malformed
// identifiers read as not found rather than as a cast error.
func (s *JobSource) FindJob(ctx context.Context, id string) (jobs.Record, error) {
	query := fmt.Sprintf(`
SELECT
	id::text,
	job_title,
	company,
	visa_type,
	city,
	state,
	salary::float8,
	openings::float8
FROM %s
WHERE id::text = $1
LIMIT 1`, s.table)

	var (
		recID                                    string
		title, company, visaType, city, stateCol pgtype.Text
		salary, openings                         pgtype.Float8
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&recID, &title, &company, &visaType, &city, &stateCol, &salary, &openings,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return jobs.Record{}, jobs.ErrNotFound
	}
	if err != nil {
		return jobs.Record{}, fmt.Errorf("query job: %w", err)
	}
	return jobs.Record{
		ID:       recID,
		JobTitle: textPtr(title),
		Company:  textPtr(company),
		VisaType: textPtr(visaType),
		City:     textPtr(city),
		State:    textPtr(stateCol),
		Salary:   floatPtr(salary),
		Openings: floatPtr(openings),
	}, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func floatPtr(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
