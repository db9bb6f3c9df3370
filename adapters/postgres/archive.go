// Package postgres is the archive adapter: raw category payloads are kept
// per day so past fetches stay queryable after the upstream retention
// window. Archiving is best-effort; callers treat failures as log lines,
// not request failures.
package postgres

import (
	"context"

	"ringlab/domain/core"
	"ringlab/internal/errors"
	"ringlab/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ArchiveImpl implements RecordArchive for PostgreSQL
type ArchiveImpl struct {
	db *sqlx.DB
}

var _ ports.RecordArchive = (*ArchiveImpl)(nil)

// NewArchive creates a new PostgreSQL record archive
func NewArchive(db *sqlx.DB) *ArchiveImpl {
	return &ArchiveImpl{db: db}
}

// SaveRecords upserts one category's raw payload for a day. A refetch of
// the same day replaces the stored payload.
func (r *ArchiveImpl) SaveRecords(ctx context.Context, category string, day core.Day, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ring_records (id, category, day, payload, fetched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (category, day)
		DO UPDATE SET payload = EXCLUDED.payload, fetched_at = NOW()
	`, uuid.New(), category, day, payload)

	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}

// CountByCategory returns the number of archived day-payloads per category
func (r *ArchiveImpl) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM ring_records
		GROUP BY category
	`)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, errors.WithCode(errors.CodeDatabaseError, err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return counts, nil
}

// Close releases the underlying connection pool
func (r *ArchiveImpl) Close() error {
	return r.db.Close()
}

// SaveExport records one workbook export
func (r *ArchiveImpl) SaveExport(ctx context.Context, id core.ExportID, path string, start, end core.Day) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exports (id, path, start_day, end_day, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, id.String(), path, start, end)

	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}
