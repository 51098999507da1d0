package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/ziwei/internal/model"
)

// ExportAll returns all live records, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM charts WHERE deleted_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Import stores records from an export, keeping their ids and timestamps.
// Records whose id already exists are skipped. Returns the number inserted.
func (s *SQLiteStore) Import(ctx context.Context, records []model.Record) (int, error) {
	imported := 0
	for _, r := range records {
		rec := r
		rec.DeletedAt = nil
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC().Truncate(time.Second)
		}
		ok, err := s.insert(ctx, &rec)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", rec.ID, err)
		}
		if ok {
			imported++
		}
	}
	return imported, nil
}
