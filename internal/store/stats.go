package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string        `json:"db_path"`
	DBSizeBytes  int64         `json:"db_size_bytes"`
	TotalCharts  int           `json:"total_charts"`
	ActiveCharts int           `json:"active_charts"`
	Interpreted  int           `json:"interpreted"`
	TotalChunks  int           `json:"total_chunks"`
	Bureaus      []BureauStats `json:"bureaus"`
}

// BureauStats holds per-bureau counts.
type BureauStats struct {
	Bureau string `json:"bureau"`
	Count  int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM charts`, &st.TotalCharts},
		{`SELECT COUNT(*) FROM charts WHERE deleted_at IS NULL`, &st.ActiveCharts},
		{`SELECT COUNT(*) FROM charts WHERE deleted_at IS NULL AND interpretation IS NOT NULL`, &st.Interpreted},
		{`SELECT COUNT(*) FROM chunks`, &st.TotalChunks},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return st, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bureau, COUNT(*) AS cnt
		FROM charts WHERE deleted_at IS NULL
		GROUP BY bureau ORDER BY cnt DESC, bureau`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var b BureauStats
		if err := rows.Scan(&b.Bureau, &b.Count); err != nil {
			return st, err
		}
		st.Bureaus = append(st.Bureaus, b)
	}
	return st, rows.Err()
}
