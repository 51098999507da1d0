package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rcliao/ziwei/internal/chunker"
	"github.com/rcliao/ziwei/internal/logging"
	"github.com/rcliao/ziwei/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	log     *zap.Logger
	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		log:     logging.OrNop(log).Named("store"),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Debug("store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS charts (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		gender         TEXT NOT NULL,
		calendar       TEXT NOT NULL,
		birth_date     TEXT NOT NULL,
		hour           INTEGER NOT NULL,
		leap_month     INTEGER NOT NULL DEFAULT 0,
		life_palace    TEXT NOT NULL,
		bureau         TEXT NOT NULL,
		reading        TEXT NOT NULL,
		interpretation TEXT,
		created_at     TEXT NOT NULL,
		deleted_at     TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_charts_name ON charts(name);
	CREATE INDEX IF NOT EXISTS idx_charts_bureau ON charts(bureau);
	CREATE INDEX IF NOT EXISTS idx_charts_created ON charts(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_charts_deleted ON charts(deleted_at);

	CREATE TABLE IF NOT EXISTS chunks (
		id        TEXT PRIMARY KEY,
		chart_id  TEXT NOT NULL REFERENCES charts(id),
		seq       INTEGER NOT NULL,
		palace    TEXT NOT NULL,
		branch    INTEGER NOT NULL,
		text      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_chart ON chunks(chart_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, p SaveParams) (*model.Record, error) {
	if p.Reading == nil {
		return nil, fmt.Errorf("save: reading is required")
	}
	rec := &model.Record{
		ID:        s.newID(),
		Input:     p.Input,
		Reading:   *p.Reading,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.insert(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Debug("chart saved", zap.String("id", rec.ID), zap.String("name", rec.Input.Name))
	return rec, nil
}

// insert writes a record and its chunks in one transaction. Existing ids are
// skipped and reported as not inserted.
func (s *SQLiteStore) insert(ctx context.Context, rec *model.Record) (bool, error) {
	reading, interp, err := encodeReading(&rec.Reading)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	in := rec.Input
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO charts (id, name, gender, calendar, birth_date, hour, leap_month,
		                               life_palace, bureau, reading, interpretation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, in.Name, string(in.Gender), string(in.Calendar), in.Date(), int(in.Hour), in.LeapMonth,
		rec.Reading.Chart.LifePalace, rec.Reading.Profile.Bureau, reading, interp,
		rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert chart: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if err := s.writeChunks(ctx, tx, rec.ID, &rec.Reading); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (s *SQLiteStore) writeChunks(ctx context.Context, tx *sql.Tx, chartID string, r *model.Reading) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE chart_id = ?`, chartID); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	for i, c := range chunker.Chunk(r, chunker.DefaultOptions()) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO chunks (id, chart_id, seq, palace, branch, text) VALUES (?, ?, ?, ?, ?, ?)`,
			s.newID(), chartID, i, c.Palace, c.Branch, c.Text)
		if err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return nil
}

const recordColumns = `id, name, gender, calendar, birth_date, hour, leap_month, reading, interpretation, created_at, deleted_at`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM charts WHERE id = ? AND deleted_at IS NULL`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Record, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	if p.Name != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+p.Name+"%")
	}
	if p.Bureau != "" {
		where = append(where, "bureau = ?")
		args = append(args, p.Bureau)
	}

	query := fmt.Sprintf(`SELECT %s FROM charts WHERE %s ORDER BY created_at DESC, id DESC LIMIT ?`,
		recordColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *SQLiteStore) SetInterpretation(ctx context.Context, id string, in *model.Interpretation) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.Reading.Interpretation = in
	_, interp, err := encodeReading(&rec.Reading)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE charts SET interpretation = ? WHERE id = ?`, interp, id); err != nil {
		return fmt.Errorf("update interpretation: %w", err)
	}
	if err := s.writeChunks(ctx, tx, id, &rec.Reading); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM charts WHERE id = ? AND deleted_at IS NULL`, p.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}

	if p.Hard {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE chart_id = ?`, p.ID); err != nil {
			return err
		}
		_, err := s.db.ExecContext(ctx, `DELETE FROM charts WHERE id = ?`, p.ID)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `UPDATE charts SET deleted_at = ? WHERE id = ?`, now, p.ID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeReading stores the interpretation in its own column.
func encodeReading(r *model.Reading) (reading string, interp *string, err error) {
	bare := *r
	bare.Interpretation = nil
	b, err := json.Marshal(bare)
	if err != nil {
		return "", nil, fmt.Errorf("encode reading: %w", err)
	}
	if r.Interpretation != nil {
		ib, err := json.Marshal(r.Interpretation)
		if err != nil {
			return "", nil, fmt.Errorf("encode interpretation: %w", err)
		}
		s := string(ib)
		interp = &s
	}
	return string(b), interp, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (model.Record, error) {
	var rec model.Record
	var gender, calendar, birthDate, reading, createdAt string
	var hour int
	var leap bool
	var interp, deletedAt sql.NullString

	err := row.Scan(&rec.ID, &rec.Input.Name, &gender, &calendar, &birthDate, &hour, &leap,
		&reading, &interp, &createdAt, &deletedAt)
	if err != nil {
		return rec, err
	}

	rec.Input.Gender = model.Gender(gender)
	rec.Input.Calendar = model.CalendarSystem(calendar)
	rec.Input.Hour = model.HourSlot(hour)
	rec.Input.LeapMonth = leap
	if rec.Input.Year, rec.Input.Month, rec.Input.Day, err = model.ParseDate(birthDate); err != nil {
		return rec, err
	}

	if err := json.Unmarshal([]byte(reading), &rec.Reading); err != nil {
		return rec, fmt.Errorf("decode reading %s: %w", rec.ID, err)
	}
	if interp.Valid {
		rec.Reading.Interpretation = &model.Interpretation{}
		if err := json.Unmarshal([]byte(interp.String), rec.Reading.Interpretation); err != nil {
			return rec, fmt.Errorf("decode interpretation %s: %w", rec.ID, err)
		}
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		rec.DeletedAt = &t
	}
	return rec, nil
}
