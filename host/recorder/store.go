// Package recorder persists telemetry runs to SQLite and summarizes them.
package recorder

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"gobuggy/host/monitor"
	"gobuggy/protocol"
)

// Store is a telemetry database
type Store struct {
	*sql.DB
}

// Run is one recorded exploration, from power-up or a completed retrace
// until the next retrace completes.
type Run struct {
	ID        uuid.UUID
	Device    string
	StartedAt time.Time
}

// FrameRow is a stored telemetry frame
type FrameRow struct {
	Seq        int
	RecordedAt time.Time
	Frame      protocol.Frame
	Category   string
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			device            TEXT NOT NULL,
			started_at        BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS frames (
			run_id            TEXT NOT NULL,
			seq               BIGINT NOT NULL,
			recorded_at       BIGINT NOT NULL,
			r                 DOUBLE,
			g                 DOUBLE,
			b                 DOUBLE,
			clear             DOUBLE,
			hue               DOUBLE,
			prev_ticks        BIGINT,
			turns             TEXT,
			category          TEXT,
			PRIMARY KEY(run_id, seq),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}

	return &Store{db}, nil
}

// CreateRun inserts a new run
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	_, err := s.ExecContext(ctx,
		`INSERT INTO runs (run_id, device, started_at) VALUES (?, ?, ?)`,
		run.ID.String(), run.Device, run.StartedAt.UnixNano())
	return errors.Wrapf(err, "insert run %s", run.ID)
}

// InsertFrame stores one reading under a run
func (s *Store) InsertFrame(ctx context.Context, runID uuid.UUID, seq int, r monitor.Reading) error {
	f := r.Frame
	_, err := s.ExecContext(ctx, `
		INSERT INTO frames (run_id, seq, recorded_at, r, g, b, clear, hue, prev_ticks, turns, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID.String(), seq, r.At.UnixNano(), f.R, f.G, f.B, f.Clear, f.Hue, f.PrevTicks, f.Turns, r.Category.String())
	return errors.Wrapf(err, "insert frame %d of run %s", seq, runID)
}

// Runs lists every run, oldest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.QueryContext(ctx, `SELECT run_id, device, started_at FROM runs ORDER BY started_at, run_id`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var id string
		var run Run
		var started int64
		if err := rows.Scan(&id, &run.Device, &started); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Wrapf(err, "run id %q", id)
		}
		run.StartedAt = time.Unix(0, started)
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "iterate runs")
}

// Frames returns a run's frames in order
func (s *Store) Frames(ctx context.Context, runID uuid.UUID) ([]FrameRow, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT seq, recorded_at, r, g, b, clear, hue, prev_ticks, turns, category
		FROM frames WHERE run_id = ? ORDER BY seq`, runID.String())
	if err != nil {
		return nil, errors.Wrapf(err, "query frames of run %s", runID)
	}
	defer rows.Close()

	var out []FrameRow
	for rows.Next() {
		var fr FrameRow
		var at int64
		f := &fr.Frame
		if err := rows.Scan(&fr.Seq, &at, &f.R, &f.G, &f.B, &f.Clear, &f.Hue, &f.PrevTicks, &f.Turns, &fr.Category); err != nil {
			return nil, errors.Wrap(err, "scan frame")
		}
		fr.RecordedAt = time.Unix(0, at)
		out = append(out, fr)
	}
	return out, errors.Wrap(rows.Err(), "iterate frames")
}
