// internal/telemetry/recorder.go
package telemetry

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tamzrod/pose-fusion/internal/geom"
	"github.com/tamzrod/pose-fusion/internal/vision"
)

// SummaryCamera is the camera column value for cross-camera summary rows.
const SummaryCamera = -1

// QueueDepth bounds reports waiting to be written; overflow is dropped.
const QueueDepth = 256

// Pose kinds stored in the poses table.
const (
	KindTag      = "tag"
	KindRobot    = "robot"
	KindAccepted = "accepted"
	KindRejected = "rejected"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS poses (
	run_id TEXT    NOT NULL REFERENCES runs(id),
	cycle  INTEGER NOT NULL,
	camera INTEGER NOT NULL,
	kind   TEXT    NOT NULL,
	x REAL NOT NULL, y REAL NOT NULL, z REAL NOT NULL,
	qw REAL NOT NULL, qx REAL NOT NULL, qy REAL NOT NULL, qz REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS poses_run_cycle ON poses(run_id, cycle);
`

// Recorder persists diagnostic pose lists to SQLite, one transaction per cycle.
// Record only enqueues; a single writer goroutine owns the database.
type Recorder struct {
	db    *sql.DB
	runID string
	log   *slog.Logger

	queue   chan vision.CycleReport
	dropped atomic.Uint64
	wg      sync.WaitGroup
	once    sync.Once
}

// OpenRecorder opens (or creates) the database and registers a new run.
func OpenRecorder(path string, log *slog.Logger) (*Recorder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("recorder: path is required")
	}
	if log == nil {
		log = slog.Default()
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("recorder: open sqlite db: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("recorder: apply schema: %w", err)
	}

	runID := uuid.New().String()
	if _, err := db.Exec(`INSERT INTO runs (id, started_at) VALUES (?, ?)`, runID, time.Now().UnixMilli()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("recorder: register run: %w", err)
	}

	r := &Recorder{
		db:    db,
		runID: runID,
		log:   log.With("component", "recorder", "run_id", runID),
		queue: make(chan vision.CycleReport, QueueDepth),
	}
	r.wg.Add(1)
	go r.drain()

	r.log.Info("recording vision diagnostics", "path", path)
	return r, nil
}

// RunID identifies this process's rows.
func (r *Recorder) RunID() string { return r.runID }

// Record enqueues a report without blocking.
func (r *Recorder) Record(report vision.CycleReport) {
	select {
	case r.queue <- report:
	default:
		if r.dropped.Add(1) == 1 {
			r.log.Warn("recorder queue full, dropping cycles")
		}
	}
}

// Dropped returns how many cycles were not recorded.
func (r *Recorder) Dropped() uint64 { return r.dropped.Load() }

// Close flushes queued reports and closes the database.
func (r *Recorder) Close() error {
	r.once.Do(func() { close(r.queue) })
	r.wg.Wait()
	return r.db.Close()
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for report := range r.queue {
		if err := r.write(report); err != nil {
			r.log.Error("record cycle failed", "cycle", report.Cycle, "err", err)
		}
	}
}

func (r *Recorder) write(report vision.CycleReport) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO poses
		(run_id, cycle, camera, kind, x, y, z, qw, qx, qy, qz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	insert := func(camera int, kind string, poses []geom.Pose3d) error {
		for _, p := range poses {
			q := p.Rotation
			if _, err := stmt.Exec(r.runID, int64(report.Cycle), camera, kind,
				p.X(), p.Y(), p.Z(), q.Real, q.Imag, q.Jmag, q.Kmag); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range report.Cameras {
		if err := insertLists(insert, c.Index, c.PoseLists); err != nil {
			return err
		}
	}
	if err := insertLists(insert, SummaryCamera, report.Summary); err != nil {
		return err
	}

	return tx.Commit()
}

func insertLists(insert func(int, string, []geom.Pose3d) error, camera int, l vision.PoseLists) error {
	if err := insert(camera, KindTag, l.TagPoses); err != nil {
		return err
	}
	if err := insert(camera, KindRobot, l.RobotPoses); err != nil {
		return err
	}
	if err := insert(camera, KindAccepted, l.RobotPosesAccepted); err != nil {
		return err
	}
	return insert(camera, KindRejected, l.RobotPosesRejected)
}
