package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"globaldub/internal/config"
)

// Store manages job persistence backed by SQLite. A file lock next to the
// database serializes access across processes so one run's cleanup never
// races another's writes.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the job database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "jobs.db")
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire queue lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("queue database %s is locked by another globaldub process", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection and releases the file lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		firstErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

const jobColumns = `id, source_url, target_language, output_path, status, failure_stage,
    error_message, workspace, video_path, video_duration, segment_count,
    dropped_segments, progress_stage, progress_percent, progress_message,
    created_at, updated_at`

// NewJob inserts a pending job for a source URL.
func (s *Store) NewJob(ctx context.Context, sourceURL, targetLanguage, outputPath string) (*Job, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return nil, errors.New("source url required")
	}
	targetLanguage = strings.ToLower(strings.TrimSpace(targetLanguage))
	if targetLanguage == "" {
		return nil, errors.New("target language required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO dub_jobs (
            source_url, target_language, output_path, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		sourceURL,
		targetLanguage,
		nullableString(outputPath),
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM dub_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update persists changes to an existing job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE dub_jobs
         SET source_url = ?, target_language = ?, output_path = ?, status = ?,
             failure_stage = ?, error_message = ?, workspace = ?, video_path = ?,
             video_duration = ?, segment_count = ?, dropped_segments = ?,
             progress_stage = ?, progress_percent = ?, progress_message = ?,
             updated_at = ?
         WHERE id = ?`,
		job.SourceURL,
		job.TargetLanguage,
		nullableString(job.OutputPath),
		job.Status,
		nullableString(job.FailureStage),
		nullableString(job.ErrorMessage),
		nullableString(job.Workspace),
		nullableString(job.VideoPath),
		job.VideoDuration,
		job.SegmentCount,
		job.DroppedSegments,
		nullableString(job.ProgressStage),
		job.ProgressPercent,
		nullableString(job.ProgressMessage),
		job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// List returns all jobs ordered by creation.
func (s *Store) List(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM dub_jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ClearTerminal deletes completed and failed jobs, returning the count.
func (s *Store) ClearTerminal(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM dub_jobs WHERE status IN (?, ?)`,
		StatusCompleted,
		StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job                                 Job
		outputPath, failureStage, errMsg    sql.NullString
		workspace, videoPath                sql.NullString
		progressStage, progressMsg, created sql.NullString
		updated                             sql.NullString
		status                              string
	)
	if err := row.Scan(
		&job.ID,
		&job.SourceURL,
		&job.TargetLanguage,
		&outputPath,
		&status,
		&failureStage,
		&errMsg,
		&workspace,
		&videoPath,
		&job.VideoDuration,
		&job.SegmentCount,
		&job.DroppedSegments,
		&progressStage,
		&job.ProgressPercent,
		&progressMsg,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.OutputPath = outputPath.String
	job.FailureStage = failureStage.String
	job.ErrorMessage = errMsg.String
	job.Workspace = workspace.String
	job.VideoPath = videoPath.String
	job.ProgressStage = progressStage.String
	job.ProgressMessage = progressMsg.String
	job.CreatedAt = parseTimestamp(created.String)
	job.UpdatedAt = parseTimestamp(updated.String)
	return &job, nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
