package queue

import "context"

const createJobsTable = `
CREATE TABLE IF NOT EXISTS dub_jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_url TEXT NOT NULL,
    target_language TEXT NOT NULL,
    output_path TEXT,
    status TEXT NOT NULL,
    failure_stage TEXT,
    error_message TEXT,
    workspace TEXT,
    video_path TEXT,
    video_duration REAL NOT NULL DEFAULT 0,
    segment_count INTEGER NOT NULL DEFAULT 0,
    dropped_segments INTEGER NOT NULL DEFAULT 0,
    progress_stage TEXT,
    progress_percent REAL NOT NULL DEFAULT 0,
    progress_message TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dub_jobs_status ON dub_jobs(status);
`

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createJobsTable)
	return err
}
