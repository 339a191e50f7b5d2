package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// NewJob inserts a queued flagging job for a recording.
func (s *Store) NewJob(ctx context.Context, chanID int64, startTime string) (*Job, error) {
	now := timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (chanid, starttime, status, comment, inserted_at, updated_at)
         VALUES (?, ?, ?, '', ?, ?)`,
		chanID, startTime, int(JobQueued), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetJob(ctx, id)
}

// GetJob fetches a job by identifier. Returns nil when no such job exists.
func (s *Store) GetJob(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, chanid, starttime, status, comment FROM jobs WHERE id = ?`, id)

	var job Job
	var status int
	err := row.Scan(&job.ID, &job.ChanID, &job.StartTime, &status, &job.Comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	job.Status = JobStatus(status)
	return &job, nil
}

// SetJobStatus records a job status transition with an operator-visible
// comment.
func (s *Store) SetJobStatus(ctx context.Context, id int64, status JobStatus, comment string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, comment = ?, updated_at = ? WHERE id = ?`,
		int(status), comment, timestamp(), id)
	if err != nil {
		return fmt.Errorf("set job status: %w", err)
	}
	return nil
}
