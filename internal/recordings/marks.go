package recordings

import (
	"context"
	"fmt"

	"github.com/graag/mythcommflag-silence/internal/markup"
)

// ClearMarks purges all commercial markup for a recording. Called once
// at session start so a re-run replaces any earlier skip list.
func (s *Store) ClearMarks(ctx context.Context, chanID int64, startTime string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM recording_marks WHERE chanid = ? AND starttime = ?`,
		chanID, startTime)
	if err != nil {
		return fmt.Errorf("clear marks: %w", err)
	}
	return nil
}

// AppendBreak stores a detected break as a start/end boundary pair.
func (s *Store) AppendBreak(ctx context.Context, chanID int64, startTime string, mark markup.Mark) error {
	now := timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recording_marks (chanid, starttime, mark, type, created_at)
         VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)`,
		chanID, startTime, mark.Start, markup.MarkCommStart, now,
		chanID, startTime, mark.End, markup.MarkCommEnd, now)
	if err != nil {
		return fmt.Errorf("append break: %w", err)
	}
	return nil
}

// Skiplist reconstructs the stored break intervals in offset order by
// pairing start and end boundary rows.
func (s *Store) Skiplist(ctx context.Context, chanID int64, startTime string) ([]markup.Mark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mark, type FROM recording_marks
         WHERE chanid = ? AND starttime = ? AND type IN (?, ?)
         ORDER BY mark`,
		chanID, startTime, markup.MarkCommStart, markup.MarkCommEnd)
	if err != nil {
		return nil, fmt.Errorf("query marks: %w", err)
	}
	defer rows.Close()

	var marks []markup.Mark
	var pending *uint64
	for rows.Next() {
		var offset uint64
		var markType int
		if err := rows.Scan(&offset, &markType); err != nil {
			return nil, fmt.Errorf("scan mark: %w", err)
		}
		switch markType {
		case markup.MarkCommStart:
			value := offset
			pending = &value
		case markup.MarkCommEnd:
			if pending != nil {
				marks = append(marks, markup.Mark{Start: *pending, End: offset})
				pending = nil
			}
		}
	}
	return marks, rows.Err()
}
