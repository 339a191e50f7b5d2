package recordings_test

import (
	"context"
	"testing"

	"github.com/graag/mythcommflag-silence/internal/markup"
	"github.com/graag/mythcommflag-silence/internal/recordings"
	"github.com/graag/mythcommflag-silence/internal/testsupport"
)

func TestRecordingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := testsupport.OpenStore(t)

	rec := &recordings.Recording{
		ChanID:    1002,
		StartTime: "2026-08-23 20:00:00",
		Title:     "News at Ten",
		Callsign:  "BBC1",
		Basename:  "1002_20260823200000.ts",
	}
	if err := store.InsertRecording(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetRecording(ctx, 1002, "2026-08-23 20:00:00")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Title != "News at Ten" || got.CommFlagged != recordings.FlagNotFlagged {
		t.Fatalf("unexpected recording %+v", got)
	}

	if err := store.SetFlagState(ctx, 1002, "2026-08-23 20:00:00", recordings.FlagProcessing); err != nil {
		t.Fatalf("set flag state: %v", err)
	}
	got, err = store.GetRecording(ctx, 1002, "2026-08-23 20:00:00")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.CommFlagged != recordings.FlagProcessing {
		t.Fatalf("flag state = %d, want processing", got.CommFlagged)
	}
}

func TestGetRecordingMissingReturnsNil(t *testing.T) {
	store := testsupport.OpenStore(t)
	got, err := store.GetRecording(context.Background(), 9999, "2026-01-01 00:00:00")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing recording, got %+v", got)
	}
}

func TestMarksRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testsupport.OpenStore(t)

	breaks := []markup.Mark{
		{Start: 100, End: 250},
		{Start: 400, End: 500},
		{Start: 900, End: 950},
	}
	for _, mark := range breaks {
		if err := store.AppendBreak(ctx, 1002, "2026-08-23 20:00:00", mark); err != nil {
			t.Fatalf("append break: %v", err)
		}
	}

	got, err := store.Skiplist(ctx, 1002, "2026-08-23 20:00:00")
	if err != nil {
		t.Fatalf("skiplist: %v", err)
	}
	if len(got) != len(breaks) {
		t.Fatalf("expected %d marks, got %d", len(breaks), len(got))
	}
	for i, mark := range got {
		if mark != breaks[i] {
			t.Fatalf("mark %d = %+v, want %+v", i, mark, breaks[i])
		}
	}

	if err := store.ClearMarks(ctx, 1002, "2026-08-23 20:00:00"); err != nil {
		t.Fatalf("clear marks: %v", err)
	}
	got, err = store.Skiplist(ctx, 1002, "2026-08-23 20:00:00")
	if err != nil {
		t.Fatalf("skiplist after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty skiplist after clear, got %d marks", len(got))
	}
}

func TestJobStatusTransitions(t *testing.T) {
	ctx := context.Background()
	store := testsupport.OpenStore(t)

	job, err := store.NewJob(ctx, 1002, "2026-08-23 20:00:00")
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Status != recordings.JobQueued {
		t.Fatalf("new job status = %d, want queued", job.Status)
	}

	if err := store.SetJobStatus(ctx, job.ID, recordings.JobFinished, "Detected 3 adverts."); err != nil {
		t.Fatalf("set status: %v", err)
	}
	job, err = store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.Status != recordings.JobFinished || job.Comment != "Detected 3 adverts." {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestProgID(t *testing.T) {
	rec := recordings.Recording{ChanID: 1002, StartTime: "2026-08-23 20:00:00"}
	if got := rec.ProgID(); got != "1002_2026-08-23T20:00:00" {
		t.Fatalf("progid = %q", got)
	}
}

func TestDisplayTitleFallsBackToBasename(t *testing.T) {
	rec := recordings.Recording{Basename: "evening_news-2026.ts"}
	if got := rec.DisplayTitle(); got != "Evening News 2026" {
		t.Fatalf("display title = %q", got)
	}
	rec.Title = "News at Ten"
	if got := rec.DisplayTitle(); got != "News at Ten" {
		t.Fatalf("display title = %q", got)
	}
}
