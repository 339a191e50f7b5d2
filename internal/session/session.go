package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/graag/mythcommflag-silence/internal/config"
	"github.com/graag/mythcommflag-silence/internal/markup"
	"github.com/graag/mythcommflag-silence/internal/notifications"
	"github.com/graag/mythcommflag-silence/internal/pipeline"
	"github.com/graag/mythcommflag-silence/internal/preflight"
	"github.com/graag/mythcommflag-silence/internal/preset"
	"github.com/graag/mythcommflag-silence/internal/recordings"
	"github.com/graag/mythcommflag-silence/internal/services"
)

// Stream is the analyzer output surface a session consumes. The real
// implementation is the external process pipeline; tests substitute a
// scripted stream.
type Stream interface {
	Output() io.Reader
	FeederPID() int
	TerminateFeed() error
	Wait() error
	Close()
}

// Starter launches an analysis stream for a recording file.
type Starter func(ctx context.Context, cfg config.Pipeline, inputPath string, presetArgs []string, logger *slog.Logger) (Stream, error)

// Emitter delivers the current skip list to the player as a
// COMMFLAG_UPDATE message.
type Emitter interface {
	Emit(ctx context.Context, progID string, list *markup.SkipList) error
}

// Options selects the recording to flag and its preset sources.
type Options struct {
	// JobID is the job queue row to track, 0 when invoked ad hoc.
	JobID          int64
	ChanID         int64
	StartTime      string
	PresetOverride string
	PresetFile     string
}

// Session runs one complete flagging pass over a single recording.
type Session struct {
	cfg      *config.Config
	store    *recordings.Store
	emitter  Emitter
	notifier notifications.Service
	logger   *slog.Logger
	opts     Options
	start    Starter
}

// Option customizes a Session.
type Option func(*Session)

// WithStarter replaces the process pipeline with an alternate stream
// source.
func WithStarter(start Starter) Option {
	return func(s *Session) {
		s.start = start
	}
}

// New constructs a Session. The store and emitter are required; the
// notifier may be a noop service.
func New(cfg *config.Config, store *recordings.Store, emitter Emitter, notifier notifications.Service, logger *slog.Logger, opts Options, options ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	s := &Session{
		cfg:      cfg,
		store:    store,
		emitter:  emitter,
		notifier: notifier,
		logger:   logger.With("component", "session", "run_id", runID[:8]),
		opts:     opts,
		start:    defaultStarter,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func defaultStarter(ctx context.Context, cfg config.Pipeline, inputPath string, presetArgs []string, logger *slog.Logger) (Stream, error) {
	return pipeline.Start(ctx, cfg, inputPath, presetArgs, logger)
}

// Run executes the full flagging session and returns the number of
// detected breaks. The session ends when the upstream feed terminates
// and the analyzer output drains.
func (s *Session) Run(ctx context.Context) (int, error) {
	if err := s.resolveTarget(ctx); err != nil {
		return 0, err
	}

	rec, err := s.store.GetRecording(ctx, s.opts.ChanID, s.opts.StartTime)
	if err != nil {
		return 0, s.fail(ctx, nil, "ERROR: Could not find recording.", err)
	}
	if rec == nil {
		err := services.Wrap(services.ErrNotFound, "session", "lookup",
			fmt.Sprintf("no recording for chanid %d starttime %q", s.opts.ChanID, s.opts.StartTime), nil)
		return 0, s.fail(ctx, nil, "ERROR: Could not find recording.", err)
	}
	s.logger.Info("flagging recording",
		"title", rec.DisplayTitle(), "chanid", rec.ChanID, "starttime", rec.StartTime)

	inputPath := filepath.Join(s.cfg.Paths.RecordingsDir, rec.Basename)
	if err := preflight.RecordingReadable(inputPath); err != nil {
		err = services.Wrap(services.ErrNotFound, "session", "access", inputPath, err)
		return 0, s.fail(ctx, rec, "ERROR: Local access to recording not found.", err)
	}

	lock := flock.New(filepath.Join(s.cfg.Paths.LogDir, rec.ProgID()+".lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return 0, s.fail(ctx, rec, "ERROR: Could not lock recording.",
			fmt.Errorf("acquire lock: %w", err))
	}
	if !acquired {
		return 0, s.fail(ctx, rec, "ERROR: Recording is already being flagged.",
			errors.New("another session is flagging this recording"))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release session lock", "error", err)
		}
	}()

	presetFile := s.opts.PresetFile
	if presetFile == "" {
		presetFile = s.cfg.Paths.PresetFile
	}
	resolver := preset.NewResolver(s.logger)
	presets, err := resolver.Resolve(s.opts.PresetOverride, presetFile,
		preset.MatchKey{Title: rec.Title, Callsign: rec.Callsign})
	if err != nil {
		return 0, s.fail(ctx, rec, "ERROR: Invalid preset configuration.", err)
	}
	s.logger.Info("using detection parameters", "presets", presets.Args())

	if s.opts.JobID != 0 {
		if err := s.store.SetJobStatus(ctx, s.opts.JobID, recordings.JobRunning, ""); err != nil {
			s.logger.Warn("failed to mark job running", "error", err)
		}
	}
	if err := s.store.SetFlagState(ctx, rec.ChanID, rec.StartTime, recordings.FlagProcessing); err != nil {
		s.logger.Warn("failed to mark recording processing", "error", err)
	}
	if err := s.store.ClearMarks(ctx, rec.ChanID, rec.StartTime); err != nil {
		s.logger.Warn("failed to clear previous marks", "error", err)
	}

	stream, err := s.start(ctx, s.cfg.Pipeline, inputPath, presets.Args(), s.logger)
	if err != nil {
		return 0, s.fail(ctx, rec, "ERROR: Could not start detection pipeline.", err)
	}
	s.logger.Debug("analysis stream started", "feeder_pid", stream.FeederPID())

	breaks, streamErr := s.consume(ctx, rec, stream)
	if waitErr := stream.Wait(); waitErr != nil {
		s.logger.Warn("pipeline shutdown reported errors", "error", waitErr)
	}
	if streamErr != nil {
		return breaks, s.fail(ctx, rec, "ERROR: Detection pipeline failed.", streamErr)
	}

	if err := s.store.SetFlagState(ctx, rec.ChanID, rec.StartTime, recordings.FlagDone); err != nil {
		s.logger.Warn("failed to mark recording done", "error", err)
	}
	comment := fmt.Sprintf("Detected %d adverts.", breaks)
	if s.opts.JobID != 0 {
		if err := s.store.SetJobStatus(ctx, s.opts.JobID, recordings.JobFinished, comment); err != nil {
			s.logger.Warn("failed to mark job finished", "error", err)
		}
	}
	s.logger.Info("flagging complete", "title", rec.DisplayTitle(), "breaks", breaks)

	if err := s.notifier.NotifySessionCompleted(ctx, rec.DisplayTitle(), breaks); err != nil {
		s.logger.Warn("completion notification failed", "error", err)
	}

	s.linger(ctx)
	return breaks, nil
}

// resolveTarget fills in the recording key from the job row when the
// session was invoked with only a job id.
func (s *Session) resolveTarget(ctx context.Context) error {
	if s.opts.JobID == 0 || (s.opts.ChanID != 0 && strings.TrimSpace(s.opts.StartTime) != "") {
		return nil
	}

	job, err := s.store.GetJob(ctx, s.opts.JobID)
	if err != nil {
		return s.fail(ctx, nil, "ERROR: Could not find job.", err)
	}
	if job == nil {
		return s.fail(ctx, nil, "ERROR: Could not find job.",
			services.Wrap(services.ErrNotFound, "session", "lookup",
				fmt.Sprintf("no job %d", s.opts.JobID), nil))
	}
	s.opts.ChanID = job.ChanID
	s.opts.StartTime = job.StartTime
	s.logger.Debug("resolved recording from job",
		"job_id", job.ID, "chanid", job.ChanID, "starttime", job.StartTime)
	return nil
}

// consume reads analyzer lines until the stream drains, growing the
// skip list and pushing a full player update after every new break.
func (s *Session) consume(ctx context.Context, rec *recordings.Recording, stream Stream) (int, error) {
	var list markup.SkipList
	progID := rec.ProgID()

	scanner := bufio.NewScanner(stream.Output())
	for scanner.Scan() {
		switch event := markup.ParseLine(scanner.Text()).(type) {
		case markup.CutEvent:
			s.logger.Info("advert detected", "interval", event.Raw)
			list.Append(event.Mark)
			if err := s.store.AppendBreak(ctx, rec.ChanID, rec.StartTime, event.Mark); err != nil {
				s.logger.Warn("failed to persist break", "error", err)
			}
			// Delivery failures are transient; the next emit carries the
			// full list again.
			_ = s.emitter.Emit(ctx, progID, &list)
		case markup.LogEvent:
			s.logger.Log(ctx, event.Level, event.Message, "component", "analyzer")
		case markup.UnrecognizedEvent:
			s.logger.Warn("unexpected analyzer tag", "tag", event.Tag)
		}
	}
	if err := scanner.Err(); err != nil {
		return list.Len(), services.Wrap(services.ErrExternalTool, "session", "stream", "read analyzer output", err)
	}
	return list.Len(), nil
}

// fail records a session failure on the recording and job rows, emits a
// failure notification, and returns the original error.
func (s *Session) fail(ctx context.Context, rec *recordings.Recording, comment string, err error) error {
	s.logger.Error("session failed", "error", err)
	if rec != nil {
		if dbErr := s.store.SetFlagState(ctx, rec.ChanID, rec.StartTime, recordings.FlagFailed); dbErr != nil {
			s.logger.Warn("failed to mark recording failed", "error", dbErr)
		}
	}
	if s.opts.JobID != 0 {
		if dbErr := s.store.SetJobStatus(ctx, s.opts.JobID, recordings.JobErrored, comment); dbErr != nil {
			s.logger.Warn("failed to mark job errored", "error", dbErr)
		}
	}
	title := ""
	if rec != nil {
		title = rec.DisplayTitle()
	}
	if notifyErr := s.notifier.NotifySessionFailed(ctx, title, err); notifyErr != nil {
		s.logger.Warn("failure notification failed", "error", notifyErr)
	}
	return err
}

// linger holds the process open briefly after the final update so the
// backend finishes consuming it before the connection drops.
func (s *Session) linger(ctx context.Context) {
	seconds := s.cfg.Backend.LingerSeconds
	if seconds <= 0 {
		return
	}
	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-ctx.Done():
	}
}
