package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/graag/mythcommflag-silence/internal/config"
	"github.com/graag/mythcommflag-silence/internal/services"
)

var commandContext = exec.CommandContext

// Pipeline is the running three-stage process chain. It is created by
// Start and torn down by Wait or Close.
type Pipeline struct {
	tail    *exec.Cmd
	ffmpeg  *exec.Cmd
	silence *exec.Cmd
	output  io.ReadCloser
	logger  *slog.Logger
}

// Start launches the tail, transcoder, and analyzer stages and wires
// their pipes. The analyzer is invoked with the tail stage's PID
// followed by the preset arguments in canonical order, so the recording
// subsystem can signal end-of-recording by terminating the tail
// process directly.
//
// Any stage failing to launch is fatal: previously started stages are
// killed and an error is returned; no partial pipeline keeps running.
func Start(ctx context.Context, cfg config.Pipeline, inputPath string, presetArgs []string, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "pipeline")

	tail := commandContext(ctx, cfg.TailBinary, "--follow", "--bytes=+1", inputPath)
	tailOut, err := tail.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "tail", "stdout pipe", err)
	}
	if err := tail.Start(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "tail", "start", err)
	}

	ffmpeg := commandContext(ctx, cfg.FFmpegBinary,
		"-loglevel", "quiet",
		"-i", "pipe:0",
		"-f", "au",
		"-ac", strconv.Itoa(cfg.Channels),
		"-")
	ffmpeg.Stdin = tailOut
	ffmpegOut, err := ffmpeg.StdoutPipe()
	if err != nil {
		killProcess(tail)
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "transcoder", "stdout pipe", err)
	}
	if err := ffmpeg.Start(); err != nil {
		killProcess(tail)
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "transcoder", "start", err)
	}

	analyzerArgs := append([]string{strconv.Itoa(tail.Process.Pid)}, presetArgs...)
	silence := commandContext(ctx, cfg.SilenceBinary, analyzerArgs...)
	silence.Stdin = ffmpegOut
	output, err := silence.StdoutPipe()
	if err != nil {
		killProcess(ffmpeg)
		killProcess(tail)
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "analyzer", "stdout pipe", err)
	}
	if err := silence.Start(); err != nil {
		killProcess(ffmpeg)
		killProcess(tail)
		return nil, services.Wrap(services.ErrExternalTool, "pipeline", "analyzer", "start", err)
	}

	logger.Debug("pipeline started",
		"input", inputPath,
		"feeder_pid", tail.Process.Pid,
		"channels", cfg.Channels)

	return &Pipeline{
		tail:    tail,
		ffmpeg:  ffmpeg,
		silence: silence,
		output:  output,
		logger:  logger,
	}, nil
}

// Output returns the analyzer's stdout stream, the only stream the
// session reads.
func (p *Pipeline) Output() io.Reader {
	return p.output
}

// FeederPID returns the PID of the tail stage so an external actor can
// terminate the feed when the recording is complete.
func (p *Pipeline) FeederPID() int {
	return p.tail.Process.Pid
}

// TerminateFeed stops the tail stage. End-of-stream then propagates
// through the pipe chain naturally.
func (p *Pipeline) TerminateFeed() error {
	if err := unix.Kill(p.tail.Process.Pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("terminate feed: %w", err)
	}
	return nil
}

// Wait reaps all three stages after the analyzer output has drained.
// The tail stage is expected to die from an external signal; signal
// terminations are not reported as errors.
func (p *Pipeline) Wait() error {
	var firstErr error
	for _, stage := range []struct {
		name string
		cmd  *exec.Cmd
	}{
		{"analyzer", p.silence},
		{"transcoder", p.ffmpeg},
		{"tail", p.tail},
	} {
		err := stage.cmd.Wait()
		if err == nil || signalTerminated(err) {
			continue
		}
		p.logger.Warn("pipeline stage exited abnormally", "stage", stage.name, "error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", stage.name, err)
		}
	}
	return firstErr
}

// Close forcibly tears the chain down. Used on abort paths only; a
// normal session ends by the feed terminating upstream.
func (p *Pipeline) Close() {
	killProcess(p.silence)
	killProcess(p.ffmpeg)
	killProcess(p.tail)
}

func killProcess(cmd *exec.Cmd) {
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
}

func signalTerminated(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == -1
}
