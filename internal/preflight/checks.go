package preflight

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"github.com/graag/mythcommflag-silence/internal/config"
)

// CheckDirectoryReadable verifies that the directory exists and can be
// listed. Recordings are read in place, so no write access is required.
func CheckDirectoryReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckDirectoryWritable verifies that the directory exists, creating it
// when missing, and that it is readable and writable.
func CheckDirectoryWritable(name, path string) Result {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: create: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that a named external tool resolves on PATH or at
// its configured absolute location.
func CheckBinary(name, command string) Result {
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not found)", command)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckBinaries evaluates the external process chain requirements.
func CheckBinaries(cfg *config.Config) []Result {
	return []Result{
		CheckBinary("tail", cfg.Pipeline.TailBinary),
		CheckBinary("ffmpeg", cfg.Pipeline.FFmpegBinary),
		CheckBinary("silence detector", cfg.Pipeline.SilenceBinary),
	}
}

// CheckBackend verifies that the MythTV backend accepts TCP connections.
// It does not complete the protocol handshake; reachability is enough to
// distinguish a stopped backend from a wrong address.
func CheckBackend(ctx context.Context, addr string) Result {
	const name = "MythTV backend"

	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", addr, err)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: addr}
}

// RecordingReadable reports whether the recording file exists and is
// readable by the current user.
func RecordingReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	return nil
}
