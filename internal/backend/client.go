package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	protoVersion = "91"
	protoToken   = "BuzzOff"

	// tokenSeparator joins fields in multi-part backend payloads.
	tokenSeparator = "[]:[]"

	lengthFieldSize = 8
)

// Client is a connection to the MythTV backend command port. The
// connection is established lazily on the first Send and kept open so
// repeated player updates reuse the announced session. Client is safe
// for use from a single goroutine, matching the session control loop.
type Client struct {
	addr    string
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

// NewClient constructs a backend client for the given host:port address.
func NewClient(addr string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		logger:  logger.With("component", "backend"),
	}
}

// Send transmits a single backend command and returns the response
// payload. The connection is dialed and announced on first use.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(ctx); err != nil {
			return "", err
		}
	}

	response, err := c.roundTripLocked(ctx, command)
	if err != nil {
		c.dropLocked()
		return "", err
	}
	return response, nil
}

// Close announces the end of the session and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	_ = c.writeFrameLocked(context.Background(), "DONE")
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connectLocked(ctx context.Context) error {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("dial backend %s: %w", c.addr, err)
	}
	c.conn = conn

	response, err := c.roundTripLocked(ctx, fmt.Sprintf("MYTH_PROTO_VERSION %s %s", protoVersion, protoToken))
	if err != nil {
		c.dropLocked()
		return fmt.Errorf("protocol handshake: %w", err)
	}
	if fields := strings.Split(response, tokenSeparator); fields[0] != "ACCEPT" {
		c.dropLocked()
		return fmt.Errorf("protocol handshake: backend responded %q, want ACCEPT %s", response, protoVersion)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "commflag"
	}
	response, err = c.roundTripLocked(ctx, fmt.Sprintf("ANN Monitor %s 0", hostname))
	if err != nil {
		c.dropLocked()
		return fmt.Errorf("announce monitor: %w", err)
	}
	if response != "OK" {
		c.dropLocked()
		return fmt.Errorf("announce monitor: backend responded %q", response)
	}

	c.logger.Debug("connected to backend", "addr", c.addr, "proto", protoVersion)
	return nil
}

func (c *Client) roundTripLocked(ctx context.Context, command string) (string, error) {
	if err := c.writeFrameLocked(ctx, command); err != nil {
		return "", err
	}
	return c.readFrameLocked(ctx)
}

func (c *Client) writeFrameLocked(ctx context.Context, payload string) error {
	if err := c.setDeadline(ctx); err != nil {
		return err
	}
	frame := fmt.Sprintf("%-*d%s", lengthFieldSize, len(payload), payload)
	if _, err := io.WriteString(c.conn, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (c *Client) readFrameLocked(ctx context.Context) (string, error) {
	if err := c.setDeadline(ctx); err != nil {
		return "", err
	}
	header := make([]byte, lengthFieldSize)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return "", fmt.Errorf("read frame header: %w", err)
	}
	length, err := strconv.Atoi(strings.TrimSpace(string(header)))
	if err != nil || length < 0 {
		return "", fmt.Errorf("malformed frame header %q", string(header))
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return "", fmt.Errorf("read frame payload: %w", err)
	}
	return string(payload), nil
}

func (c *Client) setDeadline(ctx context.Context) error {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	return nil
}

func (c *Client) dropLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
