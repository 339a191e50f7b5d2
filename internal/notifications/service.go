package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/graag/mythcommflag-silence/internal/config"
)

const userAgent = "commflag/0.1.0"

// Service defines the notification surface exposed to flagging sessions.
type Service interface {
	NotifySessionCompleted(ctx context.Context, title string, breaks int) error
	NotifySessionFailed(ctx context.Context, title string, reason error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySessionCompleted(ctx context.Context, title string, breaks int) error {
	title = strings.TrimSpace(title)
	noun := "adverts"
	if breaks == 1 {
		noun = "advert"
	}
	data := payload{
		title:   "Commflag - Complete",
		message: fmt.Sprintf("Flagged %s: %d %s detected", title, breaks, noun),
		tags:    []string{"commflag", "flag", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionFailed(ctx context.Context, title string, reason error) error {
	var builder strings.Builder
	builder.WriteString("Flagging failed")
	if title = strings.TrimSpace(title); title != "" {
		builder.WriteString(" for ")
		builder.WriteString(title)
	}
	builder.WriteString(": ")
	if reason != nil {
		builder.WriteString(strings.TrimSpace(reason.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Commflag - Error",
		message:  builder.String(),
		tags:     []string{"commflag", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Commflag - Test",
		message:  "Notification system test",
		tags:     []string{"commflag", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySessionCompleted(context.Context, string, int) error { return nil }
func (noopService) NotifySessionFailed(context.Context, string, error) error  { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
