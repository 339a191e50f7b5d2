package backend_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/graag/mythcommflag-silence/internal/backend"
	"github.com/graag/mythcommflag-silence/internal/markup"
	"github.com/graag/mythcommflag-silence/internal/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBackend speaks just enough of the backend protocol for tests:
// it accepts the version handshake and the monitor announcement, then
// records MESSAGE commands.
type fakeBackend struct {
	listener net.Listener

	mu       sync.Mutex
	messages []string
	reply    string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	fb := &fakeBackend{listener: listener, reply: "OK"}
	go fb.serve()
	t.Cleanup(func() { _ = listener.Close() })
	return fb
}

func (fb *fakeBackend) addr() string { return fb.listener.Addr().String() }

func (fb *fakeBackend) setReply(reply string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.reply = reply
}

func (fb *fakeBackend) received() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]string, len(fb.messages))
	copy(out, fb.messages)
	return out
}

func (fb *fakeBackend) serve() {
	for {
		conn, err := fb.listener.Accept()
		if err != nil {
			return
		}
		go fb.handle(conn)
	}
}

func (fb *fakeBackend) handle(conn net.Conn) {
	defer conn.Close()
	for {
		payload, err := readFrame(conn)
		if err != nil {
			return
		}
		switch {
		case strings.HasPrefix(payload, "MYTH_PROTO_VERSION"):
			writeFrame(conn, "ACCEPT[]:[]91")
		case strings.HasPrefix(payload, "ANN "):
			writeFrame(conn, "OK")
		case strings.HasPrefix(payload, "MESSAGE[]:[]"):
			fb.mu.Lock()
			fb.messages = append(fb.messages, payload)
			reply := fb.reply
			fb.mu.Unlock()
			writeFrame(conn, reply)
		case payload == "DONE":
			return
		default:
			writeFrame(conn, "UNKNOWN_COMMAND")
		}
	}
}

func readFrame(conn net.Conn) (string, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(conn, header); err != nil {
		return "", err
	}
	length, err := strconv.Atoi(strings.TrimSpace(string(header)))
	if err != nil {
		return "", err
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return "", err
	}
	return string(payload), nil
}

func writeFrame(conn net.Conn, payload string) {
	_, _ = fmt.Fprintf(conn, "%-8d%s", len(payload), payload)
}

func TestClientHandshakesAndSends(t *testing.T) {
	fb := newFakeBackend(t)
	client := backend.NewClient(fb.addr(), 5*time.Second, discardLogger())
	defer client.Close()

	response, err := client.Send(context.Background(), "MESSAGE[]:[]COMMFLAG_UPDATE 1002_2026-08-23T20:00:00 100:4,250:5")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if response != "OK" {
		t.Fatalf("response = %q, want OK", response)
	}

	got := fb.received()
	if len(got) != 1 {
		t.Fatalf("backend saw %d messages, want 1", len(got))
	}
	if !strings.Contains(got[0], "COMMFLAG_UPDATE 1002_2026-08-23T20:00:00") {
		t.Fatalf("unexpected message %q", got[0])
	}
}

func TestClientReusesConnection(t *testing.T) {
	fb := newFakeBackend(t)
	client := backend.NewClient(fb.addr(), 5*time.Second, discardLogger())
	defer client.Close()

	for i := 0; i < 3; i++ {
		if _, err := client.Send(context.Background(), "MESSAGE[]:[]ping"); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if len(fb.received()) != 3 {
		t.Fatalf("backend saw %d messages, want 3", len(fb.received()))
	}
}

func TestClientDialFailure(t *testing.T) {
	client := backend.NewClient("127.0.0.1:1", time.Second, discardLogger())
	if _, err := client.Send(context.Background(), "MESSAGE[]:[]ping"); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestUpdateMessageFormat(t *testing.T) {
	marks := []markup.Mark{
		{Start: 100, End: 250},
		{Start: 400, End: 500},
		{Start: 900, End: 950},
	}
	got := backend.UpdateMessage("1002_2026-08-23T20:00:00", marks)
	want := "COMMFLAG_UPDATE 1002_2026-08-23T20:00:00 100:4,250:5,400:4,500:5,900:4,950:5"
	if got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestEmitterSendsFullSkipList(t *testing.T) {
	fb := newFakeBackend(t)
	client := backend.NewClient(fb.addr(), 5*time.Second, discardLogger())
	defer client.Close()

	emitter := backend.NewEmitter(client, discardLogger())
	var list markup.SkipList
	list.Append(markup.Mark{Start: 100, End: 250})
	list.Append(markup.Mark{Start: 400, End: 500})

	if err := emitter.Emit(context.Background(), "1002_2026-08-23T20:00:00", &list); err != nil {
		t.Fatalf("emit: %v", err)
	}

	got := fb.received()
	want := "MESSAGE[]:[]COMMFLAG_UPDATE 1002_2026-08-23T20:00:00 100:4,250:5,400:4,500:5"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("backend saw %q, want %q", got, want)
	}
}

func TestEmitterRejectionIsTransient(t *testing.T) {
	fb := newFakeBackend(t)
	fb.setReply("ERROR")
	client := backend.NewClient(fb.addr(), 5*time.Second, discardLogger())
	defer client.Close()

	emitter := backend.NewEmitter(client, discardLogger())
	var list markup.SkipList
	list.Append(markup.Mark{Start: 1, End: 2})

	err := emitter.Emit(context.Background(), "1002_x", &list)
	if err == nil {
		t.Fatal("expected error for rejected message")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("rejection must be transient, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("notification failures must never be fatal")
	}
}
