package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/graag/mythcommflag-silence/internal/markup"
	"github.com/graag/mythcommflag-silence/internal/services"
)

// successToken is the backend's acknowledgement for a delivered message.
const successToken = "OK"

// Sender delivers a raw backend command and returns its response.
type Sender interface {
	Send(ctx context.Context, command string) (string, error)
}

// Emitter serializes the current skip list into a COMMFLAG_UPDATE
// player message and delivers it through a Sender.
type Emitter struct {
	sender Sender
	logger *slog.Logger
}

// NewEmitter constructs an Emitter.
func NewEmitter(sender Sender, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{sender: sender, logger: logger.With("component", "backend")}
}

// Emit sends the entire current skip list for the given program. A
// failed or rejected delivery is logged with the response and the
// message and reported as a transient error; callers continue the
// session regardless, since the next successful emit supersedes it.
func (e *Emitter) Emit(ctx context.Context, progID string, list *markup.SkipList) error {
	message := UpdateMessage(progID, list.Marks())
	command := "MESSAGE" + tokenSeparator + message

	response, err := e.sender.Send(ctx, command)
	if err != nil {
		e.logger.Error("backend message failed", "error", err, "message", command)
		return services.Wrap(services.ErrTransient, "backend", "emit", "send player update", err)
	}
	if response != successToken {
		e.logger.Error("backend message rejected", "response", response, "message", command)
		return services.Wrap(services.ErrTransient, "backend", "emit",
			fmt.Sprintf("backend responded %q", response), nil)
	}
	return nil
}

// UpdateMessage renders the player update wire format: the program
// identifier followed by every break boundary as offset:markcode pairs
// in arrival order.
func UpdateMessage(progID string, marks []markup.Mark) string {
	var pairs strings.Builder
	for i, mark := range marks {
		if i > 0 {
			pairs.WriteByte(',')
		}
		fmt.Fprintf(&pairs, "%d:%d,%d:%d", mark.Start, markup.MarkCommStart, mark.End, markup.MarkCommEnd)
	}
	return fmt.Sprintf("COMMFLAG_UPDATE %s %s", progID, pairs.String())
}
