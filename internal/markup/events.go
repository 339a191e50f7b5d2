package markup

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Event is the closed set of analyzer line classifications. Exactly one
// of CutEvent, LogEvent, or UnrecognizedEvent is produced per line.
type Event interface {
	event()
}

// CutEvent reports a detected commercial break interval. Offsets are in
// the analyzer's own units (frames) and are never converted here.
type CutEvent struct {
	Mark Mark
	// Raw is the payload as received, kept for informational logging.
	Raw string
}

// LogEvent forwards an analyzer diagnostic at a mapped severity.
type LogEvent struct {
	Level   slog.Level
	Message string
}

// UnrecognizedEvent captures protocol drift: an unknown tag, a line
// without a separator, or a cut payload that does not carry a usable
// interval.
type UnrecognizedEvent struct {
	Tag string
}

func (CutEvent) event()          {}
func (LogEvent) event()          {}
func (UnrecognizedEvent) event() {}

var digitRuns = regexp.MustCompile(`\d+`)

var logLevels = map[string]slog.Level{
	"info":  slog.LevelInfo,
	"debug": slog.LevelDebug,
	"err":   slog.LevelError,
}

// ParseLine classifies a single analyzer output line.
//
// The line is split on the first '@' into tag and payload. A "cut"
// payload must contain at least two runs of decimal digits; the first
// two become the break start and end offsets. Payloads without a valid
// interval, lines without '@', and unknown tags all yield an
// UnrecognizedEvent.
func ParseLine(line string) Event {
	tag, payload, found := strings.Cut(line, "@")
	if !found {
		return UnrecognizedEvent{Tag: line}
	}

	if level, ok := logLevels[tag]; ok {
		return LogEvent{Level: level, Message: payload}
	}

	if tag != "cut" {
		return UnrecognizedEvent{Tag: tag}
	}

	numbers := digitRuns.FindAllString(payload, 2)
	if len(numbers) < 2 {
		return UnrecognizedEvent{Tag: line}
	}
	start, err := strconv.ParseUint(numbers[0], 10, 64)
	if err != nil {
		return UnrecognizedEvent{Tag: line}
	}
	end, err := strconv.ParseUint(numbers[1], 10, 64)
	if err != nil || start >= end {
		return UnrecognizedEvent{Tag: line}
	}
	return CutEvent{Mark: Mark{Start: start, End: end}, Raw: payload}
}
