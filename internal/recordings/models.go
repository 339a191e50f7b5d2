package recordings

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FlagState tracks commercial flagging progress for a recording,
// using the MythTV commflagged codes.
type FlagState int

const (
	FlagNotFlagged FlagState = 0
	FlagDone       FlagState = 1
	FlagProcessing FlagState = 2
	FlagFailed     FlagState = 3
)

// JobStatus uses the MythTV job queue status codes.
type JobStatus int

const (
	JobQueued   JobStatus = 0x0001
	JobRunning  JobStatus = 0x0004
	JobFinished JobStatus = 0x0110
	JobErrored  JobStatus = 0x0130
)

// Recording is the metadata row for a single recorded program.
type Recording struct {
	ChanID      int64
	StartTime   string
	Title       string
	Subtitle    string
	Callsign    string
	Basename    string
	CommFlagged FlagState
}

// ProgID returns the composite program identifier used to address
// player update messages: chanid and the start time with the space
// separator replaced by 'T' (Qt ISODate form).
func (r *Recording) ProgID() string {
	return strconv.FormatInt(r.ChanID, 10) + "_" + strings.ReplaceAll(r.StartTime, " ", "T")
}

// DisplayTitle returns the recording title, falling back to a
// title-cased name derived from the file basename when the metadata
// carries no title.
func (r *Recording) DisplayTitle() string {
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	return deriveTitle(r.Basename)
}

func deriveTitle(basename string) string {
	if basename == "" {
		return "Unknown Recording"
	}
	base := strings.TrimSuffix(basename, filepath.Ext(basename))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Recording"
	}
	return cases.Title(language.Und).String(title)
}

// Job is a flagging job row.
type Job struct {
	ID        int64
	ChanID    int64
	StartTime string
	Status    JobStatus
	Comment   string
}
