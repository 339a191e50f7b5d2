package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const (
	checkLabelWidth = 22
	checkIndent     = "  "
)

// renderCheckLine formats one preflight check outcome. Checks are
// binary; a check either passed or it did not.
func renderCheckLine(label string, passed bool, detail string, colorize bool) string {
	state, color := "ERROR", ansiRed
	if passed {
		state, color = "OK", ansiGreen
	}
	outcome := "[" + state + "]"
	if detail != "" {
		outcome += " " + detail
	}
	line := fmt.Sprintf("%s%-*s %s", checkIndent, checkLabelWidth, label+":", outcome)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) string {
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiBlue + header + ansiReset
	}
	return header
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()))
}
