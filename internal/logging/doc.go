// Package logging builds the slog loggers used across commflag.
//
// Two output formats are supported: a compact console format
// ("ts LEVEL component: msg key=value") and standard JSON. Output goes
// to stdout and, when a log directory is configured, to a session log
// file as well. Subsystems label themselves with a "component"
// attribute which the console handler folds into the message prefix.
package logging
