package preflight

import (
	"context"

	"github.com/graag/mythcommflag-silence/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryReadable("Recordings directory", cfg.Paths.RecordingsDir))
	results = append(results, CheckDirectoryWritable("Log directory", cfg.Paths.LogDir))

	results = append(results, CheckBinaries(cfg)...)

	results = append(results, CheckBackend(ctx, cfg.BackendAddr()))

	return results
}

// Healthy reports whether every check in the slice passed.
func Healthy(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
