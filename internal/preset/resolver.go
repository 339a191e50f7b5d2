package preset

import (
	"bufio"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/graag/mythcommflag-silence/internal/services"
)

// MatchKey identifies a recording for preset file matching. Patterns
// are tested against both elements.
type MatchKey struct {
	Title    string
	Callsign string
}

// Resolver merges preset layers into a Store.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a Resolver logging through the provided logger.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger.With("component", "preset")}
}

// Resolve produces the final parameter Store. When override is
// non-empty it is applied positionally; otherwise, when filePath is
// non-empty the first matching preset file entry is applied. With
// neither, defaults are returned unchanged.
//
// An unreadable preset file is logged and ignored. A malformed pattern
// in a preset file entry is a fatal configuration error: it cannot be
// evaluated safely and must not silently match everything.
func (r *Resolver) Resolve(override, filePath string, key MatchKey) (Store, error) {
	store := Defaults()
	switch {
	case strings.TrimSpace(override) != "":
		r.logger.Debug("parsing presets from override", "override", override)
		r.applyFields(&store, strings.Split(override, ","))
	case strings.TrimSpace(filePath) != "":
		if err := r.applyFile(&store, filePath, key); err != nil {
			return Defaults(), err
		}
	}
	return store, nil
}

// applyFields assigns comma-split fields to parameters positionally.
// Fields beyond the last parameter are ignored; empty or unparseable
// fields keep the value already in the store.
func (r *Resolver) applyFields(store *Store, fields []string) {
	for i, raw := range fields {
		if i >= numParams {
			break
		}
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			r.logger.Warn("preset value is invalid - will use default",
				"param", paramNames[i], "value", value)
			continue
		}
		store.values[i] = parsed
	}
}

func (r *Resolver) applyFile(store *Store, filePath string, key MatchKey) error {
	r.logger.Debug("using preset file", "file", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		r.logger.Error("preset file not readable - will use defaults",
			"file", filePath, "error", err)
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		pattern, err := compilePattern(fields[0])
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "preset",
				fmt.Sprintf("line %d", lineNo),
				fmt.Sprintf("malformed pattern %q", strings.TrimSpace(fields[0])), err)
		}

		if matchesStart(pattern, key.Title) || matchesStart(pattern, key.Callsign) {
			r.logger.Info("using preset", "entry", line)
			r.applyFields(store, fields[1:])
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Error("preset file read failed - will use defaults",
			"file", filePath, "error", err)
		return nil
	}

	r.logger.Info("no preset found", "title", key.Title, "callsign", key.Callsign)
	return nil
}

func compilePattern(raw string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + strings.TrimSpace(raw))
}

// matchesStart mirrors prefix-match semantics: the pattern must match
// at the beginning of the string, not merely somewhere inside it.
func matchesStart(pattern *regexp.Regexp, s string) bool {
	loc := pattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}
