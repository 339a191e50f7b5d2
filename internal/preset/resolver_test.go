package preset_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/graag/mythcommflag-silence/internal/preset"
	"github.com/graag/mythcommflag-silence/internal/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePresetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset file: %v", err)
	}
	return path
}

func TestResolveWithoutInputKeepsDefaults(t *testing.T) {
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", "", preset.MatchKey{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store != preset.Defaults() {
		t.Fatalf("expected defaults, got %+v", store.Params())
	}
}

func TestResolveOverridePositional(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     []float64
	}{
		{
			name:     "all six",
			override: "-60, 0.2, 5, 100, 90, 0.3",
			want:     []float64{-60, 0.2, 5, 100, 90, 0.3},
		},
		{
			name:     "first two only",
			override: "-60,0.2",
			want:     []float64{-60, 0.2, 6, 120, 120, 0.48},
		},
		{
			name:     "extra fields ignored",
			override: "-60,0.2,5,100,90,0.3,999,888",
			want:     []float64{-60, 0.2, 5, 100, 90, 0.3},
		},
		{
			name:     "empty and invalid fields keep defaults",
			override: ",bogus,5,,1e999,0.3",
			want:     []float64{-75, 0.16, 5, 120, 120, 0.3},
		},
		{
			name:     "defaults round trip",
			override: "-75,0.16,6,120,120,0.48",
			want:     []float64{-75, 0.16, 6, 120, 120, 0.48},
		},
	}

	r := preset.NewResolver(discardLogger())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := r.Resolve(tc.override, "", preset.MatchKey{})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			for i, want := range tc.want {
				if got := store.Value(i); got != want {
					t.Fatalf("param %d = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestResolveOverrideDefaultsRoundTripEqualsDefaults(t *testing.T) {
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("-75,0.16,6,120,120,0.48", "", preset.MatchKey{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store != preset.Defaults() {
		t.Fatalf("expected store identical to defaults, got %+v", store.Params())
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := preset.NewResolver(discardLogger())
	first, err := r.Resolve("-60,0.2,5", "", preset.MatchKey{})
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := r.Resolve("-60,0.2,5", "", preset.MatchKey{})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first != second {
		t.Fatal("resolving the same override twice must yield identical stores")
	}
}

func TestResolveFileFirstMatchWins(t *testing.T) {
	path := writePresetFile(t, `# comment line

^News,-70,0.2,,,,
^News,-99,9,9,9,9,9
`)
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", path, preset.MatchKey{Title: "News at Ten", Callsign: "BBC1"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := store.Value(preset.ParamThresh); got != -70 {
		t.Fatalf("thresh = %v, want -70", got)
	}
	if got := store.Value(preset.ParamMinQuiet); got != 0.2 {
		t.Fatalf("minquiet = %v, want 0.2", got)
	}
	if got := store.Value(preset.ParamMinDetect); got != 6 {
		t.Fatalf("mindetect = %v, want default 6", got)
	}
}

func TestResolveFileEmptyFieldsKeepDefaults(t *testing.T) {
	path := writePresetFile(t, "^News,-70,,,,,\n")
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", path, preset.MatchKey{Title: "News at Ten"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []float64{-70, 0.16, 6, 120, 120, 0.48}
	for i, w := range want {
		if got := store.Value(i); got != w {
			t.Fatalf("param %d = %v, want %v", i, got, w)
		}
	}
}

func TestResolveFileMatchesCallsignCaseInsensitive(t *testing.T) {
	path := writePresetFile(t, "^bbc,-65,,,,,\n")
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", path, preset.MatchKey{Title: "Weather", Callsign: "BBC One"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := store.Value(preset.ParamThresh); got != -65 {
		t.Fatalf("thresh = %v, want -65", got)
	}
}

func TestResolveFilePatternIsPrefixAnchored(t *testing.T) {
	path := writePresetFile(t, "News,-70,,,,,\n")
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", path, preset.MatchKey{Title: "Evening News"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store != preset.Defaults() {
		t.Fatal("pattern matching mid-string must not apply the preset")
	}
}

func TestResolveFileNoMatchKeepsDefaults(t *testing.T) {
	path := writePresetFile(t, "^Sport,-70,,,,,\n")
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", path, preset.MatchKey{Title: "News", Callsign: "BBC1"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if store != preset.Defaults() {
		t.Fatal("expected defaults when no entry matches")
	}
}

func TestResolveFileUnreadableIsNotFatal(t *testing.T) {
	r := preset.NewResolver(discardLogger())
	store, err := r.Resolve("", filepath.Join(t.TempDir(), "missing"), preset.MatchKey{Title: "News"})
	if err != nil {
		t.Fatalf("unreadable file must not be fatal, got %v", err)
	}
	if store != preset.Defaults() {
		t.Fatal("expected defaults for unreadable preset file")
	}
}

func TestResolveFileMalformedPatternIsFatal(t *testing.T) {
	path := writePresetFile(t, "[unclosed,-70,,,,,\n")
	r := preset.NewResolver(discardLogger())
	_, err := r.Resolve("", path, preset.MatchKey{Title: "News"})
	if err == nil {
		t.Fatal("expected fatal error for malformed pattern")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestArgsStringifyCanonicalOrder(t *testing.T) {
	args := preset.Defaults().Args()
	want := []string{"-75", "0.16", "6", "120", "120", "0.48"}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(args))
	}
	for i, w := range want {
		if args[i] != w {
			t.Fatalf("arg %d = %q, want %q", i, args[i], w)
		}
	}
}
