package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/graag/mythcommflag-silence/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RecordingsDir = filepath.Join(base, "recordings")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DBPath = filepath.Join(base, "commflag.db")
	cfgVal.Backend.Host = "127.0.0.1"
	cfgVal.Backend.LingerSeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPresetFile sets the preset rules file on the test config.
func WithPresetFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.PresetFile = path
	}
}

// WithNtfyTopic enables push notifications on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithBackendPort points the backend client at a specific port, usually
// one claimed by an in-process fake backend.
func WithBackendPort(port int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Backend.Port = port
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
