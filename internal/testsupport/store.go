package testsupport

import (
	"context"
	"testing"

	"github.com/graag/mythcommflag-silence/internal/config"
	"github.com/graag/mythcommflag-silence/internal/recordings"
)

// OpenStore opens a recordings.Store on a fresh test config and registers
// cleanup.
func OpenStore(t testing.TB, opts ...ConfigOption) *recordings.Store {
	t.Helper()
	return MustOpenStore(t, NewConfig(t, opts...))
}

// MustOpenStore opens a recordings.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *recordings.Store {
	t.Helper()

	store, err := recordings.Open(cfg)
	if err != nil {
		t.Fatalf("recordings.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedRecording inserts a recording row for tests using the provided store.
func SeedRecording(t testing.TB, store *recordings.Store, rec *recordings.Recording) {
	t.Helper()

	if err := store.InsertRecording(context.Background(), rec); err != nil {
		t.Fatalf("store.InsertRecording: %v", err)
	}
}
