package services_test

import (
	"errors"
	"testing"

	"github.com/graag/mythcommflag-silence/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exec: not found")
	err := services.Wrap(services.ErrExternalTool, "pipeline", "start", "ffmpeg stage", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	want := "external tool error: pipeline: start: ffmpeg stage: exec: not found"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "backend", "emit", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	if services.IsFatal(nil) {
		t.Fatal("nil is not fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrTransient, "backend", "emit", "", nil)) {
		t.Fatal("transient failures are not fatal")
	}
	if !services.IsFatal(services.Wrap(services.ErrConfiguration, "preset", "compile", "", nil)) {
		t.Fatal("configuration failures are fatal")
	}
}
