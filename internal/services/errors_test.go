package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"comicbatch/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExtraction, "extract", "unpack", "issue 3 unreadable", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"extraction error", "extract", "unpack", "issue 3 unreadable", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrWorkspace, "", "", "", nil)
	if got := err.Error(); got != "workspace error: pipeline failure" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestStageOfSurvivesOuterWrapping(t *testing.T) {
	inner := services.Wrap(services.ErrExport, "export", "assemble", "", errors.New("disk full"))
	outer := fmt.Errorf("run: %w", inner)

	stage, ok := services.StageOf(outer)
	if !ok || stage != "export" {
		t.Fatalf("expected export stage, got %q %v", stage, ok)
	}
	if _, ok := services.StageOf(errors.New("plain")); ok {
		t.Fatal("expected no stage on plain error")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "normalization", err: services.Wrap(services.ErrNormalization, "normalize", "", "", nil), want: services.ErrNormalization},
		{name: "configuration", err: fmt.Errorf("load: %w", services.ErrConfiguration), want: services.ErrConfiguration},
		{name: "plain", err: errors.New("plain"), want: nil},
		{name: "nil", err: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
