package launcher

import (
	"log/slog"
	"testing"
)

func TestLaunchEmptyCommand(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))

	if err := l.Launch(""); err == nil {
		t.Fatal("expected error for empty command")
	}
	if err := l.Launch("   "); err == nil {
		t.Fatal("expected error for blank command")
	}
}

func TestLaunchMissingBinary(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))

	err := l.Launch("docktile-test-no-such-binary-a8f3")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestLaunchStartsProcess(t *testing.T) {
	l := New(slog.New(slog.DiscardHandler))

	if err := l.Launch("true"); err != nil {
		t.Fatalf("expected launch of 'true' to succeed, got %v", err)
	}
}
