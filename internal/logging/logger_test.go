package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestSetup(t *testing.T) {
	tmpDir := t.TempDir()

	closer, err := Setup("info", tmpDir)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer closer.Close()

	expectedFile := filepath.Join(tmpDir, "balanceapi-"+time.Now().Format("2006-01-02")+".log")
	if _, err := os.Stat(expectedFile); os.IsNotExist(err) {
		t.Errorf("expected log file %q to exist", expectedFile)
	}
}

func TestSetupInvalidLevel(t *testing.T) {
	closer, err := Setup("invalid", t.TempDir())
	if closer != nil {
		defer closer.Close()
	}
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"DEBUG", slog.LevelDebug, false},
		{"invalid", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanOldLogs(t *testing.T) {
	tmpDir := t.TempDir()

	old := filepath.Join(tmpDir, "balanceapi-2020-01-01.log")
	fresh := filepath.Join(tmpDir, LogFileName(time.Now()))
	foreign := filepath.Join(tmpDir, "other-2020-01-01.log")

	for _, f := range []string{old, fresh, foreign} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%q) error = %v", f, err)
		}
	}

	past := time.Now().AddDate(0, 0, -60)
	for _, f := range []string{old, foreign} {
		if err := os.Chtimes(f, past, past); err != nil {
			t.Fatalf("Chtimes(%q) error = %v", f, err)
		}
	}

	removed := CleanOldLogs(tmpDir, 30)
	if removed != 1 {
		t.Errorf("CleanOldLogs() removed = %d, want 1", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("expected %q to be removed", old)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("expected %q to be kept: %v", fresh, err)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("expected foreign file %q to be kept: %v", foreign, err)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() returned nil without request ID")
	}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	if FromContext(ctx) == nil {
		t.Fatal("FromContext() returned nil with request ID")
	}
}
