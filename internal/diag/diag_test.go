package diag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_NoOutputs(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	// no outputs configured, must not panic
	logger.Info("dropped")
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	logger := New(Config{Level: "debug", File: FileConfig{Path: path}})

	logger.Info("written to file")
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"notice":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
