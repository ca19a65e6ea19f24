package tail

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// Helper function to create a temporary log file
func createTempLogFile(t *testing.T, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return filePath
}

// Helper function to collect output lines (thread-safe)
func collectingOutputFunc() (func(string) error, func() []string) {
	var mu sync.Mutex
	var lines []string

	outputFunc := func(line string) error {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
		return nil
	}

	getLines := func() []string {
		mu.Lock()
		defer mu.Unlock()
		result := make([]string, len(lines))
		copy(result, lines)
		return result
	}

	return outputFunc, getLines
}

func TestTailerReadFromStart(t *testing.T) {
	filePath := createTempLogFile(t, "line one\nline two\nline three\n")
	outputFunc, getLines := collectingOutputFunc()

	tailer := New(Options{
		FilePath:   filePath,
		FromStart:  true,
		OutputFunc: outputFunc,
	})

	if err := tailer.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := getLines()
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "line one" || lines[2] != "line three" {
		t.Errorf("lines out of order: %v", lines)
	}
}

func TestTailerMissingFile(t *testing.T) {
	tailer := New(Options{
		FilePath:   filepath.Join(t.TempDir(), "absent.log"),
		OutputFunc: func(string) error { return nil },
	})
	if err := tailer.Run(context.Background()); err == nil {
		t.Error("Run() on missing file returned nil error")
	}
}

func TestTailerFollowAppends(t *testing.T) {
	filePath := createTempLogFile(t, "existing\n")
	outputFunc, getLines := collectingOutputFunc()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tailer := New(Options{
		FilePath:   filePath,
		Follow:     true,
		OutputFunc: outputFunc,
	})

	done := make(chan error, 1)
	go func() { done <- tailer.Run(ctx) }()

	// Give the watcher a moment, then append.
	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if _, err := f.WriteString("appended line\n"); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	f.Close()

	deadline := time.After(2 * time.Second)
	for {
		lines := getLines()
		if len(lines) > 0 {
			if lines[0] != "appended line" {
				t.Errorf("lines = %v, want appended line first (existing content skipped)", lines)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for appended line")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
