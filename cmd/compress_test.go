package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func writeTempFile(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func newCompressTestCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "compress"}
	cmd.SetOut(out)
	cmd.Flags().Bool("follow", false, "")
	cmd.Flags().Bool("follow-rotate", false, "")
	cmd.Flags().String("interval", "5s", "")
	return cmd
}

func resetTestConfig() {
	viper.Reset()
	viper.Set("format", "summary")
	viper.Set("max_templates", 50)
}

func TestCompressSummary(t *testing.T) {
	resetTestConfig()

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", []string{
		"Connection from 192.168.1.1 established",
		"Connection from 192.168.1.2 established",
		"Connection from 10.0.0.1 established",
		"ERROR upstream timeout",
	})

	var out bytes.Buffer
	cmd := newCompressTestCmd(&out)

	if err := runCompress(cmd, []string{file}); err != nil {
		t.Fatalf("runCompress() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "=== Log Compression Summary ===") {
		t.Errorf("missing summary title:\n%s", got)
	}
	if !strings.Contains(got, "[3x] Connection from <*> established") {
		t.Errorf("missing merged template:\n%s", got)
	}
}

func TestCompressJSON(t *testing.T) {
	resetTestConfig()
	viper.Set("format", "json")

	dir := t.TempDir()
	file := writeTempFile(t, dir, "app.log", []string{
		"worker started",
		"worker started",
	})

	var out bytes.Buffer
	cmd := newCompressTestCmd(&out)

	if err := runCompress(cmd, []string{file}); err != nil {
		t.Fatalf("runCompress() error = %v", err)
	}

	var payload struct {
		Version   string `json:"version"`
		Templates []struct {
			Pattern     string `json:"pattern"`
			Occurrences int    `json:"occurrences"`
		} `json:"templates"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if payload.Version != "1.1" {
		t.Errorf("version = %q, want 1.1", payload.Version)
	}
	if len(payload.Templates) != 1 || payload.Templates[0].Occurrences != 2 {
		t.Errorf("templates = %+v", payload.Templates)
	}
}

func TestCompressStdin(t *testing.T) {
	resetTestConfig()

	var out bytes.Buffer
	cmd := newCompressTestCmd(&out)
	cmd.SetIn(strings.NewReader("alpha ready\nalpha ready\n"))

	if err := runCompress(cmd, nil); err != nil {
		t.Fatalf("runCompress() error = %v", err)
	}
	if !strings.Contains(out.String(), "[2x] alpha ready") {
		t.Errorf("stdin lines not compressed:\n%s", out.String())
	}
}

func TestCompressMissingFile(t *testing.T) {
	resetTestConfig()

	var out bytes.Buffer
	cmd := newCompressTestCmd(&out)
	if err := runCompress(cmd, []string{filepath.Join(t.TempDir(), "absent.log")}); err == nil {
		t.Error("runCompress() on missing file returned nil error")
	}
}

func TestCompressFollowRequiresSingleFile(t *testing.T) {
	resetTestConfig()

	var out bytes.Buffer
	cmd := newCompressTestCmd(&out)
	if err := cmd.Flags().Set("follow", "true"); err != nil {
		t.Fatal(err)
	}
	if err := runCompress(cmd, []string{"a.log", "b.log"}); err == nil {
		t.Error("runCompress() with --follow and two files returned nil error")
	}
}
