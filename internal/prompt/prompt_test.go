package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bimmerbailey/logsift/internal/prompt"
)

const testSummary = `=== Log Compression Summary ===
100 lines compressed into 2 templates (95.0% estimated token reduction)

1. [80x] Connection from <*> established
2. [20x] ERROR dial tcp <*> refused`

func TestBuildRequiresSummary(t *testing.T) {
	for _, pt := range []prompt.PromptType{prompt.TypeSummarize, prompt.TypeRootCause} {
		t.Run(string(pt), func(t *testing.T) {
			_, err := prompt.Build(pt, prompt.BuildOptions{})
			if !errors.Is(err, prompt.ErrMissingField) {
				t.Errorf("expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestBuildMessageStructure(t *testing.T) {
	messages, err := prompt.Build(prompt.TypeSummarize, prompt.BuildOptions{
		Summary: testSummary,
		Files:   []string{"/var/log/app.log"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != "system" || messages[1].Role != "user" {
		t.Errorf("roles = %q, %q, want system, user", messages[0].Role, messages[1].Role)
	}
	if !strings.Contains(messages[1].Content, testSummary) {
		t.Error("user message missing the summary")
	}
	if !strings.Contains(messages[1].Content, "/var/log/app.log") {
		t.Error("user message missing the source files")
	}
}

func TestBuildRootCausePersona(t *testing.T) {
	messages, err := prompt.Build(prompt.TypeRootCause, prompt.BuildOptions{Summary: testSummary})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(messages[0].Content, "root cause") {
		t.Errorf("system prompt does not select the root-cause persona")
	}
}
