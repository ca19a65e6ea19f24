package llm

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/bimmerbailey/logsift/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "ollama provider",
			cfg: &config.Config{
				LLM: config.LLMConfig{
					Provider: "ollama",
					Ollama:   config.OllamaConfig{Host: "http://localhost:11434", Model: "llama3.2"},
				},
			},
		},
		{
			name: "empty provider defaults to ollama",
			cfg: &config.Config{
				LLM: config.LLMConfig{
					Ollama: config.OllamaConfig{Host: "http://localhost:11434"},
				},
			},
		},
		{
			name: "unknown provider",
			cfg: &config.Config{
				LLM: config.LLMConfig{Provider: "gpt-next"},
			},
			expectError: true,
			errorMsg:    "unknown llm provider",
		},
		{
			name:        "nil config",
			cfg:         nil,
			expectError: true,
			errorMsg:    "config cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg, testLogger())
			if tt.expectError {
				if err == nil {
					t.Fatal("NewProvider() returned nil error")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error = %v, want containing %q", err, tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if provider == nil {
				t.Fatal("NewProvider() returned nil provider")
			}
		})
	}
}

func TestNewProviderNilLogger(t *testing.T) {
	if _, err := NewProvider(&config.Config{}, nil); err == nil {
		t.Error("NewProvider() with nil logger returned nil error")
	}
}
