package ollama

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config with host",
			config:  Config{Host: "http://localhost:11434", Model: "llama3.2"},
			wantErr: false,
		},
		{
			name:    "empty model uses default",
			config:  Config{Host: "http://localhost:11434"},
			wantErr: false,
		},
		{
			name:    "invalid host URL",
			config:  Config{Host: "://invalid-url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := New(tt.config, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && provider == nil {
				t.Fatal("New() returned nil provider without error")
			}
			if !tt.wantErr && provider.config.Model == "" {
				t.Error("New() did not apply the default model")
			}
		})
	}
}

func TestNewNilLogger(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("New() with nil logger returned nil error")
	}
}

func TestChatEmptyMessages(t *testing.T) {
	provider, err := New(Config{Host: "http://localhost:11434"}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := provider.Chat(context.Background(), nil, nil); err == nil {
		t.Error("Chat() with no messages returned nil error")
	}
	if _, err := provider.ChatStream(context.Background(), nil, nil); err == nil {
		t.Error("ChatStream() with no messages returned nil error")
	}
}

func TestChatRequestOptions(t *testing.T) {
	provider, err := New(Config{Host: "http://localhost:11434", Model: "llama3.2"}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req := provider.chatRequest([]Message{{Role: "user", Content: "hi"}}, &ChatOptions{
		Model:       "mistral",
		Temperature: 0.5,
		MaxTokens:   128,
	}, true)

	if req.Model != "mistral" {
		t.Errorf("Model = %q, want override", req.Model)
	}
	if req.Options["num_predict"] != 128 {
		t.Errorf("num_predict = %v, want 128", req.Options["num_predict"])
	}
	if req.Stream == nil || !*req.Stream {
		t.Error("Stream not enabled")
	}

	req = provider.chatRequest([]Message{{Role: "user", Content: "hi"}}, nil, false)
	if req.Model != "llama3.2" {
		t.Errorf("Model = %q, want configured default", req.Model)
	}
	if _, ok := req.Options["num_predict"]; ok {
		t.Error("num_predict set without MaxTokens")
	}
}
