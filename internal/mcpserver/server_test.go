package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestHandleCompressLogs(t *testing.T) {
	args := CompressArgs{
		Logs: "Connection from 192.168.1.1 established\nConnection from 10.0.0.1 established\n",
	}

	result, _, err := handleCompressLogs(context.Background(), &mcp.CallToolRequest{}, args)
	if err != nil {
		t.Fatalf("handleCompressLogs() error = %v", err)
	}
	if len(result.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(result.Content))
	}

	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", result.Content[0])
	}
	if !strings.Contains(text.Text, "Connection from <*> established") {
		t.Errorf("tool output missing template:\n%s", text.Text)
	}
}

func TestHandleCompressLogsRequiresInput(t *testing.T) {
	_, _, err := handleCompressLogs(context.Background(), &mcp.CallToolRequest{}, CompressArgs{})
	if err == nil {
		t.Error("handleCompressLogs() with empty logs returned nil error")
	}
}

func TestHandleCompressLogsJSONFormat(t *testing.T) {
	args := CompressArgs{
		Logs:   "worker ready\nworker ready",
		Format: "json",
	}

	result, _, err := handleCompressLogs(context.Background(), &mcp.CallToolRequest{}, args)
	if err != nil {
		t.Fatalf("handleCompressLogs() error = %v", err)
	}
	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, `"version": "1.1"`) {
		t.Errorf("json output missing version field:\n%s", text)
	}
}

func TestNewServer(t *testing.T) {
	if server := NewServer("test"); server == nil {
		t.Fatal("NewServer() returned nil")
	}
}
