// Package mcpserver exposes the compression engine as an MCP tool over
// stdio, so agents can hand over raw log text and receive the compressed
// template view.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bimmerbailey/logsift/internal/compress"
)

const compressLogsDescription = `Compress raw log text into its message templates.

Groups similar log lines, replaces variable parts (IPs, timestamps, IDs,
numbers) with <*> wildcards, and returns each template with its occurrence
count, severity, and diagnostic samples (URLs, status codes, correlation
ids, durations). Use this to fit large log files into a small context.`

// CompressArgs are the arguments of the compress_logs tool.
type CompressArgs struct {
	Logs         string `json:"logs" jsonschema:"Raw log text; lines separated by newlines"`
	Format       string `json:"format,omitempty" jsonschema:"Output format: summary, detailed, json, or json-stable (default: summary)"`
	MaxTemplates int    `json:"max_templates,omitempty" jsonschema:"Maximum number of templates to return (default: 50)"`
}

// NewServer builds an MCP server with the compress_logs tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "logsift",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compress_logs",
		Description: compressLogsDescription,
	}, handleCompressLogs)

	return server
}

// Run serves MCP over stdio until the context ends.
func Run(ctx context.Context, version string) error {
	return NewServer(version).Run(ctx, &mcp.StdioTransport{})
}

func handleCompressLogs(ctx context.Context, req *mcp.CallToolRequest, args CompressArgs) (*mcp.CallToolResult, any, error) {
	if args.Logs == "" {
		return nil, nil, fmt.Errorf("logs parameter is required")
	}

	result := compress.CompressText(args.Logs, compress.Options{
		Format:       compress.ParseFormat(args.Format),
		MaxTemplates: args.MaxTemplates,
	})

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: result.Formatted,
			},
		},
	}, nil, nil
}
