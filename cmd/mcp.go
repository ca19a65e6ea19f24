package cmd

import (
	"github.com/bimmerbailey/logsift/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the compression engine as an MCP tool over stdio",
	Long: `Run an MCP (Model Context Protocol) server on stdin/stdout exposing
the compress_logs tool. Point an MCP-capable agent at this command to let it
compress log text on demand.

Example client configuration:

  {
    "mcpServers": {
      "logsift": { "command": "logsift", "args": ["mcp"] }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.Run(cmd.Context(), version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
