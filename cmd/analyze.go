package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bimmerbailey/logsift/internal/compress"
	"github.com/bimmerbailey/logsift/internal/config"
	"github.com/bimmerbailey/logsift/internal/llm"
	"github.com/bimmerbailey/logsift/internal/output"
	"github.com/bimmerbailey/logsift/internal/prompt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file...>",
	Short: "Compress logs and analyze the templates",
	Long: `Compress log files into templates and report on them.

With --ai, sends the compressed template summary to an LLM for a natural
language analysis. The compression step is what makes large files fit the
model's context window.

Examples:
  logsift analyze /var/log/app.log
  logsift analyze --ai /var/log/app.log
  logsift analyze --ai --root-cause /var/log/app.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("ai", false, "enable AI-powered analysis using an LLM")
	analyzeCmd.Flags().Bool("root-cause", false, "with --ai, ask for a root cause analysis instead of a summary")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	aiEnabled, _ := cmd.Flags().GetBool("ai")
	rootCause, _ := cmd.Flags().GetBool("root-cause")

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	lines, err := collectLines(cmd, files)
	if err != nil {
		return err
	}

	opts := compress.Options{
		Format:       compress.FormatDetailed,
		MaxTemplates: viper.GetInt("max_templates"),
		Drain:        engineOptionsFromViper(),
	}
	if !aiEnabled {
		result := compress.Compress(lines, opts)
		return output.New(cmd.OutOrStdout()).WriteResult(result)
	}

	// The LLM receives the summary shape; it is the densest rendering.
	opts.Format = compress.FormatSummary
	result := compress.Compress(lines, opts)

	return runAIAnalyze(cmd, result, files, rootCause)
}

// runAIAnalyze streams an LLM narrative of the compressed templates.
func runAIAnalyze(cmd *cobra.Command, result *compress.Result, files []string, rootCause bool) error {
	format := compress.ParseFormat(viper.GetString("format"))
	verbose := viper.GetBool("verbose")
	ctx := cmd.Context()

	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w\n\nTroubleshooting:\n- Ensure Ollama is running: ollama serve\n- Check provider config in ~/.logsift.yaml", err)
	}

	if err := provider.Heartbeat(ctx); err != nil {
		return fmt.Errorf("cannot reach LLM provider at %s: %w\n\nStart Ollama with: ollama serve",
			cfg.LLM.Ollama.Host, err)
	}

	promptType := prompt.TypeSummarize
	if rootCause {
		promptType = prompt.TypeRootCause
	}
	messages, err := prompt.Build(promptType, prompt.BuildOptions{
		Summary: result.Formatted,
		Files:   files,
	})
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}

	chatOpts := &llm.ChatOptions{
		Model:       cfg.LLM.Ollama.Model,
		Temperature: float32(cfg.LLM.Temperature),
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	stream, err := provider.ChatStream(ctx, messages, chatOpts)
	if err != nil {
		return fmt.Errorf("failed to start LLM stream: %w", err)
	}

	textFormat := format != compress.FormatJSON && format != compress.FormatJSONStable
	if textFormat {
		fmt.Fprintln(cmd.OutOrStdout(), "=== AI-Powered Log Analysis ===")
		fmt.Fprintln(cmd.OutOrStdout())
	}

	var fullResponse strings.Builder
	for event := range stream {
		if event.Error != nil {
			if fullResponse.Len() > 0 {
				fmt.Fprintf(os.Stderr, "\n\nError during streaming: %v\n", event.Error)
			}
			return event.Error
		}
		if event.Content != "" {
			if textFormat {
				fmt.Fprint(cmd.OutOrStdout(), event.Content)
			}
			fullResponse.WriteString(event.Content)
		}
	}

	if !textFormat {
		payload := map[string]interface{}{
			"files":       files,
			"stats":       result.Stats,
			"templates":   result.Templates,
			"ai_analysis": fullResponse.String(),
		}
		return output.New(cmd.OutOrStdout()).WriteJSON(payload)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nCompressed %d lines into %d templates before analysis\n",
			result.Stats.InputLines, result.Stats.UniqueTemplates)
	}
	return nil
}
