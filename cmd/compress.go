package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bimmerbailey/logsift/internal/compress"
	"github.com/bimmerbailey/logsift/internal/config"
	"github.com/bimmerbailey/logsift/internal/output"
	"github.com/bimmerbailey/logsift/internal/tail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// maxLineSize bounds the scanner buffer when reading log files (1MB).
const maxLineSize = 1024 * 1024

var compressCmd = &cobra.Command{
	Use:   "compress [flags] [file...]",
	Short: "Compress log files into message templates",
	Long: `Discover the message templates behind a log file and report them with
occurrence counts, severities, and diagnostic samples. Reads from stdin when
no files are given.

With --follow, keeps a live engine over a growing file and re-renders the
output on an interval.

Examples:
  logsift compress /var/log/app.log
  logsift compress --format detailed --max-templates 10 app.log
  logsift compress 'logs/*.log'
  kubectl logs my-pod | logsift compress
  logsift compress --follow --interval 10s /var/log/app.log`,
	Args: cobra.ArbitraryArgs,
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().Int("max-templates", 50, "maximum templates in the output")
	compressCmd.Flags().Int("depth", 4, "parse tree depth for cluster search")
	compressCmd.Flags().Float64("sim-threshold", 0.4, "minimum similarity for joining an existing template")
	compressCmd.Flags().Int("max-children", 100, "child fanout per tree node before wildcard promotion")
	compressCmd.Flags().Int("max-clusters", 1000, "global cap on discovered templates")
	compressCmd.Flags().Int("max-samples", 3, "variable samples kept per template")
	compressCmd.Flags().Bool("follow", false, "follow the file and re-render on an interval")
	compressCmd.Flags().Bool("follow-rotate", false, "keep following through log rotations")
	compressCmd.Flags().String("interval", "5s", "re-render interval in follow mode")

	_ = viper.BindPFlag("max_templates", compressCmd.Flags().Lookup("max-templates"))
	_ = viper.BindPFlag("drain.depth", compressCmd.Flags().Lookup("depth"))
	_ = viper.BindPFlag("drain.sim_threshold", compressCmd.Flags().Lookup("sim-threshold"))
	_ = viper.BindPFlag("drain.max_children", compressCmd.Flags().Lookup("max-children"))
	_ = viper.BindPFlag("drain.max_clusters", compressCmd.Flags().Lookup("max-clusters"))
	_ = viper.BindPFlag("drain.max_samples", compressCmd.Flags().Lookup("max-samples"))

	rootCmd.AddCommand(compressCmd)
}

// engineOptionsFromViper assembles the engine options from the merged
// flag/config/env view.
func engineOptionsFromViper() compress.EngineOptions {
	return compress.EngineOptions{
		Depth:        viper.GetInt("drain.depth"),
		SimThreshold: viper.GetFloat64("drain.sim_threshold"),
		MaxChildren:  viper.GetInt("drain.max_children"),
		MaxClusters:  viper.GetInt("drain.max_clusters"),
		MaxSamples:   viper.GetInt("drain.max_samples"),
	}
}

func runCompress(cmd *cobra.Command, args []string) error {
	opts := compress.Options{
		Format:       compress.ParseFormat(viper.GetString("format")),
		MaxTemplates: viper.GetInt("max_templates"),
		Drain:        engineOptionsFromViper(),
	}

	follow, _ := cmd.Flags().GetBool("follow")
	if follow {
		return runCompressFollow(cmd, args, opts)
	}

	if viper.GetBool("verbose") {
		opts.Drain.OnProgress = progressMeter(cmd.ErrOrStderr())
	}

	lines, err := collectLines(cmd, args)
	if err != nil {
		return err
	}

	result := compress.Compress(lines, opts)

	writer := output.New(cmd.OutOrStdout())
	if err := writer.WriteResult(result); err != nil {
		return err
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d lines into %d templates in %dms\n",
			result.Stats.InputLines, result.Stats.UniqueTemplates, result.Stats.ProcessingTimeMS)
	}
	return nil
}

// progressMeter renders a single-line progress indicator on w.
func progressMeter(w io.Writer) func(compress.Progress) {
	return func(p compress.Progress) {
		fmt.Fprintf(w, "\r%s %d/%d (%.0f%%)", p.Phase, p.ProcessedLines, p.TotalLines, p.PercentComplete)
		if p.Phase == compress.PhaseFinalizing {
			fmt.Fprintln(w)
		}
	}
}

// collectLines reads all input lines from the given files (glob patterns
// allowed) or from stdin when no files are named.
func collectLines(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return readLines(cmd.InOrStdin())
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		fileLines, err := readLines(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// runCompressFollow keeps a live engine over a single growing file. Lines
// flow from the tailer through a channel so all engine mutation stays on
// this goroutine.
func runCompressFollow(cmd *cobra.Command, args []string, opts compress.Options) error {
	if len(args) != 1 {
		return fmt.Errorf("--follow requires exactly one file")
	}

	intervalStr, _ := cmd.Flags().GetString("interval")
	interval, err := config.ParseDuration(intervalStr)
	if err != nil {
		return fmt.Errorf("invalid --interval value: %w", err)
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	colorMode := output.ParseColorMode(viper.GetString("color"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	linesCh := make(chan string, 256)
	tailer := tail.New(tail.Options{
		FilePath:     args[0],
		FromStart:    true,
		Follow:       true,
		FollowRotate: followRotate,
		OutputFunc: func(line string) error {
			select {
			case linesCh <- line:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	tailErr := make(chan error, 1)
	go func() { tailErr <- tailer.Run(ctx) }()

	engine := compress.NewEngine(opts.Drain)
	writer := output.New(cmd.OutOrStdout())

	render := func() error {
		result := engine.Result(opts.Format, opts.MaxTemplates)
		status := fmt.Sprintf("-- %d lines, %d templates --",
			result.Stats.InputLines, result.Stats.UniqueTemplates)
		if err := writer.WriteStatus(worstSeverity(result), status, colorMode); err != nil {
			return err
		}
		return writer.WriteResult(result)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			return render()

		case err := <-tailErr:
			if renderErr := render(); renderErr != nil {
				return renderErr
			}
			return err

		case line := <-linesCh:
			engine.AddLine(line)
			dirty = true

		case <-ticker.C:
			if !dirty {
				continue
			}
			dirty = false
			if err := render(); err != nil {
				return err
			}
		}
	}
}

// worstSeverity picks the most severe template severity for the follow-mode
// status line.
func worstSeverity(result *compress.Result) compress.Severity {
	worst := compress.SeverityInfo
	for _, t := range result.Templates {
		switch t.Severity {
		case compress.SeverityError:
			return compress.SeverityError
		case compress.SeverityWarning:
			worst = compress.SeverityWarning
		}
	}
	return worst
}
