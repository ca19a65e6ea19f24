package compress

import (
	"sort"
	"strings"
	"time"
)

// Format selects the textual shape of a result.
type Format string

const (
	FormatSummary    Format = "summary"
	FormatDetailed   Format = "detailed"
	FormatJSON       Format = "json"
	FormatJSONStable Format = "json-stable"
)

// ParseFormat converts a string to a Format, defaulting to summary.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "detailed":
		return FormatDetailed
	case "json":
		return FormatJSON
	case "json-stable", "stable":
		return FormatJSONStable
	default:
		return FormatSummary
	}
}

// Options configures a compression run.
type Options struct {
	// Format is the output shape to render into Result.Formatted.
	Format Format

	// MaxTemplates caps the templates included in the result (default 50).
	MaxTemplates int

	// Drain configures the clustering engine.
	Drain EngineOptions
}

// Template is one discovered template in a result.
type Template struct {
	ID             string     `json:"id"`
	Pattern        string     `json:"pattern"`
	Occurrences    int        `json:"occurrences"`
	Severity       Severity   `json:"severity"`
	IsStackFrame   bool       `json:"is_stack_frame"`
	Samples        [][]string `json:"samples"`
	URLs           []string   `json:"urls"`
	FullURLs       []string   `json:"full_urls"`
	StatusCodes    []int      `json:"status_codes"`
	CorrelationIDs []string   `json:"correlation_ids"`
	Durations      []string   `json:"durations"`
	FirstSeen      int        `json:"first_seen"`
	LastSeen       int        `json:"last_seen"`
}

// Stats summarises a compression run. UniqueTemplates counts all clusters,
// before any MaxTemplates truncation. ProcessingTimeMS is set by callers
// that time the run; it is never part of the formatted output.
type Stats struct {
	InputLines              int     `json:"input_lines"`
	UniqueTemplates         int     `json:"unique_templates"`
	CompressionRatio        float64 `json:"compression_ratio"`
	EstimatedTokenReduction float64 `json:"estimated_token_reduction"`
	ProcessingTimeMS        int64   `json:"processing_time_ms,omitempty"`
}

// Result is the outcome of a compression run: the truncated template list,
// the run statistics, and the rendering in the requested format.
type Result struct {
	Templates []Template `json:"templates"`
	Stats     Stats      `json:"stats"`
	Formatted string     `json:"-"`
}

// Result assembles the engine's current state into a result. Templates are
// ordered by occurrences descending, ties broken by cluster insertion
// order, and truncated to maxTemplates (default 50).
func (e *Engine) Result(format Format, maxTemplates int) *Result {
	if maxTemplates <= 0 {
		maxTemplates = DefaultMaxTemplates
	}

	clusters := e.Clusters()
	templates := make([]Template, 0, len(clusters))
	for _, c := range clusters {
		templates = append(templates, snapshotTemplate(c))
	}
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Occurrences > templates[j].Occurrences
	})
	if len(templates) > maxTemplates {
		templates = templates[:maxTemplates]
	}

	result := &Result{
		Templates: templates,
		Stats:     computeStats(e.LineCount(), len(clusters), templates),
	}
	result.Formatted = render(result, format)
	return result
}

// Compress creates a fresh engine, feeds all lines, and returns the result.
func Compress(lines []string, opts Options) *Result {
	start := time.Now()
	engine := NewEngine(opts.Drain)
	engine.AddLines(lines)
	result := engine.Result(opts.Format, opts.MaxTemplates)
	result.Stats.ProcessingTimeMS = time.Since(start).Milliseconds()
	return result
}

// CompressText splits text on LF and CRLF line endings and delegates to
// Compress.
func CompressText(text string, opts Options) *Result {
	return Compress(SplitLines(text), opts)
}

// SplitLines splits text on LF and CRLF. A single trailing newline does not
// produce a trailing empty line.
func SplitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func snapshotTemplate(c *LogCluster) Template {
	return Template{
		ID:             c.ID,
		Pattern:        c.Pattern(),
		Occurrences:    c.Count,
		Severity:       c.Severity,
		IsStackFrame:   c.StackFrame,
		Samples:        cloneSamples(c.SampleVariables),
		URLs:           cloneStrings(c.URLSamples),
		FullURLs:       cloneStrings(c.FullURLSamples),
		StatusCodes:    cloneInts(c.StatusCodeSamples),
		CorrelationIDs: cloneStrings(c.CorrelationIDSamples),
		Durations:      cloneStrings(c.DurationSamples),
		FirstSeen:      c.FirstLineIndex,
		LastSeen:       c.LastLineIndex,
	}
}

// computeStats derives the run statistics. The token-reduction estimate is
// computed over the truncated template list; each template costs its
// pattern plus a fixed overhead of 20 characters in the compressed form.
func computeStats(inputLines, uniqueTemplates int, templates []Template) Stats {
	stats := Stats{
		InputLines:      inputLines,
		UniqueTemplates: uniqueTemplates,
	}

	if inputLines > 0 {
		stats.CompressionRatio = clamp01(1 - float64(uniqueTemplates)/float64(inputLines))
	}

	originalChars := 0
	compressedChars := 0
	for _, t := range templates {
		originalChars += len(t.Pattern) * t.Occurrences
		compressedChars += len(t.Pattern) + 20
	}
	if originalChars > 0 {
		stats.EstimatedTokenReduction = clamp01(1 - float64(compressedChars)/float64(originalChars))
	}

	return stats
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func cloneSamples(s [][]string) [][]string {
	out := make([][]string, len(s))
	for i, inner := range s {
		out[i] = cloneStrings(inner)
	}
	return out
}
