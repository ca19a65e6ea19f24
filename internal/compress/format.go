package compress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// jsonVersion is the wire-contract version of the JSON output formats.
// Consumers must tolerate new template fields appended to objects.
const jsonVersion = "1.1"

// summaryTopTemplates and summaryRareLimit bound the summary format.
const (
	summaryTopTemplates = 20
	summaryRareLimit    = 5
	rareOccurrenceMax   = 5
)

func render(result *Result, format Format) string {
	switch format {
	case FormatDetailed:
		return renderDetailed(result)
	case FormatJSON:
		return renderJSON(result)
	case FormatJSONStable:
		return renderStableJSON(result)
	default:
		return renderSummary(result)
	}
}

func renderSummary(result *Result) string {
	var sb strings.Builder
	sb.WriteString("=== Log Compression Summary ===\n")

	if len(result.Templates) == 0 {
		sb.WriteString("No templates discovered.\n")
		return sb.String()
	}

	stats := result.Stats
	sb.WriteString(fmt.Sprintf("%s lines compressed into %s templates (%.1f%% estimated token reduction)\n\n",
		groupDigits(stats.InputLines),
		groupDigits(stats.UniqueTemplates),
		stats.EstimatedTokenReduction*100))

	shown := len(result.Templates)
	if shown > summaryTopTemplates {
		shown = summaryTopTemplates
	}
	for i := 0; i < shown; i++ {
		t := result.Templates[i]
		sb.WriteString(fmt.Sprintf("%d. [%sx] %s\n", i+1, groupDigits(t.Occurrences), t.Pattern))
	}
	if remaining := stats.UniqueTemplates - shown; remaining > 0 {
		sb.WriteString(fmt.Sprintf("... and %d more templates\n", remaining))
	}

	var rare []Template
	for _, t := range result.Templates {
		if t.Occurrences <= rareOccurrenceMax {
			rare = append(rare, t)
			if len(rare) == summaryRareLimit {
				break
			}
		}
	}
	if len(rare) > 0 {
		sb.WriteString("\nRare events (5 or fewer occurrences):\n")
		for _, t := range rare {
			sb.WriteString(fmt.Sprintf("  [%dx] %s\n", t.Occurrences, t.Pattern))
		}
	}

	return sb.String()
}

func renderDetailed(result *Result) string {
	var sb strings.Builder
	sb.WriteString("=== Log Compression Report ===\n")

	if len(result.Templates) == 0 {
		sb.WriteString("No templates discovered.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%s lines, %s templates\n",
		groupDigits(result.Stats.InputLines),
		groupDigits(result.Stats.UniqueTemplates)))

	for _, t := range result.Templates {
		sb.WriteString(fmt.Sprintf("\n--- Template %s ---\n", t.ID))
		sb.WriteString(fmt.Sprintf("Occurrences: %s\n", groupDigits(t.Occurrences)))
		sb.WriteString(fmt.Sprintf("Pattern: %s\n", t.Pattern))

		severity := string(t.Severity)
		if t.IsStackFrame {
			severity += " (stack frame)"
		}
		sb.WriteString(fmt.Sprintf("Severity: %s\n", severity))
		sb.WriteString(fmt.Sprintf("First seen: line %d\n", t.FirstSeen+1))
		sb.WriteString(fmt.Sprintf("Last seen: line %d\n", t.LastSeen+1))

		if len(t.FullURLs) > 0 {
			sb.WriteString(fmt.Sprintf("URLs: %s\n", strings.Join(t.FullURLs, ", ")))
		}
		if len(t.StatusCodes) > 0 {
			codes := make([]string, len(t.StatusCodes))
			for i, code := range t.StatusCodes {
				codes[i] = strconv.Itoa(code)
			}
			sb.WriteString(fmt.Sprintf("Status codes: %s\n", strings.Join(codes, ", ")))
		}
		if len(t.CorrelationIDs) > 0 {
			sb.WriteString(fmt.Sprintf("Correlation IDs: %s\n", strings.Join(t.CorrelationIDs, ", ")))
		}
		if len(t.Durations) > 0 {
			sb.WriteString(fmt.Sprintf("Durations: %s\n", strings.Join(t.Durations, ", ")))
		}
		if len(t.Samples) > 0 {
			sb.WriteString("Sample variables:\n")
			for _, sample := range t.Samples {
				sb.WriteString(fmt.Sprintf("  - %s\n", strings.Join(sample, ", ")))
			}
		}
	}

	return sb.String()
}

// jsonPayload is the JSON wire shape shared by the json and json-stable
// formats. Stats floats are rounded to three decimals; processing time is
// never included because formatting happens before callers stamp it.
type jsonPayload struct {
	Version   string     `json:"version"`
	Stats     Stats      `json:"stats"`
	Templates []Template `json:"templates"`
}

func renderJSON(result *Result) string {
	payload := jsonPayload{
		Version:   jsonVersion,
		Stats:     roundedStats(result.Stats),
		Templates: result.Templates,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return ""
	}
	return buf.String()
}

// renderStableJSON emits the same object with keys sorted lexicographically
// at every level and no whitespace, so identical inputs yield byte-identical
// output across runs. Marshaling through maps gives the key ordering.
func renderStableJSON(result *Result) string {
	templates := make([]any, len(result.Templates))
	for i, t := range result.Templates {
		templates[i] = map[string]any{
			"id":              t.ID,
			"pattern":         t.Pattern,
			"occurrences":     t.Occurrences,
			"severity":        t.Severity,
			"is_stack_frame":  t.IsStackFrame,
			"samples":         t.Samples,
			"urls":            t.URLs,
			"full_urls":       t.FullURLs,
			"status_codes":    t.StatusCodes,
			"correlation_ids": t.CorrelationIDs,
			"durations":       t.Durations,
			"first_seen":      t.FirstSeen,
			"last_seen":       t.LastSeen,
		}
	}

	stats := roundedStats(result.Stats)
	payload := map[string]any{
		"version": jsonVersion,
		"stats": map[string]any{
			"input_lines":               stats.InputLines,
			"unique_templates":          stats.UniqueTemplates,
			"compression_ratio":         stats.CompressionRatio,
			"estimated_token_reduction": stats.EstimatedTokenReduction,
		},
		"templates": templates,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func roundedStats(stats Stats) Stats {
	stats.CompressionRatio = round3(stats.CompressionRatio)
	stats.EstimatedTokenReduction = round3(stats.EstimatedTokenReduction)
	stats.ProcessingTimeMS = 0
	return stats
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// groupDigits formats a non-negative integer with comma separators.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
