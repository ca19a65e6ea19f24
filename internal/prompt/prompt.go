// Package prompt builds the LLM messages used by `logsift analyze --ai`.
//
// Callers construct a [BuildOptions] value with the compressed template
// summary and call [Build] to receive a []llm.Message slice ready for any
// [llm.Provider].
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bimmerbailey/logsift/internal/llm"
)

// PromptType identifies the analysis task a prompt is designed to perform.
type PromptType string

const (
	// TypeSummarize produces a high-level narrative summary of the
	// compressed templates. It is the default mode of `logsift analyze --ai`.
	TypeSummarize PromptType = "summarize"

	// TypeRootCause instructs the model to diagnose the root cause of the
	// errors visible in the template summary, following an evidence-based
	// chain of reasoning.
	TypeRootCause PromptType = "root_cause"
)

// BuildOptions holds the context required to build a prompt.
type BuildOptions struct {
	// Summary is the compressed template summary produced by
	// internal/compress. Required.
	Summary string

	// Files is the list of log file paths being analysed.
	// Optional: included as context when non-empty.
	Files []string
}

// ErrMissingField is returned by [Build] when a required field is absent.
var ErrMissingField = errors.New("prompt: missing required field")

// Build constructs the message slice for the given prompt type: a system
// message selecting the analyst persona, followed by a user message carrying
// the template summary.
func Build(pt PromptType, opts BuildOptions) ([]llm.Message, error) {
	if opts.Summary == "" {
		return nil, fmt.Errorf("%w: Summary", ErrMissingField)
	}

	var sb strings.Builder
	switch pt {
	case TypeRootCause:
		sb.WriteString("Perform a root cause analysis on the following compressed log templates:\n\n")
	default:
		sb.WriteString("Analyze the following compressed log templates:\n\n")
	}

	if len(opts.Files) > 0 {
		sb.WriteString(fmt.Sprintf("Source files: %s\n\n", strings.Join(opts.Files, ", ")))
	}
	sb.WriteString(opts.Summary)

	return []llm.Message{
		{Role: "system", Content: systemPrompt(pt)},
		{Role: "user", Content: sb.String()},
	}, nil
}

// systemPrompt returns the system-role message content for the given type.
func systemPrompt(pt PromptType) string {
	if pt == TypeRootCause {
		return rootCauseSystem
	}
	return summarizeSystem
}

const summarizeSystem = `You are an expert log analysis assistant. You receive a compressed view of a log file: each line is a template with a count, where <*> marks positions that varied between occurrences.

Guidelines:
1. Only reference information present in the provided template summary
2. Distinguish observations ("the logs show...") from inferences ("this suggests...")
3. Never invent log entries; counts and patterns are your only evidence
4. Weigh templates by occurrence count and severity
5. Structure your response clearly with sections

Your analysis should include:
- Summary: what the log traffic consists of
- Key Findings: the most important patterns or issues
- Recommendations: what to investigate or fix next`

const rootCauseSystem = `You are a senior site reliability engineer performing root cause analysis on a compressed log view: templates with occurrence counts, where <*> marks variable positions.

Guidelines:
1. Work backwards from symptoms to causes, following the evidence chain
2. Use the first-seen/last-seen line ranges to order events when present
3. Distinguish root causes from contributing factors
4. Never speculate beyond what the templates support; flag uncertainty explicitly
5. Consider cascading failures: one root cause often triggers secondary error templates

Your analysis must include:
- Trigger: the earliest template that indicates something went wrong
- Root Cause: the fundamental reason, with template evidence
- Impact: which operations were affected, judged by counts
- Remediation: concrete steps to prevent recurrence`
