package compress

import (
	"strings"
)

// Capacities for the diagnostic sample containers on each cluster.
const (
	urlSampleCap           = 5
	fullURLSampleCap       = 5
	statusCodeSampleCap    = 5
	correlationIDSampleCap = 3
	durationSampleCap      = 5
)

// LogCluster is an equivalence class of log lines sharing a template, plus
// the metadata harvested from the lines it has absorbed.
//
// The template length is fixed at creation: only lines whose tokenisation
// has the same length are ever merged in, and Merge may turn individual
// positions into the wildcard marker but never grows or shrinks the
// sequence. Severity and the stack-frame flag come from the first line and
// are never revised.
type LogCluster struct {
	ID     string
	Tokens []string
	Count  int

	FirstLineIndex int
	LastLineIndex  int

	// SampleVariables holds, for up to maxSamples matching lines, the
	// values that occupied the wildcard positions of the template.
	SampleVariables [][]string

	URLSamples           []string
	FullURLSamples       []string
	StatusCodeSamples    []int
	CorrelationIDSamples []string
	DurationSamples      []string

	Severity   Severity
	StackFrame bool

	maxSamples int
}

// newCluster initialises a cluster from its first line. Diagnostics and
// severity come from the original, unmasked line.
func newCluster(id string, tokens []string, lineIndex int, original string, maxSamples int) *LogCluster {
	c := &LogCluster{
		ID:             id,
		Tokens:         tokens,
		Count:          1,
		FirstLineIndex: lineIndex,
		LastLineIndex:  lineIndex,
		Severity:       DetectSeverity(original),
		StackFrame:     IsStackFrame(original),
		maxSamples:     maxSamples,
	}
	c.collectDiagnostics(original)
	return c
}

// Similarity returns the fraction of positions at which the template and
// the candidate agree, where a wildcard in the template counts as
// agreement. Sequences of different length score 0.
func (c *LogCluster) Similarity(tokens []string) float64 {
	if len(tokens) != len(c.Tokens) {
		return 0
	}
	matches := 0
	for i, t := range c.Tokens {
		if t == Wildcard || t == tokens[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(c.Tokens))
}

// Update records a matching line: bumps the count, remembers the line
// index, captures the wildcard-position variables if sample capacity
// remains, and harvests diagnostics from the original line. The caller
// invokes Update before Merge so the variables are read against the
// template as it was when the line matched.
func (c *LogCluster) Update(tokens []string, lineIndex int, original string) {
	c.Count++
	c.LastLineIndex = lineIndex

	if len(c.SampleVariables) < c.maxSamples {
		var vars []string
		for i, t := range c.Tokens {
			if t == Wildcard {
				vars = append(vars, tokens[i])
			}
		}
		if len(vars) > 0 && !c.hasVariables(vars) {
			c.SampleVariables = append(c.SampleVariables, vars)
		}
	}

	c.collectDiagnostics(original)
}

func (c *LogCluster) hasVariables(vars []string) bool {
	for _, existing := range c.SampleVariables {
		if len(existing) != len(vars) {
			continue
		}
		same := true
		for i := range existing {
			if existing[i] != vars[i] {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// Merge generalises the template in place: every position where the
// template disagrees with the candidate becomes the wildcard marker.
func (c *LogCluster) Merge(tokens []string) {
	for i, t := range c.Tokens {
		if t != Wildcard && t != tokens[i] {
			c.Tokens[i] = Wildcard
		}
	}
}

// Pattern returns the template joined with single spaces.
func (c *LogCluster) Pattern() string {
	return strings.Join(c.Tokens, " ")
}

func (c *LogCluster) collectDiagnostics(original string) {
	for _, host := range ExtractURLHosts(original) {
		c.URLSamples = appendUniqueString(c.URLSamples, host, urlSampleCap)
	}
	for _, u := range ExtractFullURLs(original) {
		c.FullURLSamples = appendUniqueString(c.FullURLSamples, u, fullURLSampleCap)
	}
	for _, code := range ExtractStatusCodes(original) {
		c.StatusCodeSamples = appendUniqueInt(c.StatusCodeSamples, code, statusCodeSampleCap)
	}
	for _, id := range ExtractCorrelationIDs(original) {
		c.CorrelationIDSamples = appendUniqueString(c.CorrelationIDSamples, id, correlationIDSampleCap)
	}
	for _, d := range ExtractDurations(original) {
		c.DurationSamples = appendUniqueString(c.DurationSamples, d, durationSampleCap)
	}
}
