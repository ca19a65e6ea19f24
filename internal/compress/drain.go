package compress

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults applied by NewEngine when the corresponding option is unset.
const (
	DefaultDepth        = 4
	DefaultMaxChildren  = 100
	DefaultMaxClusters  = 1000
	DefaultMaxSamples   = 3
	DefaultMaxTemplates = 50
)

// Phase identifies the stage reported by a progress event.
type Phase string

const (
	PhaseParsing    Phase = "parsing"
	PhaseClustering Phase = "clustering"
	PhaseFinalizing Phase = "finalizing"
)

// Progress is the payload passed to the OnProgress callback during batch
// ingestion. The callback runs synchronously on the ingesting goroutine and
// must not re-enter the engine.
type Progress struct {
	ProcessedLines  int
	TotalLines      int
	Phase           Phase
	PercentComplete float64
}

// EngineOptions configures a clustering engine. Zero values select the
// defaults.
type EngineOptions struct {
	// Depth is the tree level at which cluster search occurs. Must be at
	// least 2; the length level plus Depth-2 token levels are descended.
	Depth int

	// SimThreshold is the minimum similarity for a line to join an
	// existing cluster. It is folded with the strategy's per-depth
	// threshold; the stricter of the two applies.
	SimThreshold float64

	// MaxChildren caps the distinct child keys per tree node. Once
	// reached, new tokens are funneled into the wildcard child.
	MaxChildren int

	// MaxClusters caps the total number of clusters. Lines that would
	// create a cluster beyond the cap are counted but dropped.
	MaxClusters int

	// MaxSamples is the per-cluster capacity of variable samples.
	MaxSamples int

	// Strategy is the parsing strategy. Nil selects the default.
	Strategy *Strategy

	// OnProgress, when set, receives batch-ingestion progress events.
	OnProgress func(Progress)
}

// Engine implements the Drain clustering algorithm: a fixed-depth parse
// tree routes each tokenised line to a small set of candidate clusters, and
// the best match above the similarity gate absorbs the line.
//
// The engine is single-threaded; all mutation happens on the goroutine
// submitting lines. It never fails on malformed input: blank lines and
// lines the strategy cannot tokenise are counted and skipped.
type Engine struct {
	opts     EngineOptions
	strategy Strategy

	root       *treeNode
	clusters   []*LogCluster // insertion order; the tree owns the nodes
	lineCount  int
	clusterSeq int
}

// NewEngine creates an engine, applying defaults for unset options.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Depth < 2 {
		opts.Depth = DefaultDepth
	}
	if opts.SimThreshold <= 0 || opts.SimThreshold > 1 {
		opts.SimThreshold = DefaultSimThreshold
	}
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = DefaultMaxChildren
	}
	if opts.MaxClusters <= 0 {
		opts.MaxClusters = DefaultMaxClusters
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = DefaultMaxSamples
	}

	strategy := DefaultStrategy()
	if opts.Strategy != nil {
		strategy = *opts.Strategy
		if strategy.Preprocess == nil {
			strategy.Preprocess = defaultPreprocess
		}
		if strategy.Tokenize == nil {
			strategy.Tokenize = DefaultStrategy().Tokenize
		}
		if strategy.Threshold == nil {
			strategy.Threshold = constantThreshold
		}
	}

	return &Engine{
		opts:     opts,
		strategy: strategy,
		root:     newTreeNode(0),
	}
}

// AddLine feeds one line to the engine. Every submitted line consumes a
// line ordinal, including blanks.
func (e *Engine) AddLine(line string) {
	lineIndex := e.lineCount
	e.lineCount++

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	masked := e.strategy.Preprocess(trimmed)
	tokens := e.strategy.Tokenize(masked)
	if len(tokens) == 0 {
		return
	}

	if cluster := e.search(tokens); cluster != nil {
		cluster.Update(tokens, lineIndex, trimmed)
		cluster.Merge(tokens)
		return
	}

	if len(e.clusters) >= e.opts.MaxClusters {
		return
	}

	e.clusterSeq++
	template := make([]string, len(tokens))
	copy(template, tokens)
	cluster := newCluster(fmt.Sprintf("T%d", e.clusterSeq), template, lineIndex, trimmed, e.opts.MaxSamples)
	e.clusters = append(e.clusters, cluster)
	e.insert(cluster)
}

// AddLines feeds a batch of lines, emitting at most ~100 progress events:
// one parsing event before the first line, clustering events at regular
// intervals, and one finalizing event at the end. Nothing is emitted for an
// empty batch.
func (e *Engine) AddLines(lines []string) {
	total := len(lines)
	if total == 0 {
		return
	}

	e.emitProgress(0, total, PhaseParsing)

	interval := (total + 99) / 100

	for i, line := range lines {
		e.AddLine(line)
		if processed := i + 1; processed < total && processed%interval == 0 {
			e.emitProgress(processed, total, PhaseClustering)
		}
	}

	e.emitProgress(total, total, PhaseFinalizing)
}

func (e *Engine) emitProgress(processed, total int, phase Phase) {
	if e.opts.OnProgress == nil {
		return
	}
	e.opts.OnProgress(Progress{
		ProcessedLines:  processed,
		TotalLines:      total,
		Phase:           phase,
		PercentComplete: float64(processed) * 100 / float64(total),
	})
}

// Clusters returns all clusters in insertion order. The slice is an index
// over clusters owned by the tree; callers must not mutate it.
func (e *Engine) Clusters() []*LogCluster {
	return e.clusters
}

// LineCount returns the number of lines submitted so far, including
// skipped ones.
func (e *Engine) LineCount() int {
	return e.lineCount
}

// search descends the tree to the cluster level and returns the best match
// above the effective similarity gate, or nil.
//
// The descent is keyed by the token count at the first level and by
// successive tokens below it. At each step the exact token is tried first,
// then the wildcard child; a missing child ends the search with no match.
func (e *Engine) search(tokens []string) *LogCluster {
	node := e.root.child(strconv.Itoa(len(tokens)))
	if node == nil {
		return nil
	}

	for i := 0; i < len(tokens); i++ {
		if node.depth >= e.opts.Depth-1 {
			break
		}
		if i == len(tokens)-1 {
			break
		}
		next := node.child(tokens[i])
		if next == nil {
			next = node.child(Wildcard)
		}
		if next == nil {
			return nil
		}
		node = next
	}

	return e.bestMatch(node, tokens)
}

// bestMatch scans the node's clusters in insertion order and keeps the
// first one attaining the highest similarity. The winner must exceed both
// the engine threshold and the strategy's threshold for this depth.
func (e *Engine) bestMatch(node *treeNode, tokens []string) *LogCluster {
	effective := e.opts.SimThreshold
	if t := e.strategy.Threshold(node.depth); t > effective {
		effective = t
	}

	var best *LogCluster
	bestSim := -1.0
	for _, cluster := range node.clusters {
		if sim := cluster.Similarity(tokens); sim > bestSim {
			bestSim = sim
			best = cluster
		}
	}

	if best == nil || bestSim <= effective {
		return nil
	}
	return best
}

// insert links a new cluster into the tree along the same key schedule as
// search, routing tokens through the wildcard child per the promotion rule.
func (e *Engine) insert(cluster *LogCluster) {
	tokens := cluster.Tokens
	node := e.root.getOrCreateChild(strconv.Itoa(len(tokens)))

	for i := 0; i < len(tokens); i++ {
		if node.depth >= e.opts.Depth-1 {
			break
		}
		if i == len(tokens)-1 {
			break
		}
		node = node.getOrCreateChild(e.childKey(node, tokens[i]))
	}

	node.addCluster(cluster)
}

// childKey decides whether a token becomes its own child or is promoted to
// the wildcard child at this node.
func (e *Engine) childKey(node *treeNode, token string) string {
	switch {
	case node.hasChild(token):
		return token
	case token == Wildcard:
		return Wildcard
	case startsWithDigit(token):
		return Wildcard
	case isLongHex(token):
		return Wildcard
	case node.hasChild(Wildcard) && node.childCount() >= e.opts.MaxChildren:
		return Wildcard
	default:
		return token
	}
}

func startsWithDigit(token string) bool {
	return len(token) > 0 && token[0] >= '0' && token[0] <= '9'
}

func isLongHex(token string) bool {
	if len(token) <= 8 {
		return false
	}
	for _, r := range token {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
