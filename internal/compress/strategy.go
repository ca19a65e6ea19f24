package compress

import (
	"strings"
)

// DefaultSimThreshold is the constant returned by the default strategy's
// Threshold and the default engine similarity gate.
const DefaultSimThreshold = 0.4

// Strategy is the parsing triple applied to every line before clustering.
// Strategies hold no per-engine state and may be shared across engines.
type Strategy struct {
	// Preprocess masks variable-shaped substrings and trims whitespace.
	Preprocess func(line string) string

	// Tokenize splits a preprocessed line into tokens. Empty tokens are
	// discarded; a line producing zero tokens is skipped by the engine.
	Tokenize func(line string) []string

	// Threshold returns the minimum similarity for a match at the given
	// tree depth, in [0, 1]. The engine folds it with its own gate; the
	// stricter of the two wins.
	Threshold func(depth int) float64
}

// DefaultStrategy returns the built-in strategy: catalogue masking,
// whitespace tokenization, constant threshold.
func DefaultStrategy() Strategy {
	return Strategy{
		Preprocess: defaultPreprocess,
		Tokenize:   strings.Fields,
		Threshold:  constantThreshold,
	}
}

func defaultPreprocess(line string) string {
	return MaskLine(strings.TrimSpace(line))
}

func constantThreshold(int) float64 {
	return DefaultSimThreshold
}

// StrategyOverrides customises a strategy. Any nil callable falls back to
// the built-in; Patterns adds named masking regexes applied after the
// built-in catalogue, in name order. Patterns are ignored when Preprocess
// is set.
type StrategyOverrides struct {
	Preprocess func(line string) string
	Tokenize   func(line string) []string
	Threshold  func(depth int) float64
	Patterns   map[string]string
}

// NewStrategy builds a strategy from overrides. It returns an error only
// when a custom pattern fails to compile.
func NewStrategy(overrides StrategyOverrides) (Strategy, error) {
	s := DefaultStrategy()

	if len(overrides.Patterns) > 0 && overrides.Preprocess == nil {
		extra, err := CompilePatterns(overrides.Patterns)
		if err != nil {
			return Strategy{}, err
		}
		patterns := append(MaskCatalogue(), extra...)
		s.Preprocess = func(line string) string {
			return applyMasks(strings.TrimSpace(line), patterns)
		}
	}

	if overrides.Preprocess != nil {
		s.Preprocess = overrides.Preprocess
	}
	if overrides.Tokenize != nil {
		s.Tokenize = overrides.Tokenize
	}
	if overrides.Threshold != nil {
		s.Threshold = overrides.Threshold
	}
	return s, nil
}
