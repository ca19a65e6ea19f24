// Package compress discovers the small set of message templates behind a
// stream of raw log lines and reports them with occurrence counts, sample
// variable bindings, and bounded diagnostic fields.
//
// Clustering uses the Drain algorithm: a fixed-depth parse tree routes each
// tokenised line to a handful of candidate clusters, and the most similar
// cluster above a threshold absorbs the line, generalising its template in
// place. Variable-shaped substrings (timestamps, IPs, UUIDs, hex ids,
// paths, URLs, numbers) are masked to the wildcard marker before
// tokenisation.
//
// Basic usage:
//
//	result := compress.Compress(lines, compress.Options{
//	    Format:       compress.FormatSummary,
//	    MaxTemplates: 50,
//	})
//	fmt.Println(result.Formatted)
//
// Incremental usage:
//
//	engine := compress.NewEngine(compress.EngineOptions{})
//	engine.AddLine("Connection from 192.168.1.1 established")
//	result := engine.Result(compress.FormatJSON, 0)
//
// Engines are single-threaded: feed lines from one goroutine and read the
// result when done. The json-stable format yields byte-identical output for
// identical inputs, for downstream caching.
package compress
