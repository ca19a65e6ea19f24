// Package llm provides a unified interface for interacting with Large
// Language Models.
//
// The Provider interface abstracts the model backend behind a common API so
// the analyze command is not coupled to a specific provider. Ollama is the
// supported backend; the factory pattern leaves room for others.
//
// Create a provider with the factory, check health, then chat:
//
//	provider, err := llm.NewProvider(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	if err := provider.Heartbeat(ctx); err != nil {
//	    return err
//	}
//	stream, err := provider.ChatStream(ctx, messages, &llm.ChatOptions{Temperature: 0})
//	for event := range stream {
//	    if event.Error != nil {
//	        return event.Error
//	    }
//	    fmt.Print(event.Content)
//	}
//
// Configuration is loaded from ~/.logsift.yaml or LOGSIFT_-prefixed
// environment variables:
//
//	llm:
//	  provider: ollama
//	  temperature: 0
//	  ollama:
//	    host: http://localhost:11434
//	    model: llama3.2
//
// To avoid import cycles the ollama subpackage defines its own message and
// option types; this package bridges them with a small adapter.
package llm
