// Package config provides configuration types and helpers for logsift.
package config

// Config holds the application-wide configuration, populated from flags,
// environment variables, and ~/.logsift.yaml via viper.
type Config struct {
	Format       string      `mapstructure:"format"`
	Verbose      bool        `mapstructure:"verbose"`
	MaxTemplates int         `mapstructure:"max_templates"`
	Drain        DrainConfig `mapstructure:"drain"`
	LLM          LLMConfig   `mapstructure:"llm"`
}

// DrainConfig carries the clustering engine options. Zero values select the
// engine defaults.
type DrainConfig struct {
	Depth        int     `mapstructure:"depth"`
	SimThreshold float64 `mapstructure:"sim_threshold"`
	MaxChildren  int     `mapstructure:"max_children"`
	MaxClusters  int     `mapstructure:"max_clusters"`
	MaxSamples   int     `mapstructure:"max_samples"`
}

// LLMConfig configures the model used by `logsift analyze --ai`.
type LLMConfig struct {
	Provider    string       `mapstructure:"provider"`
	Temperature float64      `mapstructure:"temperature"`
	MaxTokens   int          `mapstructure:"max_tokens"`
	Ollama      OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig holds Ollama connection settings.
type OllamaConfig struct {
	Host      string `mapstructure:"host"`
	Model     string `mapstructure:"model"`
	KeepAlive string `mapstructure:"keep_alive"`
}
