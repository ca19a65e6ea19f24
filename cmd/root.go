package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logsift",
	Short: "Semantic log compression",
	Long: `Logsift compresses raw log files into the small set of message
templates that generated them, with occurrence counts, severities, and
diagnostic samples. The output is compact enough for LLM context windows.

Examples:
  logsift compress /var/log/app.log
  logsift compress --format json app.log > templates.json
  cat app.log | logsift compress --format detailed
  logsift compress --follow /var/log/app.log
  logsift analyze --ai /var/log/app.log
  logsift mcp`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logsift.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "summary", "output format (summary, detailed, json, json-stable)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto, always, never)")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logsift")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGSIFT")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("format", "summary")
	viper.SetDefault("verbose", false)
	viper.SetDefault("color", "auto")
	viper.SetDefault("max_templates", 50)
	viper.SetDefault("drain.depth", 4)
	viper.SetDefault("drain.sim_threshold", 0.4)
	viper.SetDefault("drain.max_children", 100)
	viper.SetDefault("drain.max_clusters", 1000)
	viper.SetDefault("drain.max_samples", 3)
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.temperature", 0)
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama3.2")

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
