package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/modality/internal/model"
	"github.com/ppiankov/modality/internal/util"
)

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "modality",
	Short: "Modality - structured events from the zunda modality analyzer",
	Long: `Modality runs the zunda extended modality analyzer on Japanese sentences
and turns its line-oriented output into linked records:

- events (predicates) with source, tense, assumption, type,
  authenticity and sentiment
- chunks with resolved dependency links and head/function words
- words with morphological features and functional expression tags

Modality does not analyze anything itself. Every label comes from zunda.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "modality v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.modality/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, none")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".modality"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// MODALITY_ANALYZER_BINARY overrides analyzer.binary and so on
	viper.SetEnvPrefix("MODALITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars and Unmarshal see them
func setDefaults(cfg *model.Config) {
	viper.SetDefault("analyzer.binary", cfg.Analyzer.Binary)
	viper.SetDefault("analyzer.args", cfg.Analyzer.Args)
	viper.SetDefault("analyzer.encoding", cfg.Analyzer.Encoding)
	viper.SetDefault("analyzer.timeout", cfg.Analyzer.Timeout)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("rate_limiting.spawns_per_second", cfg.RateLimiting.SpawnsPerSecond)
	viper.SetDefault("rate_limiting.burst", cfg.RateLimiting.Burst)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("log.level", cfg.Log.Level)
}

// loadConfig merges defaults, config file and environment into a Config
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = model.DefaultConfig().Log.Level
	}
	return cfg, nil
}

// newLogger builds the logger for a command run
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if cfg.Output.Verbose {
		level = "debug"
	}
	return util.NewLogger(level)
}
