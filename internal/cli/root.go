// Package cli wires the pulpit commands.
package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/digitalpulpit/pulpit/internal/cache"
	"github.com/digitalpulpit/pulpit/internal/lexicon"
	"github.com/digitalpulpit/pulpit/internal/llm"
	"github.com/digitalpulpit/pulpit/internal/model"
	"github.com/digitalpulpit/pulpit/internal/pipeline"
	"github.com/digitalpulpit/pulpit/internal/store"
	"github.com/digitalpulpit/pulpit/internal/worker"
)

var (
	cfgFile     string
	verbose     bool
	lexiconPath string
	storePath   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pulpit",
	Short: "Pulpit - Sermon emphasis signatures & drift diagnostics (non-normative)",
	Long: `Pulpit measures what a sermon corpus emphasizes and how that emphasis
moves over time.

It does not judge whether preaching is good, orthodox, or effective.

Pulpit counts lexicon keywords, scores bipolar emphasis axes, keeps
verbatim receipts for every claim it makes, and flags sermons that
deviate from their channel's own trailing baseline.

Pulpit is a mirror, not an oracle.`,
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
		fmt.Println("pulpit v0.3.2")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pulpit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "lexicon YAML path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "corpus database path (overrides config)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.pulpit")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PULPIT_*
	viper.SetEnvPrefix("PULPIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then global flag overrides. The API key only ever comes from the
// environment.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if file := viper.ConfigFileUsed(); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &model.ConfigError{Reason: fmt.Sprintf("parse %s: %v", file, err)}
		}
	}

	if lexiconPath != "" {
		cfg.LexiconPath = lexiconPath
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	cfg.Output.Verbose = verbose
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")

	return cfg, nil
}

// buildCache constructs the configured cache, or nil when disabled.
func buildCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Dir != "" {
		return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	return cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
}

// buildSummarizer constructs the optional LLM summarizer. A configuration
// with no provider yields nil, which disables summary-first analysis.
func buildSummarizer(cfg *model.Config, c cache.Cache) (*llm.Summarizer, error) {
	if cfg.LLM.Provider == "" {
		return nil, nil
	}
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	return llm.NewSummarizer(provider, c, limiter, summaryRateKey(cfg.LLM), cfg.LLM.MinSummaryWords), nil
}

// summaryRateKey buckets API throttling by endpoint host, falling back to
// the provider name for default endpoints.
func summaryRateKey(lc model.LLMConfig) string {
	if lc.BaseURL != "" {
		if u, err := url.Parse(lc.BaseURL); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return lc.Provider
}

// buildAnalyzer opens the store, loads the lexicon and wires the pipeline.
// The caller owns the returned store and must close it.
func buildAnalyzer(cfg *model.Config) (*pipeline.Analyzer, store.Store, error) {
	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load lexicon: %w", err)
	}

	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	c := buildCache(cfg)
	summarizer, err := buildSummarizer(cfg, c)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return pipeline.NewAnalyzer(cfg, st, lex, summarizer, c), st, nil
}
