package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/matching"
)

const (
	app       = "jobmatch"
	envPrefix = "JOBMATCH"
)

type Config struct {
	User       string            `mapstructure:"user"`
	Store      *StoreConfig      `mapstructure:"store"`
	AI         *AIConfig         `mapstructure:"ai"`
	Aggregator *AggregatorConfig `mapstructure:"aggregator"`
	Matching   matching.Config   `mapstructure:"matching"`
}

type StoreConfig struct {
	Backend           string `mapstructure:"backend"`
	RedisURL          string `mapstructure:"redis-url"`
	RedisPasswordFile string `mapstructure:"redis-password-file"`
	RedisPrefix       string `mapstructure:"redis-prefix"`
	SQLitePath        string `mapstructure:"sqlite-path"`
	MaxCASRetries     int    `mapstructure:"max-cas-retries"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey            string  `mapstructure:"api-key"`
	APIKeyFile        string  `mapstructure:"api-key-file"`
	Model             string  `mapstructure:"model"`
	MaxRetries        int     `mapstructure:"max-retries"`
	MaxLogLength      int     `mapstructure:"max-log-length"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

type AggregatorConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	BaseURL    string        `mapstructure:"base-url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "jobmatch matches job postings against your resume and tracks your applications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command. Failures are printed as {"error": ...}.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		writeError(os.Stdout, err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("user", "u", "", "user id to act as (overrides the user key)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.BadInput(err.Error())
	})

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("user", "default")

	viper.SetDefault("store.backend", "sqlite")
	viper.SetDefault("store.redis-url", "")
	viper.SetDefault("store.redis-password-file", "")
	viper.SetDefault("store.redis-prefix", "")
	viper.SetDefault("store.sqlite-path", "jobmatch.db")
	viper.SetDefault("store.max-cas-retries", 0)

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.gemini.requests-per-second", 2)

	viper.SetDefault("aggregator.api-key", "")
	viper.SetDefault("aggregator.api-key-file", "")
	viper.SetDefault("aggregator.base-url", "")
	viper.SetDefault("aggregator.timeout", "10s")

	viper.SetDefault("matching.max-concurrency", matching.DefaultMaxConcurrency)
	viper.SetDefault("matching.best-matches-sample", matching.DefaultBestMatchesSample)
	viper.SetDefault("matching.best-matches-limit", matching.DefaultBestMatchesLimit)
}

func initConfig() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config every key has a usable default.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Aggregator == nil {
		config.Aggregator = &AggregatorConfig{}
	}

	return config, nil
}
