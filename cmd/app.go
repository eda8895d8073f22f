package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/ai/gemini"
	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/assistant"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/jsearch"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/storage"
	"github.com/spigell/jobmatch/internal/storage/redisstore"
	"github.com/spigell/jobmatch/internal/storage/sqlitestore"
	"github.com/spigell/jobmatch/internal/tracker"
)

// application is every engine component wired once per command run.
type application struct {
	user   string
	logger *zap.Logger
	store  storage.Store

	jobs      *matching.Orchestrator
	resumes   *resume.Service
	ledger    *tracker.Ledger
	assistant *assistant.Service
}

// newLogger builds the process logger from the --json and --debug flags.
var newLogger = func() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

func newApplication(ctx context.Context, zl *zap.Logger) (*application, error) {
	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	user := strings.TrimSpace(config.User)
	if user == "" {
		return nil, apperr.BadInput("a user id is required")
	}
	zl = logger.WithUser(zl, user)

	zl.Debug("starting jobmatch",
		zap.String("version", version),
		zap.String("store", config.Store.Backend),
	)

	store, err := openStore(ctx, config.Store, zl)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	generator, err := newGenerator(ctx, config.AI, zl)
	if err != nil {
		store.Close()
		return nil, err
	}

	aggregator, err := newAggregator(config.Aggregator, zl)
	if err != nil {
		store.Close()
		return nil, err
	}

	resumes := resume.NewService(store, resume.NewParser(generator, zl), zl)
	ledger := tracker.New(store, zl)
	orchestrator := matching.NewOrchestrator(aggregator, matching.NewEngine(generator, nil, zl), resumes, config.Matching, zl)
	chat := assistant.NewService(assistant.NewRouter(generator, zl), orchestrator, ledger, resumes, zl)

	return &application{
		user:      user,
		logger:    zl,
		store:     store,
		jobs:      orchestrator,
		resumes:   resumes,
		ledger:    ledger,
		assistant: chat,
	}, nil
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *StoreConfig, zl *zap.Logger) (storage.Store, error) {
	switch backend := strings.ToLower(strings.TrimSpace(cfg.Backend)); backend {
	case "memory":
		zl.Warn("memory store selected, nothing survives this process")
		return storage.NewMemory(), nil
	case "", "sqlite":
		return sqlitestore.Open(ctx, cfg.SQLitePath, cfg.MaxCASRetries, zl)
	case "redis":
		password, err := secrets.Optional(secrets.Source{
			Name: "redis password",
			File: cfg.RedisPasswordFile,
			Env:  envPrefix + "_REDIS_PASSWORD",
		})
		if err != nil {
			return nil, err
		}
		return redisstore.New(ctx, redisstore.Options{
			URL:        cfg.RedisURL,
			Password:   password,
			Prefix:     cfg.RedisPrefix,
			MaxRetries: cfg.MaxCASRetries,
		}, zl)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}

// newGenerator returns nil, not an error, when no credential is configured:
// every AI-backed component then runs on its heuristic.
func newGenerator(ctx context.Context, cfg *AIConfig, zl *zap.Logger) (ai.Generator, error) {
	if !cfg.Enabled {
		zl.Debug("ai disabled by configuration")
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Optional(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}
	if apiKey == "" {
		zl.Info("no gemini api key configured, using heuristics")
		return nil, nil
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:            apiKey,
		Model:             cfg.Gemini.Model,
		MaxRetries:        cfg.Gemini.MaxRetries,
		MaxLogLength:      cfg.Gemini.MaxLogLength,
		RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
	}, zl)
	if err != nil {
		return nil, err
	}

	logger.WithCommonFields(zl, gemini.Provider, generator.Model()).Debug("ai enabled")

	return generator, nil
}

// newAggregator always returns a usable aggregator: without a RapidAPI key
// the built-in sample postings are served.
func newAggregator(cfg *AggregatorConfig, zl *zap.Logger) (jobs.Aggregator, error) {
	apiKey, err := secrets.Optional(secrets.Source{
		Name:  "rapidapi key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "RAPIDAPI_KEY",
	})
	if err != nil {
		return nil, err
	}

	if apiKey == "" {
		zl.Info("no rapidapi key configured, serving sample postings")
		return jobs.WithFallback(nil, zl), nil
	}

	client := jsearch.New(zl, apiKey, cfg.Timeout)
	if cfg.BaseURL != "" {
		client.APIURL = cfg.BaseURL
	}

	return jobs.WithFallback(client, zl), nil
}

// withApp runs fn with a freshly wired application. Internal failures are
// logged with their cause, since the printed error body hides it.
func withApp(fn func(ctx context.Context, a *application, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		zl, err := newLogger()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer zl.Sync()

		a, err := newApplication(ctx, zl)
		if err != nil {
			logFailure(zl, cmd.CommandPath(), err)
			return err
		}
		defer a.Close()

		if err := fn(ctx, a, cmd, args); err != nil {
			logFailure(a.logger, cmd.CommandPath(), err)
			return err
		}
		return nil
	}
}

func logFailure(zl *zap.Logger, command string, err error) {
	fields := []zap.Field{zap.String("command", command), zap.Error(err)}
	if apperr.KindOf(err) == apperr.KindInternal {
		zl.Error("command failed", fields...)
		return
	}
	zl.Debug("command failed", fields...)
}
