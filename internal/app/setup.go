package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aionysus/dionysus/api"
	"github.com/aionysus/dionysus/db"
	"github.com/aionysus/dionysus/internal/agent"
	"github.com/aionysus/dionysus/internal/config"
	"github.com/aionysus/dionysus/internal/database"
	"github.com/aionysus/dionysus/internal/identity"
	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/memory"
	"github.com/aionysus/dionysus/internal/observability"
	"github.com/aionysus/dionysus/internal/tools"
	"github.com/aionysus/dionysus/internal/winestore"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup. Call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	a := &App{Config: cfg, Logger: logger}

	// On error, tear down everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelShutdown = provideOtelShutdown(ctx, cfg, logger)

	pool, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Pool = pool

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	store := winestore.New(pool, logger)
	prefs := memory.New(cfg.MemoryServiceURL, cfg.MemoryAPIKey, logger)

	tools.Register(g, tools.Deps{
		Store:  store,
		Memory: prefs,
		Logger: logger,
	})

	a.Cache = identity.NewCache()
	a.Sommelier = agent.New(agent.Config{
		Genkit:            g,
		ModelName:         qualifiedModelName(cfg.Provider, cfg.ModelName),
		Memory:            prefs,
		Cache:             a.Cache,
		Logger:            logger,
		MaxTurns:          cfg.MaxTurns,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.RateBurst,
	})

	a.Server = api.NewServer(a.Sommelier, a.Cache, pool, logger, api.Config{
		Addr:            cfg.Addr,
		AllowedOrigins:  cfg.CORSOrigins,
		StreamWordDelay: time.Duration(cfg.StreamWordDelayMS) * time.Millisecond,
	})

	return a, nil
}

// provideOtelShutdown sets up OTLP tracing before Genkit initialization so
// the TracerProvider is ready when the first span starts. Returns a no-op
// when no collector endpoint is configured.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Environment: cfg.Environment,
		ServiceName: "dionysus",
	}, logger)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		return func() {}
	}

	//nolint:contextcheck // Independent context: shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideDBPool runs migrations and opens the catalogue connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	p, err := database.Open(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening catalogue database: %w", err)
	}
	return p, nil
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports gemini (default), openai, and ollama providers.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	var g *genkit.Genkit

	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // gemini
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// qualifiedModelName prefixes the model with its Genkit plugin namespace.
func qualifiedModelName(provider, model string) string {
	switch provider {
	case config.ProviderOllama:
		return "ollama/" + model
	case config.ProviderOpenAI:
		return "openai/" + model
	default:
		return "googleai/" + model
	}
}
