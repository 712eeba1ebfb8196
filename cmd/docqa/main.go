package main

// @title           docqa API
// @version         1.0
// @description     Session-scoped question answering over uploaded documents.

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/custodia-labs/docqa/docs"
	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/auth"
	"github.com/custodia-labs/docqa/internal/adapters/driven/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/docqa/internal/adapters/driven/redis"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	httpadapter "github.com/custodia-labs/docqa/internal/adapters/driving/http"
	"github.com/custodia-labs/docqa/internal/chunking"
	"github.com/custodia-labs/docqa/internal/config"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/extractors"
	"github.com/custodia-labs/docqa/internal/runtime"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServeFunc(serve)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// storage holds the stores for the configured backend
type storage struct {
	documents driven.DocumentStore
	sessions  driven.SessionStore
	pingers   map[string]httpadapter.Pinger
	close     func()
}

// serve wires adapters and services and runs the HTTP server until ctx ends
func serve(ctx context.Context, cfg *config.Config, opts cli.ServeOptions, logger *slog.Logger) error {
	logger.Info("docqa starting", "version", cli.Version(), "storage", cfg.Storage.Backend)

	// ===== Storage =====
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	// ===== AI gateways =====
	runtimeConfig := domain.NewRuntimeConfig(cfg.Storage.Backend)
	svcs := runtime.NewServices(runtimeConfig)
	defer svcs.Close()

	factory := ai.NewFactory(ai.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	if err := configureGateways(ctx, factory, svcs, cfg, opts, logger); err != nil {
		return err
	}

	logger.Info("gateways configured",
		"embedding", runtimeConfig.EmbeddingAvailable(),
		"completion", runtimeConfig.CompletionAvailable(),
	)

	// ===== Vector index =====
	dimensions := domain.DefaultEmbeddingDimensions
	if emb := svcs.EmbeddingService(); emb != nil {
		dimensions = emb.Dimensions()
	}
	index := services.NewSharedIndex(memory.NewVectorIndexFactory(), dimensions)

	// ===== Core services =====
	docService := services.NewDocumentService(services.DocumentServiceConfig{
		DocumentStore: store.documents,
		SessionStore:  store.sessions,
		Extractors:    extractors.DefaultRegistry(),
		Logger:        logger,
	})
	processingService := services.NewProcessingService(services.ProcessingServiceConfig{
		DocumentStore: store.documents,
		SessionStore:  store.sessions,
		Index:         index,
		Chunker:       chunking.NewChunker(chunking.ChunkConfig{Size: cfg.Processing.ChunkSize}),
		Services:      svcs,
		BatchSize:     cfg.Processing.BatchSize,
		Timeout:       cfg.Embedding.Timeout(),
		Logger:        logger,
	})
	queryService := services.NewQueryService(services.QueryServiceConfig{
		SessionStore: store.sessions,
		Index:        index,
		Services:     svcs,
		TopK:         cfg.Processing.TopK,
		Timeout:      cfg.Completion.Timeout(),
		Logger:       logger,
	})

	// ===== HTTP =====
	server := httpadapter.NewServer(
		httpadapter.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			Version:        cli.Version(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MaxUploadBytes: cfg.MaxUploadBytes(),
			SecureCookie:   cfg.Server.SecureCookie,
			Logger:         logger,
		},
		docService,
		processingService,
		queryService,
		auth.NewAdapter(cfg.Session.Secret, cfg.SessionTTL()),
		svcs,
		store.pingers,
	)

	return server.Start(ctx)
}

// openStorage connects the document and session stores for the backend
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		logger.Info("connecting to Redis")
		redisOpts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse Redis URL: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to Redis: %w", err)
		}
		logger.Info("Redis connected")

		return &storage{
			documents: redisadapter.NewDocumentStore(client),
			sessions:  redisadapter.NewSessionStore(client),
			pingers: map[string]httpadapter.Pinger{
				"redis": httpadapter.PingFunc(func(ctx context.Context) error {
					return client.Ping(ctx).Err()
				}),
			},
			close: func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		logger.Info("connecting to PostgreSQL")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Storage.DatabaseURL))
		if err != nil {
			return nil, err
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("PostgreSQL connected and schema initialized")

		return &storage{
			documents: postgres.NewDocumentStore(db),
			sessions:  postgres.NewSessionStore(db),
			pingers:   map[string]httpadapter.Pinger{"postgres": db},
			close:     func() { _ = db.Close() },
		}, nil

	default:
		return &storage{
			documents: memory.NewDocumentStore(),
			sessions:  memory.NewSessionStore(),
			close:     func() {},
		}, nil
	}
}

// configureGateways creates the embedding and completion adapters.
// With verify set, unreachable gateways are left unset instead of failing later.
func configureGateways(ctx context.Context, factory *ai.Factory, svcs *runtime.Services, cfg *config.Config, opts cli.ServeOptions, logger *slog.Logger) error {
	embedding, err := factory.CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return fmt.Errorf("create embedding gateway: %w", err)
	}
	completion, err := factory.CreateCompletionService(cfg.CompletionSettings())
	if err != nil {
		return fmt.Errorf("create completion gateway: %w", err)
	}

	if !opts.VerifyGateways {
		svcs.SetEmbeddingService(embedding)
		svcs.SetCompletionService(completion)
		return nil
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := svcs.ValidateAndSetEmbedding(verifyCtx, embedding); err != nil {
		logger.Warn("embedding gateway unreachable", "model", embedding.Model(), "error", err)
	}
	if err := svcs.ValidateAndSetCompletion(verifyCtx, completion); err != nil {
		logger.Warn("completion gateway unreachable", "model", completion.Model(), "error", err)
	}
	return nil
}
