package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokenlens/internal/bot"
	"tokenlens/internal/cache"
	"tokenlens/internal/config"
	"tokenlens/internal/db"
	"tokenlens/internal/domain"
	"tokenlens/internal/handler"
	"tokenlens/internal/heuristic"
	"tokenlens/internal/job"
	"tokenlens/internal/provider"
	"tokenlens/internal/repository"
	"tokenlens/internal/service"
	"tokenlens/internal/teaser"
	"tokenlens/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "tokenlens/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initTracerFunc         = tracing.InitTracer
	newRedisClientFunc     = cache.NewRedisClient
	newAnalysisRepoFunc    = repository.NewAnalysisRepository
	newMarketServiceFunc   = service.NewMarketService
	newRefresherFunc       = job.NewWatchlistRefresher
	startRefresherFunc     = func(w *job.WatchlistRefresher, ctx context.Context) { go w.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Tokenlens API
// @version         1.0
// @description     Token snapshot routing and deterministic technical analysis.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	initPostgresFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Snapshot cache: shared Redis when configured, per-process otherwise
	var snapshots cache.SnapshotCache = cache.NewMemoryCache(cfg.SnapshotTTL)
	if cfg.RedisURL != "" {
		client, err := newRedisClientFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		snapshots = cache.NewRedisCache(client, cfg.SnapshotTTL)
		log.Println("Connected to Redis")
	}

	// Analysis journal (optional); schema is owned by cmd/migrate
	var journal handler.Journal
	if db.Pool != nil {
		journal = newAnalysisRepoFunc(db.Pool, tracer)
	}

	// Provider chain and market service
	marketService, err := newMarketServiceFunc(tracer, buildChain(tracer, cfg), cfg.ProviderTimeouts, snapshots)
	if err != nil {
		log.Fatalf("failed to create market service: %v", err)
	}

	engine := heuristic.NewEngine(levelVariant(cfg.HeuristicVariant))
	teasers := teaser.NewTeaserService(tracer, buildLLMClient(cfg), teaserProvider(cfg.AIProvider), cfg.AITimeout)

	// Watchlist refresher (background goroutine, stopped by ctx cancel)
	refresher := newRefresherFunc(tracer, marketService, cfg.Watchlist, cfg.WatchlistPollSecs)
	startRefresherFunc(refresher, ctx)

	// Telegram bot
	startTelegramBotFunc(cfg.TelegramBotToken, marketService, engine)

	// Handlers and routes
	h := newHandlerFunc(tracer, marketService, engine, teasers, journal, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("tokenlens"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// buildChain instantiates one adapter per configured provider, in chain order.
func buildChain(tracer trace.Tracer, cfg *config.Config) []provider.Adapter {
	var chain []provider.Adapter
	for _, id := range cfg.ProviderChain {
		switch id {
		case domain.ProviderDexScreener:
			chain = append(chain, provider.NewDexScreenerAdapter(tracer))
		case domain.ProviderBirdeye:
			chain = append(chain, provider.NewBirdeyeAdapter(tracer, cfg.BirdeyeAPIKey))
		case domain.ProviderGeckoTerminal:
			chain = append(chain, provider.NewGeckoTerminalAdapter(tracer))
		}
	}
	return chain
}

// buildLLMClient picks the transport for the AI branch: the relay when its
// URL is set, a direct OpenAI client otherwise. Nil disables AI teasers.
func buildLLMClient(cfg *config.Config) teaser.LLMClient {
	if cfg.AIProvider == "none" {
		return nil
	}
	if cfg.AIProxyURL != "" {
		return teaser.NewProxyClient(cfg.AIProxyURL)
	}
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		return teaser.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return nil
}

func teaserProvider(name string) domain.TeaserProvider {
	switch name {
	case "openai":
		return domain.TeaserOpenAI
	case "grok":
		return domain.TeaserGrok
	case "anthropic":
		return domain.TeaserAnthropic
	default:
		return ""
	}
}

func levelVariant(name string) heuristic.LevelVariant {
	if name == "seeded" {
		return heuristic.VariantSeeded
	}
	return heuristic.VariantFixed
}
