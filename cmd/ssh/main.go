package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"tokenlens/internal/cache"
	"tokenlens/internal/config"
	"tokenlens/internal/domain"
	"tokenlens/internal/heuristic"
	"tokenlens/internal/provider"
	"tokenlens/internal/service"
	"tokenlens/internal/teaser"
	"tokenlens/internal/tui"
	"tokenlens/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc          = godotenv.Load
	loadConfigFunc       = config.Load
	initTracerFunc       = tracing.InitTracer
	newRedisClientFunc   = cache.NewRedisClient
	newMarketServiceFunc = service.NewMarketService
	newWishServerFunc    = wish.NewServer
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var snapshots cache.SnapshotCache = cache.NewMemoryCache(cfg.SnapshotTTL)
	if cfg.RedisURL != "" {
		client, err := newRedisClientFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		snapshots = cache.NewRedisCache(client, cfg.SnapshotTTL)
	}

	marketService, err := newMarketServiceFunc(tracer, buildChain(tracer, cfg), cfg.ProviderTimeouts, snapshots)
	if err != nil {
		log.Fatalf("failed to create market service: %v", err)
	}
	engine := heuristic.NewEngine(levelVariant(cfg.HeuristicVariant))
	teasers := teaser.NewTeaserService(tracer, buildLLMClient(cfg), teaserProvider(cfg.AIProvider), cfg.AITimeout)

	allowed := make(map[string]bool, len(cfg.SSHAuthorizedKeys))
	for _, fp := range cfg.SSHAuthorizedKeys {
		allowed[fp] = true
	}
	if len(allowed) == 0 {
		log.Println("Warning: SSH_AUTHORIZED_KEYS not set, accepting any public key")
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			if len(allowed) == 0 {
				log.Printf("SSH auth accepted (open mode): fingerprint=%s", fingerprint)
				return true
			}
			if !allowed[fingerprint] {
				log.Printf("SSH auth denied: fingerprint=%s", fingerprint)
				return false
			}
			log.Printf("SSH auth accepted: fingerprint=%s", fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewAppModel(tui.Services{
					Market:  marketService,
					Engine:  engine,
					Teasers: teasers,
				})
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
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
