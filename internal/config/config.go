package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tokenlens/internal/domain"
)

type Config struct {
	HTTPPort int
	APIKey   string

	ProviderChain    []domain.ProviderID
	ProviderTimeouts map[domain.ProviderID]time.Duration
	SnapshotTTL      time.Duration
	BirdeyeAPIKey    string

	HeuristicVariant string

	AIProvider   string
	AIProxyURL   string
	AITimeout    time.Duration
	OpenAIAPIKey string
	OpenAIModel  string

	RedisURL    string
	DatabaseURL string

	TelegramBotToken string

	SSHPort           int
	SSHHostKeyPath    string
	SSHAuthorizedKeys []string

	Watchlist         []string
	WatchlistPollSecs int
}

func Load() *Config {
	cfg := &Config{
		APIKey:           os.Getenv("API_KEY"),
		BirdeyeAPIKey:    os.Getenv("BIRDEYE_API_KEY"),
		AIProxyURL:       os.Getenv("AI_PROXY_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	cfg.HTTPPort = intEnv("HTTP_PORT", 8080)

	cfg.ProviderChain = parseChain(os.Getenv("PROVIDER_CHAIN"))

	cfg.ProviderTimeouts = map[domain.ProviderID]time.Duration{
		domain.ProviderDexScreener:   secsEnv("DEXSCREENER_TIMEOUT_SECS", 5),
		domain.ProviderBirdeye:       secsEnv("BIRDEYE_TIMEOUT_SECS", 6),
		domain.ProviderGeckoTerminal: secsEnv("GECKOTERMINAL_TIMEOUT_SECS", 5),
	}

	// Minutes, not hours: fresh enough for a fast market, slow enough to
	// stay inside free-tier rate limits.
	cfg.SnapshotTTL = secsEnv("SNAPSHOT_TTL_SECS", 120)

	cfg.HeuristicVariant = strings.ToLower(strings.TrimSpace(os.Getenv("HEURISTIC_VARIANT")))
	if cfg.HeuristicVariant == "" {
		cfg.HeuristicVariant = "fixed"
	}
	if cfg.HeuristicVariant != "fixed" && cfg.HeuristicVariant != "seeded" {
		log.Printf("Warning: unsupported HEURISTIC_VARIANT=%q, defaulting to fixed", cfg.HeuristicVariant)
		cfg.HeuristicVariant = "fixed"
	}

	cfg.AIProvider = strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER")))
	if cfg.AIProvider == "" {
		cfg.AIProvider = "none"
	}
	switch cfg.AIProvider {
	case "none", "openai", "grok", "anthropic":
	default:
		log.Printf("Warning: unsupported AI_PROVIDER=%q, disabling AI teaser", cfg.AIProvider)
		cfg.AIProvider = "none"
	}

	cfg.AITimeout = 3 * time.Second
	if v := strings.TrimSpace(os.Getenv("AI_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AITimeout = time.Duration(n) * time.Millisecond
		}
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, using in-memory snapshot cache")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, analysis journal disabled")
	}
	if cfg.AIProvider != "none" && cfg.AIProxyURL == "" && cfg.OpenAIAPIKey == "" {
		log.Println("Warning: AI_PROVIDER set without AI_PROXY_URL or OPENAI_API_KEY, teasers will use the heuristic branch")
	}

	cfg.SSHPort = intEnv("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = os.Getenv("SSH_HOST_KEY_PATH")
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/tokenlens_host_key"
	}
	cfg.SSHAuthorizedKeys = splitList(os.Getenv("SSH_AUTHORIZED_KEYS"))

	cfg.Watchlist = splitList(os.Getenv("WATCHLIST"))
	cfg.WatchlistPollSecs = intEnv("WATCHLIST_POLL_SECS", 300)

	return cfg
}

// Validate reports fatal configuration faults. These fail startup; they are
// never surfaced per request.
func (c *Config) Validate() error {
	if len(c.ProviderChain) == 0 {
		return fmt.Errorf("provider chain is empty")
	}
	for _, p := range c.ProviderChain {
		if !p.IsValid() {
			return fmt.Errorf("unknown provider %q in chain", p)
		}
	}
	return nil
}

// parseChain reads a comma-separated provider list, dropping unknown names
// with a warning. An empty env falls back to the default preference order.
func parseChain(raw string) []domain.ProviderID {
	if strings.TrimSpace(raw) == "" {
		return append([]domain.ProviderID(nil), domain.KnownProviders...)
	}
	var chain []domain.ProviderID
	for _, part := range strings.Split(raw, ",") {
		id := domain.ProviderID(strings.ToLower(strings.TrimSpace(part)))
		if id == "" {
			continue
		}
		if !id.IsValid() {
			log.Printf("Warning: unknown provider %q in PROVIDER_CHAIN, skipping", id)
			continue
		}
		chain = append(chain, id)
	}
	return chain
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intEnv(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func secsEnv(key string, defSecs int) time.Duration {
	return time.Duration(intEnv(key, defSecs)) * time.Second
}
