package config

import (
	"testing"
	"time"

	"tokenlens/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_PORT", "API_KEY", "PROVIDER_CHAIN", "SNAPSHOT_TTL_SECS",
		"BIRDEYE_API_KEY", "HEURISTIC_VARIANT", "AI_PROVIDER", "AI_PROXY_URL",
		"AI_TIMEOUT_MS", "OPENAI_API_KEY", "OPENAI_MODEL", "REDIS_URL",
		"DATABASE_URL", "TELEGRAM_BOT_TOKEN", "SSH_PORT", "WATCHLIST",
		"WATCHLIST_POLL_SECS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if len(cfg.ProviderChain) != 3 || cfg.ProviderChain[0] != domain.ProviderDexScreener {
		t.Fatalf("expected full default chain, got %v", cfg.ProviderChain)
	}
	if cfg.SnapshotTTL != 2*time.Minute {
		t.Fatalf("expected 120s TTL, got %v", cfg.SnapshotTTL)
	}
	if cfg.HeuristicVariant != "fixed" {
		t.Fatalf("expected fixed variant, got %q", cfg.HeuristicVariant)
	}
	if cfg.AIProvider != "none" || cfg.AITimeout != 3*time.Second {
		t.Fatalf("expected AI disabled with 3s budget, got %q/%v", cfg.AIProvider, cfg.AITimeout)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("unexpected default model: %q", cfg.OpenAIModel)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadChainParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVIDER_CHAIN", " birdeye , DEXSCREENER , nonsense ,geckoterminal")

	cfg := Load()
	want := []domain.ProviderID{
		domain.ProviderBirdeye,
		domain.ProviderDexScreener,
		domain.ProviderGeckoTerminal,
	}
	if len(cfg.ProviderChain) != len(want) {
		t.Fatalf("expected %d providers, got %v", len(want), cfg.ProviderChain)
	}
	for i, id := range want {
		if cfg.ProviderChain[i] != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, cfg.ProviderChain[i])
		}
	}
}

func TestLoadUnknownVariantsFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEURISTIC_VARIANT", "chaotic")
	t.Setenv("AI_PROVIDER", "skynet")

	cfg := Load()
	if cfg.HeuristicVariant != "fixed" {
		t.Fatalf("expected unknown variant to fall back, got %q", cfg.HeuristicVariant)
	}
	if cfg.AIProvider != "none" {
		t.Fatalf("expected unknown AI provider disabled, got %q", cfg.AIProvider)
	}
}

func TestLoadTimeouts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEXSCREENER_TIMEOUT_SECS", "2")
	t.Setenv("AI_TIMEOUT_MS", "1500")

	cfg := Load()
	if cfg.ProviderTimeouts[domain.ProviderDexScreener] != 2*time.Second {
		t.Fatalf("expected 2s dexscreener budget, got %v", cfg.ProviderTimeouts[domain.ProviderDexScreener])
	}
	if cfg.ProviderTimeouts[domain.ProviderBirdeye] != 6*time.Second {
		t.Fatalf("expected default birdeye budget, got %v", cfg.ProviderTimeouts[domain.ProviderBirdeye])
	}
	if cfg.AITimeout != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s AI budget, got %v", cfg.AITimeout)
	}
}

func TestValidateRejectsBrokenChain(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty chain")
	}

	cfg.ProviderChain = []domain.ProviderID{"carrierpigeon"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList(" a, ,b ,c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected list: %v", got)
	}
	if splitList("") != nil {
		t.Fatal("expected nil for empty input")
	}
}
