package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tokenlens/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// MarketFetcher resolves a token address to a snapshot.
type MarketFetcher interface {
	Fetch(ctx context.Context, address string) (*domain.FetchResult, error)
}

// Analyzer derives the deterministic read for a snapshot.
type Analyzer interface {
	Analyze(snap *domain.MarketSnapshot, hints []domain.OCRHint) domain.HeuristicAnalysis
}

// StartTelegramBot wires the command handlers and begins long polling. An
// empty token skips startup entirely.
func StartTelegramBot(token string, market MarketFetcher, engine Analyzer) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /price <token address>")
		}
		address := strings.TrimSpace(args[0])
		result, err := market.Fetch(context.Background(), address)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching %s: %v", address, err))
		}
		return c.Send(formatPrice(result))
	})

	b.Handle("/analyze", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /analyze <token address>")
		}
		address := strings.TrimSpace(args[0])
		result, err := market.Fetch(context.Background(), address)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching %s: %v", address, err))
		}
		analysis := engine.Analyze(result.Snapshot, nil)
		return c.Send(formatAnalysis(result, &analysis))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatPrice(result *domain.FetchResult) string {
	snap := result.Snapshot
	return fmt.Sprintf(
		"%s (%s)\nPrice: $%s\n24h Change: %.2f%%\n24h Volume: $%.0f\nLiquidity: $%.0f\nSource: %s",
		snap.Symbol, snap.Name, formatUSD(snap.Price), snap.Change24Pct, snap.Volume24, snap.Liquidity, snap.Provider,
	)
}

func formatAnalysis(result *domain.FetchResult, heur *domain.HeuristicAnalysis) string {
	snap := result.Snapshot
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s @ $%s\n", snap.Symbol, formatUSD(snap.Price))
	fmt.Fprintf(&sb, "Bias: %s (confidence %.0f%%)\n", heur.Bias, heur.Confidence*100)
	fmt.Fprintf(&sb, "Support: $%s\nResistance: $%s\n", formatUSD(heur.SupportLevel), formatUSD(heur.ResistanceLevel))
	fmt.Fprintf(&sb, "Volatility: %.1f%% (%s range)", heur.VolatilityPct, heur.RangeSize)
	if heur.EntryZone != nil {
		fmt.Fprintf(&sb, "\nEntry: $%s - $%s", formatUSD(heur.EntryZone.Min), formatUSD(heur.EntryZone.Max))
	}
	if heur.StopLoss != nil {
		fmt.Fprintf(&sb, "\nStop: $%s", formatUSD(*heur.StopLoss))
	}
	for i, tp := range heur.TakeProfits {
		fmt.Fprintf(&sb, "\nTP%d: $%s", i+1, formatUSD(tp))
	}
	return sb.String()
}

// formatUSD keeps micro-cap prices legible: two decimals above a dollar,
// enough significant digits below it.
func formatUSD(v float64) string {
	switch {
	case v >= 1:
		return fmt.Sprintf("%.2f", v)
	case v >= 0.0001:
		return fmt.Sprintf("%.6f", v)
	default:
		return fmt.Sprintf("%.10f", v)
	}
}
