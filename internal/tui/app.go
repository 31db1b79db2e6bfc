package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tokenlens/internal/domain"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MarketFetcher resolves a token address to a snapshot.
type MarketFetcher interface {
	Fetch(ctx context.Context, address string) (*domain.FetchResult, error)
}

// Analyzer derives the deterministic read for a snapshot.
type Analyzer interface {
	Analyze(snap *domain.MarketSnapshot, hints []domain.OCRHint) domain.HeuristicAnalysis
}

// TeaserGenerator produces the narrative layer; it never fails.
type TeaserGenerator interface {
	Generate(ctx context.Context, snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis, hints []domain.OCRHint) *domain.TeaserAnalysis
}

// Services bundles the dependencies the TUI needs. A nil Teasers skips the
// narrative section.
type Services struct {
	Market  MarketFetcher
	Engine  Analyzer
	Teasers TeaserGenerator
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	bullishStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	bearishStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	neutralStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

type analysisMsg struct {
	result   *domain.FetchResult
	analysis domain.HeuristicAnalysis
	teaser   *domain.TeaserAnalysis
}

type analysisErrMsg struct {
	err error
}

// AppModel is the root bubbletea model: an address prompt on top, the last
// analysis (or error) below it.
type AppModel struct {
	svc      Services
	input    textinput.Model
	width    int
	height   int
	loading  bool
	errText  string
	result   *domain.FetchResult
	analysis *domain.HeuristicAnalysis
	teaser   *domain.TeaserAnalysis
}

func NewAppModel(svc Services) *AppModel {
	ti := textinput.New()
	ti.Placeholder = "token address"
	ti.CharLimit = 64
	ti.Width = 48
	ti.Focus()

	return &AppModel{svc: svc, input: ti}
}

// SetSize records the PTY dimensions before the program starts.
func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			address := strings.TrimSpace(m.input.Value())
			if address == "" || m.loading {
				return m, nil
			}
			m.loading = true
			m.errText = ""
			return m, m.analyzeCmd(address)
		}

	case analysisMsg:
		m.loading = false
		m.result = msg.result
		m.analysis = &msg.analysis
		m.teaser = msg.teaser
		return m, nil

	case analysisErrMsg:
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) analyzeCmd(address string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		result, err := m.svc.Market.Fetch(ctx, address)
		if err != nil {
			return analysisErrMsg{err: err}
		}
		analysis := m.svc.Engine.Analyze(result.Snapshot, nil)

		msg := analysisMsg{result: result, analysis: analysis}
		if m.svc.Teasers != nil {
			msg.teaser = m.svc.Teasers.Generate(ctx, result.Snapshot, &analysis, nil)
		}
		return msg
	}
}

func (m *AppModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("tokenlens"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(hintStyle.Render("fetching..."))
	case m.errText != "":
		sb.WriteString(errorStyle.Render("error: " + m.errText))
	case m.result != nil && m.analysis != nil:
		sb.WriteString(renderAnalysis(m.result, m.analysis))
		if m.teaser != nil {
			sb.WriteString("\n\n")
			sb.WriteString(renderTeaser(m.teaser))
		}
	default:
		sb.WriteString(hintStyle.Render("enter a token address and press enter"))
	}

	sb.WriteString("\n\n")
	sb.WriteString(hintStyle.Render("enter: analyze • esc: quit"))
	return sb.String()
}

func renderAnalysis(result *domain.FetchResult, heur *domain.HeuristicAnalysis) string {
	snap := result.Snapshot

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s (%s)", snap.Symbol, snap.Name)),
		row("Price", fmt.Sprintf("$%g", snap.Price)),
		row("24h Change", fmt.Sprintf("%.2f%%", snap.Change24Pct)),
		row("Volume", fmt.Sprintf("$%.0f", snap.Volume24)),
		row("Liquidity", fmt.Sprintf("$%.0f", snap.Liquidity)),
		row("Source", sourceLine(result)),
		"",
		row("Bias", biasStyle(heur.Bias).Render(string(heur.Bias))),
		row("Support", fmt.Sprintf("$%g", heur.SupportLevel)),
		row("Resistance", fmt.Sprintf("$%g", heur.ResistanceLevel)),
		row("Volatility", fmt.Sprintf("%.1f%% (%s)", heur.VolatilityPct, heur.RangeSize)),
		row("Confidence", fmt.Sprintf("%.0f%%", heur.Confidence*100)),
	}

	if heur.EntryZone != nil {
		lines = append(lines, row("Entry", fmt.Sprintf("$%g - $%g", heur.EntryZone.Min, heur.EntryZone.Max)))
	}
	if heur.StopLoss != nil {
		lines = append(lines, row("Stop", fmt.Sprintf("$%g", *heur.StopLoss)))
	}
	for i, tp := range heur.TakeProfits {
		lines = append(lines, row(fmt.Sprintf("TP%d", i+1), fmt.Sprintf("$%g", tp)))
	}

	return strings.Join(lines, "\n")
}

func renderTeaser(teaser *domain.TeaserAnalysis) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Read"))
	sb.WriteString(" ")
	sb.WriteString(hintStyle.Render(fmt.Sprintf("(%s)", teaser.Provider)))
	sb.WriteString("\n")
	sb.WriteString(valueStyle.Render(teaser.TeaserText))
	for _, ind := range teaser.Indicators {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("• " + ind))
	}
	return sb.String()
}

func sourceLine(result *domain.FetchResult) string {
	src := string(result.Meta.Provider)
	if result.Meta.Cached {
		src += " (cached)"
	} else if result.Meta.Fallback {
		src += " (fallback)"
	}
	return src
}

func biasStyle(bias domain.Bias) lipgloss.Style {
	switch bias {
	case domain.BiasBullish:
		return bullishStyle
	case domain.BiasBearish:
		return bearishStyle
	default:
		return neutralStyle
	}
}
