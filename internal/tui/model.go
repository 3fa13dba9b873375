// Package tui renders a live top-of-book depth viewer over a
// router.Router, refreshed on a timer tick.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nanobook/internal/money"
	"nanobook/internal/router"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	buyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

type tickMsg time.Time

// Model is the top-level bubbletea model: one row per symbol the
// router has seen, showing best bid and best ask only. The configured
// levels count is stored but not rendered; no deeper levels are shown.
type Model struct {
	r        *router.Router
	interval time.Duration
	levels   int
	width    int
	height   int
}

// New constructs a viewer over r, polling every interval. levels is
// kept on the model; View renders top of book only.
func New(r *router.Router, interval time.Duration, levels int) Model {
	return Model{r: r, interval: interval, levels: levels}
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		return m, tick(m.interval)
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("nanobook — %d symbols", m.r.Len())))
	b.WriteString("\n\n")

	symbols := m.r.Symbols()
	if len(symbols) == 0 {
		b.WriteString(dimStyle.Render("waiting for feed data...\n"))
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %12s %12s", "symbol", "bid", "ask")))
	b.WriteString("\n")
	for _, sym := range symbols {
		bid, ask := m.r.BestPrices(sym)
		b.WriteString(fmt.Sprintf("%-10s %s %s\n", sym, formatSide(bid, buyStyle), formatSide(ask, sellStyle)))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q to quit"))
	return b.String()
}

func formatSide(p *money.Price, style lipgloss.Style) string {
	if p == nil {
		return dimStyle.Render(fmt.Sprintf("%12s", "--"))
	}
	return style.Render(fmt.Sprintf("%12.2f", float64(*p)/100))
}
