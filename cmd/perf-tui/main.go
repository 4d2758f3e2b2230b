package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/budget"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/client"
	"github.com/DeepFriedCyber/proof-messenger-perf/pkg/config"
)

const (
	pollRate       = time.Second
	maxSamples     = 100
	viewportHeight = 20
)

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			Width(100)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(100)

	sampleTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
)

// statsSample is one polled observation of the target's counters.
type statsSample struct {
	at    time.Time
	stats client.Stats
}

type tickMsg time.Time

type dataMsg struct {
	stats client.Stats
	err   error
}

type model struct {
	spinner     spinner.Model
	viewport    viewport.Model
	apiClient   *client.Client
	target      string
	environment string
	budget      budget.PerformanceBudget
	samples     []statsSample
	err         error
	ready       bool
}

func initialModel(target, environment string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner:     s,
		apiClient:   client.NewClient(target),
		target:      target,
		environment: environment,
		budget:      config.BudgetFor(environment),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchStats(m.apiClient),
		tick(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tickMsg:
		cmds = append(cmds, fetchStats(m.apiClient), tick())

	case dataMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.samples = append(m.samples, statsSample{at: time.Now(), stats: msg.stats})
			if len(m.samples) > maxSamples {
				m.samples = m.samples[len(m.samples)-maxSamples:]
			}
			m.updateViewportContent()
		}

		if !m.ready {
			m.ready = true
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				PaddingRight(2)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *model) updateViewportContent() {
	var sb strings.Builder

	for _, s := range m.samples {
		ts := s.at.Format("15:04:05")

		// Color the error rate against the budget's failure ceiling.
		rate := fmt.Sprintf("%.2f%% err", s.stats.ErrorRatePercent)
		var rateStr string
		switch {
		case s.stats.ErrorRatePercent > m.budget.MaxFailureRatePercent:
			rateStr = errorStyle.Render(rate)
		case s.stats.ErrorRatePercent > m.budget.MaxFailureRatePercent/2:
			rateStr = warnStyle.Render(rate)
		default:
			rateStr = okStyle.Render(rate)
		}

		line := fmt.Sprintf("%s %s %s %s\n",
			sampleTimeStyle.Render(ts),
			labelStyle.Render(fmt.Sprintf("%8d reqs", s.stats.RequestsProcessed)),
			fmt.Sprintf("%7.1f rps", s.stats.RequestsPerSecond),
			rateStr,
		)
		sb.WriteString(line)
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Initializing...", m.spinner.View())
	}

	// Top pane: the budget this environment gates against.
	var budgetInfo strings.Builder
	budgetInfo.WriteString(lipgloss.NewStyle().Bold(true).Underline(true).Render(
		fmt.Sprintf("Budget: %s", m.environment)) + "\n\n")
	budgetInfo.WriteString(fmt.Sprintf("p99 ≤ %d ms • p95 ≤ %d ms • avg ≤ %d ms\n",
		m.budget.MaxP99LatencyMs, m.budget.MaxP95LatencyMs, m.budget.MaxAvgLatencyMs))
	budgetInfo.WriteString(fmt.Sprintf("failures ≤ %.2f%% • throughput ≥ %d rps\n",
		m.budget.MaxFailureRatePercent, m.budget.MinRPS))
	budgetInfo.WriteString(subtleStyle.Render(fmt.Sprintf("Target: %s", m.target)))

	topPane := paneStyle.Render(budgetInfo.String())

	header := headerStyle.Render(fmt.Sprintf("%s Live Stats", m.spinner.View()))
	bottomPane := m.viewport.View()

	var status string
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("Offline: %v", m.err))
	} else if len(m.samples) > 0 {
		latest := m.samples[len(m.samples)-1].stats
		status = okStyle.Render(fmt.Sprintf("Online • %d requests • %.2f%% errors • up %s",
			latest.RequestsProcessed, latest.ErrorRatePercent,
			(time.Duration(latest.UptimeSeconds) * time.Second).String()))
	} else {
		status = subtleStyle.Render("Waiting for first sample...")
	}
	footer := subtleStyle.Render(fmt.Sprintf("\n%s\nPress q to quit", status))

	return lipgloss.JoinVertical(lipgloss.Left, topPane, header, bottomPane, footer)
}

// Commands

func fetchStats(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		stats, err := c.Stats(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{stats: stats}
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func main() {
	target := flag.String("target", "", "base URL of the mock server; defaults to $TARGET_HOST")
	environment := flag.String("env", "", "environment budget to display; defaults to $ENVIRONMENT")
	flag.Parse()

	resolvedTarget := *target
	if resolvedTarget == "" {
		resolvedTarget = config.TargetHost()
	}
	resolvedEnv := config.ResolveEnvironment(*environment)

	p := tea.NewProgram(initialModel(resolvedTarget, resolvedEnv), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
