package tui

import (
	"context"
	"fmt"

	"readiness/internal/recovery"
	"readiness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.Dashboard(context.Background())
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Evaluating readiness..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil {
		return "\n  No data available. Press 's' to sync with your health gateway."
	}

	var sections []string

	// Top row: verdict and last night side by side
	verdictCard := m.renderVerdictCard()
	sleepCard := m.renderSleepCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, verdictCard, "  ", sleepCard)
	sections = append(sections, topRow)

	// Bedtime consistency tile
	if m.data.Bedtime != nil {
		sections = append(sections, m.renderBedtimeCard())
	}

	// Recent verdict history
	if len(m.data.History) > 1 {
		sections = append(sections, m.renderHistory())
	}

	help := statusStyle.Render("Press 'r' to re-evaluate, 's' to sync, '2' for trends")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderVerdictCard() string {
	title := cardTitleStyle.Render("Today's Readiness")
	assessment := m.data.Assessment

	var lines []string
	lines = append(lines, categoryStyle(assessment.Category).Render(assessment.Category.String()))
	lines = append(lines, "")

	if !assessment.IsBaselineReady {
		lines = append(lines, m.renderBaselineProgress()...)
	} else if len(assessment.Indicators) == 0 {
		lines = append(lines, statusStyle.Render("No recent readings to score"))
	} else {
		for _, ind := range assessment.Indicators {
			mark := positiveStyle.Render("✓")
			if !ind.Positive {
				mark = negativeStyle.Render("✗")
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, ind.Detail))
		}
	}

	lines = append(lines, "")
	if m.data.TodayHRV != nil {
		lines = append(lines, RenderMetric("HRV today", fmt.Sprintf("%.0f ms", *m.data.TodayHRV)))
	}
	if m.data.TodayRHR != nil {
		lines = append(lines, RenderMetric("Resting HR", fmt.Sprintf("%d bpm", *m.data.TodayRHR)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderBaselineProgress() []string {
	p := m.data.Assessment.Progress
	if p == nil {
		return nil
	}

	percent := float64(p.CurrentDays) / float64(p.RequiredDays)
	return []string{
		statusStyle.Render("Building your baseline"),
		"",
		RenderProgressBar(percent, 28),
		statusStyle.Render(fmt.Sprintf("%d of %d days collected", p.CurrentDays, p.RequiredDays)),
		statusStyle.Render(fmt.Sprintf("HRV %dd · Sleep %dd · Resting HR %dd", p.HRVDays, p.SleepDays, p.RHRDays)),
	}
}

func (m DashboardModel) renderSleepCard() string {
	title := cardTitleStyle.Render("Last Night")

	if m.data.LastNight == nil {
		return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, statusStyle.Render("No sleep data yet")))
	}

	night := m.data.LastNight
	lines := []string{
		RenderMetric("Asleep", formatHours(night.TotalSleepHours)),
		RenderMetric("In bed", formatHours(night.TimeInBedHours)),
		RenderMetric("Efficiency", fmt.Sprintf("%.0f%%", night.Efficiency())),
		"",
		RenderMetric("REM", formatHours(night.REMHours)),
		RenderMetric("Deep", formatHours(night.DeepHours)),
		RenderMetric("Core", formatHours(night.CoreHours)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderBedtimeCard() string {
	title := cardTitleStyle.Render("Bedtime Consistency")
	bt := m.data.Bedtime

	var categoryLine string
	switch bt.Category() {
	case recovery.BedtimeStable:
		categoryLine = successStyle.Render("Stable")
	case recovery.BedtimeVariable:
		categoryLine = warningStyle.Render("Variable")
	default:
		categoryLine = errorStyle.Render("Irregular")
	}

	lines := []string{
		categoryLine,
		"",
		RenderMetric("Usual bedtime", bt.AverageClock()),
		RenderMetric("Spread", fmt.Sprintf("±%.0f min", bt.StdDevMinutes)),
		RenderMetric("Nights sampled", fmt.Sprintf("%d", bt.NightsSampled)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderHistory() string {
	title := cardTitleStyle.Render("Recent Verdicts")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-12s  %-10s  %s", "Day", "Verdict", "Indicators"))
	rows := []string{header}

	for _, a := range m.data.History {
		row := tableRowStyle.Render(fmt.Sprintf("%-12s  %-10s  %d", a.Day, a.Category, a.IndicatorCount))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}
