package tui

import (
	"context"
	"fmt"

	"readiness/internal/recovery"
	"readiness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sleepWindowDays is how many recent nights the sleep screen lists
const sleepWindowDays = 14

// SleepModel is the sleep history screen model
type SleepModel struct {
	queryService *service.QueryService
	nights       []recovery.SleepBreakdown
	loading      bool
	err          error
}

// NewSleepModel creates a new sleep model
func NewSleepModel(qs *service.QueryService) SleepModel {
	return SleepModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the sleep screen
func (m SleepModel) Init() tea.Cmd {
	return m.loadData
}

func (m SleepModel) loadData() tea.Msg {
	nights, err := m.queryService.SleepNights(context.Background(), sleepWindowDays)
	return sleepDataMsg{nights: nights, err: err}
}

type sleepDataMsg struct {
	nights []recovery.SleepBreakdown
	err    error
}

// Update handles messages
func (m SleepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sleepDataMsg:
		m.loading = false
		m.err = msg.err
		m.nights = msg.nights
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the sleep history
func (m SleepModel) View() string {
	if m.loading {
		return "\n  Loading sleep history..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.nights) == 0 {
		return "\n  No sleep data yet. Press 's' to sync with your health gateway."
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Sleep - Last %d Nights", sleepWindowDays))

	header := tableHeaderStyle.Render(fmt.Sprintf("%-8s  %7s  %7s  %5s  %5s  %5s  %5s  %5s",
		"Night", "Asleep", "In Bed", "Eff", "REM", "Deep", "Core", "Score"))

	rows := []string{header}
	for _, n := range m.nights {
		row := tableRowStyle.Render(fmt.Sprintf("%-8s  %7s  %7s  %4.0f%%  %5s  %5s  %5s  %5.0f",
			n.Date.Format("Jan 02"),
			formatHours(n.TotalSleepHours),
			formatHours(n.TimeInBedHours),
			n.Efficiency(),
			formatHours(n.REMHours),
			formatHours(n.DeepHours),
			formatHours(n.CoreHours),
			n.QualityScore(),
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))

	help := statusStyle.Render("Press 'r' to refresh, '1' for dashboard")

	return lipgloss.JoinVertical(lipgloss.Left, card, help)
}
