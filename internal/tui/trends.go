package tui

import (
	"context"
	"fmt"

	"readiness/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// trendWindowDays is how far back the trend charts look
const trendWindowDays = 30

// TrendsModel is the trends screen model
type TrendsModel struct {
	queryService *service.QueryService
	data         *service.TrendData
	loading      bool
	err          error
}

// NewTrendsModel creates a new trends model
func NewTrendsModel(qs *service.QueryService) TrendsModel {
	return TrendsModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the trends screen
func (m TrendsModel) Init() tea.Cmd {
	return m.loadData
}

func (m TrendsModel) loadData() tea.Msg {
	data, err := m.queryService.Trends(context.Background(), trendWindowDays)
	if err != nil {
		return trendsDataMsg{err: err}
	}
	return trendsDataMsg{data: data}
}

type trendsDataMsg struct {
	data *service.TrendData
	err  error
}

// Update handles messages
func (m TrendsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trendsDataMsg:
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

// View renders the trends screen
func (m TrendsModel) View() string {
	if m.loading {
		return "\n  Loading trends..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || len(m.data.HRV.Values) < 3 {
		return "\n  Not enough readings to chart yet. Keep syncing daily."
	}

	var sections []string
	sections = append(sections, m.renderChart("HRV - Last 30 Days (ms)", m.data.HRV))

	if len(m.data.RestingHR.Values) >= 3 {
		sections = append(sections, m.renderChart("Resting HR - Last 30 Days (bpm)", m.data.RestingHR))
	}

	sections = append(sections, statusStyle.Render("Press 'r' to refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m TrendsModel) renderChart(title string, s service.TrendSeries) string {
	graph := asciigraph.Plot(s.Values,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	footer := fmt.Sprintf("window average: %.1f", mean(s.Values))
	if len(s.Days) > 0 {
		footer = fmt.Sprintf("%s to %s · %s", s.Days[0], s.Days[len(s.Days)-1], footer)
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cardTitleStyle.Render(title), graph, statusStyle.Render(footer)))
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}
