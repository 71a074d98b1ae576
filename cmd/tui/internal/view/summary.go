package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/stats"
)

type summaryState int

const (
	summaryStatePeriod summaryState = iota
	summaryStateShow
)

// SummaryModel shows the totals of one month per day and per category.
type SummaryModel struct {
	CommonModel
	expenseService *expense.Service
	userID         uuid.UUID

	state        summaryState
	periodPicker PeriodPicker
	period       string

	byPeriod   table.Model
	byCategory table.Model
	total      float64

	loading bool
	err     error
}

func NewSummaryModel(expSvc *expense.Service, userID uuid.UUID) SummaryModel {
	return SummaryModel{
		expenseService: expSvc,
		userID:         userID,
		periodPicker:   NewPeriodPicker(false),
		byPeriod:       newTotalsTable("Date", 12),
		byCategory:     newTotalsTable("Category", 18),
	}
}

func newTotalsTable(keyTitle string, keyWidth int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: keyTitle, Width: keyWidth},
			{Title: "Total", Width: 14},
		}),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t
}

func (m SummaryModel) Title() string { return "Monthly Summary" }

func (m SummaryModel) ShortHelp() string {
	if m.state == summaryStatePeriod {
		return "Esc: back | Enter: select"
	}

	return "Esc: back | ←/→: previous/next month | p: period"
}

func (m SummaryModel) Init() tea.Cmd {
	return nil
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg.Period
		m.state = summaryStateShow
		m.loading = true

		return m, m.loadCmd()

	case loadSummaryMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.setTotals(msg.byPeriod, msg.byCategory)
		}

		return m, nil
	}

	if m.state == summaryStatePeriod {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.periodPicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.periodPicker, cmd = m.periodPicker.Update(msg)

		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h":
		m.period = shiftPeriod(m.period, -1)
		m.loading = true

		return m, m.loadCmd()
	case "right", "l":
		m.period = shiftPeriod(m.period, 1)
		m.loading = true

		return m, m.loadCmd()
	case "p":
		m.state = summaryStatePeriod
		m.periodPicker = NewPeriodPicker(false)
	}

	return m, nil
}

func (m *SummaryModel) setTotals(byPeriod []stats.PeriodTotal, byCategory []stats.CategoryTotal) {
	m.total = 0

	periodRows := make([]table.Row, 0, len(byPeriod))
	for _, t := range byPeriod {
		periodRows = append(periodRows, table.Row{t.Period, FormatTotal(t.Total)})
		m.total += t.Total
	}

	categoryRows := make([]table.Row, 0, len(byCategory))
	for _, t := range byCategory {
		category := t.Category
		if category == "" {
			category = "(none)"
		}

		categoryRows = append(categoryRows, table.Row{category, FormatTotal(t.Total)})
	}

	m.byPeriod.SetRows(periodRows)
	m.byCategory.SetRows(categoryRows)
}

func (m SummaryModel) View() string {
	if m.state == summaryStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.periodPicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("%s | Total: %s",
		activeStyle(FormatPeriod(m.period)),
		lipgloss.NewStyle().Bold(true).Render(FormatTotal(m.total)),
	)

	if len(m.byPeriod.Rows()) == 0 {
		return lipgloss.NewStyle().Padding(1).Render(header + "\n\nNo expenses in this month.")
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		MarginRight(2)

	tables := lipgloss.JoinHorizontal(lipgloss.Top,
		box.Render(m.byPeriod.View()),
		box.Render(m.byCategory.View()),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tables,
		),
	)
}

type loadSummaryMsg struct {
	byPeriod   []stats.PeriodTotal
	byCategory []stats.CategoryTotal
	err        error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	svc := m.expenseService
	userID := m.userID
	period := m.period

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := svc.List(ctx, userID, expense.ListFilter{})
		if err != nil {
			return loadSummaryMsg{err: err}
		}

		return loadSummaryMsg{
			byPeriod:   stats.ByPeriod(es, period),
			byCategory: stats.ByCategory(es, period),
		}
	}
}
