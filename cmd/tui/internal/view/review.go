package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/matching"
)

type reviewState int

const (
	reviewStatePeriod reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through the expenses that have no category, suggests one
// from the learned rules and remembers what the user picks.
type ReviewModel struct {
	CommonModel
	expenseService  *expense.Service
	matchingService *matching.Service
	userID          uuid.UUID

	state        reviewState
	periodPicker PeriodPicker

	queue      []*expense.Expense
	current    *expense.Expense
	input      textinput.Model
	totalCount int

	status  string
	loading bool
}

func NewReviewModel(expSvc *expense.Service, matchSvc *matching.Service, userID uuid.UUID) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = strings.Join(expense.Categories, ", ")
	ti.Width = 50

	return ReviewModel{
		expenseService:  expSvc,
		matchingService: matchSvc,
		userID:          userID,
		periodPicker:    NewPeriodPicker(true),
		input:           ti,
	}
}

func (m ReviewModel) Title() string { return "Categorize Expenses" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStatePeriod {
		return "Esc: back | Enter: select"
	}

	return "Enter: save & next | Tab: skip | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadCmd(msg.Period)

	case loadUncategorizedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading expenses: %v", msg.err)
			return m, nil
		}

		m.queue = msg.expenses
		m.totalCount = len(m.queue)
		cmd := m.nextCmd()

		return m, cmd

	case suggestionMsg:
		m.current = msg.expense
		m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
		m.input.SetValue(msg.category)
		m.input.Focus()

		return m, textinput.Blink

	case categorySavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		cmd := m.nextCmd()

		return m, cmd
	}

	if m.state == reviewStatePeriod {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.periodPicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.periodPicker, cmd = m.periodPicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.loading {
			return m, nil
		}

		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyTab:
			cmd := m.nextCmd()
			return m, cmd
		case tea.KeyEnter:
			if m.current == nil || strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}

			return m, m.saveCmd(m.current, strings.TrimSpace(m.input.Value()))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ReviewModel) View() string {
	if m.state == reviewStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.periodPicker.View())
	}

	var content string

	switch {
	case m.loading:
		content = "Loading expenses..."
	case m.current != nil:
		info := fmt.Sprintf(
			"Date:        %s\nAmount:      %s\nDescription: %s\n",
			m.current.Date,
			FormatAmount(m.current.Amount),
			m.current.Description,
		)
		content = fmt.Sprintf("%s\n\n%s\nCategory:\n%s\n\n(Enter to save & next, Tab to skip, Esc to quit)",
			m.status, info, m.input.View())
	default:
		content = m.status + "\n\n(Esc to back)"
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type loadUncategorizedMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ReviewModel) loadCmd(period string) tea.Cmd {
	svc := m.expenseService
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := svc.List(ctx, userID, expense.ListFilter{Period: period})
		if err != nil {
			return loadUncategorizedMsg{err: err}
		}

		var pending []*expense.Expense

		for _, e := range es {
			if strings.TrimSpace(e.Category) == "" {
				pending = append(pending, e)
			}
		}

		return loadUncategorizedMsg{expenses: pending}
	}
}

type suggestionMsg struct {
	expense  *expense.Expense
	category string
}

// nextCmd pops the next expense off the queue and looks up a suggestion for it.
func (m *ReviewModel) nextCmd() tea.Cmd {
	if len(m.queue) == 0 {
		m.current = nil
		m.input.Blur()
		m.status = "All done! Every expense has a category."

		return nil
	}

	e := m.queue[0]
	m.queue = m.queue[1:]

	svc := m.matchingService
	userID := m.userID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		// A failed lookup only means no suggestion.
		category, _ := svc.Suggest(ctx, userID, e.Description)

		return suggestionMsg{expense: e, category: category}
	}
}

type categorySavedMsg struct {
	err error
}

func (m ReviewModel) saveCmd(e *expense.Expense, category string) tea.Cmd {
	expSvc := m.expenseService
	matchSvc := m.matchingService
	userID := m.userID

	rec := e.Record()
	rec.Category = category

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := matchSvc.Learn(ctx, userID, e.Description, category); err != nil {
			return categorySavedMsg{err: err}
		}

		if _, err := expSvc.Update(ctx, userID, e.ID, rec); err != nil {
			return categorySavedMsg{err: err}
		}

		return categorySavedMsg{}
	}
}
