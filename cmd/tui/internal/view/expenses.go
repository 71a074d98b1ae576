package view

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

type expensesState int

const (
	expensesStatePeriod expensesState = iota
	expensesStateBrowse
	expensesStateForm
	expensesStateConfirmDelete
)

func newExpenseTable(height int) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 14},
		{Title: "Category", Width: 15},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func expenseRows(es []*expense.Expense) []table.Row {
	rows := make([]table.Row, 0, len(es))
	for _, e := range es {
		rows = append(rows, table.Row{
			e.Date,
			FormatAmount(e.Amount),
			e.Category,
			e.Description,
		})
	}

	return rows
}

// expenseFields backs the add/edit form. The form holds pointers into it, so
// it must outlive the model copies bubbletea makes.
type expenseFields struct {
	id          uuid.UUID
	amount      string
	category    string
	description string
	date        string
}

func (f *expenseFields) record() expense.Record {
	return expense.Record{
		Amount:      f.amount,
		Category:    f.category,
		Description: f.description,
		Date:        f.date,
	}
}

type ExpensesModel struct {
	CommonModel
	expenseService *expense.Service
	userID         uuid.UUID

	state        expensesState
	periodPicker PeriodPicker
	period       string
	table        table.Model
	expenses     []*expense.Expense

	form   *huh.Form
	fields *expenseFields

	loading bool
	status  string
	err     error
}

func NewExpensesModel(expSvc *expense.Service, userID uuid.UUID) ExpensesModel {
	return ExpensesModel{
		expenseService: expSvc,
		userID:         userID,
		periodPicker:   NewPeriodPicker(true),
		table:          newExpenseTable(15),
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesStatePeriod:
		return "Esc: back | Enter: select"
	case expensesStateForm:
		return "Navigate form | Esc: cancel"
	case expensesStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "Esc: back | a: add | e: edit | d: delete | p: period | r: refresh"
}

func (m ExpensesModel) Init() tea.Cmd {
	return nil
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PeriodSelectedMsg:
		m.period = msg.Period
		m.state = expensesStateBrowse
		m.loading = true

		return m, m.loadCmd()

	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.expenses = msg.expenses
		m.table.SetRows(expenseRows(msg.expenses))

		return m, nil

	case expenseSavedMsg:
		return m.handleSaved(msg)

	case expenseDeletedMsg:
		m.state = expensesStateBrowse
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Deleted."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case expensesStatePeriod:
		return m.updatePeriod(msg)
	case expensesStateBrowse:
		return m.updateBrowse(msg)
	case expensesStateForm:
		return m.updateForm(msg)
	case expensesStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m ExpensesModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.periodPicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.periodPicker, cmd = m.periodPicker.Update(msg)

	return m, cmd
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			m.state = expensesStatePeriod
			m.periodPicker = NewPeriodPicker(true)

			return m, nil
		case "a":
			return m.openForm(&expenseFields{date: time.Now().Format(time.DateOnly)})
		case "e":
			e := m.selected()
			if e == nil {
				return m, nil
			}

			return m.openForm(&expenseFields{
				id:          e.ID,
				amount:      e.Amount,
				category:    e.Category,
				description: e.Description,
				date:        e.Date,
			})
		case "d":
			if m.selected() == nil {
				return m, nil
			}

			m.state = expensesStateConfirmDelete

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

func (m ExpensesModel) openForm(fields *expenseFields) (tea.Model, tea.Cmd) {
	options := make([]huh.Option[string], 0, len(expense.Categories)+1)

	// Imported expenses may carry a category outside the fixed list.
	switch {
	case fields.category == "":
		options = append(options, huh.NewOption("(none)", ""))
	case !slices.Contains(expense.Categories, fields.category):
		options = append(options, huh.NewOption(fields.category, fields.category))
	}

	for _, c := range expense.Categories {
		options = append(options, huh.NewOption(c, c))
	}

	m.fields = fields
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.50").
				Value(&fields.amount),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&fields.category),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&fields.description),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&fields.date),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = expensesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = expensesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	// Saving; wait for expenseSavedMsg.
	if m.form.State == huh.StateCompleted {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ExpensesModel) handleSaved(msg expenseSavedMsg) (tea.Model, tea.Cmd) {
	// Rejected input goes back into the form with the values kept.
	if errors.Is(msg.err, expense.ErrInvalid) || errors.Is(msg.err, expense.ErrDuplicate) {
		m.status = msg.err.Error()
		return m.openForm(m.fields)
	}

	m.state = expensesStateBrowse
	m.form = nil
	m.table.Focus()

	if msg.err != nil {
		m.status = fmt.Sprintf("Error saving: %v", msg.err)
		return m, nil
	}

	m.status = "Saved."

	return m, m.loadCmd()
}

func (m ExpensesModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		return m, m.deleteCmd(m.selected())
	case "n", "N", "esc":
		m.state = expensesStateBrowse
	}

	return m, nil
}

func (m ExpensesModel) View() string {
	if m.state == expensesStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.periodPicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Period: %s | %d expenses", activeStyle(FormatPeriod(m.period)), len(m.expenses))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	switch {
	case m.state == expensesStateForm && m.form != nil:
		title := "Add Expense"
		if m.fields.id != uuid.Nil {
			title = "Edit Expense"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	case m.state == expensesStateConfirmDelete:
		if e := m.selected(); e != nil {
			content += "\n\n" + errorStyle(fmt.Sprintf("Delete %q on %s? (y/n)", e.Description, e.Date))
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	svc := m.expenseService
	userID := m.userID
	filter := expense.ListFilter{Period: m.period}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		es, err := svc.List(ctx, userID, filter)

		return loadExpensesMsg{expenses: es, err: err}
	}
}

type expenseSavedMsg struct {
	err error
}

func (m ExpensesModel) saveCmd() tea.Cmd {
	svc := m.expenseService
	userID := m.userID
	id := m.fields.id
	rec := m.fields.record()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if id == uuid.Nil {
			_, err = svc.Create(ctx, userID, rec)
		} else {
			_, err = svc.Update(ctx, userID, id, rec)
		}

		return expenseSavedMsg{err: err}
	}
}

type expenseDeletedMsg struct {
	err error
}

func (m ExpensesModel) deleteCmd(e *expense.Expense) tea.Cmd {
	if e == nil {
		return nil
	}

	svc := m.expenseService
	userID := m.userID
	id := e.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return expenseDeletedMsg{err: svc.Delete(ctx, userID, id)}
	}
}
