package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const periodLayout = "2006-01"

// PeriodChoice is a predefined or custom month selection.
type PeriodChoice int

const (
	PeriodThisMonth PeriodChoice = iota
	PeriodLastMonth
	PeriodAll
	PeriodCustom
)

func (p PeriodChoice) String() string {
	switch p {
	case PeriodThisMonth:
		return "This Month"
	case PeriodLastMonth:
		return "Last Month"
	case PeriodAll:
		return "All Time"
	case PeriodCustom:
		return "Other Month"
	}

	return "Unknown"
}

// periodOf resolves a predefined choice to a YYYY-MM period. PeriodAll
// resolves to the empty period.
func periodOf(p PeriodChoice, now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodThisMonth:
		return first.Format(periodLayout)
	case PeriodLastMonth:
		return first.AddDate(0, -1, 0).Format(periodLayout)
	}

	return ""
}

// shiftPeriod moves a YYYY-MM period by delta months.
func shiftPeriod(period string, delta int) string {
	t, err := time.Parse(periodLayout, period)
	if err != nil {
		return period
	}

	return t.AddDate(0, delta, 0).Format(periodLayout)
}

// PeriodSelectedMsg is emitted once the user picked a period. Period is empty
// for all time.
type PeriodSelectedMsg struct {
	Period string
}

type periodState int

const (
	periodStateSelect periodState = iota
	periodStateCustom
)

// PeriodPicker is a reusable component for choosing the month to work on.
type PeriodPicker struct {
	state   periodState
	choices []PeriodChoice
	cursor  int
	input   textinput.Model
	now     func() time.Time
	err     error
}

// NewPeriodPicker creates a picker. All time is offered only when allowAll is set.
func NewPeriodPicker(allowAll bool) PeriodPicker {
	in := textinput.New()
	in.Placeholder = "YYYY-MM"
	in.CharLimit = 7
	in.Width = 10
	in.Prompt = "Month: "

	choices := []PeriodChoice{PeriodThisMonth, PeriodLastMonth}
	if allowAll {
		choices = append(choices, PeriodAll)
	}

	choices = append(choices, PeriodCustom)

	return PeriodPicker{
		state:   periodStateSelect,
		choices: choices,
		input:   in,
		now:     time.Now,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case periodStateSelect:
			return m.updateSelect(keyMsg)
		case periodStateCustom:
			return m.updateCustom(keyMsg)
		}
	}

	if m.state == periodStateCustom {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		choice := m.choices[m.cursor]
		if choice == PeriodCustom {
			m.state = periodStateCustom
			m.input.Focus()

			return m, textinput.Blink
		}

		period := periodOf(choice, m.now())

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Period: period}
		}
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		period := m.input.Value()
		if _, err := time.Parse(periodLayout, period); err != nil {
			m.err = fmt.Errorf("invalid month (YYYY-MM)")
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg {
			return PeriodSelectedMsg{Period: period}
		}
	case tea.KeyEsc:
		m.state = periodStateSelect
		m.err = nil
		m.input.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == periodStateCustom {
		return fmt.Sprintf("Enter Month:\n\n%s\n\n(Enter to confirm, Esc to back)%s", m.input.View(), errStr)
	}

	s := "Select Period:\n\n"

	for i, choice := range m.choices {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, choice)
	}

	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m PeriodPicker) IsSelecting() bool {
	return m.state == periodStateSelect
}
