package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodOf(t *testing.T) {
	type args struct {
		choice PeriodChoice
		now    time.Time
	}

	type testCase struct {
		name string
		args args
		want string
	}

	endOfMarch := time.Date(2024, 3, 31, 22, 0, 0, 0, time.UTC)
	january := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{name: "ThisMonth", args: args{choice: PeriodThisMonth, now: endOfMarch}, want: "2024-03"},
		{name: "LastMonthFromLongMonth", args: args{choice: PeriodLastMonth, now: endOfMarch}, want: "2024-02"},
		{name: "LastMonthAcrossYear", args: args{choice: PeriodLastMonth, now: january}, want: "2023-12"},
		{name: "AllTime", args: args{choice: PeriodAll, now: january}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, periodOf(tt.args.choice, tt.args.now))
		})
	}
}

func TestShiftPeriod(t *testing.T) {
	assert.Equal(t, "2025-01", shiftPeriod("2024-12", 1))
	assert.Equal(t, "2023-12", shiftPeriod("2024-01", -1))
	assert.Equal(t, "nope", shiftPeriod("nope", 1))
}

func selected(t *testing.T, cmd tea.Cmd) PeriodSelectedMsg {
	t.Helper()
	require.NotNil(t, cmd)

	msg, ok := cmd().(PeriodSelectedMsg)
	require.True(t, ok)

	return msg
}

func TestPeriodPicker(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) }

	t.Run("ThisMonthByDefault", func(t *testing.T) {
		p := NewPeriodPicker(true)
		p.now = now

		_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, "2024-03", selected(t, cmd).Period)
	})

	t.Run("AllTimeOnlyWhenAllowed", func(t *testing.T) {
		p := NewPeriodPicker(true)
		p.now = now

		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Empty(t, selected(t, cmd).Period)

		assert.NotContains(t, NewPeriodPicker(false).choices, PeriodAll)
	})

	t.Run("CustomMonth", func(t *testing.T) {
		p := NewPeriodPicker(false)
		p.now = now

		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.False(t, p.IsSelecting())

		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2023-1x")})
		p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
		assert.Error(t, p.err)

		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
		_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, "2023-11", selected(t, cmd).Period)
	})

	t.Run("EscLeavesCustomInput", func(t *testing.T) {
		p := NewPeriodPicker(false)

		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.True(t, p.IsSelecting())
	})
}
