package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	type testCase struct {
		name   string
		amount string
		want   string
	}

	tests := []testCase{
		{name: "Cents", amount: "25.50", want: "€25.50"},
		{name: "Thousands", amount: "1234.5", want: "€1,234.50"},
		{name: "Whole", amount: "3", want: "€3.00"},
		{name: "Rounded", amount: "0.125", want: "€0.13"},
		{name: "NotANumber", amount: "abc", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount))
		})
	}
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "€8.00", FormatTotal(8))
	assert.Equal(t, "€29.70", FormatTotal(29.7))
}

func TestFormatPeriod(t *testing.T) {
	assert.Equal(t, "March 2024", FormatPeriod("2024-03"))
	assert.Equal(t, "All Time", FormatPeriod(""))
	assert.Equal(t, "someday", FormatPeriod("someday"))
}

func TestNotice(t *testing.T) {
	n := &notice{}
	assert.False(t, n.set())

	n.Notify("File Error", "Error selecting file")
	assert.True(t, n.set())
	assert.Contains(t, n.View(), "Error selecting file")
}
