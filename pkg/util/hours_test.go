package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestWithinHours(t *testing.T) {
	tests := []struct {
		name  string
		open  string
		close string
		now   time.Time
		want  bool
	}{
		{"inside", "08:00", "18:00", at(12, 0), true},
		{"at open boundary", "08:00", "18:00", at(8, 0), true},
		{"at close boundary", "08:00", "18:00", at(18, 0), false},
		{"minute before close", "08:00", "18:00", at(17, 59), true},
		{"before open", "08:00", "18:00", at(7, 59), false},
		{"overnight not supported", "22:00", "02:00", at(23, 0), false},
		{"missing open", "", "18:00", at(12, 0), false},
		{"malformed close", "08:00", "6pm", at(12, 0), false},
		{"out of range", "08:00", "25:00", at(12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinHours(tt.open, tt.close, tt.now))
		})
	}
}

func TestParseClock(t *testing.T) {
	m, ok := ParseClock("9:05")
	assert.True(t, ok)
	assert.Equal(t, 545, m)

	_, ok = ParseClock("0905")
	assert.False(t, ok)
}

func TestClockHelpers(t *testing.T) {
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "08:30", ClockFromHHMM("0830"))
	assert.Equal(t, "", ClockFromHHMM("830"))
}
