package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatShortNotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    int64
		expected string
	}{
		{name: "zero", value: 0, expected: "0"},
		{name: "small positive", value: 999, expected: "999"},
		{name: "exactly 1k", value: 1000, expected: "1.0k"},
		{name: "9.9k", value: 9900, expected: "9.9k"},
		{name: "10k", value: 10000, expected: "10k"},
		{name: "millions", value: 2_500_000, expected: "2.50M"},
		{name: "billions", value: 3_000_000_000, expected: "3.00B"},
		{name: "negative", value: -1500, expected: "-1.5k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatShortNotation(tt.value))
		})
	}
}

func TestFormatCoins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "0 💰"},
		{999, "999 💰"},
		{1000, "1,000 💰"},
		{1234567, "1,234,567 💰"},
		{-50000, "-50,000 💰"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCoins(tt.amount))
	}
}

func TestFormatRemaining(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{name: "elapsed", d: 0, expected: "0m"},
		{name: "seconds round up", d: 10 * time.Second, expected: "1m"},
		{name: "minutes only", d: 45 * time.Minute, expected: "45m"},
		{name: "hours and minutes", d: 23*time.Hour + 59*time.Minute + 30*time.Second, expected: "24h 0m"},
		{name: "exact hours", d: 2 * time.Hour, expected: "2h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatRemaining(tt.d))
		})
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0, 100, 10))
	assert.Equal(t, "█████░░░░░", ProgressBar(75, 150, 10))
	assert.Equal(t, "██████████", ProgressBar(500, 150, 10))
	assert.Equal(t, "░░░░", ProgressBar(10, 0, 4))
	assert.Equal(t, "", ProgressBar(10, 10, 0))
}
