package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstant(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// A fixed reference "now" keeps the relative cases deterministic.
	now := time.Date(2025, 9, 19, 18, 30, 0, 0, loc)

	testCases := []struct {
		name      string
		input     string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "bare morgen defaults to nine o'clock tomorrow",
			input:    "morgen",
			expected: time.Date(2025, 9, 20, 9, 0, 0, 0, loc),
		},
		{
			name:     "morgen with time of day",
			input:    "morgen 14:30",
			expected: time.Date(2025, 9, 20, 14, 30, 0, 0, loc),
		},
		{
			name:     "english tomorrow keyword",
			input:    "tomorrow 08:15",
			expected: time.Date(2025, 9, 20, 8, 15, 0, 0, loc),
		},
		{
			name:     "bare time means today",
			input:    "14:30",
			expected: time.Date(2025, 9, 19, 14, 30, 0, 0, loc),
		},
		{
			name:     "bare time earlier than now still means today",
			input:    "06:00",
			expected: time.Date(2025, 9, 19, 6, 0, 0, 0, loc),
		},
		{
			name:     "full date and time",
			input:    "20.09.2025 23:16",
			expected: time.Date(2025, 9, 20, 23, 16, 0, 0, loc),
		},
		{
			name:     "date only means midnight",
			input:    "20.09.2025",
			expected: time.Date(2025, 9, 20, 0, 0, 0, 0, loc),
		},
		{
			name:     "iso date and time",
			input:    "2025-09-21 07:45",
			expected: time.Date(2025, 9, 21, 7, 45, 0, 0, loc),
		},
		{
			name:     "iso date only",
			input:    "2025-09-21",
			expected: time.Date(2025, 9, 21, 0, 0, 0, 0, loc),
		},
		{
			name:     "surrounding whitespace and case are tolerated",
			input:    "  Morgen 10:00 ",
			expected: time.Date(2025, 9, 20, 10, 0, 0, 0, loc),
		},
		{
			name:      "garbage input",
			input:     "not-a-date",
			expectErr: true,
		},
		{
			name:      "morgen with garbage time",
			input:     "morgen sometime",
			expectErr: true,
		},
		{
			name:      "empty input",
			input:     "   ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Instant(tc.input, now, loc)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, parsed.Equal(tc.expected),
					"expected %s, got %s", tc.expected, parsed)
			}
		})
	}
}
