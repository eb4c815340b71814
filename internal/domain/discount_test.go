package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDiscountActiveOn(t *testing.T) {
	today := time.Date(2025, 5, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"inside window", "2025-05-01", "2025-05-15", true},
		{"starts today", "2025-05-10", "2025-05-15", true},
		{"ends today", "2025-05-01", "2025-05-10", true},
		{"starts tomorrow", "2025-05-11", "2025-05-15", false},
		{"ended yesterday", "2025-05-01", "2025-05-09", false},
		{"open start", "", "2025-05-10", true},
		{"open end", "2025-05-10", "", true},
		{"open both", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Discount{FromDate: mustDate(t, tt.from), ToDate: mustDate(t, tt.to)}
			assert.Equal(t, tt.want, d.ActiveOn(today))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("10.05.2025")
	assert.Error(t, err)
}
