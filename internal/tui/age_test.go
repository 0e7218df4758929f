package tui

import (
	"testing"
	"time"
)

func TestCardAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"no creation time", time.Time{}, ""},
		{"just created", now, "<1m"},
		{"clock skew", now.Add(time.Hour), "<1m"},
		{"minutes", now.Add(-42 * time.Minute), "42m"},
		{"same morning", now.Add(-3*time.Hour - 59*time.Minute), "3h"},
		{"yesterday", now.AddDate(0, 0, -1), "1d"},
		{"last sprint", now.AddDate(0, 0, -13), "1w"},
		{"last month", now.AddDate(0, -1, -5), "1mo"},
		{"backlog", now.AddDate(0, -11, 0), "11mo"},
		{"legacy", now.AddDate(-3, 0, -2), "3y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cardAge(tt.created, now); got != tt.want {
				t.Errorf("cardAge(%v) = %q, want %q", tt.created, got, tt.want)
			}
		})
	}
}
