package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()

	if a == b {
		t.Error("expected distinct session ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a UUID, got %q: %v", a, err)
	}
}

func TestFilenamePosition(t *testing.T) {
	owned := []string{"a.pdf", "b.pdf", "a.pdf", "c.pdf"}

	tests := []struct {
		filename string
		expected int
	}{
		{"a.pdf", 0}, // first occurrence wins
		{"b.pdf", 1},
		{"c.pdf", 3},
		{"missing.pdf", -1},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := FilenamePosition(owned, tt.filename); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}

	if got := FilenamePosition(nil, "a.pdf"); got != -1 {
		t.Errorf("expected -1 for empty list, got %d", got)
	}
}

func TestRecentExchanges(t *testing.T) {
	history := []Exchange{
		{Query: "q1", Answer: "a1"},
		{Query: "q2", Answer: "a2"},
		{Query: "q3", Answer: "a3"},
		{Query: "q4", Answer: "a4"},
	}

	recent := RecentExchanges(history, HistoryWindow)
	if len(recent) != 3 {
		t.Fatalf("expected 3 exchanges, got %d", len(recent))
	}
	if recent[0].Query != "q2" || recent[2].Query != "q4" {
		t.Errorf("expected q2..q4, got %+v", recent)
	}

	if got := RecentExchanges(history[:2], HistoryWindow); len(got) != 2 {
		t.Errorf("expected 2 exchanges, got %d", len(got))
	}
	if got := RecentExchanges(history, 0); got != nil {
		t.Errorf("expected nil for zero window, got %+v", got)
	}
}
