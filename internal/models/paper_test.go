package models

import "testing"

func TestIsDecision(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusApproved, true},
		{StatusRejected, true},
		{StatusPending, false},
		{"archived", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsDecision(tt.status); got != tt.want {
			t.Errorf("IsDecision(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPaper_IsOwnedBy(t *testing.T) {
	p := &Paper{AuthorID: 7}
	if !p.IsOwnedBy(7) {
		t.Error("IsOwnedBy() should be true for the author")
	}
	if p.IsOwnedBy(8) {
		t.Error("IsOwnedBy() should be false for another user")
	}
}
