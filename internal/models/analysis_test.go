package models

import "testing"

func TestKnownPlatform(t *testing.T) {
	tests := []struct {
		platform string
		want     bool
	}{
		{"reddit", true},
		{"x", true},
		{"", false},
		{"Reddit", false},
		{"twitter", false},
	}

	for _, tt := range tests {
		if got := KnownPlatform(tt.platform); got != tt.want {
			t.Errorf("KnownPlatform(%q) = %v, want %v", tt.platform, got, tt.want)
		}
	}
}
