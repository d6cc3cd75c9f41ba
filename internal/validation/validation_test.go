package validation

import (
	"strings"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"no whitespace", "notion pain points", "notion pain points"},
		{"leading spaces", "   notion", "notion"},
		{"trailing spaces", "notion   ", "notion"},
		{"tabs and newlines", "\t notion \n", "notion"},
		{"only whitespace", "   \t\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuery(tt.query)
			if got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		valid   bool
		wantMsg string
	}{
		{"valid short", "notion", true, ""},
		{"valid at max length", strings.Repeat("a", MaxQueryLength), true, ""},
		{"empty", "", false, "query is required"},
		{"over max length", strings.Repeat("a", MaxQueryLength+1), false, "query is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateQuery(tt.query)
			if valid != tt.valid {
				t.Errorf("ValidateQuery valid = %v, want %v", valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateQuery msg = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestValidatePlatforms(t *testing.T) {
	tests := []struct {
		name      string
		platforms []string
		valid     bool
	}{
		{"reddit only", []string{"reddit"}, true},
		{"x only", []string{"x"}, true},
		{"both", []string{"reddit", "x"}, true},
		{"empty list", []string{}, false},
		{"nil list", nil, false},
		{"unknown platform", []string{"tiktok"}, false},
		{"known plus unknown", []string{"reddit", "tiktok"}, false},
		{"case sensitive", []string{"Reddit"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, _ := ValidatePlatforms(tt.platforms)
			if valid != tt.valid {
				t.Errorf("ValidatePlatforms(%v) = %v, want %v", tt.platforms, valid, tt.valid)
			}
		})
	}
}

func TestValidateSubreddit(t *testing.T) {
	tests := []struct {
		name      string
		subreddit string
		want      bool
	}{
		{"valid lowercase", "startups", true},
		{"valid mixed case", "SaaS", true},
		{"valid with underscore", "web_design", true},
		{"valid with digits", "programming2", true},
		{"min length", "go", true},
		{"max length", strings.Repeat("a", 21), true},
		{"too short", "a", false},
		{"too long", strings.Repeat("a", 22), false},
		{"empty", "", false},
		{"contains hyphen", "web-design", false},
		{"contains space", "web design", false},
		{"path traversal attempt", "../about", false},
		{"contains slash", "r/startups", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSubreddit(tt.subreddit)
			if got != tt.want {
				t.Errorf("ValidateSubreddit(%q) = %v, want %v", tt.subreddit, got, tt.want)
			}
		})
	}
}
