package validation

import (
	"regexp"
	"strings"

	"painscout/internal/models"
)

// MaxQueryLength bounds the search query forwarded to the analysis agent.
const MaxQueryLength = 500

// SubredditPattern defines the valid subreddit name format.
var SubredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// NormalizeQuery trims surrounding whitespace from a search query.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}

// ValidateQuery checks a normalized search query.
func ValidateQuery(query string) (bool, string) {
	if query == "" {
		return false, "query is required"
	}
	if len(query) > MaxQueryLength {
		return false, "query is too long"
	}
	return true, ""
}

// ValidatePlatforms checks the requested platform list. An empty list is
// rejected; unknown platform identifiers are rejected by name.
func ValidatePlatforms(platforms []string) (bool, string) {
	if len(platforms) == 0 {
		return false, "at least one platform is required"
	}
	for _, p := range platforms {
		if !models.KnownPlatform(p) {
			return false, "unknown platform: " + p
		}
	}
	return true, ""
}

// ValidateSubreddit checks a subreddit name for the metadata probe.
// Reddit names are 2-21 word characters; this also blocks path traversal
// into the upstream URL.
func ValidateSubreddit(name string) bool {
	return SubredditPattern.MatchString(name)
}
