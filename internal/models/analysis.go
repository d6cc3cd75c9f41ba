package models

// Platform identifiers accepted by the analyze endpoint.
const (
	PlatformReddit = "reddit"
	PlatformX      = "x"
)

// KnownPlatform reports whether the given platform identifier is supported.
func KnownPlatform(p string) bool {
	return p == PlatformReddit || p == PlatformX
}

// Insight is one extracted pain point.
type Insight struct {
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Opportunity string `json:"opportunity"`
	Quote       string `json:"quote,omitempty"`
	QuoteAuthor string `json:"quoteAuthor,omitempty"`
	QuoteLink   string `json:"quoteLink,omitempty"`
}

// AnalysisResult is the structured output of one completed analysis.
type AnalysisResult struct {
	Summary          string    `json:"summary"`
	FrustrationScore int       `json:"frustrationScore"`
	Insights         []Insight `json:"insights"`
}

// Post is a social media post surfaced during the search phase.
// Reddit and X posts share the same shape; Subreddit is empty for X.
type Post struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet"`
	Date      string `json:"date,omitempty"`
	Subreddit string `json:"subreddit,omitempty"`
}

// SearchData carries the raw search phase output attached to a completed
// analysis event.
type SearchData struct {
	RedditPosts []Post `json:"redditPosts,omitempty"`
	XPosts      []Post `json:"xPosts,omitempty"`
	// Posts is the pre-platform-split field older agent versions emit.
	Posts      []Post  `json:"posts,omitempty"`
	Total      int     `json:"total,omitempty"`
	SearchTime float64 `json:"searchTime,omitempty"`
}
