package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is a persisted pain point analysis, scoped to one user.
type HistoryRecord struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Query            string    `json:"query"`
	Keywords         string    `json:"keywords,omitempty"`
	RedditPosts      []Post    `json:"redditPosts"`
	XPosts           []Post    `json:"xPosts"`
	TotalPosts       int       `json:"totalPosts"`
	Summary          string    `json:"summary"`
	FrustrationScore int       `json:"frustrationScore"`
	Insights         []Insight `json:"insights"`
	SearchTime       *float64  `json:"searchTime,omitempty"`
	AnalysisTime     *float64  `json:"analysisTime,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HistorySummary is the trimmed record shape returned by the paginated list.
type HistorySummary struct {
	ID               uuid.UUID `json:"id"`
	Query            string    `json:"query"`
	Keywords         string    `json:"keywords,omitempty"`
	Summary          string    `json:"summary"`
	FrustrationScore int       `json:"frustrationScore"`
	TotalPosts       int       `json:"totalPosts"`
	Insights         []Insight `json:"insights"`
	CreatedAt        time.Time `json:"createdAt"`
}
