package models

import (
	"time"

	"github.com/google/uuid"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HistoryListResponse is the paginated history list envelope.
type HistoryListResponse struct {
	Records    []HistorySummary `json:"records"`
	Pagination Pagination       `json:"pagination"`
}

// HistorySaveResponse confirms a persisted analysis.
type HistorySaveResponse struct {
	Success   bool      `json:"success"`
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuotaErrorResponse is the 403 body returned when a search is denied.
type QuotaErrorResponse struct {
	Error   string `json:"error"` // GUEST_QUOTA_EXCEEDED or QUOTA_EXCEEDED
	Message string `json:"message"`
}

// SubredditInfo contains public metadata about a subreddit.
type SubredditInfo struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Subscribers int     `json:"subscribers"`
	ActiveUsers int     `json:"active_users"`
	CreatedUTC  float64 `json:"created_utc"`
	Over18      bool    `json:"over18"`
}
