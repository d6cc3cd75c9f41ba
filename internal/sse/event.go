// Package sse decodes the server-sent-events stream produced by the
// analysis pipeline into discrete application events.
package sse

import (
	"encoding/json"

	"painscout/internal/models"
)

// Event statuses emitted by the analysis pipeline.
const (
	StatusSearching = "searching"
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
)

// EventError is the error payload attached to a failed analysis event.
type EventError struct {
	Message string `json:"message"`
}

// UnmarshalJSON accepts both `"error": "msg"` and `"error": {"message": "msg"}`.
// The upstream agent has emitted both shapes.
func (e *EventError) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Message = s
		return nil
	}
	type plain EventError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EventError(p)
	return nil
}

// Event is one decoded progress or terminal event from the stream.
type Event struct {
	Status     string             `json:"status,omitempty"`
	Progress   int                `json:"progress,omitempty"`
	Message    string             `json:"message,omitempty"`
	Result     string             `json:"result,omitempty"`
	SearchData *models.SearchData `json:"searchData,omitempty"`
	Err        *EventError        `json:"error,omitempty"`
}

// Terminal reports whether the event ends the analysis, successfully or not.
func (e Event) Terminal() bool {
	return e.Status == StatusCompleted || e.Err != nil
}
