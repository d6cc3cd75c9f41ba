// Package search drives a pain point analysis from the client side: quota
// pre-check, request submission, incremental progress from the event stream,
// and history persistence for signed-in callers.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"painscout/internal/models"
	"painscout/internal/quota"
	"painscout/internal/sse"
)

// Submission lifecycle states.
const (
	StateIdle      = "idle"
	StateSearching = "searching"
	StateAnalyzing = "analyzing"
	StateCompleted = "completed"
	StateError     = "error"
)

// Default progress values for intermediate events that omit one.
const (
	defaultSearchingProgress = 10
	defaultAnalyzingProgress = 40
)

var (
	// ErrBusy is returned when a submission arrives while one is in flight.
	// The new submission is rejected, not queued.
	ErrBusy = errors.New("a search is already in progress")

	// ErrEmptyQuery is returned when the trimmed query is empty.
	ErrEmptyQuery = errors.New("query is empty")
)

// QuotaError is a quota denial, either from the local guest pre-check or
// from a 403 response. Code matches the server discriminators.
type QuotaError struct {
	Code    string
	Message string
}

func (e *QuotaError) Error() string {
	return e.Message
}

// Guest reports whether signing up (rather than upgrading) lifts the limit.
func (e *QuotaError) Guest() bool {
	return e.Code == quota.CodeGuestQuotaExceeded
}

// AnalysisError is a stream-level failure reported by the pipeline itself.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string {
	return e.Message
}

// Session is a snapshot of the current submission's state.
type Session struct {
	Query         string
	Platforms     []string
	Progress      int
	State         string
	StatusMessage string
}

// Orchestrator owns one search at a time. Progress is observable through
// OnUpdate; the final result through Result.
type Orchestrator struct {
	baseURL string
	client  *http.Client
	usage   *UsageStore

	// Cookie is the raw Cookie header sent with requests. Non-empty means
	// the caller has a signed-in session: history is persisted and the
	// guest counter is not consulted.
	Cookie string

	// OnUpdate, if set, is invoked with a state snapshot after every
	// change. Called on the submitting goroutine.
	OnUpdate func(Session)

	mu          sync.Mutex
	inFlight    bool
	session     Session
	result      *models.AnalysisResult
	redditPosts []models.Post
	xPosts      []models.Post
}

// NewOrchestrator creates an orchestrator against the service at baseURL.
func NewOrchestrator(baseURL string, usage *UsageStore) *Orchestrator {
	return &Orchestrator{
		baseURL: baseURL,
		client:  &http.Client{},
		usage:   usage,
		session: Session{State: StateIdle},
	}
}

func (o *Orchestrator) authenticated() bool {
	return o.Cookie != ""
}

// Session returns a snapshot of the current state.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Result returns the last completed analysis, or nil.
func (o *Orchestrator) Result() *models.AnalysisResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Posts returns the search-phase posts attached to the last completed
// analysis.
func (o *Orchestrator) Posts() (reddit, x []models.Post) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.redditPosts, o.xPosts
}

// GuestRemaining returns how many free guest searches are left.
func (o *Orchestrator) GuestRemaining() int {
	remaining := quota.DefaultGuestLimit - o.usage.Count()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ClearGuestUsage resets the local guest counter after a sign-in.
func (o *Orchestrator) ClearGuestUsage() error {
	return o.usage.Clear()
}

// Submit runs one search to completion. It blocks until the stream ends.
// While a submission is in flight, further calls return ErrBusy. A quota
// denial (local pre-check or 403) returns *QuotaError before any state is
// lost; the denied attempt is terminal for that submission.
func (o *Orchestrator) Submit(ctx context.Context, query string, platforms []string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}
	if len(platforms) == 0 {
		platforms = []string{models.PlatformReddit}
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrBusy
	}

	// Guest pre-check before any network call.
	guestCount := 0
	if !o.authenticated() {
		guestCount = o.usage.Count()
		if guestCount >= quota.DefaultGuestLimit {
			o.mu.Unlock()
			return &QuotaError{
				Code: quota.CodeGuestQuotaExceeded,
				Message: fmt.Sprintf(
					"You've reached the free usage limit (%d searches). Sign up now for %d searches per day!",
					quota.DefaultGuestLimit, quota.DefaultDailyLimit),
			}
		}
	}

	o.inFlight = true
	o.session = Session{
		Query:         query,
		Platforms:     platforms,
		State:         StateSearching,
		StatusMessage: "Searching...",
	}
	o.result = nil
	o.redditPosts = nil
	o.xPosts = nil
	o.mu.Unlock()
	o.notify()

	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	resp, err := o.post(ctx, "/api/pain-points/analyze", map[string]any{
		"query":           query,
		"platforms":       platforms,
		"isGuest":         !o.authenticated(),
		"guestUsageCount": guestCount,
	})
	if err != nil {
		o.fail("Search failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		if qerr := decodeQuotaError(resp.Body); qerr != nil {
			// Denied: no counter increment, no stored result.
			o.setIdle()
			return qerr
		}
		o.fail("Search failed")
		return fmt.Errorf("analyze request rejected with status %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		o.fail("Search failed")
		return fmt.Errorf("analyze request failed with status %d", resp.StatusCode)
	}

	// The search has started; a guest consumes one quota unit regardless of
	// how the stream ends.
	if !o.authenticated() {
		if _, err := o.usage.Increment(); err != nil {
			slog.Error("failed to persist guest usage", "error", err)
		}
	}

	return o.consume(ctx, resp.Body, query)
}

// consume drains the event stream, updating progress until a terminal event.
func (o *Orchestrator) consume(ctx context.Context, body io.Reader, query string) error {
	dec := sse.NewDecoder(body)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			// The stream ended without a terminal event.
			if s := o.Session(); s.State == StateSearching || s.State == StateAnalyzing {
				o.fail("Analysis stream ended unexpectedly")
				return &AnalysisError{Message: "analysis stream ended unexpectedly"}
			}
			return nil
		}
		if err != nil {
			o.fail("Search failed")
			return err
		}

		switch {
		case ev.Err != nil:
			message := ev.Err.Message
			if message == "" {
				message = "Analysis failed"
			}
			o.fail(message)
			return &AnalysisError{Message: message}

		case ev.Status == sse.StatusSearching:
			o.progress(StateSearching, orDefault(ev.Progress, defaultSearchingProgress), orMessage(ev.Message, "Searching..."))

		case ev.Status == sse.StatusAnalyzing:
			o.progress(StateAnalyzing, orDefault(ev.Progress, defaultAnalyzingProgress), orMessage(ev.Message, "Analyzing with AI..."))

		case ev.Status == sse.StatusCompleted:
			o.complete(ctx, ev, query)
		}
	}
}

// complete extracts the result and, for signed-in callers, persists it.
// Persistence failure is logged and swallowed: the search itself succeeded.
func (o *Orchestrator) complete(ctx context.Context, ev sse.Event, query string) {
	result := sse.ExtractResult(ev.Result)

	var reddit, x []models.Post
	var total int
	var searchTime *float64
	if sd := ev.SearchData; sd != nil {
		reddit = sd.RedditPosts
		x = sd.XPosts
		if reddit == nil {
			// Older agent versions emit a single posts list.
			reddit = sd.Posts
		}
		total = sd.Total
		if sd.SearchTime > 0 {
			searchTime = &sd.SearchTime
		}
	}

	o.mu.Lock()
	o.session.State = StateCompleted
	o.session.Progress = 100
	o.session.StatusMessage = "Analysis complete!"
	o.result = &result
	o.redditPosts = reddit
	o.xPosts = x
	o.mu.Unlock()
	o.notify()

	if o.authenticated() {
		go o.saveHistory(ctx, query, result, reddit, x, total, searchTime)
	}
}

func (o *Orchestrator) saveHistory(ctx context.Context, query string, result models.AnalysisResult, reddit, x []models.Post, total int, searchTime *float64) {
	resp, err := o.post(ctx, "/api/pain-points/history", map[string]any{
		"query":            query,
		"keywords":         query,
		"redditPosts":      orEmpty(reddit),
		"xPosts":           orEmpty(x),
		"totalPosts":       total,
		"summary":          result.Summary,
		"frustrationScore": result.FrustrationScore,
		"insights":         result.Insights,
		"searchTime":       searchTime,
		"analysisTime":     nil,
	})
	if err != nil {
		slog.Error("failed to save history", "query", query, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("failed to save history", "query", query, "status", resp.StatusCode)
	}
}

func (o *Orchestrator) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.Cookie != "" {
		req.Header.Set("Cookie", o.Cookie)
	}
	return o.client.Do(req)
}

func decodeQuotaError(body io.Reader) *QuotaError {
	var resp models.QuotaErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil
	}
	if resp.Error != quota.CodeGuestQuotaExceeded && resp.Error != quota.CodeQuotaExceeded {
		return nil
	}
	return &QuotaError{Code: resp.Error, Message: resp.Message}
}

func (o *Orchestrator) progress(state string, progress int, message string) {
	o.mu.Lock()
	o.session.State = state
	o.session.Progress = progress
	o.session.StatusMessage = message
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) fail(message string) {
	o.mu.Lock()
	o.session.State = StateError
	o.session.Progress = 0
	o.session.StatusMessage = message
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) setIdle() {
	o.mu.Lock()
	o.session.State = StateIdle
	o.session.Progress = 0
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) notify() {
	if o.OnUpdate != nil {
		o.OnUpdate(o.Session())
	}
}

func orDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orMessage(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orEmpty(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
