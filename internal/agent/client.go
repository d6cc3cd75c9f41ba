// Package agent talks to the upstream analysis agent that performs the
// Reddit/X search and LLM summarization. The agent is an external service;
// we only consume its SSE surface.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the analysis agent.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates an agent client. baseURL points at the agent root,
// e.g. "http://localhost:8100".
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// No overall timeout: the response is a long-lived event stream.
		// Cancellation comes from the request context.
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
	}
}

type analyzeRequest struct {
	Query     string   `json:"query"`
	Platforms []string `json:"platforms"`
}

// Analyze starts an analysis run and returns the raw SSE stream. The caller
// owns the returned body and must close it.
func (c *Client) Analyze(ctx context.Context, query string, platforms []string) (io.ReadCloser, error) {
	payload, err := json.Marshal(analyzeRequest{Query: query, Platforms: platforms})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis agent request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("analysis agent returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return resp.Body, nil
}
