package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"painscout/internal/models"
)

// HistoryClient reads and deletes persisted analyses over the REST API.
type HistoryClient struct {
	baseURL string
	client  *http.Client

	// Cookie is the raw Cookie header of a signed-in session.
	Cookie string
}

// NewHistoryClient creates a history client against the service at baseURL.
func NewHistoryClient(baseURL, cookie string) *HistoryClient {
	return &HistoryClient{
		baseURL: baseURL,
		client:  &http.Client{},
		Cookie:  cookie,
	}
}

// List fetches one page of the caller's history.
func (h *HistoryClient) List(ctx context.Context, page, limit int) (*models.HistoryListResponse, error) {
	url := fmt.Sprintf("%s/api/pain-points/history?page=%d&limit=%d", h.baseURL, page, limit)
	var out models.HistoryListResponse
	if err := h.get(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one record by ID.
func (h *HistoryClient) Get(ctx context.Context, id string) (*models.HistoryRecord, error) {
	var out struct {
		Record models.HistoryRecord `json:"record"`
	}
	if err := h.get(ctx, h.baseURL+"/api/pain-points/history/"+id, &out); err != nil {
		return nil, err
	}
	return &out.Record, nil
}

// Delete removes one record by ID.
func (h *HistoryClient) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, h.baseURL+"/api/pain-points/history/"+id, nil)
	if err != nil {
		return err
	}
	return h.do(req, nil)
}

func (h *HistoryClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return h.do(req, out)
}

func (h *HistoryClient) do(req *http.Request, out any) error {
	if h.Cookie != "" {
		req.Header.Set("Cookie", h.Cookie)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("not signed in: run 'painscout login' first")
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("record not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
