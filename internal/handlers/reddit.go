package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"painscout/internal/models"
	"painscout/internal/validation"
)

// RedditHandler exposes public subreddit metadata, used by the UI to suggest
// communities for a query.
type RedditHandler struct {
	client    *http.Client
	userAgent string
}

// NewRedditHandler creates a new reddit handler.
func NewRedditHandler() *RedditHandler {
	return &RedditHandler{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "painscout/1.0",
	}
}

// subredditAbout is the relevant slice of reddit's about.json response.
type subredditAbout struct {
	Data struct {
		DisplayName       string  `json:"display_name"`
		Title             string  `json:"title"`
		PublicDescription string  `json:"public_description"`
		Subscribers       int     `json:"subscribers"`
		ActiveUserCount   int     `json:"active_user_count"`
		CreatedUTC        float64 `json:"created_utc"`
		Over18            bool    `json:"over18"`
	} `json:"data"`
}

// Subreddit handles GET /api/reddit/subreddit/:name.
func (h *RedditHandler) Subreddit(c fiber.Ctx) error {
	name := c.Params("name")
	if !validation.ValidateSubreddit(name) {
		return jsonError(c, fiber.StatusBadRequest, "invalid subreddit name")
	}

	url := fmt.Sprintf("https://www.reddit.com/r/%s/about.json", name)
	req, err := http.NewRequestWithContext(c.Context(), http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "failed to reach reddit")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return jsonError(c, fiber.StatusNotFound, "subreddit not found")
	}
	if resp.StatusCode != http.StatusOK {
		return jsonError(c, fiber.StatusBadGateway, fmt.Sprintf("reddit returned %d", resp.StatusCode))
	}

	var about subredditAbout
	if err := json.Unmarshal(mustRead(resp.Body), &about); err != nil {
		return jsonError(c, fiber.StatusBadGateway, "unexpected reddit response")
	}

	return c.JSON(models.SubredditInfo{
		Name:        about.Data.DisplayName,
		Title:       about.Data.Title,
		Description: about.Data.PublicDescription,
		Subscribers: about.Data.Subscribers,
		ActiveUsers: about.Data.ActiveUserCount,
		CreatedUTC:  about.Data.CreatedUTC,
		Over18:      about.Data.Over18,
	})
}

func mustRead(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		return nil
	}
	return body
}
