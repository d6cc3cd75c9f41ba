package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"painscout/internal/db"
	"painscout/internal/models"
)

// Pagination bounds for the history list.
const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// HistoryHandler handles persisted analysis records.
type HistoryHandler struct {
	db *db.DB
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(database *db.DB) *HistoryHandler {
	return &HistoryHandler{db: database}
}

// Create handles POST /api/pain-points/history.
func (h *HistoryHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized. Please login first.")
	}

	var body struct {
		Query            string           `json:"query"`
		Keywords         string           `json:"keywords"`
		RedditPosts      []models.Post    `json:"redditPosts"`
		XPosts           []models.Post    `json:"xPosts"`
		TotalPosts       int              `json:"totalPosts"`
		Summary          string           `json:"summary"`
		FrustrationScore *int             `json:"frustrationScore"`
		Insights         []models.Insight `json:"insights"`
		SearchTime       *float64         `json:"searchTime"`
		AnalysisTime     *float64         `json:"analysisTime"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Query == "" || body.Summary == "" || body.FrustrationScore == nil || body.Insights == nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing required fields")
	}

	record := &models.HistoryRecord{
		UserID:           user.ID,
		Query:            body.Query,
		Keywords:         body.Keywords,
		RedditPosts:      orEmptyPosts(body.RedditPosts),
		XPosts:           orEmptyPosts(body.XPosts),
		TotalPosts:       body.TotalPosts,
		Summary:          body.Summary,
		FrustrationScore: *body.FrustrationScore,
		Insights:         body.Insights,
		SearchTime:       body.SearchTime,
		AnalysisTime:     body.AnalysisTime,
	}

	if err := h.db.CreateHistory(c.Context(), record); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to save analysis history")
	}

	return c.JSON(models.HistorySaveResponse{
		Success:   true,
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
	})
}

// List handles GET /api/pain-points/history?page&limit.
func (h *HistoryHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized. Please login first.")
	}

	page := fiber.Query(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := fiber.Query(c, "limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	records, total, err := h.db.ListHistory(c.Context(), user.ID, page, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch analysis history")
	}

	return c.JSON(models.HistoryListResponse{
		Records: records,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	})
}

// Get handles GET /api/pain-points/history/:id.
func (h *HistoryHandler) Get(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized. Please login first.")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	record, err := h.db.GetHistory(c.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Record not found or access denied")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch analysis detail")
	}

	return c.JSON(fiber.Map{"record": record})
}

// Delete handles DELETE /api/pain-points/history/:id.
func (h *HistoryHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized. Please login first.")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid record id")
	}

	if err := h.db.DeleteHistory(c.Context(), user.ID, id); err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Record not found or access denied")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to delete analysis record")
	}

	return c.JSON(fiber.Map{"success": true})
}

// totalPages computes ceil(total/limit) for the pagination envelope.
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func orEmptyPosts(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}
