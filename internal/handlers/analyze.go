package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"painscout/internal/agent"
	"painscout/internal/db"
	"painscout/internal/metrics"
	"painscout/internal/middleware"
	"painscout/internal/models"
	"painscout/internal/quota"
	"painscout/internal/sse"
	"painscout/internal/validation"
)

// AnalyzeHandler starts pain point analyses and relays the agent's progress
// stream to the caller.
type AnalyzeHandler struct {
	db    *db.DB
	gate  *quota.Gate
	agent *agent.Client
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(database *db.DB, gate *quota.Gate, agentClient *agent.Client) *AnalyzeHandler {
	return &AnalyzeHandler{db: database, gate: gate, agent: agentClient}
}

// Analyze handles POST /api/pain-points/analyze. The response is a
// server-sent-events stream of searching/analyzing/completed events,
// terminated by a [DONE] sentinel. Quota denial is a 403 with a
// discriminator the client can act on.
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	var body struct {
		Query           string   `json:"query"`
		Platforms       []string `json:"platforms"`
		IsGuest         bool     `json:"isGuest"`
		GuestUsageCount int      `json:"guestUsageCount"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	query := validation.NormalizeQuery(body.Query)
	if valid, msg := validation.ValidateQuery(query); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	platforms := body.Platforms
	if len(platforms) == 0 {
		platforms = []string{models.PlatformReddit}
	}
	if valid, msg := validation.ValidatePlatforms(platforms); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	// Quota gate. The commit happens only after the upstream stream is open,
	// so a denied or failed start never consumes quota.
	user, _ := c.Locals("user").(*models.User)
	guestID := middleware.GuestID(c)

	var deniedErr *quota.DeniedError
	switch {
	case user == nil:
		if err := h.gate.AllowGuest(guestID, body.GuestUsageCount); err != nil {
			if errors.As(err, &deniedErr) {
				metrics.RecordAnalysis(metrics.ActorGuest, metrics.OutcomeDenied)
				return c.Status(fiber.StatusForbidden).JSON(models.QuotaErrorResponse{
					Error:   deniedErr.Code,
					Message: deniedErr.Message,
				})
			}
			return err
		}
	case !user.IsPro():
		if err := h.gate.AllowUser(user.ID.String()); err != nil {
			if errors.As(err, &deniedErr) {
				metrics.RecordAnalysis(metrics.ActorUser, metrics.OutcomeDenied)
				return c.Status(fiber.StatusForbidden).JSON(models.QuotaErrorResponse{
					Error:   deniedErr.Code,
					Message: deniedErr.Message,
				})
			}
			return err
		}
	}

	upstream, err := h.agent.Analyze(c.Context(), query, platforms)
	if err != nil {
		slog.Error("failed to start analysis", "query", query, "error", err)
		return jsonError(c, fiber.StatusBadGateway, "failed to start analysis")
	}

	actor := metrics.ActorUser
	if user == nil {
		actor = metrics.ActorGuest
		if err := h.gate.CommitGuest(guestID, body.GuestUsageCount); err != nil {
			slog.Error("failed to commit guest quota", "guest_id", guestID, "error", err)
		}
	} else if !user.IsPro() {
		if err := h.gate.CommitUser(user.ID.String()); err != nil {
			slog.Error("failed to commit user quota", "user_id", user.ID, "error", err)
		}
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer upstream.Close()
		metrics.RecordAnalysis(actor, h.relay(w, upstream))
	})
}

// relay decodes the upstream stream, re-emits each event as a data line, and
// returns the terminal outcome. An upstream transport failure mid-stream
// becomes a stream-level error event; the headers are already sent at that
// point.
func (h *AnalyzeHandler) relay(w *bufio.Writer, upstream io.Reader) string {
	outcome := metrics.OutcomeAborted

	dec := sse.NewDecoder(upstream)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Error("analysis stream failed", "error", err)
			writeEvent(w, sse.Event{Err: &sse.EventError{Message: "analysis stream interrupted"}})
			outcome = metrics.OutcomeTransportError
			break
		}

		if ev.Err != nil {
			outcome = metrics.OutcomeError
		} else if ev.Status == sse.StatusCompleted {
			outcome = metrics.OutcomeCompleted
		}

		// Keep draining even if the client went away so the outcome still
		// reflects how the analysis itself ended.
		writeEvent(w, ev)
	}

	w.WriteString("data: [DONE]\n\n")
	w.Flush()
	return outcome
}

// writeEvent writes one event as an SSE data line and reports whether the
// client is still reading.
func writeEvent(w *bufio.Writer, ev sse.Event) bool {
	payload, err := json.Marshal(ev)
	if err != nil {
		return true
	}
	if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
		return false
	}
	return w.Flush() == nil
}
