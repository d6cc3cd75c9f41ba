package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// guestCookie identifies anonymous visitors so the server-side guest quota
// has a stable key.
const guestCookie = "guest_id"

// GuestIdentity assigns a guest ID cookie to visitors that don't have one.
func GuestIdentity(c fiber.Ctx) error {
	if c.Cookies(guestCookie) == "" {
		id := uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     guestCookie,
			Value:    id,
			HTTPOnly: true,
			SameSite: "Lax",
			Expires:  time.Now().Add(365 * 24 * time.Hour),
		})
		c.Locals(guestCookie, id)
	}
	return c.Next()
}

// GuestID returns the caller's guest ID, whether it arrived in a cookie or
// was assigned earlier in this request.
func GuestID(c fiber.Ctx) string {
	if id := c.Cookies(guestCookie); id != "" {
		return id
	}
	if id, ok := c.Locals(guestCookie).(string); ok {
		return id
	}
	return ""
}
