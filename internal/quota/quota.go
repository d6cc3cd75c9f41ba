// Package quota enforces search limits for guests and authenticated users.
package quota

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Denial discriminators returned to clients in 403 bodies.
const (
	CodeGuestQuotaExceeded = "GUEST_QUOTA_EXCEEDED"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
)

// Default limits.
const (
	DefaultGuestLimit = 3 // lifetime searches per guest
	DefaultDailyLimit = 5 // searches per day for free-plan users
)

// DeniedError is returned when a search would exceed the caller's quota.
type DeniedError struct {
	Code    string
	Message string
}

func (e *DeniedError) Error() string {
	return e.Message
}

// Gate tracks usage counters in a key-value storage backend (Redis in
// production). Counters are checked before a search and committed only once
// the search has actually started, so denied or failed submissions never
// consume quota.
type Gate struct {
	store      fiber.Storage
	guestLimit int
	dailyLimit int
	now        func() time.Time
}

// New creates a gate with the default limits.
func New(store fiber.Storage) *Gate {
	return &Gate{
		store:      store,
		guestLimit: DefaultGuestLimit,
		dailyLimit: DefaultDailyLimit,
		now:        time.Now,
	}
}

// AllowGuest checks the guest counter. reported is the count the client
// claims; the effective count is the max of claim and stored value, so a
// client that cleared its local state cannot reset its quota.
func (g *Gate) AllowGuest(guestID string, reported int) error {
	count := g.GuestCount(guestID)
	if reported > count {
		count = reported
	}
	if count >= g.guestLimit {
		return &DeniedError{
			Code: CodeGuestQuotaExceeded,
			Message: fmt.Sprintf(
				"You've reached the free usage limit (%d searches). Sign up now for %d searches per day!",
				g.guestLimit, g.dailyLimit),
		}
	}
	return nil
}

// CommitGuest records one consumed guest search.
func (g *Gate) CommitGuest(guestID string, reported int) error {
	count := g.GuestCount(guestID)
	if reported > count {
		count = reported
	}
	return g.store.Set(guestKey(guestID), []byte(strconv.Itoa(count+1)), 0)
}

// GuestCount returns the stored guest counter, 0 if absent.
func (g *Gate) GuestCount(guestID string) int {
	raw, err := g.store.Get(guestKey(guestID))
	if err != nil || len(raw) == 0 {
		return 0
	}
	count, err := strconv.Atoi(string(raw))
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// ClearGuest removes the guest counter. Called on successful sign-in.
func (g *Gate) ClearGuest(guestID string) error {
	return g.store.Delete(guestKey(guestID))
}

// AllowUser checks the authenticated daily counter. The window resets at
// midnight UTC.
func (g *Gate) AllowUser(userID string) error {
	if g.UserCount(userID) >= g.dailyLimit {
		return &DeniedError{
			Code: CodeQuotaExceeded,
			Message: fmt.Sprintf(
				"You've reached your daily search limit (%d searches). Upgrade now for unlimited searches?",
				g.dailyLimit),
		}
	}
	return nil
}

// CommitUser records one consumed search for today.
func (g *Gate) CommitUser(userID string) error {
	count := g.UserCount(userID)
	return g.store.Set(g.userKey(userID), []byte(strconv.Itoa(count+1)), g.untilMidnight())
}

// UserCount returns today's stored counter for the user, 0 if absent.
func (g *Gate) UserCount(userID string) int {
	raw, err := g.store.Get(g.userKey(userID))
	if err != nil || len(raw) == 0 {
		return 0
	}
	count, err := strconv.Atoi(string(raw))
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// UserRemaining returns how many searches the user has left today.
func (g *Gate) UserRemaining(userID string) int {
	remaining := g.dailyLimit - g.UserCount(userID)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func guestKey(guestID string) string {
	return "quota:guest:" + guestID
}

func (g *Gate) userKey(userID string) string {
	return "quota:user:" + userID + ":" + g.now().UTC().Format("2006-01-02")
}

func (g *Gate) untilMidnight() time.Duration {
	now := g.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return midnight.Sub(now)
}
