package quota

import (
	"context"
	"errors"
	"testing"
	"time"
)

// memStorage is an in-memory fiber.Storage for tests. TTLs are recorded but
// not enforced; window rollover is exercised through the gate's clock.
type memStorage struct {
	data    map[string][]byte
	lastTTL time.Duration
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (s *memStorage) Get(key string) ([]byte, error) {
	return s.data[key], nil
}

func (s *memStorage) Set(key string, val []byte, exp time.Duration) error {
	s.data[key] = val
	s.lastTTL = exp
	return nil
}

func (s *memStorage) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func (s *memStorage) Reset() error {
	s.data = make(map[string][]byte)
	return nil
}

func (s *memStorage) Close() error { return nil }

func (s *memStorage) GetWithContext(_ context.Context, key string) ([]byte, error) {
	return s.Get(key)
}

func (s *memStorage) SetWithContext(_ context.Context, key string, val []byte, exp time.Duration) error {
	return s.Set(key, val, exp)
}

func (s *memStorage) DeleteWithContext(_ context.Context, key string) error {
	return s.Delete(key)
}

func (s *memStorage) ResetWithContext(_ context.Context) error {
	return s.Reset()
}

func TestGuestQuota(t *testing.T) {
	gate := New(newMemStorage())

	for i := 0; i < DefaultGuestLimit; i++ {
		if err := gate.AllowGuest("g1", 0); err != nil {
			t.Fatalf("search %d: unexpected denial: %v", i+1, err)
		}
		if err := gate.CommitGuest("g1", 0); err != nil {
			t.Fatalf("search %d: commit failed: %v", i+1, err)
		}
	}

	err := gate.AllowGuest("g1", 0)
	if err == nil {
		t.Fatal("expected denial after guest limit")
	}
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error type = %T, want *DeniedError", err)
	}
	if denied.Code != CodeGuestQuotaExceeded {
		t.Errorf("code = %q, want %q", denied.Code, CodeGuestQuotaExceeded)
	}

	// Other guests are unaffected.
	if err := gate.AllowGuest("g2", 0); err != nil {
		t.Errorf("unrelated guest denied: %v", err)
	}
}

func TestGuestQuotaReportedCount(t *testing.T) {
	gate := New(newMemStorage())

	// The client claims it already used up its quota; the stored counter is
	// zero but the claim wins.
	if err := gate.AllowGuest("g1", DefaultGuestLimit); err == nil {
		t.Error("expected denial when reported count is at the limit")
	}

	// A claim below the stored value does not reset the counter.
	for i := 0; i < DefaultGuestLimit; i++ {
		gate.CommitGuest("g1", 0)
	}
	if err := gate.AllowGuest("g1", 0); err == nil {
		t.Error("expected denial from stored counter despite zero claim")
	}
}

func TestGuestQuotaClearedOnSignIn(t *testing.T) {
	gate := New(newMemStorage())

	for i := 0; i < DefaultGuestLimit; i++ {
		gate.CommitGuest("g1", 0)
	}
	if err := gate.AllowGuest("g1", 0); err == nil {
		t.Fatal("expected denial before clear")
	}

	if err := gate.ClearGuest("g1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if got := gate.GuestCount("g1"); got != 0 {
		t.Errorf("count after clear = %d, want 0", got)
	}
	if err := gate.AllowGuest("g1", 0); err != nil {
		t.Errorf("denied after clear: %v", err)
	}
}

func TestUserDailyQuota(t *testing.T) {
	gate := New(newMemStorage())
	gate.now = func() time.Time {
		return time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	}

	for i := 0; i < DefaultDailyLimit; i++ {
		if err := gate.AllowUser("u1"); err != nil {
			t.Fatalf("search %d: unexpected denial: %v", i+1, err)
		}
		if err := gate.CommitUser("u1"); err != nil {
			t.Fatalf("search %d: commit failed: %v", i+1, err)
		}
	}

	err := gate.AllowUser("u1")
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error = %v, want *DeniedError", err)
	}
	if denied.Code != CodeQuotaExceeded {
		t.Errorf("code = %q, want %q", denied.Code, CodeQuotaExceeded)
	}
	if got := gate.UserRemaining("u1"); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}

func TestUserQuotaResetsAtMidnightUTC(t *testing.T) {
	gate := New(newMemStorage())
	now := time.Date(2026, 8, 29, 23, 30, 0, 0, time.UTC)
	gate.now = func() time.Time { return now }

	for i := 0; i < DefaultDailyLimit; i++ {
		gate.CommitUser("u1")
	}
	if err := gate.AllowUser("u1"); err == nil {
		t.Fatal("expected denial before midnight")
	}

	now = now.Add(time.Hour) // 00:30 the next day
	if err := gate.AllowUser("u1"); err != nil {
		t.Errorf("denied after window reset: %v", err)
	}
	if got := gate.UserRemaining("u1"); got != DefaultDailyLimit {
		t.Errorf("remaining after reset = %d, want %d", got, DefaultDailyLimit)
	}
}

func TestUserCounterTTLEndsAtMidnight(t *testing.T) {
	store := newMemStorage()
	gate := New(store)
	gate.now = func() time.Time {
		return time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
	}

	gate.CommitUser("u1")

	if want := 6 * time.Hour; store.lastTTL != want {
		t.Errorf("counter TTL = %v, want %v", store.lastTTL, want)
	}
}

func TestCountsIgnoreCorruptValues(t *testing.T) {
	store := newMemStorage()
	gate := New(store)

	store.Set(guestKey("g1"), []byte("not a number"), 0)
	if got := gate.GuestCount("g1"); got != 0 {
		t.Errorf("count for corrupt value = %d, want 0", got)
	}
	store.Set(guestKey("g1"), []byte("-4"), 0)
	if got := gate.GuestCount("g1"); got != 0 {
		t.Errorf("count for negative value = %d, want 0", got)
	}
}
