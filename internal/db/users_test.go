package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"painscout/internal/db"
	"painscout/internal/models"
	"painscout/internal/testutil"
)

func TestUpsertUser(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := &models.User{
		Sub:   "sub-up-1",
		Email: "up1@example.com",
		Name:  "First Name",
	}
	if err := database.UpsertUser(ctx, user); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("ID not populated")
	}
	if user.Plan != models.PlanFree {
		t.Errorf("plan = %q, want free default", user.Plan)
	}

	// Upserting the same subject updates the profile, keeps the identity.
	updated := &models.User{
		Sub:   "sub-up-1",
		Email: "renamed@example.com",
		Name:  "New Name",
	}
	if err := database.UpsertUser(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != user.ID {
		t.Errorf("upsert changed user ID: %s -> %s", user.ID, updated.ID)
	}

	got, err := database.GetUserBySub(ctx, "sub-up-1")
	if err != nil {
		t.Fatalf("get by sub: %v", err)
	}
	if got.Email != "renamed@example.com" || got.Name != "New Name" {
		t.Errorf("got %+v", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := database.GetUserBySub(ctx, "no-such-sub"); !errors.Is(err, db.ErrUserNotFound) {
		t.Errorf("get by sub error = %v, want ErrUserNotFound", err)
	}
	if _, err := database.GetUserByID(ctx, uuid.New()); !errors.Is(err, db.ErrUserNotFound) {
		t.Errorf("get by id error = %v, want ErrUserNotFound", err)
	}
}
