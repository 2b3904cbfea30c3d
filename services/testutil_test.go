package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gorillaDoAPI/internal/types/profile"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL (falling
// back to DATABASE_URL) and skips the test when neither is set, so the
// integration suite is opt-in.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// cleanupTestDB removes the fixtures created by testClerkID. Everything else
// cascades off profiles.
func cleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	if _, err := pool.Exec(ctx, "DELETE FROM profiles WHERE clerk_id LIKE 'user_test_%'"); err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// testClerkID returns a Clerk id unique to this test run.
func testClerkID(name string) string {
	return fmt.Sprintf("user_test_%s_%d", name, time.Now().UnixNano())
}

func createTestProfile(t *testing.T, svc *ProfileService, clerkID string) *profile.Profile {
	t.Helper()

	p, err := svc.CreateProfile(context.Background(), &profile.CreateProfileRequest{
		ClerkID:     clerkID,
		DisplayName: "Test Gorilla",
	})
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return p
}
