package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
)

func TestSessionLifecycle(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewSessionRepository(conn)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	live := model.Session{Token: "live", AccountID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := model.Session{Token: "stale", AccountID: 2, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []model.Session{live, stale} {
		s := s
		if err := repo.Create(ctx, &s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	found, err := repo.Find(ctx, "live")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found == nil || found.AccountID != 1 || !found.ExpiresAt.Equal(live.ExpiresAt) {
		t.Fatalf("Expected live session, got %+v", found)
	}

	n, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 expired session removed, got %d", n)
	}

	if err := repo.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := repo.Find(ctx, "live")
	if err != nil || gone != nil {
		t.Errorf("Expected session to be gone, got %+v, %v", gone, err)
	}
}

func TestPreferenceSaveAndClear(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewPreferenceRepository(conn)
	ctx := context.Background()

	none, err := repo.Get(ctx, 1)
	if err != nil || none != nil {
		t.Fatalf("Expected no preferences yet, got %+v, %v", none, err)
	}

	prefs := model.Preferences{UserID: 1, FoodPreferences: []string{"Phở", "Bún"}, Timestamp: time.Now()}
	if err := repo.Save(ctx, &prefs); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || len(got.FoodPreferences) != 2 || !got.IsPreferred("Bún") {
		t.Fatalf("Expected saved preferences, got %+v", got)
	}

	if err := repo.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	got, _ = repo.Get(ctx, 1)
	if got != nil {
		t.Errorf("Expected preferences cleared, got %+v", got)
	}
}

func TestCacheUpsertAndMiss(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewCacheRepository(conn)
	ctx := context.Background()

	miss, err := repo.FindCacheByID(ctx, 99)
	if err != nil || miss != nil {
		t.Fatalf("Expected cache miss, got %+v, %v", miss, err)
	}

	cache := model.CacheMetadata{
		RestaurantID: 1, WeightedRating: 4.5, TotalWeightedReviews: 10,
		DishRating: 4.2, DishReviews: 6, CacheScore: 1,
		LastCacheUpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.UpsertCache(ctx, &cache); err != nil {
		t.Fatalf("UpsertCache failed: %v", err)
	}
	cache.WeightedRating = 3.9
	if err := repo.UpsertCache(ctx, &cache); err != nil {
		t.Fatalf("second UpsertCache failed: %v", err)
	}

	hit, err := repo.FindCacheByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindCacheByID failed: %v", err)
	}
	if hit == nil || hit.WeightedRating != 3.9 || hit.DishReviews != 6 {
		t.Fatalf("Expected updated cache row, got %+v", hit)
	}

	if err := repo.DeleteCache(ctx, 1); err != nil {
		t.Fatalf("DeleteCache failed: %v", err)
	}
	gone, _ := repo.FindCacheByID(ctx, 1)
	if gone != nil {
		t.Errorf("Expected cache to be deleted")
	}
}
