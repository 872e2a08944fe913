package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
)

type CacheRepository interface {
	// 캐시 미스면 nil, nil
	FindCacheByID(ctx context.Context, restaurantID int64) (*model.CacheMetadata, error)
	UpsertCache(ctx context.Context, cache *model.CacheMetadata) error
	DeleteCache(ctx context.Context, restaurantID int64) error
	// 전체 무효화. 시드 리뷰가 바뀌었을 때 사용
	Clear(ctx context.Context) error
}

type CacheRepoImpl struct {
	DB *sql.DB
}

func NewCacheRepository(db *sql.DB) CacheRepository {
	return &CacheRepoImpl{DB: db}
}

// FindCacheByID: 캐시 테이블에서 데이터를 조회합니다.
func (r *CacheRepoImpl) FindCacheByID(ctx context.Context, restaurantID int64) (*model.CacheMetadata, error) {
	cache := &model.CacheMetadata{}

	row := r.DB.QueryRowContext(ctx, `
		SELECT
			restaurant_id, weighted_rating, total_weighted_reviews,
			dish_rating, dish_reviews, cache_score, last_cache_updated_at
		FROM Cache_Metadata
		WHERE restaurant_id = ?`, restaurantID)

	var lastUpdatedStr string
	err := row.Scan(
		&cache.RestaurantID,
		&cache.WeightedRating,
		&cache.TotalWeightedReviews,
		&cache.DishRating,
		&cache.DishReviews,
		&cache.CacheScore,
		&lastUpdatedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // 캐시 미스
		}
		return nil, fmt.Errorf("failed to find cache by ID: %w", err)
	}

	if cache.LastCacheUpdatedAt, err = db.ParseTime(lastUpdatedStr); err != nil {
		return nil, fmt.Errorf("failed to parse cache updated_at: %w", err)
	}
	return cache, nil
}

func (r *CacheRepoImpl) UpsertCache(ctx context.Context, cache *model.CacheMetadata) error {
	_, err := r.DB.ExecContext(ctx, `
	INSERT INTO Cache_Metadata (
		restaurant_id, weighted_rating, total_weighted_reviews,
		dish_rating, dish_reviews, cache_score, last_cache_updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(restaurant_id) DO UPDATE SET
		weighted_rating = excluded.weighted_rating,
		total_weighted_reviews = excluded.total_weighted_reviews,
		dish_rating = excluded.dish_rating,
		dish_reviews = excluded.dish_reviews,
		cache_score = excluded.cache_score,
		last_cache_updated_at = excluded.last_cache_updated_at`,
		cache.RestaurantID,
		cache.WeightedRating,
		cache.TotalWeightedReviews,
		cache.DishRating,
		cache.DishReviews,
		cache.CacheScore,
		db.FormatTime(cache.LastCacheUpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache for restaurant %d: %w", cache.RestaurantID, err)
	}
	return nil
}

func (r *CacheRepoImpl) DeleteCache(ctx context.Context, restaurantID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM Cache_Metadata WHERE restaurant_id = ?`, restaurantID); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (r *CacheRepoImpl) Clear(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM Cache_Metadata`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
