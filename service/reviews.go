package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/review"
)

// reviewBook: 시드 리뷰 + 저장된 리뷰 병합을 여러 서비스가 같은 방식으로 보도록 묶음
type reviewBook struct {
	reviews repository.ReviewRepository
	deleted repository.DeletedReviewRepository
	seeds   *SeedStore
}

// reviewSnapshot: 삭제된 것을 포함한 병합 결과와 삭제 집합
type reviewSnapshot struct {
	All     []model.Review
	Deleted map[int64]struct{}
}

func (s *reviewSnapshot) Visible() []model.Review {
	return review.FilterDeleted(s.All, s.Deleted)
}

func (s *reviewSnapshot) IsDeleted(id int64) bool {
	_, ok := s.Deleted[id]
	return ok
}

func (b *reviewBook) snapshot(ctx context.Context) (*reviewSnapshot, error) {
	saved, err := b.reviews.ListSaved(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := b.deleted.IDs(ctx)
	if err != nil {
		return nil, err
	}
	return &reviewSnapshot{
		All:     review.Merge(b.seeds.Get().Reviews, saved),
		Deleted: deleted,
	}, nil
}

// applyStats: 식당 평점/리뷰 수를 실제 식당 리뷰 기준으로 덮어쓴다 (메뉴 리뷰 제외)
func applyStats(restaurants []model.Restaurant, visible []model.Review) {
	byTarget := make(map[int64][]model.Review)
	for _, r := range review.OfType(visible, model.ReviewTypeRestaurant) {
		byTarget[r.TargetID] = append(byTarget[r.TargetID], r)
	}
	for i := range restaurants {
		stats := review.Stats(byTarget[restaurants[i].ID])
		restaurants[i].Rating = stats.Average
		restaurants[i].Reviews = int64(stats.Count)
	}
}

// summarize: 요약 캐시 한 줄 계산
func summarize(restaurantID int64, visible []model.Review, dishIDs []int64, score float64, now time.Time) *model.CacheMetadata {
	own := review.ForTarget(visible, model.ReviewTypeRestaurant, restaurantID)
	all := review.ForRestaurant(visible, restaurantID, dishIDs)
	dishes := review.OfType(all, model.ReviewTypeDish)

	ownStats := review.Stats(own)
	dishStats := review.Stats(dishes)
	return &model.CacheMetadata{
		RestaurantID:         restaurantID,
		WeightedRating:       ownStats.Average,
		TotalWeightedReviews: int64(ownStats.Count),
		DishRating:           dishStats.Average,
		DishReviews:          int64(dishStats.Count),
		CacheScore:           score,
		LastCacheUpdatedAt:   now.UTC(),
	}
}

func dishIDs(dishes []model.Dish) []int64 {
	ids := make([]int64, len(dishes))
	for i, d := range dishes {
		ids[i] = d.ID
	}
	return ids
}

// journal: 쓰기 작업을 Buffer_Log에 남긴다. 체크포인트 워커가 요약 캐시에 반영한다.
func journal(ctx context.Context, buffer repository.BufferRepository, txType, table string, recordID int64, payload model.BufferPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode buffer payload: %w", err)
	}
	log := model.BufferLog{
		TransactionType: txType,
		TargetTable:     table,
		Payload:         string(raw),
		TargetRecordID:  recordID,
		LogUpdatedAt:    time.Now().UTC(),
	}
	return buffer.AddLog(ctx, &log)
}
