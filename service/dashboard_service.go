package service

import (
	"context"
	"sort"
	"time"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/review"
)

// 최고 식당 후보가 되려면 필요한 최소 리뷰 수
const topRestaurantMinReviews = 3

type DashboardService struct {
	AccountRepo    repository.AccountRepository
	RestaurantRepo repository.RestaurantRepository
	DishRepo       repository.DishRepository

	reviews *reviewBook
	now     func() time.Time
}

func NewDashboardService(repos *Repositories, seeds *SeedStore) *DashboardService {
	return &DashboardService{
		AccountRepo:    repos.Account,
		RestaurantRepo: repos.Restaurant,
		DishRepo:       repos.Dish,
		reviews:        &reviewBook{reviews: repos.Review, deleted: repos.DeletedReview, seeds: seeds},
		now:            time.Now,
	}
}

// Stats: 관리자 대시보드 집계 (삭제된 리뷰 제외)
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.RestaurantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dishes, err := s.DishRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	reviews := snap.Visible()

	stats := &model.DashboardStats{
		TotalUsers:       len(accounts),
		TotalRestaurants: len(restaurants),
		TotalDishes:      len(dishes),
		TotalReviews:     len(reviews),
	}
	for _, a := range accounts {
		if a.IsAdmin() {
			stats.AdminUsers++
		}
	}
	stats.CustomerUsers = stats.TotalUsers - stats.AdminUsers

	for _, r := range restaurants {
		if r.Status == model.StatusActive {
			stats.ActiveRestaurants++
		}
	}

	restaurantReviews := review.OfType(reviews, model.ReviewTypeRestaurant)
	dishReviews := review.OfType(reviews, model.ReviewTypeDish)
	stats.RestaurantReviewsCount = len(restaurantReviews)
	stats.DishReviewsCount = len(dishReviews)
	stats.AvgRestaurantRating = review.Stats(restaurantReviews).Average
	stats.AvgDishRating = review.Stats(dishReviews).Average

	since := s.now().Add(-24 * time.Hour)
	for _, r := range reviews {
		if r.CreatedAt.After(since) {
			stats.RecentReviews++
		}
	}

	stats.TopRestaurant = topRestaurant(restaurants, restaurantReviews)
	return stats, nil
}

// topRestaurant: 리뷰 3개 이상 중 평균이 가장 높은 식당. 동점이면 id가 작은 쪽
func topRestaurant(restaurants []model.Restaurant, reviews []model.Review) model.TopRestaurant {
	type tally struct {
		total, count int
	}
	tallies := make(map[int64]*tally)
	for _, r := range reviews {
		t, ok := tallies[r.TargetID]
		if !ok {
			t = &tally{}
			tallies[r.TargetID] = t
		}
		t.total += r.Rating
		t.count++
	}

	sorted := append([]model.Restaurant(nil), restaurants...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	top := model.TopRestaurant{Name: "N/A"}
	var best float64
	for _, r := range sorted {
		t, ok := tallies[r.ID]
		if !ok || t.count < topRestaurantMinReviews {
			continue
		}
		avg := float64(t.total) / float64(t.count)
		if avg > best {
			best = avg
			top = model.TopRestaurant{ID: r.ID, Name: r.Name, Rating: review.Round1(avg)}
		}
	}
	return top
}
