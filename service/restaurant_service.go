package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/geo"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/search"
	"github.com/nmtun/raune/internal/validate"
)

// 새 식당 기본값
const (
	newRestaurantRating = 5.0
)

type RestaurantService struct {
	CacheRepo      repository.CacheRepository
	RestaurantRepo repository.RestaurantRepository
	DishRepo       repository.DishRepository
	BufferRepo     repository.BufferRepository

	reviews *reviewBook
	logger  *zap.Logger
	now     func() time.Time
}

func NewRestaurantService(repos *Repositories, seeds *SeedStore, logger *zap.Logger) *RestaurantService {
	return &RestaurantService{
		CacheRepo:      repos.Cache,
		RestaurantRepo: repos.Restaurant,
		DishRepo:       repos.Dish,
		BufferRepo:     repos.Buffer,
		reviews:        &reviewBook{reviews: repos.Review, deleted: repos.DeletedReview, seeds: seeds},
		logger:         logger.Named("restaurant"),
		now:            time.Now,
	}
}

// List: 실제 리뷰 기준 평점이 적용된 식당 목록. includeHidden이 false면 숨김 식당 제외.
func (s *RestaurantService) List(ctx context.Context, includeHidden bool) ([]model.Restaurant, error) {
	restaurants, err := s.RestaurantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	applyStats(restaurants, snap.Visible())

	if includeHidden {
		return restaurants, nil
	}
	visible := restaurants[:0]
	for _, r := range restaurants {
		if !r.IsHidden() {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// AdminList: 관리자 화면. 이름이나 주소에 term이 들어간 식당 (숨김 포함)
func (s *RestaurantService) AdminList(ctx context.Context, term string) ([]model.Restaurant, error) {
	restaurants, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	if term == "" {
		return restaurants, nil
	}
	var out []model.Restaurant
	for _, r := range restaurants {
		if strings.Contains(strings.ToLower(r.Name), term) || strings.Contains(strings.ToLower(r.Address), term) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Get: 실제 리뷰 기준 평점 적용. 없으면 ErrNotFound
func (s *RestaurantService) Get(ctx context.Context, restaurantID int64) (*model.Restaurant, error) {
	restaurant, err := s.RestaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrNotFound
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	one := []model.Restaurant{*restaurant}
	applyStats(one, snap.Visible())
	return &one[0], nil
}

// FindRestaurantSummary: 캐시 우선 조회. 미스면 병합된 리뷰로 계산해서 캐시에 저장
func (s *RestaurantService) FindRestaurantSummary(ctx context.Context, restaurantID int64) (*model.CacheMetadata, error) {
	startTime := time.Now()

	// 1. 캐시 조회 시도
	cache, err := s.CacheRepo.FindCacheByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		s.logger.Debug("summary cache hit",
			zap.Int64("restaurant_id", restaurantID),
			zap.Duration("elapsed", time.Since(startTime)))
		return cache, nil
	}

	// 2. 캐시 미스: 릴레이션 직접 접근 후 캐시 재구성
	summary, err := s.buildSummary(ctx, restaurantID, 0)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrNotFound
	}
	if err := s.CacheRepo.UpsertCache(ctx, summary); err != nil {
		return nil, err
	}
	s.logger.Debug("summary cache miss",
		zap.Int64("restaurant_id", restaurantID),
		zap.Duration("elapsed", time.Since(startTime)))
	return summary, nil
}

// RefreshSummary: 체크포인트 워커가 호출. 식당이 사라졌으면 캐시도 지운다.
func (s *RestaurantService) RefreshSummary(ctx context.Context, restaurantID int64, score float64) error {
	summary, err := s.buildSummary(ctx, restaurantID, score)
	if err != nil {
		return err
	}
	if summary == nil {
		return s.CacheRepo.DeleteCache(ctx, restaurantID)
	}
	return s.CacheRepo.UpsertCache(ctx, summary)
}

func (s *RestaurantService) buildSummary(ctx context.Context, restaurantID int64, score float64) (*model.CacheMetadata, error) {
	restaurant, err := s.RestaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to access primary relation: %w", err)
	}
	if restaurant == nil {
		return nil, nil
	}
	dishes, err := s.DishRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(restaurantID, snap.Visible(), dishIDs(dishes), score, s.now()), nil
}

// Create: 새 식당은 평점 5.0, 리뷰 0, active. 좌표가 없으면 하노이 중심.
func (s *RestaurantService) Create(ctx context.Context, in model.Restaurant) (*model.Restaurant, error) {
	in.ID = 0
	existing, err := s.RestaurantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	trimRestaurant(&in)
	if err := checkRestaurant(in, existing); err != nil {
		return nil, err
	}

	in.Rating = newRestaurantRating
	in.Reviews = 0
	in.Status = model.StatusActive
	if in.Lat == 0 && in.Lng == 0 {
		in.Lat, in.Lng = geo.DefaultLocation.Lat, geo.DefaultLocation.Lng
	}
	if err := s.RestaurantRepo.Create(ctx, &in); err != nil {
		return nil, err
	}
	if err := journal(ctx, s.BufferRepo, model.TxInsert, model.TableRestaurant, in.ID, model.BufferPayload{RestaurantID: in.ID}); err != nil {
		return nil, err
	}
	s.logger.Info("restaurant created", zap.Int64("restaurant_id", in.ID), zap.String("name", in.Name))
	return &in, nil
}

// Update: 평점/리뷰 수는 보존. status는 active|hidden 중 하나일 때만 반영
func (s *RestaurantService) Update(ctx context.Context, in model.Restaurant) (*model.Restaurant, error) {
	current, err := s.RestaurantRepo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	existing, err := s.RestaurantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	trimRestaurant(&in)
	if err := checkRestaurant(in, existing); err != nil {
		return nil, err
	}

	in.Rating = current.Rating
	in.Reviews = current.Reviews
	if in.Status != model.StatusActive && in.Status != model.StatusHidden {
		in.Status = current.Status
	}
	if err := s.RestaurantRepo.Update(ctx, &in); err != nil {
		return nil, err
	}
	if err := journal(ctx, s.BufferRepo, model.TxUpdate, model.TableRestaurant, in.ID, model.BufferPayload{RestaurantID: in.ID}); err != nil {
		return nil, err
	}
	return &in, nil
}

// Delete: 메뉴가 있으면 숨김 처리(hidden = true), 없으면 삭제
func (s *RestaurantService) Delete(ctx context.Context, restaurantID int64) (hidden bool, err error) {
	restaurant, err := s.RestaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return false, err
	}
	if restaurant == nil {
		return false, ErrNotFound
	}
	count, err := s.DishRepo.CountByRestaurant(ctx, restaurantID)
	if err != nil {
		return false, err
	}

	if count > 0 {
		restaurant.Status = model.StatusHidden
		if err := s.RestaurantRepo.Update(ctx, restaurant); err != nil {
			return false, err
		}
		hidden = true
	} else if err := s.RestaurantRepo.Delete(ctx, restaurantID); err != nil {
		return false, err
	}

	if err := journal(ctx, s.BufferRepo, model.TxDelete, model.TableRestaurant, restaurantID, model.BufferPayload{RestaurantID: restaurantID}); err != nil {
		return hidden, err
	}
	s.logger.Info("restaurant removed", zap.Int64("restaurant_id", restaurantID), zap.Bool("hidden", hidden), zap.Int("dishes", count))
	return hidden, nil
}

// Catalog: 검색용 스냅샷 (숨김 식당 제외는 search 패키지가 처리)
func (s *RestaurantService) Catalog(ctx context.Context) (search.Catalog, error) {
	restaurants, err := s.List(ctx, true)
	if err != nil {
		return search.Catalog{}, err
	}
	dishes, err := s.DishRepo.List(ctx)
	if err != nil {
		return search.Catalog{}, err
	}
	return search.Catalog{Restaurants: restaurants, Dishes: dishes}, nil
}

func (s *RestaurantService) Search(ctx context.Context, q search.Query) ([]search.RestaurantResult, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return search.Restaurants(catalog, q), nil
}

func (s *RestaurantService) Recommend(ctx context.Context, origin geo.Point, maxDistance float64, prefs *model.Preferences) (*search.Recommendations, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	rec := search.Recommend(catalog, origin, maxDistance, prefs)
	return &rec, nil
}

func trimRestaurant(r *model.Restaurant) {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.Category = strings.TrimSpace(r.Category)
	r.Photo = strings.TrimSpace(r.Photo)
}

// checkRestaurant: 이름+주소 중복은 409로 구분
func checkRestaurant(in model.Restaurant, existing []model.Restaurant) error {
	errs := validate.Restaurant(in, existing)
	if validate.IsDuplicateRestaurant(errs) {
		return newError(ErrConflict, "admin.restaurant.duplicate")
	}
	return errs.Err()
}
