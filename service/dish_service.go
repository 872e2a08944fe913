package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/validate"
)

// 관리자 메뉴 목록 페이지 크기
const DishPageSize = 9

const defaultDishPhoto = "/food-photos/default.jpg"

// 메뉴 정렬
const (
	DishSortPriceHigh  = "price-high"
	DishSortPriceLow   = "price-low"
	DishSortRatingHigh = "rating-high"
	DishSortRatingLow  = "rating-low"
	DishSortPopular    = "popular"
)

type DishQuery struct {
	Search   string
	Category string // "" 또는 "all"이면 전체
	Sort     string
	Page     int
}

type DishPage struct {
	Items      []model.Dish `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

type DishService struct {
	DishRepo       repository.DishRepository
	RestaurantRepo repository.RestaurantRepository
	BufferRepo     repository.BufferRepository

	logger *zap.Logger
}

func NewDishService(repos *Repositories, logger *zap.Logger) *DishService {
	return &DishService{
		DishRepo:       repos.Dish,
		RestaurantRepo: repos.Restaurant,
		BufferRepo:     repos.Buffer,
		logger:         logger.Named("dish"),
	}
}

// List: 검색(vi+ja 이름, 대소문자 무시), 분류 필터, 정렬, 9개씩 페이지
func (s *DishService) List(ctx context.Context, q DishQuery) (*DishPage, error) {
	dishes, err := s.DishRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := make([]model.Dish, 0, len(dishes))
	for _, d := range dishes {
		if term != "" && !strings.Contains(strings.ToLower(d.Name.Vi+" "+d.Name.Ja), term) {
			continue
		}
		if q.Category != "" && q.Category != "all" && d.Category != q.Category {
			continue
		}
		filtered = append(filtered, d)
	}
	sortDishes(filtered, q.Sort)

	return paginate(filtered, q.Page), nil
}

func sortDishes(dishes []model.Dish, order string) {
	var less func(a, b model.Dish) bool
	switch order {
	case DishSortPriceHigh:
		less = func(a, b model.Dish) bool { return a.Price > b.Price }
	case DishSortPriceLow:
		less = func(a, b model.Dish) bool { return a.Price < b.Price }
	case DishSortRatingHigh:
		less = func(a, b model.Dish) bool { return a.Rating > b.Rating }
	case DishSortRatingLow:
		less = func(a, b model.Dish) bool { return a.Rating < b.Rating }
	case DishSortPopular:
		less = func(a, b model.Dish) bool { return a.Reviews > b.Reviews }
	default:
		return
	}
	sort.SliceStable(dishes, func(i, j int) bool { return less(dishes[i], dishes[j]) })
}

// paginate: page는 [1, totalPages]로 보정. 결과가 없으면 page 1, totalPages 0
func paginate(dishes []model.Dish, page int) *DishPage {
	total := len(dishes)
	totalPages := (total + DishPageSize - 1) / DishPageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * DishPageSize
	end := start + DishPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return &DishPage{
		Items:      append([]model.Dish{}, dishes[start:end]...),
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}

func (s *DishService) Get(ctx context.Context, dishID int64) (*model.Dish, error) {
	dish, err := s.DishRepo.FindByID(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, ErrNotFound
	}
	return dish, nil
}

// ForRestaurant: 식당 메뉴. 식당이 없으면 ErrNotFound
func (s *DishService) ForRestaurant(ctx context.Context, restaurantID int64) ([]model.Dish, error) {
	restaurant, err := s.RestaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrNotFound
	}
	return s.DishRepo.ListByRestaurant(ctx, restaurantID)
}

// Create: 평점 0, 리뷰 0, 사진이 없으면 기본 사진
func (s *DishService) Create(ctx context.Context, in model.Dish) (*model.Dish, error) {
	in.ID = 0
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	in.Rating = 0
	in.Reviews = 0
	if in.Photo == "" {
		in.Photo = defaultDishPhoto
	}
	if err := s.DishRepo.Create(ctx, &in); err != nil {
		return nil, err
	}
	if err := journal(ctx, s.BufferRepo, model.TxInsert, model.TableDish, in.ID, model.BufferPayload{RestaurantID: in.RestaurantID}); err != nil {
		return nil, err
	}
	s.logger.Info("dish created", zap.Int64("dish_id", in.ID), zap.Int64("restaurant_id", in.RestaurantID))
	return &in, nil
}

// Update: 평점/리뷰 수는 보존
func (s *DishService) Update(ctx context.Context, in model.Dish) (*model.Dish, error) {
	current, err := s.DishRepo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if err := s.check(ctx, &in); err != nil {
		return nil, err
	}
	in.Rating = current.Rating
	in.Reviews = current.Reviews
	if in.Photo == "" {
		in.Photo = current.Photo
	}
	if err := s.DishRepo.Update(ctx, &in); err != nil {
		return nil, err
	}
	// 식당이 바뀌었으면 양쪽 요약 모두 갱신
	payload := model.BufferPayload{RestaurantID: in.RestaurantID}
	if err := journal(ctx, s.BufferRepo, model.TxUpdate, model.TableDish, in.ID, payload); err != nil {
		return nil, err
	}
	if current.RestaurantID != in.RestaurantID {
		payload.RestaurantID = current.RestaurantID
		if err := journal(ctx, s.BufferRepo, model.TxUpdate, model.TableDish, in.ID, payload); err != nil {
			return nil, err
		}
	}
	return &in, nil
}

func (s *DishService) Delete(ctx context.Context, dishID int64) error {
	current, err := s.DishRepo.FindByID(ctx, dishID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if err := s.DishRepo.Delete(ctx, dishID); err != nil {
		return err
	}
	return journal(ctx, s.BufferRepo, model.TxDelete, model.TableDish, dishID, model.BufferPayload{RestaurantID: current.RestaurantID})
}

// check: 폼 규칙 + 식당 존재 여부
func (s *DishService) check(ctx context.Context, d *model.Dish) error {
	d.Name.Vi = strings.TrimSpace(d.Name.Vi)
	d.Name.Ja = strings.TrimSpace(d.Name.Ja)
	d.Category = strings.TrimSpace(d.Category)

	errs := validate.Dish(*d)
	if _, bad := errs["restaurantId"]; !bad {
		restaurant, err := s.RestaurantRepo.FindByID(ctx, d.RestaurantID)
		if err != nil {
			return err
		}
		if restaurant == nil {
			errs.Add("restaurantId", "admin.dish.restaurantRequired")
		}
	}
	return errs.Err()
}
