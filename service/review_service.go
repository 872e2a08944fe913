package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/review"
	"github.com/nmtun/raune/internal/validate"
)

// ReviewInput: 작성/수정 폼
type ReviewInput struct {
	Type     string `json:"type"`
	TargetID int64  `json:"targetId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// Target: 리뷰 대상 요약
type Target struct {
	ID           int64               `json:"id"`
	Name         model.LocalizedText `json:"name"`
	RestaurantID int64               `json:"restaurantId"`
}

// ReviewView: 작성자와 대상 이름을 붙인 리뷰
type ReviewView struct {
	model.Review
	UserName string  `json:"userName"`
	Target   *Target `json:"target,omitempty"`
}

type RestaurantReviews struct {
	Reviews         []ReviewView      `json:"reviews"`
	RestaurantStats model.RatingStats `json:"restaurantStats"`
	DishStats       model.RatingStats `json:"dishStats"`
}

type UserReviews struct {
	Restaurant []ReviewView `json:"restaurant"`
	Dish       []ReviewView `json:"dish"`
}

type ReviewService struct {
	ReviewRepo        repository.ReviewRepository
	DeletedReviewRepo repository.DeletedReviewRepository
	RestaurantRepo    repository.RestaurantRepository
	DishRepo          repository.DishRepository
	AccountRepo       repository.AccountRepository
	BufferRepo        repository.BufferRepository

	reviews *reviewBook
	logger  *zap.Logger
	now     func() time.Time
}

func NewReviewService(repos *Repositories, seeds *SeedStore, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		ReviewRepo:        repos.Review,
		DeletedReviewRepo: repos.DeletedReview,
		RestaurantRepo:    repos.Restaurant,
		DishRepo:          repos.Dish,
		AccountRepo:       repos.Account,
		BufferRepo:        repos.Buffer,
		reviews:           &reviewBook{reviews: repos.Review, deleted: repos.DeletedReview, seeds: seeds},
		logger:            logger.Named("review"),
		now:               time.Now,
	}
}

// All: 삭제되지 않은 병합 리뷰
func (s *ReviewService) All(ctx context.Context) ([]model.Review, error) {
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Visible(), nil
}

// ForRestaurant: 식당 리뷰 + 메뉴 리뷰. 통계는 필터 적용 전 기준
func (s *ReviewService) ForRestaurant(ctx context.Context, restaurantID int64, filter, order string) (*RestaurantReviews, error) {
	restaurant, err := s.RestaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrNotFound
	}
	dishes, err := s.DishRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	related := review.ForRestaurant(snap.Visible(), restaurantID, dishIDs(dishes))
	shown := review.SortByDate(review.FilterRating(related, filter), order)

	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	return &RestaurantReviews{
		Reviews:         names.views(shown),
		RestaurantStats: review.Stats(review.OfType(related, model.ReviewTypeRestaurant)),
		DishStats:       review.Stats(review.OfType(related, model.ReviewTypeDish)),
	}, nil
}

// ForUser: 내 리뷰를 종류별로, 최신순
func (s *ReviewService) ForUser(ctx context.Context, userID int64) (*UserReviews, error) {
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var mine []model.Review
	for _, r := range snap.Visible() {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	mine = review.SortByDate(mine, review.SortNewest)

	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	return &UserReviews{
		Restaurant: names.views(review.OfType(mine, model.ReviewTypeRestaurant)),
		Dish:       names.views(review.OfType(mine, model.ReviewTypeDish)),
	}, nil
}

// Create: 사용자당 대상별 1개. id는 삭제된 것을 포함한 전체의 max + 1
func (s *ReviewService) Create(ctx context.Context, actor *model.Account, in ReviewInput) (*model.Review, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if err := validate.Review(in.Rating, in.Comment).Err(); err != nil {
		return nil, err
	}
	restaurantID, err := s.resolveRestaurant(ctx, in.Type, in.TargetID)
	if err != nil {
		return nil, err
	}

	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if review.HasReviewed(snap.Visible(), actor.ID, in.Type, in.TargetID) {
		return nil, newError(ErrConflict, "review.alreadyReviewed")
	}
	savedMax, err := s.ReviewRepo.MaxID(ctx)
	if err != nil {
		return nil, err
	}
	id := review.NextID(snap.All)
	if savedMax >= id {
		id = savedMax + 1
	}

	created := model.Review{
		ID:        id,
		UserID:    actor.ID,
		Type:      in.Type,
		TargetID:  in.TargetID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.ReviewRepo.Save(ctx, &created); err != nil {
		return nil, err
	}
	if err := s.record(ctx, model.TxInsert, &created, restaurantID); err != nil {
		return nil, err
	}
	s.logger.Info("review created",
		zap.Int64("review_id", created.ID),
		zap.Int64("user_id", actor.ID),
		zap.String("type", created.Type),
		zap.Int64("target_id", created.TargetID))
	return &created, nil
}

// Update: 작성자 또는 관리자. updatedAt, isEdited 설정
func (s *ReviewService) Update(ctx context.Context, actor *model.Account, reviewID int64, rating int, comment string) (*model.Review, error) {
	current, err := s.editable(ctx, actor, reviewID)
	if err != nil {
		return nil, err
	}
	if err := validate.Review(rating, comment).Err(); err != nil {
		return nil, err
	}
	now := s.now().UTC().Truncate(time.Second)
	current.Rating = rating
	current.Comment = strings.TrimSpace(comment)
	current.UpdatedAt = &now
	current.IsEdited = true
	if err := s.ReviewRepo.Save(ctx, current); err != nil {
		return nil, err
	}
	restaurantID, err := s.restaurantOf(ctx, current)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, model.TxUpdate, current, restaurantID); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete: 작성자 또는 관리자. 항상 삭제 목록에 추가하는 소프트 삭제
func (s *ReviewService) Delete(ctx context.Context, actor *model.Account, reviewID int64) error {
	current, err := s.editable(ctx, actor, reviewID)
	if err != nil {
		return err
	}
	if err := s.DeletedReviewRepo.Add(ctx, reviewID); err != nil {
		return err
	}
	restaurantID, err := s.restaurantOf(ctx, current)
	if err != nil {
		return err
	}
	if err := s.record(ctx, model.TxDelete, current, restaurantID); err != nil {
		return err
	}
	s.logger.Info("review deleted", zap.Int64("review_id", reviewID), zap.Int64("by", actor.ID))
	return nil
}

// Restore: 관리자만. 삭제된 리뷰를 다시 노출
func (s *ReviewService) Restore(ctx context.Context, actor *model.Account, reviewID int64) (*model.Review, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := review.Find(snap.All, reviewID)
	if !ok || !snap.IsDeleted(reviewID) {
		return nil, ErrNotFound
	}
	if err := s.DeletedReviewRepo.Remove(ctx, reviewID); err != nil {
		return nil, err
	}
	restaurantID, err := s.restaurantOf(ctx, &target)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, model.TxRestore, &target, restaurantID); err != nil {
		return nil, err
	}
	target.IsDeleted = false
	return &target, nil
}

// AdminList: 관리자 목록. includeDeleted면 삭제된 리뷰도 isDeleted 표시와 함께 포함
func (s *ReviewService) AdminList(ctx context.Context, order string, includeDeleted bool) ([]ReviewView, error) {
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	list := snap.Visible()
	if includeDeleted {
		list = review.MarkDeleted(snap.All, snap.Deleted)
	}
	if order == "" {
		order = review.SortNewest
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}
	return names.views(review.SortAdmin(list, order)), nil
}

// editable: 삭제되지 않은 리뷰를 찾고 권한 확인
func (s *ReviewService) editable(ctx context.Context, actor *model.Account, reviewID int64) (*model.Review, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	snap, err := s.reviews.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	current, ok := review.Find(snap.Visible(), reviewID)
	if !ok {
		return nil, ErrNotFound
	}
	if current.UserID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return &current, nil
}

// resolveRestaurant: 대상이 존재하는지 확인하고 요약을 갱신할 식당 id 반환
func (s *ReviewService) resolveRestaurant(ctx context.Context, kind string, targetID int64) (int64, error) {
	switch kind {
	case model.ReviewTypeRestaurant:
		restaurant, err := s.RestaurantRepo.FindByID(ctx, targetID)
		if err != nil {
			return 0, err
		}
		if restaurant == nil {
			return 0, newError(ErrNotFound, "review.invalidTarget")
		}
		return restaurant.ID, nil
	case model.ReviewTypeDish:
		dish, err := s.DishRepo.FindByID(ctx, targetID)
		if err != nil {
			return 0, err
		}
		if dish == nil {
			return 0, newError(ErrNotFound, "review.invalidTarget")
		}
		// 메뉴는 존재하는 식당에 속해야 함
		restaurant, err := s.RestaurantRepo.FindByID(ctx, dish.RestaurantID)
		if err != nil {
			return 0, err
		}
		if restaurant == nil {
			return 0, newError(ErrNotFound, "review.invalidTarget")
		}
		return restaurant.ID, nil
	default:
		return 0, validate.Errors{"type": "review.invalidTarget"}
	}
}

// restaurantOf: 기존 리뷰의 식당 id. 대상이 사라졌으면 0
func (s *ReviewService) restaurantOf(ctx context.Context, r *model.Review) (int64, error) {
	if r.Type == model.ReviewTypeRestaurant {
		return r.TargetID, nil
	}
	dish, err := s.DishRepo.FindByID(ctx, r.TargetID)
	if err != nil {
		return 0, err
	}
	if dish == nil {
		return 0, nil
	}
	return dish.RestaurantID, nil
}

func (s *ReviewService) record(ctx context.Context, txType string, r *model.Review, restaurantID int64) error {
	return journal(ctx, s.BufferRepo, txType, model.TableReview, r.ID, model.BufferPayload{
		RestaurantID: restaurantID,
		ReviewType:   r.Type,
		Rating:       r.Rating,
	})
}

// nameIndex: 사용자/식당/메뉴 이름 조회용
type nameIndex struct {
	users       map[int64]string
	restaurants map[int64]model.Restaurant
	dishes      map[int64]model.Dish
}

func (s *ReviewService) names(ctx context.Context) (*nameIndex, error) {
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
	idx := &nameIndex{
		users:       make(map[int64]string, len(accounts)),
		restaurants: make(map[int64]model.Restaurant, len(restaurants)),
		dishes:      make(map[int64]model.Dish, len(dishes)),
	}
	for _, a := range accounts {
		name := a.Name
		if name == "" {
			name = a.Username
		}
		idx.users[a.ID] = name
	}
	for _, r := range restaurants {
		idx.restaurants[r.ID] = r
	}
	for _, d := range dishes {
		idx.dishes[d.ID] = d
	}
	return idx, nil
}

func (idx *nameIndex) views(reviews []model.Review) []ReviewView {
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		v := ReviewView{Review: r, UserName: idx.users[r.UserID]}
		switch r.Type {
		case model.ReviewTypeRestaurant:
			if rest, ok := idx.restaurants[r.TargetID]; ok {
				v.Target = &Target{ID: rest.ID, Name: model.LocalizedText{Vi: rest.Name, Ja: rest.Name}, RestaurantID: rest.ID}
			}
		case model.ReviewTypeDish:
			if d, ok := idx.dishes[r.TargetID]; ok {
				v.Target = &Target{ID: d.ID, Name: d.Name, RestaurantID: d.RestaurantID}
			}
		}
		out = append(out, v)
	}
	return out
}
