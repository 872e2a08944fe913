package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/seed"
)

// App: 모든 서비스를 한 번에 구성. cmd와 httpapi가 사용한다.
type App struct {
	Repos *Repositories
	Seeds *SeedStore

	Restaurants *RestaurantService
	Dishes      *DishService
	Reviews     *ReviewService
	Accounts    *AccountService
	Dashboard   *DashboardService
}

// NewApp: 시드를 최초 1회 복사하고 서비스를 연결한다.
func NewApp(ctx context.Context, db *sql.DB, data *seed.Data, sessionTTL time.Duration, logger *zap.Logger) (*App, error) {
	repos := NewRepositories(db)
	if err := Bootstrap(ctx, repos, data, logger); err != nil {
		return nil, err
	}
	seeds := NewSeedStore(data)
	return &App{
		Repos:       repos,
		Seeds:       seeds,
		Restaurants: NewRestaurantService(repos, seeds, logger),
		Dishes:      NewDishService(repos, logger),
		Reviews:     NewReviewService(repos, seeds, logger),
		Accounts:    NewAccountService(repos, seeds, sessionTTL, logger),
		Dashboard:   NewDashboardService(repos, seeds),
	}, nil
}

// ReloadSeed: 시드 리뷰/태그 교체. 식당/메뉴/계정은 이미 DB가 기준이므로 영향 없음.
// 요약 캐시는 옛 시드 리뷰로 계산된 값이라 모두 비운다 (다음 조회 때 다시 계산)
func (a *App) ReloadSeed(ctx context.Context, data *seed.Data) error {
	a.Seeds.Set(data)
	if err := a.Repos.Cache.Clear(ctx); err != nil {
		return fmt.Errorf("invalidating summary cache after seed reload: %w", err)
	}
	return nil
}
