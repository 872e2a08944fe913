package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/review"
	"github.com/nmtun/raune/internal/seed"
)

// Repositories: 서비스들이 공유하는 저장소 묶음
type Repositories struct {
	Meta          repository.MetaRepository
	Restaurant    repository.RestaurantRepository
	Dish          repository.DishRepository
	Account       repository.AccountRepository
	Review        repository.ReviewRepository
	DeletedReview repository.DeletedReviewRepository
	Preference    repository.PreferenceRepository
	Session       repository.SessionRepository
	Buffer        repository.BufferRepository
	Cache         repository.CacheRepository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Meta:          repository.NewMetaRepository(db),
		Restaurant:    repository.NewRestaurantRepository(db),
		Dish:          repository.NewDishRepository(db),
		Account:       repository.NewAccountRepository(db),
		Review:        repository.NewReviewRepository(db),
		DeletedReview: repository.NewDeletedReviewRepository(db),
		Preference:    repository.NewPreferenceRepository(db),
		Session:       repository.NewSessionRepository(db),
		Buffer:        repository.NewBufferRepository(db),
		Cache:         repository.NewCacheRepository(db),
	}
}

// SeedStore: 현재 시드 데이터. 감시자가 다시 읽으면 통째로 교체된다.
type SeedStore struct {
	mu   sync.RWMutex
	data *seed.Data
}

func NewSeedStore(data *seed.Data) *SeedStore {
	return &SeedStore{data: data}
}

func (s *SeedStore) Get() *seed.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *SeedStore) Set(data *seed.Data) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Bootstrap: 시드 식당/메뉴/계정/삭제 리뷰 목록을 최초 1회 DB에 복사한다.
// 계정 비밀번호는 복사할 때 해시된다.
func Bootstrap(ctx context.Context, repos *Repositories, data *seed.Data, logger *zap.Logger) error {
	if ran, err := repos.Restaurant.SeedIfEmpty(ctx, data.Restaurants); err != nil {
		return fmt.Errorf("seeding restaurants: %w", err)
	} else if ran {
		logger.Info("restaurants seeded", zap.Int("count", len(data.Restaurants)))
	}

	if ran, err := repos.Dish.SeedIfEmpty(ctx, data.Dishes); err != nil {
		return fmt.Errorf("seeding dishes: %w", err)
	} else if ran {
		logger.Info("dishes seeded", zap.Int("count", len(data.Dishes)))
	}

	initialized, err := repos.Meta.IsInitialized(ctx, repository.MetaAccountsInitialized)
	if err != nil {
		return err
	}
	if !initialized {
		// bcrypt는 느리므로 아직 시드되지 않았을 때만 해시
		accounts, err := data.SeedAccounts(HashPassword)
		if err != nil {
			return err
		}
		if ran, err := repos.Account.SeedIfEmpty(ctx, accounts); err != nil {
			return fmt.Errorf("seeding accounts: %w", err)
		} else if ran {
			logger.Info("accounts seeded", zap.Int("count", len(accounts)))
		}
	}

	deleted := review.SeedDeletedIDs(data.Reviews)
	if ran, err := repos.DeletedReview.InitializeFromSeed(ctx, deleted); err != nil {
		return fmt.Errorf("seeding deleted reviews: %w", err)
	} else if ran {
		logger.Info("deleted reviews initialized", zap.Int("count", len(deleted)))
	}
	return nil
}
