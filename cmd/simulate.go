package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/seed"
	"github.com/nmtun/raune/internal/worker"
	"github.com/nmtun/raune/service"
)

// 성능 분석을 위한 시뮬레이션 설정
var (
	simWrites int
	simReads  int
)

// 시뮬레이션 대상 식당 (시드 데이터 기준)
const simRestaurantID = 1

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Compare buffered vs direct summary writes and cached vs cold reads on an in-memory DB",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		conn, err := db.OpenMemory(cfg.Storage.Driver, "simulate")
		if err != nil {
			return err
		}
		defer conn.Close()

		data, err := seed.Load()
		if err != nil {
			return err
		}
		app, err := service.NewApp(ctx, conn, data, cfg.Auth.SessionTTL, zap.NewNop())
		if err != nil {
			return err
		}

		fmt.Println("--- 요약 캐시 성능 비교 시뮬레이션 시작 ---")

		// A. 쓰기 성능 비교 (버퍼링 vs 직접 반영)
		if err := simulateBufferedWrite(ctx, app.Repos.Buffer); err != nil {
			return err
		}
		if err := simulateDirectWrite(ctx, app.Restaurants); err != nil {
			return err
		}

		// 버퍼를 비워야 읽기 시나리오를 시작할 수 있다
		commitWorker := worker.NewCheckpointWorker(app.Repos.Buffer, app.Restaurants, simWrites, time.Minute, zap.NewNop())
		start := time.Now()
		n, err := commitWorker.ProcessCheckpoint(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("[체크포인트] %d건 반영 시간: %s\n", n, time.Since(start))

		// B. 읽기 성능 비교 (캐싱 vs 릴레이션 직접 계산)
		fmt.Println("\n--- B. 읽기 성능 비교 ---")
		return simulateReadScenario(ctx, app.Restaurants)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simWrites, "writes", 1000, "number of write requests")
	simulateCmd.Flags().IntVar(&simReads, "reads", 100, "number of read iterations")
	rootCmd.AddCommand(simulateCmd)
}

// simulateBufferedWrite: 쓰기 요청을 버퍼에 담는 시간 측정
func simulateBufferedWrite(ctx context.Context, repo repository.BufferRepository) error {
	payload, err := json.Marshal(model.BufferPayload{RestaurantID: simRestaurantID, ReviewType: model.ReviewTypeRestaurant, Rating: 5})
	if err != nil {
		return err
	}
	start := time.Now()
	for i := 0; i < simWrites; i++ {
		log := model.BufferLog{
			TransactionType: model.TxUpdate,
			TargetTable:     model.TableReview,
			Payload:         string(payload),
			TargetRecordID:  int64(i + 1),
		}
		if err := repo.AddLog(ctx, &log); err != nil {
			return fmt.Errorf("buffer write failed: %w", err)
		}
	}
	fmt.Printf("[쓰기 시나리오 A - 버퍼링] %d건 AddLog 시간: %s\n", simWrites, time.Since(start))
	return nil
}

// simulateDirectWrite: 쓰기마다 요약을 바로 다시 계산하는 시간 측정
func simulateDirectWrite(ctx context.Context, s *service.RestaurantService) error {
	start := time.Now()
	for i := 0; i < simWrites; i++ {
		if err := s.RefreshSummary(ctx, simRestaurantID, 1); err != nil {
			return fmt.Errorf("direct write failed: %w", err)
		}
	}
	fmt.Printf("[쓰기 시나리오 B - 직접 반영] %d건 RefreshSummary 시간: %s\n", simWrites, time.Since(start))
	return nil
}

// simulateReadScenario: 캐시 히트 vs 캐시를 지운 뒤 다시 계산하는 읽기의 평균 시간
func simulateReadScenario(ctx context.Context, s *service.RestaurantService) error {
	var totalHit, totalMiss time.Duration

	for i := 0; i < simReads; i++ {
		startHit := time.Now()
		if _, err := s.FindRestaurantSummary(ctx, simRestaurantID); err != nil {
			return err
		}
		totalHit += time.Since(startHit)

		if err := s.CacheRepo.DeleteCache(ctx, simRestaurantID); err != nil {
			return err
		}
		startMiss := time.Now()
		if _, err := s.FindRestaurantSummary(ctx, simRestaurantID); err != nil {
			return err
		}
		totalMiss += time.Since(startMiss)
	}
	if simReads == 0 {
		return nil
	}

	reads := time.Duration(simReads)
	fmt.Println("--- 읽기 성능 결과 (평균) ---")
	fmt.Printf("[Read] CACHE HIT 평균 시간 (Restaurant %d): %s\n", simRestaurantID, totalHit/reads)
	fmt.Printf("[Read] CACHE MISS 평균 시간 (Restaurant %d): %s\n", simRestaurantID, totalMiss/reads)
	return nil
}
