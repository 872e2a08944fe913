package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
)

// SummaryRefresher: 식당 요약 캐시를 다시 계산해서 저장
type SummaryRefresher interface {
	RefreshSummary(ctx context.Context, restaurantID int64, score float64) error
}

// SessionSweeper: 만료된 세션 정리 (선택)
type SessionSweeper interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

const defaultRetention = 24 * time.Hour

// CheckpointWorker는 Buffer_Log에 쌓인 쓰기 기록을 모아 요약 캐시에 반영한다.
type CheckpointWorker struct {
	BufferRepo repository.BufferRepository
	Refresher  SummaryRefresher
	Sessions   SessionSweeper

	// 커밋된 로그 보관 기간. 0 이하이면 지우지 않음
	Retention time.Duration

	batchSize int
	interval  time.Duration
	logger    *zap.Logger
}

func NewCheckpointWorker(bufferRepo repository.BufferRepository, refresher SummaryRefresher, batchSize int, interval time.Duration, logger *zap.Logger) *CheckpointWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &CheckpointWorker{
		BufferRepo: bufferRepo,
		Refresher:  refresher,
		Retention:  defaultRetention,
		batchSize:  batchSize,
		interval:   interval,
		logger:     logger.Named("checkpoint"),
	}
}

// Run: ctx가 끝날 때까지 interval마다 체크포인트 실행
func (w *CheckpointWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("checkpoint worker started", zap.Int("batch_size", w.batchSize), zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("checkpoint worker stopped")
			return nil
		case <-ticker.C:
			if _, err := w.ProcessCheckpoint(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("checkpoint failed", zap.Error(err))
			}
			w.pruneCommitted(ctx)
			w.sweepSessions(ctx)
		}
	}
}

// ProcessCheckpoint: 대기 중인 로그를 한 배치 읽어 관련 식당 요약을 갱신하고 커밋 표시.
// 반영한 로그 수를 반환한다. 갱신이 하나라도 실패하면 커밋하지 않고 다음 주기에 다시 시도.
func (w *CheckpointWorker) ProcessCheckpoint(ctx context.Context) (int, error) {
	logs, err := w.BufferRepo.GetPendingLogs(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}

	// 식당별 변경 횟수 = cache score
	scores := make(map[int64]float64)
	ids := make([]int64, 0, len(logs))
	for _, log := range logs {
		ids = append(ids, log.LogID)

		var payload model.BufferPayload
		if err := json.Unmarshal([]byte(log.Payload), &payload); err != nil {
			// 깨진 로그는 건너뛰고 커밋 처리 (계속 재시도하지 않도록)
			w.logger.Warn("skipping malformed buffer log", zap.Int64("log_id", log.LogID), zap.Error(err))
			continue
		}
		if payload.RestaurantID <= 0 {
			continue
		}
		scores[payload.RestaurantID]++
	}

	restaurants := make([]int64, 0, len(scores))
	for id := range scores {
		restaurants = append(restaurants, id)
	}
	sort.Slice(restaurants, func(i, j int) bool { return restaurants[i] < restaurants[j] })

	for _, id := range restaurants {
		if err := w.Refresher.RefreshSummary(ctx, id, scores[id]); err != nil {
			return 0, fmt.Errorf("refreshing summary of restaurant %d: %w", id, err)
		}
	}
	if err := w.BufferRepo.UpdateCommitted(ctx, ids); err != nil {
		return 0, err
	}

	w.logger.Debug("checkpoint committed", zap.Int("logs", len(ids)), zap.Int("restaurants", len(restaurants)))
	return len(ids), nil
}

func (w *CheckpointWorker) pruneCommitted(ctx context.Context) {
	if w.Retention <= 0 {
		return
	}
	n, err := w.BufferRepo.PurgeCommitted(ctx, time.Now().Add(-w.Retention))
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("buffer prune failed", zap.Error(err))
		}
		return
	}
	if n > 0 {
		w.logger.Debug("committed logs pruned", zap.Int64("count", n))
	}
}

func (w *CheckpointWorker) sweepSessions(ctx context.Context) {
	if w.Sessions == nil {
		return
	}
	n, err := w.Sessions.PurgeExpiredSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("session sweep failed", zap.Error(err))
		}
		return
	}
	if n > 0 {
		w.logger.Info("expired sessions removed", zap.Int64("count", n))
	}
}
