package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
	"github.com/nmtun/raune/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRefresher struct {
	mu     sync.Mutex
	calls  map[int64]float64
	failOn int64
}

func (f *fakeRefresher) RefreshSummary(_ context.Context, restaurantID int64, score float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if restaurantID == f.failOn {
		return errors.New("boom")
	}
	if f.calls == nil {
		f.calls = make(map[int64]float64)
	}
	f.calls[restaurantID] += score
	return nil
}

func (f *fakeRefresher) snapshot() map[int64]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]float64, len(f.calls))
	for k, v := range f.calls {
		out[k] = v
	}
	return out
}

func newBuffer(t *testing.T) repository.BufferRepository {
	t.Helper()
	conn, err := db.OpenMemory(db.DriverMattn, "worker_"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return repository.NewBufferRepository(conn)
}

func addLog(t *testing.T, buffer repository.BufferRepository, payload string) {
	t.Helper()
	require.NoError(t, buffer.AddLog(context.Background(), &model.BufferLog{
		TransactionType: model.TxInsert,
		TargetTable:     model.TableReview,
		Payload:         payload,
		TargetRecordID:  1,
	}))
}

func TestProcessCheckpointGroupsByRestaurant(t *testing.T) {
	buffer := newBuffer(t)
	refresher := &fakeRefresher{}
	w := worker.NewCheckpointWorker(buffer, refresher, 10, time.Minute, zap.NewNop())

	addLog(t, buffer, `{"restaurant_id":1,"review_type":"restaurant","rating":5}`)
	addLog(t, buffer, `{"restaurant_id":1,"review_type":"dish","rating":3}`)
	addLog(t, buffer, `{"restaurant_id":2}`)
	addLog(t, buffer, `not json`)
	addLog(t, buffer, `{"restaurant_id":0}`)

	n, err := w.ProcessCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, map[int64]float64{1: 2, 2: 1}, refresher.snapshot())

	pending, err := buffer.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)

	// 비어 있으면 아무것도 하지 않음
	n, err = w.ProcessCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestProcessCheckpointRespectsBatchSize(t *testing.T) {
	buffer := newBuffer(t)
	w := worker.NewCheckpointWorker(buffer, &fakeRefresher{}, 2, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		addLog(t, buffer, `{"restaurant_id":1}`)
	}

	n, err := w.ProcessCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := buffer.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestProcessCheckpointKeepsLogsOnFailure(t *testing.T) {
	buffer := newBuffer(t)
	w := worker.NewCheckpointWorker(buffer, &fakeRefresher{failOn: 2}, 10, time.Minute, zap.NewNop())

	addLog(t, buffer, `{"restaurant_id":1}`)
	addLog(t, buffer, `{"restaurant_id":2}`)

	_, err := w.ProcessCheckpoint(context.Background())
	require.Error(t, err)

	pending, err := buffer.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
}

type countingSweeper struct {
	mu    sync.Mutex
	calls int
}

func (s *countingSweeper) PurgeExpiredSessions(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return 1, nil
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRunStopsWithContext(t *testing.T) {
	buffer := newBuffer(t)
	refresher := &fakeRefresher{}
	sweeper := &countingSweeper{}
	w := worker.NewCheckpointWorker(buffer, refresher, 10, 10*time.Millisecond, zap.NewNop())
	w.Sessions = sweeper

	addLog(t, buffer, `{"restaurant_id":3}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		return refresher.snapshot()[3] == 1 && sweeper.count() > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
