package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/repository"
)

// setupTestDB는 테스트마다 독립된 SQLite 인메모리 DB를 만들고 스키마를 적용합니다.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.OpenMemory(db.DriverMattn, name)
	if err != nil {
		t.Fatalf("could not open database connection: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TestAddLog는 BufferRepository.AddLog 함수의 테스트 케이스입니다.
func TestAddLog(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewBufferRepository(conn)
	ctx := context.Background()

	// 1. Given: 리뷰 INSERT 로그
	mockLog := model.BufferLog{
		TransactionType: model.TxInsert,
		TargetTable:     model.TableReview,
		Payload:         `{"restaurant_id": 1, "rating": 5}`,
		TargetRecordID:  100,
	}

	// 2. When: 함수 실행
	err := repo.AddLog(ctx, &mockLog)

	// 3. Then: 결과 검증
	if err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if mockLog.LogID <= 0 {
		t.Errorf("Expected LogID to be assigned, got %d", mockLog.LogID)
	}

	var count int
	err = conn.QueryRow("SELECT COUNT(*) FROM Buffer_Log WHERE target_table = 'Review'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count log: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 log, got %d", count)
	}
}

func TestAddLogRejectsCommitted(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewBufferRepository(conn)

	err := repo.AddLog(context.Background(), &model.BufferLog{
		TransactionType: model.TxUpdate,
		TargetTable:     model.TableReview,
		Payload:         `{}`,
		IsCommitted:     1,
	})
	if !errors.Is(err, repository.ErrAlreadyCommitted) {
		t.Fatalf("Expected ErrAlreadyCommitted, got %v", err)
	}
}

// TestBatchCommitLifecycle은 버퍼 로그의 전체 배치 커밋 주기를 테스트합니다.
func TestBatchCommitLifecycle(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewBufferRepository(conn)
	ctx := context.Background()

	// --- 1. Given: 5개의 Pending 로그 ---
	for i := 1; i <= 5; i++ {
		log := model.BufferLog{
			TransactionType: model.TxUpdate,
			TargetTable:     model.TableReview,
			Payload:         fmt.Sprintf(`{"restaurant_id": %d}`, i),
			TargetRecordID:  int64(i),
		}
		if err := repo.AddLog(ctx, &log); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}

	// --- 2. When: Pending 로그를 3개만 조회 (LIMIT) ---
	const limit = 3
	pendingLogs, err := repo.GetPendingLogs(ctx, limit)

	// --- 3. Then (조회) ---
	if err != nil {
		t.Fatalf("GetPendingLogs failed: %v", err)
	}
	if len(pendingLogs) != limit {
		t.Fatalf("Expected %d pending logs, got %d", limit, len(pendingLogs))
	}
	if pendingLogs[0].LogID != 1 {
		t.Errorf("Expected first log ID to be 1, got %d", pendingLogs[0].LogID)
	}
	if pendingLogs[0].LogUpdatedAt.IsZero() {
		t.Errorf("Expected log_updated_at to be parsed")
	}

	// --- 4. When: 조회된 로그(ID 1, 2, 3)를 커밋 완료로 표시 ---
	var commitIDs []int64
	for _, log := range pendingLogs {
		commitIDs = append(commitIDs, log.LogID)
	}
	if err := repo.UpdateCommitted(ctx, commitIDs); err != nil {
		t.Fatalf("UpdateCommitted failed: %v", err)
	}

	// --- 5. Then (커밋) ---
	var isCommitted int
	if err := conn.QueryRow("SELECT is_committed FROM Buffer_Log WHERE log_id = 1").Scan(&isCommitted); err != nil {
		t.Fatalf("Failed to query committed status: %v", err)
	}
	if isCommitted != 1 {
		t.Errorf("Expected log ID 1 to be committed (1), got %d", isCommitted)
	}

	// --- 6. Final Check: 남은 Pending 로그는 2개 (ID 4, 5) ---
	remainingLogs, err := repo.GetPendingLogs(ctx, limit)
	if err != nil {
		t.Fatalf("Final GetPendingLogs failed: %v", err)
	}
	if len(remainingLogs) != 2 {
		t.Fatalf("Expected 2 remaining pending logs, got %d", len(remainingLogs))
	}
	if remainingLogs[0].LogID != 4 {
		t.Errorf("Expected remaining log ID to be 4, got %d", remainingLogs[0].LogID)
	}

	count, err := repo.PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected pending count 2, got %d", count)
	}
}

func TestUpdateCommittedEmpty(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewBufferRepository(conn)

	if err := repo.UpdateCommitted(context.Background(), nil); err != nil {
		t.Fatalf("UpdateCommitted with no ids should be a no-op, got %v", err)
	}
}

func TestPurgeCommitted(t *testing.T) {
	conn := setupTestDB(t)
	repo := repository.NewBufferRepository(conn)
	ctx := context.Background()

	// Given: 로그 3개 중 2개 커밋
	for i := 1; i <= 3; i++ {
		log := model.BufferLog{TransactionType: model.TxInsert, TargetTable: model.TableDish, Payload: `{}`, TargetRecordID: int64(i)}
		if err := repo.AddLog(ctx, &log); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}
	if err := repo.UpdateCommitted(ctx, []int64{1, 2}); err != nil {
		t.Fatalf("UpdateCommitted failed: %v", err)
	}

	// When: 과거 기준이면 아무것도 지우지 않음
	n, err := repo.PurgeCommitted(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeCommitted failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected nothing purged, got %d", n)
	}

	// Then: 커밋된 로그만 삭제
	n, err = repo.PurgeCommitted(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("PurgeCommitted failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 purged, got %d", n)
	}
	count, err := repo.PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected pending count 1, got %d", count)
	}
}
