package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
)

type BufferRepository interface {
	// 새로운 쓰기 기록을 Buffer_Log 테이블에 추가
	AddLog(ctx context.Context, log *model.BufferLog) error

	// 아직 요약 캐시에 반영되지 않은 로그를 log_id 순서대로 가져옴
	GetPendingLogs(ctx context.Context, limit int) ([]model.BufferLog, error)

	// is_committed = 1로 업데이트, 커밋 상태를 업데이트하는 함수
	UpdateCommitted(ctx context.Context, logIDs []int64) error

	// 반영 대기 중인 로그 개수
	PendingCount(ctx context.Context) (int, error)

	// before 이전에 기록된 커밋 완료 로그 삭제. 삭제한 개수를 반환
	PurgeCommitted(ctx context.Context, before time.Time) (int64, error)
}

type BufferRepoImpl struct {
	DB *sql.DB
}

func NewBufferRepository(db *sql.DB) BufferRepository {
	return &BufferRepoImpl{DB: db}
}

// ErrAlreadyCommitted: 이미 커밋된 로그는 버퍼에 다시 넣을 수 없음
var ErrAlreadyCommitted = errors.New("it is already committed")

func (r *BufferRepoImpl) AddLog(ctx context.Context, log *model.BufferLog) error {
	if log.IsCommitted != 0 {
		return ErrAlreadyCommitted
	}

	res, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO Buffer_Log (transaction_type, target_table, payload, target_record_id) VALUES (?, ?, ?, ?)`,
		log.TransactionType,
		log.TargetTable,
		log.Payload,
		log.TargetRecordID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		log.LogID = id
	}
	return nil
}

const bufferColumns = `log_id, transaction_type, target_table, payload, target_record_id, log_updated_at, is_committed`

func (r *BufferRepoImpl) GetPendingLogs(ctx context.Context, limit int) ([]model.BufferLog, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bufferColumns+`
	FROM Buffer_Log
	WHERE is_committed = 0
	ORDER BY log_id ASC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending logs: %w", err)
	}
	// 메모리 해제 보장
	defer rows.Close()

	var logs []model.BufferLog
	for rows.Next() {
		log, err := scanBufferLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return logs, nil
}

func scanBufferLog(s scanner) (*model.BufferLog, error) {
	var (
		log         model.BufferLog
		recordID    sql.NullInt64
		updatedAtTx string
	)
	if err := s.Scan(&log.LogID, &log.TransactionType, &log.TargetTable, &log.Payload, &recordID, &updatedAtTx, &log.IsCommitted); err != nil {
		return nil, fmt.Errorf("failed to scan buffer log: %w", err)
	}
	updatedAt, err := db.ParseTime(updatedAtTx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log updated at: %w", err)
	}
	log.LogUpdatedAt = updatedAt
	log.TargetRecordID = recordID.Int64
	return &log, nil
}

func (r *BufferRepoImpl) UpdateCommitted(ctx context.Context, logIDs []int64) error {
	if len(logIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(logIDs))
	args := make([]interface{}, len(logIDs))
	for i, id := range logIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `UPDATE Buffer_Log SET is_committed = 1 WHERE log_id IN (` + strings.Join(placeholders, ",") + `)`
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update committed logs: %w", err)
	}
	return nil
}

func (r *BufferRepoImpl) PendingCount(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM Buffer_Log WHERE is_committed = 0`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending logs: %w", err)
	}
	return count, nil
}

func (r *BufferRepoImpl) PurgeCommitted(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM Buffer_Log WHERE is_committed = 1 AND log_updated_at < ?`, db.FormatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to purge committed logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
