package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DeletedReviewRepository: 삭제(숨김) 처리된 리뷰 id 목록
type DeletedReviewRepository interface {
	// 시드에서 isDeleted인 리뷰를 최초 1회 등록
	InitializeFromSeed(ctx context.Context, ids []int64) (bool, error)
	IDs(ctx context.Context) (map[int64]struct{}, error)
	Add(ctx context.Context, reviewID int64) error
	// 복구
	Remove(ctx context.Context, reviewID int64) error
	IsDeleted(ctx context.Context, reviewID int64) (bool, error)
	// 테스트용: 목록만 비우고 초기화 플래그는 유지
	Clear(ctx context.Context) error
}

type DeletedReviewRepoImpl struct {
	DB *sql.DB
}

func NewDeletedReviewRepository(db *sql.DB) DeletedReviewRepository {
	return &DeletedReviewRepoImpl{DB: db}
}

func (r *DeletedReviewRepoImpl) InitializeFromSeed(ctx context.Context, ids []int64) (bool, error) {
	return seedOnce(ctx, r.DB, MetaDeletedReviewsInitialized, func(tx *sql.Tx) error {
		for _, id := range ids {
			if err := addDeleted(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DeletedReviewRepoImpl) IDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT review_id FROM Deleted_Review`)
	if err != nil {
		return nil, fmt.Errorf("failed to query deleted reviews: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return ids, nil
}

func (r *DeletedReviewRepoImpl) Add(ctx context.Context, reviewID int64) error {
	return addDeleted(ctx, r.DB, reviewID)
}

func (r *DeletedReviewRepoImpl) Remove(ctx context.Context, reviewID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM Deleted_Review WHERE review_id = ?`, reviewID); err != nil {
		return fmt.Errorf("failed to restore review %d: %w", reviewID, err)
	}
	return nil
}

func (r *DeletedReviewRepoImpl) IsDeleted(ctx context.Context, reviewID int64) (bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM Deleted_Review WHERE review_id = ?`, reviewID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check deleted review: %w", err)
	}
	return count > 0, nil
}

func (r *DeletedReviewRepoImpl) Clear(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM Deleted_Review`); err != nil {
		return fmt.Errorf("failed to clear deleted reviews: %w", err)
	}
	return nil
}

func addDeleted(ctx context.Context, q queryer, reviewID int64) error {
	// 이미 삭제된 리뷰를 다시 삭제해도 오류 아님
	if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO Deleted_Review (review_id) VALUES (?)`, reviewID); err != nil {
		return fmt.Errorf("failed to mark review %d deleted: %w", reviewID, err)
	}
	return nil
}
