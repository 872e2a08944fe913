package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nmtun/raune/internal/db"
	"github.com/nmtun/raune/internal/model"
)

// ReviewRepository: 사용자가 작성/수정한 리뷰만 저장합니다.
// 시드 리뷰와의 병합은 review 패키지에서 처리
type ReviewRepository interface {
	ListSaved(ctx context.Context) ([]model.Review, error)
	// Save: review_id 기준 upsert
	Save(ctx context.Context, review *model.Review) error
	MaxID(ctx context.Context) (int64, error)
}

type ReviewRepoImpl struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &ReviewRepoImpl{DB: db}
}

func (r *ReviewRepoImpl) ListSaved(ctx context.Context) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT review_id, user_id, review_type, target_id, rating, comment, created_at, updated_at, is_edited
	FROM Review
	ORDER BY review_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var review model.Review
		var createdAt string
		var updatedAt sql.NullString
		var isEdited int64

		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.Type,
			&review.TargetID,
			&review.Rating,
			&review.Comment,
			&createdAt,
			&updatedAt,
			&isEdited,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if review.CreatedAt, err = db.ParseTime(createdAt); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t, err := db.ParseTime(updatedAt.String)
			if err != nil {
				return nil, err
			}
			review.UpdatedAt = &t
		}
		review.IsEdited = isEdited == 1
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepoImpl) Save(ctx context.Context, review *model.Review) error {
	var updatedAt interface{}
	if review.UpdatedAt != nil {
		updatedAt = db.FormatTime(*review.UpdatedAt)
	}
	isEdited := 0
	if review.IsEdited {
		isEdited = 1
	}

	_, err := r.DB.ExecContext(ctx, `
	INSERT INTO Review (
	review_id, user_id, review_type, target_id, rating, comment, created_at, updated_at, is_edited
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(review_id) DO UPDATE SET
		user_id = excluded.user_id,
		review_type = excluded.review_type,
		target_id = excluded.target_id,
		rating = excluded.rating,
		comment = excluded.comment,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		is_edited = excluded.is_edited`,
		review.ID,
		review.UserID,
		review.Type,
		review.TargetID,
		review.Rating,
		review.Comment,
		db.FormatTime(review.CreatedAt),
		updatedAt,
		isEdited,
	)
	if err != nil {
		return fmt.Errorf("failed to save review %d: %w", review.ID, err)
	}
	return nil
}

func (r *ReviewRepoImpl) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(review_id), 0) FROM Review`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read max review id: %w", err)
	}
	return maxID, nil
}
