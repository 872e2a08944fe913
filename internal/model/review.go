package model

import "time"

// 리뷰 대상 종류
const (
	ReviewTypeRestaurant = "restaurant"
	ReviewTypeDish       = "dish"
)

// Review는 식당 또는 메뉴에 대한 사용자 리뷰
type Review struct {
	ID        int64      `db:"review_id" json:"id"`
	UserID    int64      `db:"user_id" json:"userId"`
	Type      string     `db:"review_type" json:"type"`
	TargetID  int64      `db:"target_id" json:"targetId"`
	Rating    int        `db:"rating" json:"rating"`
	Comment   string     `db:"comment" json:"comment"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt"` // 수정된 적 없으면 null
	IsEdited  bool       `db:"is_edited" json:"isEdited"`

	// 시드 JSON에서만 의미가 있음. 삭제 여부는 deleted_review 테이블이 기준
	IsDeleted bool `json:"isDeleted,omitempty"`
}
