package model

import (
	"time"
)

// 버퍼 로그 트랜잭션 종류
const (
	TxInsert  = "INSERT"
	TxUpdate  = "UPDATE"
	TxDelete  = "DELETE"
	TxRestore = "RESTORE"
)

// 버퍼 로그 대상 테이블
const (
	TableReview     = "Review"
	TableRestaurant = "Restaurant"
	TableDish       = "Dish"
)

// BufferLog는 쓰기 작업 기록. 체크포인트 워커가 모아서 요약 캐시에 반영한다.
type BufferLog struct {
	// log_id INTEGER PRIMARY KEY
	LogID int64 `db:"log_id"`

	// transaction_type TEXT NOT NULL -- INSERT, UPDATE, DELETE, RESTORE
	TransactionType string `db:"transaction_type"`

	// target_table TEXT NOT NULL -- 어느 테이블에 적용할지 결정하는 속성
	TargetTable string `db:"target_table"`

	// payload TEXT NOT NULL -- json (BufferPayload)
	Payload string `db:"payload"`

	// target_record_id INTEGER -- 변경된 레코드의 id
	TargetRecordID int64 `db:"target_record_id"`

	// log_updated_at TEXT NOT NULL
	LogUpdatedAt time.Time `db:"log_updated_at"`

	// is_committed INTEGER NOT NULL DEFAULT 0 -- sqlite에는 boolean이 없음
	IsCommitted int64 `db:"is_committed"`
}

// BufferPayload: 캐시 갱신에 필요한 최소 정보
type BufferPayload struct {
	RestaurantID int64  `json:"restaurant_id"` // 요약 캐시를 갱신할 식당
	ReviewType   string `json:"review_type,omitempty"`
	Rating       int    `json:"rating,omitempty"`
}
