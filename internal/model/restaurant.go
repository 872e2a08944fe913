package model

// 식당 노출 상태
const (
	StatusActive = "active"
	StatusHidden = "hidden" // 메뉴가 있는 식당은 삭제 대신 숨김 처리
)

// Restaurant은 식당 자체의 기본 정보를 나타냅니다.
type Restaurant struct {
	ID       int64    `db:"restaurant_id" json:"id"`
	Name     string   `db:"restaurant_name" json:"name"`
	Address  string   `db:"address" json:"address"`
	Lat      float64  `db:"lat" json:"lat"`
	Lng      float64  `db:"lng" json:"lng"`
	Category string   `db:"category" json:"category"`
	Rating   float64  `db:"rating" json:"rating"`   // 조회 시 실제 리뷰 평균으로 덮어씀
	Reviews  int64    `db:"reviews" json:"reviews"` // 조회 시 실제 리뷰 수로 덮어씀
	Tags     []string `db:"tags" json:"tags"`       // DB에는 JSON 배열 TEXT로 저장
	Photo    string   `db:"photo" json:"photo"`
	Status   string   `db:"status" json:"status"`
}

// IsHidden은 검색/추천에서 제외되어야 하는지 여부
func (r Restaurant) IsHidden() bool {
	return r.Status == StatusHidden
}
