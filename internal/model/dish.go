package model

// LocalizedText: 베트남어(vi)/일본어(ja) 두 언어로 된 텍스트
type LocalizedText struct {
	Vi string `json:"vi"`
	Ja string `json:"ja"`
}

// In은 언어 코드에 맞는 값을 반환하고, 없으면 vi로 대체합니다.
func (t LocalizedText) In(lang string) string {
	if lang == "ja" && t.Ja != "" {
		return t.Ja
	}
	return t.Vi
}

// Dish는 식당 메뉴의 한 항목
type Dish struct {
	ID           int64         `db:"dish_id" json:"id"`
	RestaurantID int64         `db:"restaurant_id" json:"restaurantId"`
	Name         LocalizedText `json:"name"`        // name_vi, name_ja
	Category     string        `db:"category" json:"category"`
	Price        float64       `db:"price" json:"price"`
	Rating       float64       `db:"rating" json:"rating"`
	Reviews      int64         `db:"reviews" json:"reviews"`
	Photo        string        `db:"photo" json:"photo"`
	Description  LocalizedText `json:"description"` // description_vi, description_ja
}
