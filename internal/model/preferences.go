package model

import "time"

// Preferences: 설문에서 고른 선호 음식 태그 (최대 5개)
type Preferences struct {
	UserID          int64     `db:"user_id" json:"userId"`
	FoodPreferences []string  `db:"food_preferences" json:"foodPreferences"`
	Timestamp       time.Time `db:"updated_at" json:"timestamp"`
}

func (p *Preferences) IsPreferred(tag string) bool {
	if p == nil {
		return false
	}
	for _, t := range p.FoodPreferences {
		if t == tag {
			return true
		}
	}
	return false
}
