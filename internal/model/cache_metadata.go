package model

import "time"

// CacheMetadata는 식당의 평점, 리뷰 수 등 캐싱된 요약 정보를 저장합니다.
type CacheMetadata struct {
	RestaurantID         int64     `json:"restaurantId"`
	WeightedRating       float64   `json:"rating"`       // 식당 리뷰 평균 (소수 1자리)
	TotalWeightedReviews int64     `json:"reviews"`      // 식당 리뷰 수
	DishRating           float64   `json:"dishRating"`   // 메뉴 리뷰 평균
	DishReviews          int64     `json:"dishReviews"`  // 메뉴 리뷰 수
	CacheScore           float64   `json:"cacheScore"`   // 갱신 우선순위 (최근 변경이 많을수록 높음)
	LastCacheUpdatedAt   time.Time `json:"lastUpdatedAt"`
}
