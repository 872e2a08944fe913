package model

// RatingStats는 리뷰 목록의 평균과 별점 분포
type RatingStats struct {
	Average      float64     `json:"average"` // 소수점 첫째 자리 반올림
	Count        int         `json:"count"`
	Distribution map[int]int `json:"distribution"` // 5..1 키가 항상 존재
}

// DashboardStats는 관리자 대시보드 집계 결과
type DashboardStats struct {
	TotalUsers             int           `json:"totalUsers"`
	CustomerUsers          int           `json:"customerUsers"`
	AdminUsers             int           `json:"adminUsers"`
	TotalRestaurants       int           `json:"totalRestaurants"`
	ActiveRestaurants      int           `json:"activeRestaurants"`
	TotalDishes            int           `json:"totalDishes"`
	TotalReviews           int           `json:"totalReviews"`
	RestaurantReviewsCount int           `json:"restaurantReviewsCount"`
	DishReviewsCount       int           `json:"dishReviewsCount"`
	AvgRestaurantRating    float64       `json:"avgRestaurantRating"`
	AvgDishRating          float64       `json:"avgDishRating"`
	RecentReviews          int           `json:"recentReviews"` // 최근 24시간
	TopRestaurant          TopRestaurant `json:"topRestaurant"`
}

type TopRestaurant struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"` // 없으면 "N/A"
	Rating float64 `json:"rating"`
}
