// Package search: 식당 검색과 주변 추천
package search

import (
	"sort"
	"strings"

	"github.com/nmtun/raune/internal/geo"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/textmatch"
)

// 정렬 기준
const (
	SortRating   = "rating"
	SortDistance = "distance"
	SortReviews  = "reviews"
)

// 기본값
const (
	DefaultMaxDistance     = 10.0 // km
	FeaturedDishLimit      = 3
	RecommendedDishes      = 8
	RecommendedRestaurants = 7
	categoryAll            = "All"
)

// Catalog: 검색 대상. 식당 평점은 실제 리뷰 기준으로 이미 갱신되어 있어야 한다.
type Catalog struct {
	Restaurants []model.Restaurant
	Dishes      []model.Dish
}

type Query struct {
	Text        string
	Categories  []string
	MaxDistance float64 // 0이면 DefaultMaxDistance
	Sort        string  // 기본 rating
	Origin      geo.Point
}

type RestaurantResult struct {
	model.Restaurant
	Distance       float64      `json:"distance"`
	DistanceText   string       `json:"distanceText"`
	FeaturedDishes []model.Dish `json:"dishes"`
	Preferred      bool         `json:"preferred,omitempty"`
}

type DishResult struct {
	Dish         model.Dish       `json:"dish"`
	Restaurant   model.Restaurant `json:"restaurant"`
	Distance     float64          `json:"distance"`
	DistanceText string           `json:"distanceText"`
	Preferred    bool             `json:"preferred,omitempty"`
}

type Recommendations struct {
	Dishes      []DishResult       `json:"dishes"`
	Restaurants []RestaurantResult `json:"restaurants"`
}

// Restaurants: 텍스트, 분류, 거리 필터 후 정렬. 숨김 식당은 제외.
func Restaurants(c Catalog, q Query) []RestaurantResult {
	maxDistance := q.MaxDistance
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	byRestaurant := dishesByRestaurant(c.Dishes)
	categories := categoryFilter(q.Categories)

	results := make([]RestaurantResult, 0, len(c.Restaurants))
	for _, r := range c.Restaurants {
		if r.IsHidden() {
			continue
		}
		dishes := byRestaurant[r.ID]
		if q.Text != "" && !restaurantMatches(r, q.Text) && !anyDishMatches(dishes, q.Text) {
			continue
		}
		if categories != nil {
			if _, ok := categories[r.Category]; !ok {
				continue
			}
		}
		distance := geo.Distance(q.Origin.Lat, q.Origin.Lng, r.Lat, r.Lng)
		if distance > maxDistance {
			continue
		}
		results = append(results, RestaurantResult{
			Restaurant:     r,
			Distance:       distance,
			DistanceText:   geo.Format(distance),
			FeaturedDishes: featured(dishes, q.Text),
		})
	}

	switch q.Sort {
	case SortDistance:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	case SortReviews:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Reviews > results[j].Reviews })
	default:
		sort.SliceStable(results, func(i, j int) bool { return results[i].Rating > results[j].Rating })
	}
	return results
}

// Recommend: 거리 이내의 메뉴 상위 8개, 식당 상위 7개. 가까운 순, 같으면 평점 높은 순.
// prefs에 있는 태그와 겹치면 Preferred로 표시하지만 순서는 바꾸지 않는다.
func Recommend(c Catalog, origin geo.Point, maxDistance float64, prefs *model.Preferences) Recommendations {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	restaurants := make(map[int64]model.Restaurant, len(c.Restaurants))
	var nearby []RestaurantResult
	for _, r := range c.Restaurants {
		if r.IsHidden() {
			continue
		}
		restaurants[r.ID] = r
		d := geo.Distance(origin.Lat, origin.Lng, r.Lat, r.Lng)
		if d > maxDistance {
			continue
		}
		nearby = append(nearby, RestaurantResult{
			Restaurant:   r,
			Distance:     d,
			DistanceText: geo.Format(d),
			Preferred:    anyPreferred(prefs, r.Tags...),
		})
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		if nearby[i].Distance != nearby[j].Distance {
			return nearby[i].Distance < nearby[j].Distance
		}
		return nearby[i].Rating > nearby[j].Rating
	})

	var dishes []DishResult
	for _, dish := range c.Dishes {
		r, ok := restaurants[dish.RestaurantID]
		if !ok {
			continue
		}
		d := geo.Distance(origin.Lat, origin.Lng, r.Lat, r.Lng)
		if d > maxDistance {
			continue
		}
		dishes = append(dishes, DishResult{
			Dish:         dish,
			Restaurant:   r,
			Distance:     d,
			DistanceText: geo.Format(d),
			Preferred:    anyPreferred(prefs, append([]string{dish.Category}, r.Tags...)...),
		})
	}
	sort.SliceStable(dishes, func(i, j int) bool {
		if dishes[i].Distance != dishes[j].Distance {
			return dishes[i].Distance < dishes[j].Distance
		}
		return dishes[i].Dish.Rating > dishes[j].Dish.Rating
	})

	if len(nearby) > RecommendedRestaurants {
		nearby = nearby[:RecommendedRestaurants]
	}
	if len(dishes) > RecommendedDishes {
		dishes = dishes[:RecommendedDishes]
	}
	return Recommendations{Dishes: dishes, Restaurants: nearby}
}

func restaurantMatches(r model.Restaurant, text string) bool {
	return textmatch.AnyMatch(text, append([]string{r.Name, r.Category, r.Address}, r.Tags...)...)
}

func dishMatches(d model.Dish, text string) bool {
	return textmatch.AnyMatch(text, d.Name.Vi, d.Name.Ja, d.Category)
}

func anyDishMatches(dishes []model.Dish, text string) bool {
	for _, d := range dishes {
		if dishMatches(d, text) {
			return true
		}
	}
	return false
}

// featured: 질의와 맞는 메뉴가 있으면 그중 3개, 없으면 평점 상위 3개
func featured(dishes []model.Dish, text string) []model.Dish {
	if text != "" {
		var matching []model.Dish
		for _, d := range dishes {
			if dishMatches(d, text) {
				matching = append(matching, d)
			}
		}
		if len(matching) > 0 {
			return limit(matching, FeaturedDishLimit)
		}
	}
	top := append([]model.Dish(nil), dishes...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Rating > top[j].Rating })
	return limit(top, FeaturedDishLimit)
}

func limit(dishes []model.Dish, n int) []model.Dish {
	if len(dishes) > n {
		return dishes[:n]
	}
	return dishes
}

func dishesByRestaurant(dishes []model.Dish) map[int64][]model.Dish {
	out := make(map[int64][]model.Dish)
	for _, d := range dishes {
		out[d.RestaurantID] = append(out[d.RestaurantID], d)
	}
	return out
}

// categoryFilter: 비었거나 All이 있으면 nil (필터 없음)
func categoryFilter(categories []string) map[string]struct{} {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if c == categoryAll {
			return nil
		}
		set[c] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func anyPreferred(prefs *model.Preferences, tags ...string) bool {
	for _, t := range tags {
		if prefs.IsPreferred(t) {
			return true
		}
	}
	return false
}
