package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtun/raune/internal/geo"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/search"
)

var hanoi = geo.DefaultLocation

func fixture() search.Catalog {
	return search.Catalog{
		Restaurants: []model.Restaurant{
			{ID: 1, Name: "Phở Thìn", Address: "13 Lò Đúc", Category: "Vietnamese", Lat: 21.0176, Lng: 105.8557, Rating: 4.6, Reviews: 3, Tags: []string{"Beef"}},
			{ID: 2, Name: "Cộng Cà Phê", Address: "152 Triệu Việt Vương", Category: "Cafe", Lat: 21.0125, Lng: 105.8499, Rating: 4.8, Reviews: 1},
			{ID: 3, Name: "Sushi Sachi", Address: "38 Hai Bà Trưng", Category: "Asian", Lat: 21.0246, Lng: 105.8525, Rating: 4.2, Reviews: 9},
			{ID: 4, Name: "Ashima Hạ Long", Address: "Bãi Cháy", Category: "Hotpot", Lat: 20.9507, Lng: 107.0466, Rating: 5.0},
			{ID: 5, Name: "Phở Ẩn", Address: "1 Hàng Bông", Category: "Vietnamese", Lat: 21.0290, Lng: 105.8540, Rating: 3.0, Status: model.StatusHidden},
		},
		Dishes: []model.Dish{
			{ID: 1, RestaurantID: 1, Name: model.LocalizedText{Vi: "Phở tái", Ja: "フォー"}, Category: "Phở", Rating: 4.1},
			{ID: 2, RestaurantID: 1, Name: model.LocalizedText{Vi: "Quẩy", Ja: "揚げパン"}, Category: "Side", Rating: 4.9},
			{ID: 3, RestaurantID: 1, Name: model.LocalizedText{Vi: "Trứng trần", Ja: "卵"}, Category: "Side", Rating: 3.0},
			{ID: 4, RestaurantID: 1, Name: model.LocalizedText{Vi: "Phở chín", Ja: "煮込みフォー"}, Category: "Phở", Rating: 4.5},
			{ID: 5, RestaurantID: 3, Name: model.LocalizedText{Vi: "Sushi cá hồi", Ja: "サーモン寿司"}, Category: "Sushi", Rating: 4.8},
			{ID: 6, RestaurantID: 2, Name: model.LocalizedText{Vi: "Cà phê cốt dừa", Ja: "ココナッツコーヒー"}, Category: "Coffee", Rating: 4.7},
		},
	}
}

func ids(results []search.RestaurantResult) []int64 {
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestRestaurantsDefaults(t *testing.T) {
	results := search.Restaurants(fixture(), search.Query{Origin: hanoi})

	// 하롱(>10km)과 숨김 식당은 제외, 평점 내림차순
	assert.Equal(t, []int64{2, 1, 3}, ids(results))

	// 질의가 없으면 평점 상위 3개 메뉴
	require.Len(t, results[1].FeaturedDishes, 3)
	assert.Equal(t, int64(2), results[1].FeaturedDishes[0].ID)
	assert.Equal(t, int64(4), results[1].FeaturedDishes[1].ID)
	assert.NotEmpty(t, results[1].DistanceText)
}

func TestRestaurantsTextMatch(t *testing.T) {
	// 성조 없이 입력해도 식당 이름과 일치
	results := search.Restaurants(fixture(), search.Query{Text: "pho", Origin: hanoi})
	require.Equal(t, []int64{1}, ids(results))
	// 일치하는 메뉴만 노출
	for _, d := range results[0].FeaturedDishes {
		assert.Equal(t, "Phở", d.Category)
	}

	// 메뉴의 일본어 이름으로 식당 찾기
	assert.Equal(t, []int64{3}, ids(search.Restaurants(fixture(), search.Query{Text: "寿司", Origin: hanoi})))

	// 태그
	assert.Equal(t, []int64{1}, ids(search.Restaurants(fixture(), search.Query{Text: "beef", Origin: hanoi})))

	assert.Empty(t, search.Restaurants(fixture(), search.Query{Text: "pizza", Origin: hanoi}))
}

func TestRestaurantsFiltersAndSort(t *testing.T) {
	c := fixture()

	byCategory := search.Restaurants(c, search.Query{Categories: []string{"Cafe", "Asian"}, Origin: hanoi})
	assert.ElementsMatch(t, []int64{2, 3}, ids(byCategory))

	all := search.Restaurants(c, search.Query{Categories: []string{"Cafe", "All"}, Origin: hanoi})
	assert.Len(t, all, 3)

	far := search.Restaurants(c, search.Query{MaxDistance: 200, Sort: search.SortDistance, Origin: hanoi})
	assert.Equal(t, int64(4), far[len(far)-1].ID)
	for i := 1; i < len(far); i++ {
		assert.LessOrEqual(t, far[i-1].Distance, far[i].Distance)
	}

	byReviews := search.Restaurants(c, search.Query{Sort: search.SortReviews, Origin: hanoi})
	assert.Equal(t, []int64{3, 1, 2}, ids(byReviews))
}

func TestRecommend(t *testing.T) {
	prefs := &model.Preferences{FoodPreferences: []string{"Sushi"}}
	rec := search.Recommend(fixture(), hanoi, 0, prefs)

	// 숨김/원거리 식당 제외, 가까운 순
	require.Len(t, rec.Restaurants, 3)
	for i := 1; i < len(rec.Restaurants); i++ {
		assert.LessOrEqual(t, rec.Restaurants[i-1].Distance, rec.Restaurants[i].Distance)
	}
	assert.Len(t, rec.Dishes, 6)

	// 같은 식당 메뉴는 거리가 같으므로 평점 순
	var fromPho []float64
	for _, d := range rec.Dishes {
		if d.Restaurant.ID == 1 {
			fromPho = append(fromPho, d.Dish.Rating)
		}
	}
	assert.Equal(t, []float64{4.9, 4.5, 4.1, 3.0}, fromPho)

	for _, d := range rec.Dishes {
		assert.Equal(t, d.Dish.Category == "Sushi", d.Preferred, "dish %d", d.Dish.ID)
	}
}

func TestRecommendLimits(t *testing.T) {
	var c search.Catalog
	for i := int64(1); i <= 10; i++ {
		c.Restaurants = append(c.Restaurants, model.Restaurant{ID: i, Lat: hanoi.Lat, Lng: hanoi.Lng, Rating: float64(i) / 2})
		c.Dishes = append(c.Dishes, model.Dish{ID: i, RestaurantID: i, Rating: float64(i) / 2})
	}
	rec := search.Recommend(c, hanoi, 10, nil)
	require.Len(t, rec.Restaurants, search.RecommendedRestaurants)
	require.Len(t, rec.Dishes, search.RecommendedDishes)
	// 거리가 모두 0이면 평점 높은 순
	assert.Equal(t, int64(10), rec.Restaurants[0].ID)
	assert.Equal(t, int64(10), rec.Dishes[0].Dish.ID)
}
