package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/validate"
	"github.com/nmtun/raune/service"
)

func TestDishListPaginates(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := app.Dishes.Create(ctx, model.Dish{
			RestaurantID: 2,
			Name:         model.LocalizedText{Vi: fmt.Sprintf("Bánh %d", i), Ja: fmt.Sprintf("ケーキ %d", i)},
			Category:     "Dessert",
			Price:        float64(20000 + i*1000),
		})
		require.NoError(t, err)
	}

	page, err := app.Dishes.List(ctx, service.DishQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, service.DishPageSize)

	// 범위를 넘는 페이지는 마지막 페이지로
	last, err := app.Dishes.List(ctx, service.DishQuery{Page: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, last.Page)
	assert.Len(t, last.Items, 4)

	byPrice, err := app.Dishes.List(ctx, service.DishQuery{Sort: service.DishSortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, int64(10), byPrice.Items[0].ID)

	filtered, err := app.Dishes.List(ctx, service.DishQuery{Search: "ケーキ", Category: "Dessert"})
	require.NoError(t, err)
	assert.Equal(t, 10, filtered.Total)

	none, err := app.Dishes.List(ctx, service.DishQuery{Search: "pizza", Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)
	assert.Equal(t, 1, none.Page)
	assert.Empty(t, none.Items)
}

func TestCreateDishDefaults(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	dish, err := app.Dishes.Create(ctx, model.Dish{
		RestaurantID: 1, Name: model.LocalizedText{Vi: "Phở gà", Ja: "鶏のフォー"}, Category: "Phở", Price: 50000, Rating: 5, Reviews: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), dish.ID)
	assert.Equal(t, 0.0, dish.Rating)
	assert.Equal(t, int64(0), dish.Reviews)
	assert.Equal(t, "/food-photos/default.jpg", dish.Photo)

	_, err = app.Dishes.Create(ctx, model.Dish{
		RestaurantID: 404, Name: model.LocalizedText{Vi: "x", Ja: "y"}, Category: "z", Price: 1,
	})
	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "admin.dish.restaurantRequired", verrs["restaurantId"])
}

func TestUpdateAndDeleteDish(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	updated, err := app.Dishes.Update(ctx, model.Dish{
		ID: 11, RestaurantID: 2, Name: model.LocalizedText{Vi: "Quẩy nóng", Ja: "揚げパン"}, Category: "Side", Price: 12000,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Rating)

	// 식당이 바뀌면 이전/새 식당 모두 기록
	pending, err := app.Repos.Buffer.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	moved, err := app.Dishes.ForRestaurant(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, moved, 2)

	require.NoError(t, app.Dishes.Delete(ctx, 11))
	_, err = app.Dishes.Get(ctx, 11)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, app.Dishes.Delete(ctx, 11), service.ErrNotFound)

	_, err = app.Dishes.ForRestaurant(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
