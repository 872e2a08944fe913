package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/geo"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/search"
	"github.com/nmtun/raune/internal/validate"
	"github.com/nmtun/raune/service"
)

func TestBootstrapRunsOnce(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	app, err := service.NewApp(ctx, conn, testSeed(), time.Hour, zap.NewNop())
	require.NoError(t, err)
	_, err = app.Restaurants.Delete(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, app.Repos.DeletedReview.Remove(ctx, 4))

	// 다시 시작해도 삭제/복구 상태는 유지
	again, err := service.NewApp(ctx, conn, testSeed(), time.Hour, zap.NewNop())
	require.NoError(t, err)
	_, err = again.Restaurants.Get(ctx, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)
	deleted, err := again.Repos.DeletedReview.IsDeleted(ctx, 4)
	require.NoError(t, err)
	assert.False(t, deleted)

	// 시드 비밀번호는 해시로 저장
	admin := account(t, again, 9)
	assert.NotEqual(t, "Admin@123", admin.PasswordHash)
}

func TestRestaurantLiveStats(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	r1, err := app.Restaurants.Get(ctx, 1)
	require.NoError(t, err)
	// 저장된 4.9/99가 아니라 식당 리뷰(5, 4) 기준
	assert.Equal(t, 4.5, r1.Rating)
	assert.Equal(t, int64(2), r1.Reviews)

	// 삭제된 리뷰만 있는 식당은 0
	r2, err := app.Restaurants.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r2.Rating)
	assert.Equal(t, int64(0), r2.Reviews)

	_, err = app.Restaurants.Get(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestFindRestaurantSummaryCachesOnMiss(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	miss, err := app.Repos.Cache.FindCacheByID(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, miss)

	summary, err := app.Restaurants.FindRestaurantSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.WeightedRating)
	assert.Equal(t, int64(2), summary.TotalWeightedReviews)
	assert.Equal(t, 3.0, summary.DishRating)
	assert.Equal(t, int64(1), summary.DishReviews)

	cached, err := app.Repos.Cache.FindCacheByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, summary.WeightedRating, cached.WeightedRating)

	_, err = app.Restaurants.FindRestaurantSummary(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRefreshSummaryDropsMissingRestaurant(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.Restaurants.FindRestaurantSummary(ctx, 3)
	require.NoError(t, err)
	_, err = app.Restaurants.Delete(ctx, 3)
	require.NoError(t, err)

	require.NoError(t, app.Restaurants.RefreshSummary(ctx, 3, 1))
	cached, err := app.Repos.Cache.FindCacheByID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestReloadSeedInvalidatesSummary(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	before, err := app.Restaurants.FindRestaurantSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.5, before.WeightedRating)
	assert.Equal(t, int64(2), before.TotalWeightedReviews)

	data := testSeed()
	data.Reviews = append(data.Reviews, model.Review{
		ID: 5, UserID: 9, Type: model.ReviewTypeRestaurant, TargetID: 1, Rating: 1, Comment: "Chậm", CreatedAt: day(6),
	})
	require.NoError(t, app.ReloadSeed(ctx, data))

	cached, err := app.Repos.Cache.FindCacheByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, cached)

	after, err := app.Restaurants.FindRestaurantSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3.3, after.WeightedRating)
	assert.Equal(t, int64(3), after.TotalWeightedReviews)
}

func TestCreateRestaurant(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	created, err := app.Restaurants.Create(ctx, model.Restaurant{
		Name: " Bún Chả Hương Liên ", Address: "24 Lê Văn Hưu", Category: "Vietnamese",
		Photo: "https://images.unsplash.com/photo-1?w=400", Status: model.StatusHidden, Rating: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "Bún Chả Hương Liên", created.Name)
	assert.Equal(t, 5.0, created.Rating)
	assert.Equal(t, int64(0), created.Reviews)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, geo.DefaultLocation.Lat, created.Lat)

	pending, err := app.Repos.Buffer.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	// 이름 + 주소가 같으면 409
	_, err = app.Restaurants.Create(ctx, model.Restaurant{Name: "phở thìn", Address: " 13 LÒ ĐÚC", Category: "Vietnamese", Photo: "/x.png"})
	assert.ErrorIs(t, err, service.ErrConflict)
	code, ok := service.CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, "admin.restaurant.duplicate", code)

	_, err = app.Restaurants.Create(ctx, model.Restaurant{Name: "X", Address: "Y", Category: "Cafe", Photo: "/x.gif"})
	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "admin.restaurant.photoInvalid", verrs["photo"])
}

func TestUpdateRestaurantKeepsRating(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	updated, err := app.Restaurants.Update(ctx, model.Restaurant{
		ID: 1, Name: "Phở Thìn Lò Đúc", Address: "13 Lò Đúc", Category: "Vietnamese", Photo: "/p/1.jpg", Rating: 1, Status: "bogus",
	})
	require.NoError(t, err)
	assert.Equal(t, 4.9, updated.Rating)
	assert.Equal(t, model.StatusActive, updated.Status)

	_, err = app.Restaurants.Update(ctx, model.Restaurant{ID: 404, Name: "a", Address: "b", Category: "c", Photo: "/d.jpg"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRestaurantHidesWhenItHasDishes(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	hidden, err := app.Restaurants.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hidden)
	r1, err := app.Restaurants.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, r1.IsHidden())

	hidden, err = app.Restaurants.Delete(ctx, 3)
	require.NoError(t, err)
	assert.False(t, hidden)
	_, err = app.Restaurants.Get(ctx, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)

	visible, err := app.Restaurants.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, int64(2), visible[0].ID)

	all, err := app.Restaurants.AdminList(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTerm, err := app.Restaurants.AdminList(ctx, "triệu")
	require.NoError(t, err)
	require.Len(t, byTerm, 1)
	assert.Equal(t, int64(2), byTerm[0].ID)
}

func TestSearchAndRecommend(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	results, err := app.Restaurants.Search(ctx, search.Query{Text: "cot dua", Origin: geo.DefaultLocation})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].ID)

	_, err = app.Restaurants.Delete(ctx, 1)
	require.NoError(t, err)
	rec, err := app.Restaurants.Recommend(ctx, geo.DefaultLocation, 10, &model.Preferences{FoodPreferences: []string{"Coffee"}})
	require.NoError(t, err)
	for _, r := range rec.Restaurants {
		assert.NotEqual(t, int64(1), r.ID, "hidden restaurant must not be recommended")
	}
	require.Len(t, rec.Dishes, 1)
	assert.True(t, rec.Dishes[0].Preferred)
}
