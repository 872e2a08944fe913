package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/review"
	"github.com/nmtun/raune/internal/validate"
	"github.com/nmtun/raune/service"
)

func TestCreateReview(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	minh := account(t, app, 1)
	tanaka := account(t, app, 2)

	// 이미 리뷰한 대상
	_, err := app.Reviews.Create(ctx, minh, service.ReviewInput{Type: model.ReviewTypeRestaurant, TargetID: 1, Rating: 4, Comment: "again"})
	require.ErrorIs(t, err, service.ErrConflict)
	code, ok := service.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, "review.alreadyReviewed", code)

	// 삭제된 리뷰(4)는 중복으로 보지 않지만 id는 그 뒤로 간다
	created, err := app.Reviews.Create(ctx, tanaka, service.ReviewInput{Type: model.ReviewTypeRestaurant, TargetID: 2, Rating: 3, Comment: "  Bình thường  "})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, "Bình thường", created.Comment)
	assert.False(t, created.CreatedAt.IsZero())

	pending, err := app.Repos.Buffer.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	_, err = app.Reviews.Create(ctx, minh, service.ReviewInput{Type: model.ReviewTypeDish, TargetID: 999, Rating: 4, Comment: "?"})
	require.ErrorIs(t, err, service.ErrNotFound)
	code, _ = service.CodeOf(err)
	assert.Equal(t, "review.invalidTarget", code)

	var verrs validate.Errors
	_, err = app.Reviews.Create(ctx, minh, service.ReviewInput{Type: "menu", TargetID: 10, Rating: 4, Comment: "?"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "review.invalidTarget", verrs["type"])

	_, err = app.Reviews.Create(ctx, minh, service.ReviewInput{Type: model.ReviewTypeDish, TargetID: 11, Rating: 0, Comment: ""})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "review.pleaseSelectRating", verrs["rating"])
	assert.Equal(t, "review.pleaseEnterComment", verrs["comment"])

	_, err = app.Reviews.Create(ctx, nil, service.ReviewInput{Type: model.ReviewTypeDish, TargetID: 11, Rating: 5, Comment: "x"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestUpdateReviewPermissions(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	minh := account(t, app, 1)
	admin := account(t, app, 9)

	_, err := app.Reviews.Update(ctx, minh, 2, 1, "bad")
	require.ErrorIs(t, err, service.ErrForbidden)

	edited, err := app.Reviews.Update(ctx, admin, 2, 3, "Đã sửa")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	require.NotNil(t, edited.UpdatedAt)
	assert.Equal(t, int64(2), edited.UserID)

	all, err := app.Reviews.All(ctx)
	require.NoError(t, err)
	got, ok := review.Find(all, 2)
	require.True(t, ok)
	assert.Equal(t, 3, got.Rating)
	assert.Equal(t, "Đã sửa", got.Comment)

	// 삭제된 리뷰는 수정 불가
	_, err = app.Reviews.Update(ctx, admin, 4, 5, "x")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteAndRestoreReview(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	minh := account(t, app, 1)
	tanaka := account(t, app, 2)
	admin := account(t, app, 9)

	require.ErrorIs(t, app.Reviews.Delete(ctx, tanaka, 1), service.ErrForbidden)
	require.NoError(t, app.Reviews.Delete(ctx, minh, 1))

	all, err := app.Reviews.All(ctx)
	require.NoError(t, err)
	_, ok := review.Find(all, 1)
	assert.False(t, ok)

	// 삭제 후 다시 작성 가능
	again, err := app.Reviews.Create(ctx, minh, service.ReviewInput{Type: model.ReviewTypeRestaurant, TargetID: 1, Rating: 5, Comment: "Vẫn ngon"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.ID)

	_, err = app.Reviews.Restore(ctx, minh, 4)
	require.ErrorIs(t, err, service.ErrForbidden)

	restored, err := app.Reviews.Restore(ctx, admin, 4)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	_, err = app.Reviews.Restore(ctx, admin, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)

	list, err := app.Reviews.AdminList(ctx, review.SortOldest, true)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, int64(1), list[0].ID)
	assert.True(t, list[0].IsDeleted)
	assert.Equal(t, "Minh", list[0].UserName)
}

func TestRestaurantReviews(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	got, err := app.Reviews.ForRestaurant(ctx, 1, review.FilterAll, review.SortNewest)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 3)
	assert.Equal(t, int64(3), got.Reviews[0].ID)
	require.NotNil(t, got.Reviews[0].Target)
	assert.Equal(t, "Phở tái", got.Reviews[0].Target.Name.Vi)
	assert.Equal(t, 2, got.RestaurantStats.Count)
	assert.Equal(t, 4.5, got.RestaurantStats.Average)
	assert.Equal(t, 1, got.DishStats.Count)
	assert.Equal(t, 3.0, got.DishStats.Average)

	// 필터는 목록에만 적용
	five, err := app.Reviews.ForRestaurant(ctx, 1, review.FilterFive, review.SortNewest)
	require.NoError(t, err)
	require.Len(t, five.Reviews, 1)
	assert.Equal(t, int64(1), five.Reviews[0].ID)
	assert.Equal(t, 2, five.RestaurantStats.Count)

	// 삭제된 리뷰만 있는 식당
	empty, err := app.Reviews.ForRestaurant(ctx, 2, review.FilterAll, review.SortNewest)
	require.NoError(t, err)
	assert.Empty(t, empty.Reviews)
	assert.Equal(t, 0, empty.RestaurantStats.Count)

	_, err = app.Reviews.ForRestaurant(ctx, 404, review.FilterAll, review.SortNewest)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserReviews(t *testing.T) {
	app := newTestApp(t)

	mine, err := app.Reviews.ForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine.Restaurant, 1)
	require.Len(t, mine.Dish, 1)
	assert.Equal(t, int64(1), mine.Restaurant[0].ID)
	assert.Equal(t, int64(3), mine.Dish[0].ID)

	// 삭제된 리뷰는 내 목록에서도 빠진다
	theirs, err := app.Reviews.ForUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, theirs.Restaurant, 1)
	assert.Empty(t, theirs.Dish)
}
