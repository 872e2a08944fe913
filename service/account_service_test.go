package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/validate"
	"github.com/nmtun/raune/service"
)

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	created, err := app.Accounts.Register(ctx, service.RegisterInput{
		Username: " lan ", Email: "lan@example.com", Password: "Lan@2024", ConfirmPassword: "Lan@2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "lan", created.Username)
	assert.Equal(t, model.RoleCustomer, created.Role)
	assert.NotEqual(t, "Lan@2024", created.PasswordHash)

	_, err = app.Accounts.Register(ctx, service.RegisterInput{
		Username: "lan2", Email: "LAN@example.com", Password: "Lan@2024", ConfirmPassword: "Lan@2024",
	})
	require.ErrorIs(t, err, service.ErrConflict)

	var verrs validate.Errors
	_, err = app.Accounts.Register(ctx, service.RegisterInput{Username: "x", Email: "bad", Password: "abc", ConfirmPassword: "abd"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "register.emailInvalid", verrs["email"])
	assert.Equal(t, "register.passwordTooShort", verrs["password"])

	long := "a1!" + strings.Repeat("x", 80)
	_, err = app.Accounts.Register(ctx, service.RegisterInput{Username: "long", Email: "long@example.com", Password: long, ConfirmPassword: long})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "register.passwordTooLong", verrs["password"])

	session, acc, err := app.Accounts.Login(ctx, "lan@example.com", "Lan@2024")
	require.NoError(t, err)
	assert.Equal(t, created.ID, acc.ID)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, session.CreatedAt.Add(time.Hour), session.ExpiresAt, time.Second)

	who, err := app.Accounts.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, who.ID)

	require.NoError(t, app.Accounts.Logout(ctx, session.Token))
	_, err = app.Accounts.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, _, err = app.Accounts.Login(ctx, "lan@example.com", "wrong")
	require.ErrorIs(t, err, service.ErrUnauthorized)
	code, _ := service.CodeOf(err)
	assert.Equal(t, "login.invalidCredentials", code)
}

func TestSeedAdminCanLogin(t *testing.T) {
	app := newTestApp(t)

	_, acc, err := app.Accounts.Login(context.Background(), "ADMIN@raune.vn", "Admin@123")
	require.NoError(t, err)
	assert.True(t, acc.IsAdmin())
}

func TestExpiredSessionIsRejected(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	require.NoError(t, app.Repos.Session.Create(ctx, &model.Session{
		Token: "stale", AccountID: 1, CreatedAt: past, ExpiresAt: past.Add(time.Hour),
	}))

	_, err := app.Accounts.Authenticate(ctx, "stale")
	require.ErrorIs(t, err, service.ErrUnauthorized)

	// 만료된 세션은 조회 시 삭제된다
	gone, err := app.Repos.Session.Find(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = app.Accounts.Authenticate(ctx, "")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	minh := account(t, app, 1)

	var verrs validate.Errors
	err := app.Accounts.ChangePassword(ctx, minh, "Wrong@123", "Minh@456", "Minh@456")
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "profile.oldPasswordIncorrect", verrs["oldPassword"])

	long := "Minh@" + strings.Repeat("9", 80)
	err = app.Accounts.ChangePassword(ctx, minh, "Minh@123", long, long)
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "profile.passwordTooLong", verrs["newPassword"])

	require.NoError(t, app.Accounts.ChangePassword(ctx, minh, " Minh@123 ", "Minh@456", "Minh@456"))

	_, _, err = app.Accounts.Login(ctx, "minh@example.com", "Minh@123")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	_, _, err = app.Accounts.Login(ctx, "minh@example.com", "Minh@456")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	minh := account(t, app, 1)

	_, err := app.Accounts.UpdateProfile(ctx, minh, service.ProfileInput{Username: "minh", Email: "Tanaka@example.jp"})
	require.ErrorIs(t, err, service.ErrConflict)

	updated, err := app.Accounts.UpdateProfile(ctx, minh, service.ProfileInput{
		Username: "minh.nguyen", Name: "Nguyễn Minh", Email: "minh@example.com", ProfileImage: "/avatars/1.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "minh.nguyen", updated.Username)
	assert.Equal(t, "/avatars/1.png", account(t, app, 1).ProfileImage)

	_, err = app.Accounts.UpdateProfile(ctx, nil, service.ProfileInput{})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestPreferences(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	assert.Equal(t, []string{"Phở", "Coffee", "Sushi"}, app.Accounts.FoodTags())

	none, err := app.Accounts.Preferences(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	var verrs validate.Errors
	_, err = app.Accounts.SavePreferences(ctx, 1, []string{"Wifi"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "survey.unknownTag", verrs["foodPreferences"])

	saved, err := app.Accounts.SavePreferences(ctx, 1, []string{"Phở", "Sushi"})
	require.NoError(t, err)
	assert.True(t, saved.IsPreferred("Sushi"))

	got, err := app.Accounts.Preferences(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Phở", "Sushi"}, got.FoodPreferences)

	require.NoError(t, app.Accounts.ClearPreferences(ctx, 1))
	got, err = app.Accounts.Preferences(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
