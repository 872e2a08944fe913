package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmtun/raune/internal/i18n"
)

func TestNegotiate(t *testing.T) {
	assert.Equal(t, "vi", i18n.Negotiate(""))
	assert.Equal(t, "ja", i18n.Negotiate("ja-JP,ja;q=0.9,en;q=0.8"))
	assert.Equal(t, "vi", i18n.Negotiate("vi-VN"))
	assert.Equal(t, "vi", i18n.Negotiate("fr-FR"))
	assert.Equal(t, "vi", i18n.Negotiate(";;;bogus"))
}

func TestT(t *testing.T) {
	assert.Equal(t, "Mật khẩu xác nhận không khớp", i18n.T("vi", "register.passwordMismatch"))
	assert.Equal(t, "パスワードが一致しません", i18n.T("ja", "register.passwordMismatch"))
	// 알 수 없는 언어는 vi
	assert.Equal(t, "Email không hợp lệ", i18n.T("en", "register.emailInvalid"))
	// 알 수 없는 코드는 코드 그대로
	assert.Equal(t, "no.such.key", i18n.T("ja", "no.such.key"))

	assert.True(t, i18n.Has("review.commentTooLong"))
	assert.False(t, i18n.Has("no.such.key"))
}
