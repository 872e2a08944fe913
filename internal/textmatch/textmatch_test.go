package textmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmtun/raune/internal/textmatch"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Phở Bò", "pho bo"},
		{"  Bún   Chả  ", "bun cha"},
		{"Đường Láng", "duong lang"},
		{"Cà phê sữa đá", "ca phe sua da"},
		{"サーモン寿司", "サーモン寿司"},
		{"HOÀN KIẾM", "hoan kiem"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, textmatch.Normalize(c.in), c.in)
	}
}

func TestFlexibleMatch(t *testing.T) {
	assert.True(t, textmatch.FlexibleMatch("Phở Thìn Lò Đúc", ""))
	assert.True(t, textmatch.FlexibleMatch("Phở Thìn Lò Đúc", "pho"))
	assert.True(t, textmatch.FlexibleMatch("Phở Thìn Lò Đúc", "lo duc"))
	assert.True(t, textmatch.FlexibleMatch("Phở Thìn Lò Đúc", "PHỞ"))
	assert.True(t, textmatch.FlexibleMatch("サーモン寿司", "寿司"))
	assert.False(t, textmatch.FlexibleMatch("Bánh Mì 25", "pho"))

	assert.True(t, textmatch.AnyMatch("sushi", "Bánh mì", "Sushi cá hồi"))
	assert.False(t, textmatch.AnyMatch("sushi"))
}
