// Package validate는 입력 폼 규칙을 검사합니다. 실패 결과는 필드 -> 메시지 코드이며,
// 코드는 i18n 카탈로그에서 번역된다.
package validate

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nmtun/raune/internal/model"
)

// Errors: 필드별 메시지 코드
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add: 같은 필드는 첫 번째 오류만 유지
func (e Errors) Add(field, code string) {
	if _, ok := e[field]; !ok {
		e[field] = code
	}
}

// Err: 오류가 없으면 nil
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// 제한값
const (
	MinPasswordLength = 6
	// bcrypt가 받는 최대 바이트 수
	MaxPasswordBytes  = 72
	MaxCommentLength  = 300
	MaxPreferences    = 5
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	photoExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|avif|svg)`)
)

const passwordSpecials = "!@#$%^&*()_+-=[]{};:,.<>?/\\|`~"

// IsEmail: 가입 폼과 같은 이메일 형식 검사
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordCode: 비밀번호 규칙 위반 코드, 통과하면 "".
// prefix는 메시지 네임스페이스 (register / profile).
func PasswordCode(password, prefix string) string {
	if password == "" {
		return prefix + ".passwordRequired"
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return prefix + ".passwordTooShort"
	}
	if len(password) > MaxPasswordBytes {
		return prefix + ".passwordTooLong"
	}
	var letter, digit, special bool
	for _, r := range password {
		switch {
		case r == '"' || r == '\'':
			return "register.passwordInvalid"
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !letter || !digit || !special {
		return "register.passwordInvalid"
	}
	return ""
}

// Registration: 회원가입 폼
func Registration(username, email, password, confirm string) Errors {
	errs := Errors{}
	if strings.TrimSpace(username) == "" {
		errs.Add("username", "register.usernameRequired")
	}
	switch {
	case strings.TrimSpace(email) == "":
		errs.Add("email", "register.emailRequired")
	case !IsEmail(email):
		errs.Add("email", "register.emailInvalid")
	}
	if code := PasswordCode(password, "register"); code != "" {
		errs.Add("password", code)
	}
	switch {
	case confirm == "":
		errs.Add("confirmPassword", "register.confirmPasswordRequired")
	case confirm != password:
		errs.Add("confirmPassword", "register.passwordMismatch")
	}
	return errs
}

// ChangePassword: 새 비밀번호와 확인 값은 앞뒤 공백을 제거하고 비교
func ChangePassword(oldPassword, newPassword, confirm string) Errors {
	errs := Errors{}
	if strings.TrimSpace(oldPassword) == "" {
		errs.Add("oldPassword", "profile.oldPasswordRequired")
	}
	next := strings.TrimSpace(newPassword)
	if next == "" {
		errs.Add("newPassword", "profile.newPasswordRequired")
	} else if code := PasswordCode(next, "profile"); code != "" {
		errs.Add("newPassword", code)
	}
	switch c := strings.TrimSpace(confirm); {
	case c == "":
		errs.Add("confirmPassword", "profile.confirmPasswordRequired")
	case c != next:
		errs.Add("confirmPassword", "profile.passwordMismatch")
	}
	return errs
}

// Profile: 사용자 이름 필수, 이메일 형식
func Profile(username, email string) Errors {
	errs := Errors{}
	if strings.TrimSpace(username) == "" {
		errs.Add("username", "profile.usernameRequired")
	}
	if e := strings.TrimSpace(email); e == "" {
		errs.Add("email", "profile.emailRequired")
	} else if !IsEmail(e) {
		errs.Add("email", "profile.emailInvalid")
	}
	return errs
}

// IsValidPhotoURL: unsplash 이미지거나 쿼리 앞부분에 이미지 확장자가 있어야 함
func IsValidPhotoURL(url string) bool {
	if strings.Contains(url, "images.unsplash.com") {
		return true
	}
	path, _, _ := strings.Cut(url, "?")
	return photoExtPattern.MatchString(path)
}

// Restaurant: 필수 항목, 사진 URL, 이름+주소 중복 (자기 자신 제외)
func Restaurant(r model.Restaurant, existing []model.Restaurant) Errors {
	errs := Errors{}
	required := []struct {
		field, value string
	}{
		{"name", r.Name},
		{"address", r.Address},
		{"category", r.Category},
		{"photo", r.Photo},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs.Add(f.field, "admin.restaurant.fieldRequired")
		}
	}
	if _, missing := errs["photo"]; !missing && !IsValidPhotoURL(strings.TrimSpace(r.Photo)) {
		errs.Add("photo", "admin.restaurant.photoInvalid")
	}
	if len(errs) > 0 {
		return errs
	}

	name := normalizeKey(r.Name)
	address := normalizeKey(r.Address)
	for _, other := range existing {
		if other.ID == r.ID {
			continue
		}
		if normalizeKey(other.Name) == name && normalizeKey(other.Address) == address {
			errs.Add("name", "admin.restaurant.duplicate")
			break
		}
	}
	return errs
}

// IsDuplicateRestaurant: 중복 판정만 따로 필요할 때
func IsDuplicateRestaurant(errs Errors) bool {
	return errs["name"] == "admin.restaurant.duplicate"
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Dish: 두 언어 이름, 식당, 양수 가격, 분류
func Dish(d model.Dish) Errors {
	errs := Errors{}
	if strings.TrimSpace(d.Name.Vi) == "" {
		errs.Add("nameVi", "admin.dish.nameViRequired")
	}
	if strings.TrimSpace(d.Name.Ja) == "" {
		errs.Add("nameJa", "admin.dish.nameJaRequired")
	}
	if d.RestaurantID <= 0 {
		errs.Add("restaurantId", "admin.dish.restaurantRequired")
	}
	if !(d.Price > 0) {
		errs.Add("price", "admin.dish.priceInvalid")
	}
	if strings.TrimSpace(d.Category) == "" {
		errs.Add("category", "admin.dish.categoryRequired")
	}
	return errs
}

// Review: 별점 1..5, 빈 댓글 불가, 300자 이하
func Review(rating int, comment string) Errors {
	errs := Errors{}
	if rating < 1 || rating > 5 {
		errs.Add("rating", "review.pleaseSelectRating")
	}
	switch {
	case strings.TrimSpace(comment) == "":
		errs.Add("comment", "review.pleaseEnterComment")
	case utf8.RuneCountInString(comment) > MaxCommentLength:
		errs.Add("comment", "review.commentTooLong")
	}
	return errs
}

// Preferences: 1..5개, 모두 음식 태그여야 함
func Preferences(tags []string, foodTags []string) Errors {
	errs := Errors{}
	switch {
	case len(tags) == 0:
		errs.Add("foodPreferences", "survey.selectAtLeastOneTag")
		return errs
	case len(tags) > MaxPreferences:
		errs.Add("foodPreferences", "survey.tooManyTags")
		return errs
	}
	known := make(map[string]struct{}, len(foodTags))
	for _, t := range foodTags {
		known[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, ok := known[t]; !ok {
			errs.Add("foodPreferences", "survey.unknownTag")
			break
		}
		if _, dup := seen[t]; dup {
			errs.Add("foodPreferences", "survey.duplicateTag")
			break
		}
		seen[t] = struct{}{}
	}
	return errs
}
