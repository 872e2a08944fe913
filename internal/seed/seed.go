// Package seed는 바이너리에 포함된 초기 데이터(식당, 메뉴, 사용자, 리뷰, 태그)를 읽습니다.
package seed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nmtun/raune/internal/model"
)

//go:embed data/*.json
var embedded embed.FS

// 시드 파일 이름
const (
	RestaurantsFile = "restaurants.json"
	MenusFile       = "menus.json"
	UsersFile       = "users.json"
	ReviewsFile     = "reviews.json"
	TagsFile        = "tags.json"
)

// Account: 시드 사용자. 비밀번호는 평문이며 DB에 복사될 때 해시된다.
type Account struct {
	model.Account
	Password string `json:"password"`
}

type Data struct {
	Restaurants []model.Restaurant
	Dishes      []model.Dish
	Accounts    []Account
	Reviews     []model.Review
	Tags        []string
}

// Load: 내장된 시드 데이터를 읽는다.
func Load() (*Data, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded seed: %w", err)
	}
	return load(sub, nil)
}

// LoadDir: dir의 파일을 우선 사용하고, 없는 파일은 내장 데이터로 대체한다.
func LoadDir(dir string) (*Data, error) {
	if dir == "" {
		return Load()
	}
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded seed: %w", err)
	}
	return load(os.DirFS(dir), sub)
}

func load(primary, fallback fs.FS) (*Data, error) {
	var data Data
	files := []struct {
		name string
		dst  interface{}
	}{
		{RestaurantsFile, &data.Restaurants},
		{MenusFile, &data.Dishes},
		{UsersFile, &data.Accounts},
		{ReviewsFile, &data.Reviews},
		{TagsFile, &data.Tags},
	}
	for _, f := range files {
		if err := decodeFile(primary, fallback, f.name, f.dst); err != nil {
			return nil, err
		}
	}
	return &data, nil
}

func decodeFile(primary, fallback fs.FS, name string, dst interface{}) error {
	raw, err := fs.ReadFile(primary, name)
	if errors.Is(err, fs.ErrNotExist) && fallback != nil {
		raw, err = fs.ReadFile(fallback, name)
	}
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", filepath.Base(name), err)
	}
	return nil
}

// 음식이 아닌 태그 (설문에서 제외)
var nonFoodTags = map[string]struct{}{
	"24/7": {}, "Delivery": {}, "Fast Food": {}, "Takeaway": {}, "Wifi": {},
	"Study Space": {}, "Family": {}, "Group Dining": {}, "Romantic": {}, "Outdoor": {},
	"Lake View": {}, "Premium": {}, "Quick": {}, "Famous": {}, "Authentic": {},
	"Traditional": {}, "Unique": {}, "Healthy": {}, "Sweet": {}, "Spicy": {},
}

// FoodTags: 선호 음식으로 고를 수 있는 태그만 원래 순서대로 반환
func (d *Data) FoodTags() []string {
	tags := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		if _, skip := nonFoodTags[tag]; skip {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// SeedAccounts: 시드 사용자를 model.Account로 변환. hash는 평문 비밀번호를 해시한다.
func (d *Data) SeedAccounts(hash func(string) (string, error)) ([]model.Account, error) {
	accounts := make([]model.Account, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		account := a.Account
		h, err := hash(a.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password of seed user %d: %w", a.ID, err)
		}
		account.PasswordHash = h
		accounts = append(accounts, account)
	}
	return accounts, nil
}
