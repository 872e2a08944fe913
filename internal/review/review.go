// Package review는 시드 리뷰와 저장된 리뷰의 병합, 삭제 필터, 통계 계산을 담당합니다.
// DB에 의존하지 않는 순수 함수만 둔다.
package review

import (
	"math"
	"sort"

	"github.com/nmtun/raune/internal/model"
)

// 평점 필터
const (
	FilterAll  = "all"
	FilterFive = "5"
	FilterLow  = "low" // 2점 이하
)

// 정렬 기준
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortRatingHigh = "rating-high"
	SortRatingLow  = "rating-low"
)

// Merge: id 기준 합집합. 저장된(수정된) 리뷰가 시드보다 우선하고 결과는 id 오름차순.
func Merge(seed, saved []model.Review) []model.Review {
	byID := make(map[int64]model.Review, len(seed)+len(saved))
	for _, r := range seed {
		byID[r.ID] = r
	}
	for _, r := range saved {
		byID[r.ID] = r
	}

	merged := make([]model.Review, 0, len(byID))
	for _, r := range byID {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged
}

// SeedDeletedIDs: 시드에서 isDeleted로 표시된 리뷰 id
func SeedDeletedIDs(seed []model.Review) []int64 {
	var ids []int64
	for _, r := range seed {
		if r.IsDeleted {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// FilterDeleted: 삭제 집합에 없는 리뷰만 남긴다.
func FilterDeleted(reviews []model.Review, deleted map[int64]struct{}) []model.Review {
	out := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := deleted[r.ID]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MarkDeleted: 관리자 화면용. 삭제 집합 기준으로 IsDeleted를 다시 채운다.
func MarkDeleted(reviews []model.Review, deleted map[int64]struct{}) []model.Review {
	out := make([]model.Review, len(reviews))
	for i, r := range reviews {
		_, r.IsDeleted = deleted[r.ID]
		out[i] = r
	}
	return out
}

// Stats: 평균(소수 1자리), 개수, 5..1 분포
func Stats(reviews []model.Review) model.RatingStats {
	stats := model.RatingStats{
		Count:        len(reviews),
		Distribution: map[int]int{5: 0, 4: 0, 3: 0, 2: 0, 1: 0},
	}
	if len(reviews) == 0 {
		return stats
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
		stats.Distribution[r.Rating]++
	}
	stats.Average = Round1(float64(sum) / float64(len(reviews)))
	return stats
}

// Round1: 소수점 첫째 자리 반올림
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ForTarget: 특정 식당 또는 메뉴의 리뷰
func ForTarget(reviews []model.Review, kind string, targetID int64) []model.Review {
	var out []model.Review
	for _, r := range reviews {
		if r.Type == kind && r.TargetID == targetID {
			out = append(out, r)
		}
	}
	return out
}

// ForRestaurant: 식당 리뷰와 그 식당 메뉴들의 리뷰
func ForRestaurant(reviews []model.Review, restaurantID int64, dishIDs []int64) []model.Review {
	dishes := make(map[int64]struct{}, len(dishIDs))
	for _, id := range dishIDs {
		dishes[id] = struct{}{}
	}
	var out []model.Review
	for _, r := range reviews {
		switch r.Type {
		case model.ReviewTypeRestaurant:
			if r.TargetID == restaurantID {
				out = append(out, r)
			}
		case model.ReviewTypeDish:
			if _, ok := dishes[r.TargetID]; ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// OfType: 종류별 분리
func OfType(reviews []model.Review, kind string) []model.Review {
	var out []model.Review
	for _, r := range reviews {
		if r.Type == kind {
			out = append(out, r)
		}
	}
	return out
}

// FilterRating: 알 수 없는 필터는 all로 취급
func FilterRating(reviews []model.Review, filter string) []model.Review {
	out := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		switch filter {
		case FilterFive:
			if r.Rating != 5 {
				continue
			}
		case FilterLow:
			if r.Rating > 2 {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// SortByDate: newest(기본) 또는 oldest. 입력을 바꾸지 않는다.
func SortByDate(reviews []model.Review, order string) []model.Review {
	out := append([]model.Review(nil), reviews...)
	sort.SliceStable(out, func(i, j int) bool {
		if order == SortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SortAdmin: 관리자 목록 정렬. 알 수 없는 값이면 입력 순서 유지.
func SortAdmin(reviews []model.Review, order string) []model.Review {
	out := append([]model.Review(nil), reviews...)
	switch order {
	case SortNewest, SortOldest:
		return SortByDate(out, order)
	case SortRatingHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortRatingLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	}
	return out
}

// NextID: 모든 목록을 통틀어 max(id) + 1, 비어 있으면 1
func NextID(lists ...[]model.Review) int64 {
	var max int64
	for _, list := range lists {
		for _, r := range list {
			if r.ID > max {
				max = r.ID
			}
		}
	}
	return max + 1
}

// HasReviewed: 사용자당 대상별 리뷰는 하나
func HasReviewed(reviews []model.Review, userID int64, kind string, targetID int64) bool {
	for _, r := range reviews {
		if r.UserID == userID && r.Type == kind && r.TargetID == targetID {
			return true
		}
	}
	return false
}

// Find: id로 리뷰 찾기
func Find(reviews []model.Review, id int64) (model.Review, bool) {
	for _, r := range reviews {
		if r.ID == id {
			return r, true
		}
	}
	return model.Review{}, false
}
