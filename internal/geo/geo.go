// Package geo: 좌표 간 거리 계산
package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371

// Point: 위도/경도
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultLocation: 위치를 알 수 없을 때 쓰는 하노이 중심
var DefaultLocation = Point{Lat: 21.0285, Lng: 105.8542}

// Distance: 하버사인 공식, km
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Between: 두 지점 사이 거리
func Between(a, b Point) float64 {
	return Distance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// Format: 1km 미만은 미터, 그 외는 소수 1자리 km
func Format(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// Resolve: 좌표가 없으면 기본 위치를 쓰고 fallback 여부를 함께 돌려준다.
func Resolve(p *Point) (Point, bool) {
	if p == nil {
		return DefaultLocation, true
	}
	return *p, false
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
