package httpapi

import (
	"net/http"
	"strings"

	"github.com/nmtun/raune/internal/geo"
	"github.com/nmtun/raune/internal/i18n"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/internal/search"
)

type searchResponse struct {
	Restaurants      []search.RestaurantResult `json:"restaurants"`
	LocationFallback bool                      `json:"locationFallback"`
	Notice           string                    `json:"notice,omitempty"`
}

type recommendResponse struct {
	*search.Recommendations
	LocationFallback bool   `json:"locationFallback"`
	Notice           string `json:"notice,omitempty"`
}

// origin: lat/lng 쿼리가 둘 다 있을 때만 사용자 위치로 본다
func origin(r *http.Request) (geo.Point, bool, error) {
	lat, hasLat, err := floatQuery(r, "lat")
	if err != nil {
		return geo.Point{}, false, err
	}
	lng, hasLng, err := floatQuery(r, "lng")
	if err != nil {
		return geo.Point{}, false, err
	}
	var p *geo.Point
	if hasLat && hasLng {
		p = &geo.Point{Lat: lat, Lng: lng}
	}
	point, fallback := geo.Resolve(p)
	return point, fallback, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *Server) handleSearchRestaurants(w http.ResponseWriter, r *http.Request) {
	point, fallback, err := origin(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxDistance, _, err := floatQuery(r, "maxDistance")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	results, err := s.app.Restaurants.Search(r.Context(), search.Query{
		Text:        q.Get("q"),
		Categories:  splitList(q.Get("category")),
		MaxDistance: maxDistance,
		Sort:        q.Get("sort"),
		Origin:      point,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []search.RestaurantResult{}
	}
	resp := searchResponse{Restaurants: results, LocationFallback: fallback}
	if fallback {
		resp.Notice = i18n.T(languageFrom(r.Context()), "location.fallback")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	point, fallback, err := origin(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxDistance, _, err := floatQuery(r, "maxDistance")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var prefs *model.Preferences
	if actor := actorFrom(r.Context()); actor != nil {
		if prefs, err = s.app.Accounts.Preferences(r.Context(), actor.ID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	rec, err := s.app.Restaurants.Recommend(r.Context(), point, maxDistance, prefs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := recommendResponse{Recommendations: rec, LocationFallback: fallback}
	if fallback {
		resp.Notice = i18n.T(languageFrom(r.Context()), "location.fallback")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	restaurant, err := s.app.Restaurants.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (s *Server) handleRestaurantSummary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.app.Restaurants.FindRestaurantSummary(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRestaurantReviews(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	reviews, err := s.app.Reviews.ForRestaurant(r.Context(), id, q.Get("filter"), q.Get("sort"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleRestaurantDishes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dishes, err := s.app.Dishes.ForRestaurant(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if dishes == nil {
		dishes = []model.Dish{}
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (s *Server) handleGetDish(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dish, err := s.app.Dishes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}
