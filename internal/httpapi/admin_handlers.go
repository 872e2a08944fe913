package httpapi

import (
	"net/http"
	"strconv"

	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/service"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.Dashboard.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.app.Restaurants.AdminList(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (s *Server) handleCreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var in model.Restaurant
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.app.Restaurants.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in model.Restaurant
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	in.ID = id
	updated, err := s.app.Restaurants.Update(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteRestaurant: 메뉴가 있으면 숨김 처리되고 hidden=true
func (s *Server) handleDeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hidden, err := s.app.Restaurants.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hidden": hidden})
}

func (s *Server) handleAdminDishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	result, err := s.app.Dishes.List(r.Context(), service.DishQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Page:     page,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateDish(w http.ResponseWriter, r *http.Request) {
	var in model.Dish
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.app.Dishes.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDish(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in model.Dish
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	in.ID = id
	updated, err := s.app.Dishes.Update(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Dishes.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeDeleted, _ := strconv.ParseBool(q.Get("includeDeleted"))
	reviews, err := s.app.Reviews.AdminList(r.Context(), q.Get("sort"), includeDeleted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleRestoreReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	restored, err := s.app.Reviews.Restore(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restored)
}
