package httpapi

import (
	"net/http"

	"github.com/nmtun/raune/service"
)

type reviewUpdateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var in service.ReviewInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.app.Reviews.Create(r.Context(), actorFrom(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in reviewUpdateRequest
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.app.Reviews.Update(r.Context(), actorFrom(r.Context()), id, in.Rating, in.Comment)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteReview: 작성자 또는 관리자 (관리자 라우트에서도 사용)
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.app.Reviews.Delete(r.Context(), actorFrom(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
