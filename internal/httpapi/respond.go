package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/i18n"
	"github.com/nmtun/raune/internal/validate"
	"github.com/nmtun/raune/service"
)

// errorBody: 모든 오류 응답의 형태
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError: 서비스 오류를 HTTP 상태 코드와 번역된 메시지로 변환
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := languageFrom(r.Context())

	var verrs validate.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for field, code := range verrs {
			fields[field] = i18n.T(lang, code)
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "error.validation",
			Message: i18n.T(lang, "error.validation"),
			Fields:  fields,
		})
		return
	}

	status, code := http.StatusInternalServerError, "error.internal"
	switch {
	case errors.Is(err, errBadRequest):
		status, code = http.StatusBadRequest, "error.badRequest"
	case errors.Is(err, service.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "error.unauthorized"
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, "error.forbidden"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "error.notFound"
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, "error.conflict"
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	if specific, ok := service.CodeOf(err); ok {
		code = specific
	}
	writeJSON(w, status, errorBody{Error: code, Message: i18n.T(lang, code)})
}

// decode: 알 수 없는 필드는 무시, 형식이 틀리면 400
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest
	}
	return id, nil
}

// floatQuery: 값이 없으면 ok=false
func floatQuery(r *http.Request, key string) (float64, bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errBadRequest
	}
	return v, true, nil
}
