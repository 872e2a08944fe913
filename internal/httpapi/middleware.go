package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmtun/raune/internal/i18n"
	"github.com/nmtun/raune/internal/model"
	"github.com/nmtun/raune/service"
)

type ctxKey int

const (
	actorKey ctxKey = iota
	langKey
	tokenKey
)

// requestID: 요청 id가 없으면 uuid를 붙인다. middleware.RequestID가 이 값을 사용한다.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(middleware.RequestIDHeader, id)
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger: 요청마다 한 줄 (zap)
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// negotiateLanguage: lang 쿼리가 우선, 없으면 Accept-Language
func negotiateLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pref := r.URL.Query().Get("lang")
		if pref == "" {
			pref = r.Header.Get("Accept-Language")
		}
		ctx := context.WithValue(r.Context(), langKey, i18n.Negotiate(pref))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func languageFrom(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey).(string); ok {
		return lang
	}
	return i18n.Default
}

// authenticate: Bearer 토큰이 유효하면 계정을 컨텍스트에 넣는다. 없거나 틀리면 익명으로 진행.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		account, err := s.app.Accounts.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				s.writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, account)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireAuth(s *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actorFrom(r.Context()) == nil {
				s.writeError(w, r, service.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireAdmin(s *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorFrom(r.Context())
			switch {
			case actor == nil:
				s.writeError(w, r, service.ErrUnauthorized)
			case !actor.IsAdmin():
				s.writeError(w, r, service.ErrForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func actorFrom(ctx context.Context) *model.Account {
	account, _ := ctx.Value(actorKey).(*model.Account)
	return account
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
