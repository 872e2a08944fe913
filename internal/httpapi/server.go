// Package httpapi는 raune 서비스를 JSON HTTP API로 노출한다.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/nmtun/raune/service"
)

type Config struct {
	Port           int
	AllowAll       bool // 모든 CORS origin 허용 (개발용)
	RequestTimeout time.Duration
}

type Server struct {
	cfg        Config
	app        *service.App
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

func New(cfg Config, app *service.App, logger *zap.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		cfg:    cfg,
		app:    app,
		logger: logger.Named("http"),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))
	r.Use(negotiateLanguage)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.With(requireAuth(s)).Post("/auth/logout", s.handleLogout)

		r.Route("/me", func(r chi.Router) {
			r.Use(requireAuth(s))
			r.Get("/", s.handleMe)
			r.Put("/", s.handleUpdateProfile)
			r.Put("/password", s.handleChangePassword)
			r.Get("/preferences", s.handleGetPreferences)
			r.Put("/preferences", s.handleSavePreferences)
			r.Delete("/preferences", s.handleClearPreferences)
			r.Get("/reviews", s.handleMyReviews)
		})

		r.Get("/tags", s.handleTags)
		r.Get("/recommendations", s.handleRecommendations)

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", s.handleSearchRestaurants)
			r.Get("/{id}", s.handleGetRestaurant)
			r.Get("/{id}/summary", s.handleRestaurantSummary)
			r.Get("/{id}/reviews", s.handleRestaurantReviews)
			r.Get("/{id}/dishes", s.handleRestaurantDishes)
		})
		r.Get("/dishes/{id}", s.handleGetDish)

		r.Route("/reviews", func(r chi.Router) {
			r.Use(requireAuth(s))
			r.Post("/", s.handleCreateReview)
			r.Put("/{id}", s.handleUpdateReview)
			r.Delete("/{id}", s.handleDeleteReview)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin(s))
			r.Get("/dashboard", s.handleDashboard)

			r.Get("/restaurants", s.handleAdminRestaurants)
			r.Post("/restaurants", s.handleCreateRestaurant)
			r.Put("/restaurants/{id}", s.handleUpdateRestaurant)
			r.Delete("/restaurants/{id}", s.handleDeleteRestaurant)

			r.Get("/dishes", s.handleAdminDishes)
			r.Post("/dishes", s.handleCreateDish)
			r.Put("/dishes/{id}", s.handleUpdateDish)
			r.Delete("/dishes/{id}", s.handleDeleteDish)

			r.Get("/reviews", s.handleAdminReviews)
			r.Post("/reviews/{id}/restore", s.handleRestoreReview)
			r.Delete("/reviews/{id}", s.handleDeleteReview)
		})
	})

	return r
}

// Handler: 테스트와 임베딩용
func (s *Server) Handler() http.Handler { return s.router }

// Serve: ctx가 끝나면 graceful shutdown
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
