// Package spaceivy предоставляет маршруты для основного приложения.
package spaceivy

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/health"
	notificationclear "github.com/spaceivy/spaceivy-crm/internal/http/handlers/notification/clear"
	notificationcreate "github.com/spaceivy/spaceivy-crm/internal/http/handlers/notification/create"
	notificationlist "github.com/spaceivy/spaceivy-crm/internal/http/handlers/notification/list"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/stats"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/subscription/create"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/subscription/export"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/subscription/list"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/subscription/read"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/subscription/remove"
	"github.com/spaceivy/spaceivy-crm/internal/http/handlers/subscription/update"
	"github.com/spaceivy/spaceivy-crm/internal/http/middlewarectx"
	notificationservice "github.com/spaceivy/spaceivy-crm/internal/services/notification"
	subscriptionservice "github.com/spaceivy/spaceivy-crm/internal/services/subscription"
	"github.com/spaceivy/spaceivy-crm/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	subscriptionService *subscriptionservice.SubscriptionService,
	notificationService *notificationservice.NotificationService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
		r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/export", export.New(logger, subscriptionService, notificationService).ServeHTTP)
		r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)

		r.Get("/notifications", notificationlist.New(logger, notificationService).ServeHTTP)
		r.Post("/notifications", notificationcreate.New(logger, notificationService).ServeHTTP)
		r.Delete("/notifications", notificationclear.New(logger, notificationService).ServeHTTP)

		r.Get("/stats", stats.New(logger, subscriptionService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
