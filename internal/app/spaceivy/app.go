// Package spaceivy собирает приложение CRM: хранилище, кеш, уведомления,
// планировщик истечений и HTTP-сервер.
package spaceivy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/spaceivy/spaceivy-crm/internal/cache"
	"github.com/spaceivy/spaceivy-crm/internal/config"
	"github.com/spaceivy/spaceivy-crm/internal/lib/rabbitmq"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/migrations"
	"github.com/spaceivy/spaceivy-crm/internal/notifier"
	notificationservice "github.com/spaceivy/spaceivy-crm/internal/services/notification"
	schedulerservice "github.com/spaceivy/spaceivy-crm/internal/services/scheduler"
	subscriptionservice "github.com/spaceivy/spaceivy-crm/internal/services/subscription"
	"github.com/spaceivy/spaceivy-crm/internal/storage/repository"
)

// App агрегирует все зависимости сервера.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	scheduler *schedulerservice.SchedulerService
	rabbit    *amqp.Connection
	sweep     time.Duration
}

// New инициализирует приложение: открывает базу, накатывает миграции,
// подключает кеш и брокер (если включены) и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	var cacheImpl subscriptionservice.Cache = cache.Noop{}
	if cfg.RedisConnection.Enabled {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		cacheImpl = redisCache
	} else {
		logger.Info("redis disabled, running without cache")
	}

	var emailNotifier notifier.Notifier
	if cfg.SMTP.SMTPHost != "" {
		emailNotifier = notifier.NewSMTP(cfg.SMTP, logger)
	} else {
		logger.Info("smtp is not configured, emails will be simulated")
		emailNotifier = notifier.NewSimulated("email", logger)
	}
	whatsappNotifier := notifier.NewSimulated("whatsapp", logger)

	var publisher schedulerservice.Publisher = schedulerservice.NoopPublisher{}
	var rabbitConn *amqp.Connection
	if cfg.RabbitMQ.RabbitEnabled {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.NotificationQueues())
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Info("rabbitmq disabled, expiry events will not be published")
	}

	notificationService := notificationservice.NewNotificationService(db, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(
		db, cacheImpl, notificationService,
		emailNotifier, whatsappNotifier, cfg.SMTP.AdminEmail, logger)
	scheduler := schedulerservice.NewSchedulerService(db, notificationService, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, subscriptionService, notificationService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		scheduler: scheduler,
		rabbit:    rabbitConn,
		sweep:     cfg.SweepInterval,
	}, nil
}

// Run запускает планировщик и HTTP-сервер и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.scheduler.Run(ctx, a.sweep)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbit != nil {
			if closeErr := a.rabbit.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
