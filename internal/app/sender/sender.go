// Package sender собирает отправитель напоминаний: подключение к брокеру
// и потребитель очереди событий истечения.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/spaceivy/spaceivy-crm/internal/config"
	"github.com/spaceivy/spaceivy-crm/internal/lib/rabbitmq"
	"github.com/spaceivy/spaceivy-crm/internal/notifier"
	senderservice "github.com/spaceivy/spaceivy-crm/internal/services/sender"
)

// App агрегирует зависимости отправителя напоминаний.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к брокеру и собирает сервис отправки.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	var emailNotifier notifier.Notifier
	if cfg.SMTP.SMTPHost != "" {
		emailNotifier = notifier.NewSMTP(cfg.SMTP, logger)
	} else {
		logger.Info("smtp is not configured, emails will be simulated")
		emailNotifier = notifier.NewSimulated("email", logger)
	}
	whatsappNotifier := notifier.NewSimulated("whatsapp", logger)

	senderService := senderservice.NewSenderService(emailNotifier, whatsappNotifier, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "notifications.expiry", a.senderService.HandleExpiryEvent)
	if err != nil {
		a.logger.Error("failed to start notifications.expiry consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
