// Package services содержит планировщик, который периодически пересчитывает
// статусы подписок и публикует события истечения в очередь уведомлений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/lib/status"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// SubscriptionRepository определяет методы хранилища, нужные планировщику.
type SubscriptionRepository interface {
	ListEntries(ctx context.Context) ([]*models.Entry, error)
	UpdateEntryStatus(ctx context.Context, id, status string) error
}

// NotificationLog журнал уведомлений.
type NotificationLog interface {
	Append(ctx context.Context, typ models.NotificationType, subscriptionID, message string) error
}

// Publisher публикует события истечения. Когда брокер не настроен,
// используется заглушка, которая молча отбрасывает сообщения.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SchedulerService периодически сравнивает рассчитанный статус подписки
// с сохранённым и реагирует на переходы. Сохранённый статус нужен только
// чтобы не уведомлять об одном и том же переходе повторно.
type SchedulerService struct {
	repo          SubscriptionRepository
	notifications NotificationLog
	publisher     Publisher
	log           *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, notifications NotificationLog,
	publisher Publisher, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:          repo,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

// Run запускает цикл обхода с заданным интервалом и работает до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("expiry scheduler started", slog.Duration("interval", interval))
	for {
		select {
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.Error("sweep failed", sl.Err(err))
			}
		case <-ctx.Done():
			s.log.Info("expiry scheduler stopped")
			return
		}
	}
}

// Sweep один проход: пересчитывает статусы всех подписок, фиксирует переходы
// в хранилище и журнале и публикует события expiring/expired.
func (s *SchedulerService) Sweep(ctx context.Context) error {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		current := string(status.Classify(now, entry.StartDate, entry.ExpiryDate))
		if current == entry.Status {
			continue
		}

		if err := s.repo.UpdateEntryStatus(ctx, entry.ID, current); err != nil {
			s.log.Error("failed to update status",
				slog.String("id", entry.ID), sl.Err(err))
			continue
		}
		s.log.Info("subscription status changed",
			slog.String("id", entry.ID),
			slog.String("from", entry.Status),
			slog.String("to", current))

		switch status.Status(current) {
		case status.Expiring, status.Expired:
			s.notifyTransition(ctx, entry, current)
		}
	}
	return nil
}

func (s *SchedulerService) notifyTransition(ctx context.Context, entry *models.Entry, current string) {
	message := fmt.Sprintf("Subscription %s for %s is expiring soon", entry.ID, entry.CustomerName)
	if current == string(status.Expired) {
		message = fmt.Sprintf("Subscription %s for %s has expired", entry.ID, entry.CustomerName)
	}
	if err := s.notifications.Append(ctx, models.NotificationExpiry, entry.ID, message); err != nil {
		s.log.Warn("failed to append notification", sl.Err(err))
	}

	event := models.ExpiryEvent{
		SubscriptionID: entry.ID,
		CustomerName:   entry.CustomerName,
		Email:          entry.Email,
		WhatsappNumber: entry.WhatsappNumber,
		PlanType:       entry.PlanType,
		Amount:         entry.Amount,
		Status:         current,
	}
	if entry.ExpiryDate != nil {
		event.ExpiryDate = *entry.ExpiryDate
	}
	if err := s.publisher.Publish("expiry", event); err != nil {
		s.log.Error("failed to publish expiry event",
			slog.String("id", entry.ID), sl.Err(err))
	}
}
