// Package services содержит бизнес-логику журнала уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// DefaultLimit сколько записей журнала возвращается по умолчанию.
const DefaultLimit = 50

// NotificationRepository определяет методы для работы с журналом уведомлений.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, entry models.NotificationEntry) (int64, error)
	ListNotifications(ctx context.Context, limit int) ([]*models.NotificationEntry, error)
	ClearNotifications(ctx context.Context) (int, error)
}

// NotificationService реализует журнал уведомлений поверх хранилища.
type NotificationService struct {
	repo NotificationRepository
	log  *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(repo NotificationRepository, log *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

// Append дописывает запись в журнал с текущей меткой времени.
func (s *NotificationService) Append(ctx context.Context, typ models.NotificationType, subscriptionID, message string) error {
	entry := models.NotificationEntry{
		Timestamp:      time.Now().UTC(),
		Type:           typ,
		SubscriptionID: subscriptionID,
		Message:        message,
	}
	id, err := s.repo.CreateNotification(ctx, entry)
	if err != nil {
		return err
	}
	s.log.Debug("notification appended", slog.Int64("id", id), slog.String("type", string(typ)))
	return nil
}

// List возвращает записи журнала от новых к старым. Если limit не положителен,
// используется DefaultLimit.
func (s *NotificationService) List(ctx context.Context, limit int) ([]*models.NotificationEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.repo.ListNotifications(ctx, limit)
}

// Clear очищает журнал целиком и возвращает число удалённых записей.
func (s *NotificationService) Clear(ctx context.Context) (int, error) {
	return s.repo.ClearNotifications(ctx)
}
