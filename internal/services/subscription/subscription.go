// Package services содержит бизнес-логику для управления подписками и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spaceivy/spaceivy-crm/internal/lib/billing"
	"github.com/spaceivy/spaceivy-crm/internal/lib/expiry"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/lib/status"
	"github.com/spaceivy/spaceivy-crm/internal/models"
	"github.com/spaceivy/spaceivy-crm/internal/notifier"
)

// ErrValidation данные запроса не прошли проверку; операция не меняет состояние.
var ErrValidation = errors.New("validation failed")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateEntry добавляет новую подписку.
	CreateEntry(ctx context.Context, entry models.Entry) error
	// ReadEntry возвращает подписку по ID.
	ReadEntry(ctx context.Context, id string) (*models.Entry, error)
	// UpdateEntry обновляет данные подписки и возвращает количество изменённых записей.
	UpdateEntry(ctx context.Context, entry models.Entry) (int, error)
	// RemoveEntry удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveEntry(ctx context.Context, id string) (int, error)
	// ListEntries возвращает все подписки в порядке добавления.
	ListEntries(ctx context.Context) ([]*models.Entry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// NotificationLog журнал уведомлений: запись о событии дописывается,
// ошибка записи не прерывает основную операцию.
type NotificationLog interface {
	Append(ctx context.Context, typ models.NotificationType, subscriptionID, message string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo          SubscriptionRepository
	cache         Cache
	notifications NotificationLog
	email         notifier.Notifier
	whatsapp      notifier.Notifier
	adminEmail    string
	log           *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, notifications NotificationLog,
	email, whatsapp notifier.Notifier, adminEmail string, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:          repo,
		cache:         cache,
		notifications: notifications,
		email:         email,
		whatsapp:      whatsapp,
		adminEmail:    adminEmail,
		log:           log,
	}
}

// Create создает новую подписку: рассчитывает сумму и момент истечения,
// присваивает ID, сохраняет запись, дописывает журнал и рассылает уведомления.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummyEntry) (*models.Entry, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return nil, err
	}

	entry.ID = newID()
	entry.CreatedAt = time.Now().UTC()
	entry.Status = string(status.Classify(time.Now(), entry.StartDate, entry.ExpiryDate))

	if err := s.repo.CreateEntry(ctx, *entry); err != nil {
		return nil, err
	}
	s.log.Info("created new subscription", slog.String("id", entry.ID))

	cacheKey := fmt.Sprintf("subscription:%s", entry.ID)
	if err := s.cache.Set(cacheKey, entry, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}

	if err := s.notifications.Append(ctx, models.NotificationSystem, entry.ID,
		fmt.Sprintf("Subscription %s created for %s (%s)", entry.ID, entry.CustomerName, entry.PlanType)); err != nil {
		s.log.Warn("failed to append notification", sl.Err(err))
	}

	s.sendWelcome(ctx, entry)

	return entry, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Статус пересчитывается на момент вызова.
func (s *SubscriptionService) Read(ctx context.Context, id string) (*models.Entry, error) {
	var result *models.Entry
	cacheKey := fmt.Sprintf("subscription:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		result, err = s.repo.ReadEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	result.Status = string(status.Classify(time.Now(), result.StartDate, result.ExpiryDate))
	return result, nil
}

// Update пересчитывает производные поля и обновляет подписку по ID.
// Возвращает количество изменённых записей.
func (s *SubscriptionService) Update(ctx context.Context, id string, req models.DummyEntry) (int, error) {
	entry, err := s.buildEntry(req)
	if err != nil {
		return 0, err
	}
	entry.ID = id
	entry.Status = string(status.Classify(time.Now(), entry.StartDate, entry.ExpiryDate))

	res, err := s.repo.UpdateEntry(ctx, *entry)
	if err != nil {
		return 0, err
	}

	cacheKey := fmt.Sprintf("subscription:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return res, nil
}

// Remove удаляет подписку по ID, инвалидирует кеш и возвращает количество
// удалённых записей. Отсутствие записи — не ошибка: вернётся ноль.
func (s *SubscriptionService) Remove(ctx context.Context, id string) (int, error) {
	cacheKey := fmt.Sprintf("subscription:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	count, err := s.repo.RemoveEntry(ctx, id)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		// Строка подписки уже удалена, ссылка на неё нарушила бы внешний ключ:
		// идентификатор остаётся только в тексте сообщения.
		if err := s.notifications.Append(ctx, models.NotificationSystem, "",
			fmt.Sprintf("Subscription %s removed", id)); err != nil {
			s.log.Warn("failed to append notification", sl.Err(err))
		}
	}
	return count, nil
}

// List возвращает все подписки в порядке добавления со свежими статусами.
func (s *SubscriptionService) List(ctx context.Context) ([]*models.Entry, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, entry := range entries {
		entry.Status = string(status.Classify(now, entry.StartDate, entry.ExpiryDate))
	}
	return entries, nil
}

// RevenueTotal считает выручку на момент asOf: подписка учитывается,
// если её момент истечения не раньше asOf. Будущие (pending) подписки
// учитываются. Записи без момента истечения учитываются, пока запасная
// схема классификации не считает их истёкшими.
func (s *SubscriptionService) RevenueTotal(ctx context.Context, asOf time.Time) (float64, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return 0, err
	}

	return revenue(entries, asOf), nil
}

// revenue каноническое правило выручки: подписка учитывается, если её момент
// истечения не раньше asOf; записи без момента истечения живут по запасной
// схеме классификации.
func revenue(entries []*models.Entry, asOf time.Time) float64 {
	var total float64
	for _, entry := range entries {
		if entry.ExpiryDate != nil {
			if entry.ExpiryDate.Before(asOf) {
				continue
			}
		} else if status.Classify(asOf, entry.StartDate, nil) == status.Expired {
			continue
		}
		total += entry.Amount
	}
	return total
}

// Stats возвращает агрегаты для эндпоинта /api/stats.
func (s *SubscriptionService) Stats(ctx context.Context) (*models.Stats, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &models.Stats{
		TotalSubscriptions: len(entries),
		TotalRevenue:       revenue(entries, now),
	}
	for _, entry := range entries {
		switch status.Classify(now, entry.StartDate, entry.ExpiryDate) {
		case status.Active:
			stats.ActiveSubscriptions++
		case status.Expiring:
			stats.ExpiringSoon++
		}
	}
	return stats, nil
}

// buildEntry превращает проверенный валидатором запрос в доменную запись:
// парсит даты, рассчитывает сумму и момент истечения.
func (s *SubscriptionService) buildEntry(req models.DummyEntry) (*models.Entry, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date: %v", ErrValidation, err)
	}

	plan := models.PlanType(req.PlanType)

	amount := req.Amount
	if plan.TimeBased() {
		calc, err := billing.Calculate(req.StartTime, req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if amount <= 0 {
			amount = calc.Amount
		}
	} else if amount <= 0 {
		return nil, fmt.Errorf("%w: amount is required for %s plans", ErrValidation, plan)
	}

	entry := &models.Entry{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Email:          strings.TrimSpace(req.Email),
		WhatsappNumber: strings.TrimSpace(req.WhatsappNumber),
		PlanType:       plan,
		Discount:       req.Discount,
		Amount:         amount,
		StartDate:      startDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EndTimeManual:  req.EndTimeManual,
	}

	if req.Discount > 0 {
		original := amount
		entry.OriginalAmount = &original
		entry.Amount = amount - req.Discount
		if entry.Amount <= 0 {
			return nil, fmt.Errorf("%w: discount must be less than amount", ErrValidation)
		}
	}

	if req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date: %v", ErrValidation, err)
		}
		entry.EndDate = &endDate
	}

	exp, err := expiry.Resolve(startDate, req.StartTime, req.EndTime, plan, entry.EndDate, req.EndTimeManual)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	entry.ExpiryDate = &exp

	return entry, nil
}

// sendWelcome рассылает приветственные уведомления клиенту и администратору.
// Неудачная отправка логируется и проглатывается, повторов нет.
func (s *SubscriptionService) sendWelcome(ctx context.Context, entry *models.Entry) {
	subject := fmt.Sprintf("New %s Subscription - %s", entry.PlanType, entry.CustomerName)

	if err := s.email.Send(entry.Email, subject, customerEmailBody(entry)); err != nil {
		s.log.Warn("failed to send customer email", slog.String("id", entry.ID), sl.Err(err))
	} else {
		s.logDelivery(ctx, models.NotificationEmail, entry.ID, "Customer email sent to "+entry.Email)
	}

	if s.adminEmail != "" {
		if err := s.email.Send(s.adminEmail, subject, adminEmailBody(entry)); err != nil {
			s.log.Warn("failed to send admin email", slog.String("id", entry.ID), sl.Err(err))
		} else {
			s.logDelivery(ctx, models.NotificationEmail, entry.ID, "Admin email sent to "+s.adminEmail)
		}
	}

	if err := s.whatsapp.Send(entry.WhatsappNumber, subject, whatsappBody(entry)); err != nil {
		s.log.Warn("failed to send whatsapp message", slog.String("id", entry.ID), sl.Err(err))
	} else {
		s.logDelivery(ctx, models.NotificationWhatsapp, entry.ID, "WhatsApp message sent to "+entry.WhatsappNumber)
	}
}

func (s *SubscriptionService) logDelivery(ctx context.Context, typ models.NotificationType, id, msg string) {
	if err := s.notifications.Append(ctx, typ, id, msg); err != nil {
		s.log.Warn("failed to append notification", sl.Err(err))
	}
}

func newID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SUB-" + raw[:6]
}
