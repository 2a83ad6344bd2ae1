package models

import "time"

// NotificationType тип записи в журнале уведомлений.
type NotificationType string

// Типы записей журнала.
const (
	NotificationSystem   NotificationType = "system"
	NotificationEmail    NotificationType = "email"
	NotificationWhatsapp NotificationType = "whatsapp"
	NotificationExpiry   NotificationType = "expiry"
)

// NotificationEntry запись журнала уведомлений. Журнал только дописывается:
// записи никогда не изменяются, очистка возможна только целиком.
type NotificationEntry struct {
	ID             int64            `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	Type           NotificationType `json:"type"`
	SubscriptionID string           `json:"subscription_id,omitempty"` // Ссылка на подписку (опционально)
	Message        string           `json:"message"`
}

// DummyNotification используется для приёма записи журнала из JSON-запроса.
type DummyNotification struct {
	Type           string `json:"type" validate:"required,oneof=system email whatsapp expiry"`
	SubscriptionID string `json:"subscription_id" validate:"omitempty"`
	Message        string `json:"message" validate:"required"`
}

// ExpiryEvent сообщение, публикуемое планировщиком в очередь уведомлений
// при переходе подписки в статус expiring или expired.
type ExpiryEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	CustomerName   string    `json:"customer_name"`
	Email          string    `json:"email"`
	WhatsappNumber string    `json:"whatsapp_number"`
	PlanType       PlanType  `json:"plan_type"`
	Amount         float64   `json:"amount"`
	ExpiryDate     time.Time `json:"expiry_date"`
	Status         string    `json:"status"`
}
