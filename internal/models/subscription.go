// Package models содержит доменные структуры, описывающие подписку и уведомления,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// PlanType тип тарифного плана подписки. Закрытый набор значений,
// валидируется на границе (тег oneof у DummyEntry).
type PlanType string

// Допустимые тарифные планы.
const (
	PlanHourly  PlanType = "hourly"
	PlanHalfDay PlanType = "half-day"
	PlanWorkDay PlanType = "work-day"
	PlanFullDay PlanType = "full-day"
	PlanWeekly  PlanType = "weekly"
	PlanMonthly PlanType = "monthly"
)

// TimeBased сообщает, рассчитывается ли план из пары время начала/окончания.
func (p PlanType) TimeBased() bool {
	switch p {
	case PlanHourly, PlanHalfDay, PlanWorkDay, PlanFullDay:
		return true
	}
	return false
}

// Entry представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
// Поле ExpiryDate может быть nil — такие записи остались от старых
// выгрузок и классифицируются по дате начала (см. lib/status).
// Поле Status — производное: пересчитывается при каждом чтении
// и никогда не считается источником истины.
type Entry struct {
	ID             string     `json:"id"`                        // Идентификатор вида SUB-a1b2c3
	CustomerName   string     `json:"customer_name"`             // Имя клиента
	Email          string     `json:"email"`                     // Email клиента
	WhatsappNumber string     `json:"whatsapp_number"`           // Контактный номер WhatsApp
	PlanType       PlanType   `json:"plan_type"`                 // Тарифный план
	OriginalAmount *float64   `json:"original_amount,omitempty"` // Сумма до скидки (если была скидка)
	Discount       float64    `json:"discount"`                  // Скидка
	Amount         float64    `json:"amount"`                    // Итоговая сумма, всегда > 0
	StartDate      time.Time  `json:"start_date"`                // Дата начала
	StartTime      string     `json:"start_time"`                // Время начала HH:MM
	EndTime        string     `json:"end_time"`                  // Время окончания HH:MM
	EndDate        *time.Time `json:"end_date,omitempty"`        // Ручная дата окончания (переопределяет расчёт)
	EndTimeManual  string     `json:"end_time_manual,omitempty"` // Ручное время окончания HH:MM
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`     // Абсолютный момент истечения
	Status         string     `json:"status"`                    // Производный статус
	CreatedAt      time.Time  `json:"created_at"`                // Момент создания записи
}

// ManualExpiry сообщает, была ли дата истечения задана вручную.
func (e *Entry) ManualExpiry() bool {
	return e.EndDate != nil || e.EndTimeManual != ""
}

// DummyEntry используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Entry.
// Даты и время приходят строками, чтобы их можно было валидировать и парсить вручную.
// Amount может отсутствовать: для почасовых планов сумма рассчитывается автоматически.
type DummyEntry struct {
	CustomerName   string  `json:"customer_name" validate:"required"`                                                    // Имя клиента
	Email          string  `json:"email" validate:"required,email"`                                                      // Email
	WhatsappNumber string  `json:"whatsapp_number" validate:"required"`                                                  // Номер WhatsApp
	PlanType       string  `json:"plan_type" validate:"required,oneof=hourly half-day work-day full-day weekly monthly"` // Тарифный план
	Amount         float64 `json:"amount" validate:"omitempty,gt=0"`                                                     // Сумма (>0, опционально)
	Discount       float64 `json:"discount" validate:"omitempty,gte=0"`                                                  // Скидка (опционально)
	StartDate      string  `json:"start_date" validate:"required"`                                                       // Дата начала в формате 2006-01-02
	StartTime      string  `json:"start_time" validate:"required"`                                                       // Время начала HH:MM
	EndTime        string  `json:"end_time" validate:"required"`                                                         // Время окончания HH:MM
	EndDate        string  `json:"end_date" validate:"omitempty"`                                                        // Ручная дата окончания (опционально)
	EndTimeManual  string  `json:"end_time_manual" validate:"omitempty"`                                                 // Ручное время окончания (опционально)
}

// Stats агрегированные показатели для эндпоинта /api/stats.
// Считаются поверх классификатора статусов, поэтому всегда согласованы
// со списком подписок.
type Stats struct {
	TotalSubscriptions  int     `json:"total_subscriptions"`
	TotalRevenue        float64 `json:"total_revenue"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
	ExpiringSoon        int     `json:"expiring_soon"`
}

// StorageStats показатели по таблице подписок, считаются напрямую в SQL.
// Используются командой stats утилиты crmctl.
type StorageStats struct {
	TotalSubscriptions  int
	TotalRevenue        float64
	ActiveSubscriptions int
	MonthlyPlans        int
	WithDiscounts       int
}
