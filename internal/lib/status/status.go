// Package status содержит классификатор статуса подписки.
//
// Статус — чистая проекция тройки (текущий момент, дата начала, момент истечения):
// он пересчитывается при каждом чтении и нигде не хранится как источник истины.
package status

import "time"

// Status статус подписки.
type Status string

// Возможные статусы.
const (
	Pending  Status = "pending"
	Active   Status = "active"
	Expiring Status = "expiring"
	Expired  Status = "expired"
)

// ExpiringWindow окно до истечения, в котором подписка считается expiring.
const ExpiringWindow = 24 * time.Hour

// Пороговые значения для записей без сохранённого момента истечения
// (старые выгрузки): точность — календарные дни.
const (
	legacyExpiredDays  = 30
	legacyExpiringDays = 25
)

// Classify возвращает статус подписки на момент now.
//
// Подписка pending, пока не наступила дата начала. Дальше, при известном
// моменте истечения: expired после него, expiring за сутки и меньше до него,
// иначе active. Для записей без момента истечения действует запасная схема
// по числу дней с даты начала: больше 30 — expired, больше 25 — expiring.
func Classify(now, startDate time.Time, expiry *time.Time) Status {
	if now.Before(startDate) {
		return Pending
	}

	if expiry != nil {
		if now.After(*expiry) {
			return Expired
		}
		if expiry.Sub(now) <= ExpiringWindow {
			return Expiring
		}
		return Active
	}

	daysDiff := int((now.Sub(startDate) + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	switch {
	case daysDiff > legacyExpiredDays:
		return Expired
	case daysDiff > legacyExpiringDays:
		return Expiring
	default:
		return Active
	}
}
