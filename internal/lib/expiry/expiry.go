// Package expiry содержит расчёт абсолютного момента истечения подписки.
package expiry

import (
	"time"

	"github.com/spaceivy/spaceivy-crm/internal/lib/clocktime"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// Resolve возвращает момент истечения подписки.
//
// Если задана ручная дата окончания, она побеждает: истечение — ручная дата
// с ручным временем, либо конец дня 23:59:59, если время не задано.
// Иначе момент истечения определяется тарифным планом:
//   - hourly — тот же календарный день, время окончания;
//   - half-day — начало + 5 часов;
//   - work-day — начало + 8 часов;
//   - full-day — начало + 10 часов;
//   - weekly — начало + 6 дней (то же время суток);
//   - monthly и нераспознанные планы — начало + 30 дней.
//
// Ветка по умолчанию нужна записям, мигрированным из старых выгрузок
// со свободной строкой плана; на границе API такие планы отклоняются.
func Resolve(startDate time.Time, startTime, endTime string, plan models.PlanType, manualEndDate *time.Time, manualEndTime string) (time.Time, error) {
	if manualEndDate != nil {
		if manualEndTime != "" {
			return clocktime.Combine(*manualEndDate, manualEndTime)
		}
		d := *manualEndDate
		return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location()), nil
	}

	start, err := clocktime.Combine(startDate, startTime)
	if err != nil {
		return time.Time{}, err
	}

	switch plan {
	case models.PlanHourly:
		return clocktime.Combine(startDate, endTime)
	case models.PlanHalfDay:
		return start.Add(5 * time.Hour), nil
	case models.PlanWorkDay:
		return start.Add(8 * time.Hour), nil
	case models.PlanFullDay:
		return start.Add(10 * time.Hour), nil
	case models.PlanWeekly:
		return start.AddDate(0, 0, 6), nil
	default:
		return start.AddDate(0, 0, 30), nil
	}
}
