// Package billing содержит расчёт стоимости подписки по паре
// время начала/время окончания в пределах одного календарного дня.
//
// Тарифная сетка, от старшей ступени к младшей:
//   - от 10 оплачиваемых часов — фиксированные ₹600 (full-day);
//   - от 8 часов — ₹500 за 8 часов плюс ₹75 за каждый дополнительный (work-day);
//   - от 5 часов — ₹300 за 5 часов плюс ₹75 за каждый дополнительный (half-day);
//   - меньше 5 часов — ₹75 за час (hourly).
//
// Любой неполный час округляется вверх до полного.
package billing

import (
	"errors"
	"fmt"

	"github.com/spaceivy/spaceivy-crm/internal/lib/clocktime"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// ErrInvalidRange время окончания не позже времени начала.
// Отрицательная или нулевая длительность — всегда ошибка, а не отрицательный счёт.
var ErrInvalidRange = errors.New("end time must be after start time")

// Тарифные константы.
const (
	HourlyRate   = 75
	HalfDayBase  = 300
	HalfDayHours = 5
	WorkDayBase  = 500
	WorkDayHours = 8
	FullDayFlat  = 600
	FullDayHours = 10
)

// Result результат расчёта тарифа.
type Result struct {
	DurationMinutes  int             // Длительность в минутах
	DurationHours    int             // Полные часы длительности
	RemainingMinutes int             // Минуты сверх полных часов
	BillableHours    int             // Оплачиваемые часы (неполный час — вверх)
	Amount           float64         // Итоговая сумма
	Plan             models.PlanType // Определившийся тарифный план
	RateApplied      string          // Человекочитаемое описание тарифа
}

// Calculate считает длительность, оплачиваемые часы, сумму и тарифный план
// по паре "HH:MM". Чистая функция без побочных эффектов.
func Calculate(startTime, endTime string) (*Result, error) {
	startMinutes, err := clocktime.ParseMinutes(startTime)
	if err != nil {
		return nil, err
	}
	endMinutes, err := clocktime.ParseMinutes(endTime)
	if err != nil {
		return nil, err
	}
	if endMinutes <= startMinutes {
		return nil, ErrInvalidRange
	}

	durationMinutes := endMinutes - startMinutes
	billableHours := (durationMinutes + 59) / 60

	res := &Result{
		DurationMinutes:  durationMinutes,
		DurationHours:    durationMinutes / 60,
		RemainingMinutes: durationMinutes % 60,
		BillableHours:    billableHours,
	}

	switch {
	case billableHours >= FullDayHours:
		res.Amount = FullDayFlat
		res.Plan = models.PlanFullDay
		res.RateApplied = fmt.Sprintf("₹%d (10+ hours)", FullDayFlat)
	case billableHours >= WorkDayHours:
		extra := billableHours - WorkDayHours
		res.Amount = float64(WorkDayBase + extra*HourlyRate)
		res.Plan = models.PlanWorkDay
		res.RateApplied = tierRate(WorkDayBase, WorkDayHours, extra)
	case billableHours >= HalfDayHours:
		extra := billableHours - HalfDayHours
		res.Amount = float64(HalfDayBase + extra*HourlyRate)
		res.Plan = models.PlanHalfDay
		res.RateApplied = tierRate(HalfDayBase, HalfDayHours, extra)
	default:
		res.Amount = float64(billableHours * HourlyRate)
		res.Plan = models.PlanHourly
		res.RateApplied = fmt.Sprintf("₹%d × %d hour%s", HourlyRate, billableHours, plural(billableHours))
	}

	return res, nil
}

func tierRate(base, baseHours, extra int) string {
	if extra > 0 {
		return fmt.Sprintf("₹%d (%d hrs) + ₹%d (%d extra hr%s)", base, baseHours, extra*HourlyRate, extra, plural(extra))
	}
	return fmt.Sprintf("₹%d (%d hours)", base, baseHours)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
