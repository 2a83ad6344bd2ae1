// Package clocktime содержит разбор времени суток в формате HH:MM,
// общий для расчёта тарифа и даты истечения.
package clocktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMinutes разбирает строку "HH:MM" (24-часовой формат)
// и возвращает число минут с полуночи.
func ParseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hours*60 + minutes, nil
}

// Combine возвращает момент времени: календарный день из date
// и время суток из строки "HH:MM". Часовой пояс берётся из date.
func Combine(date time.Time, s string) (time.Time, error) {
	mins, err := ParseMinutes(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), mins/60, mins%60, 0, 0, date.Location()), nil
}
