package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spaceivy/spaceivy-crm/internal/models"
)

const subscriptionColumns = `id, customer_name, email, whatsapp_number, plan_type,
	original_amount, discount, amount, start_date, start_time, end_time,
	end_date, end_time_manual, expiry_date, status, created_at`

// CreateEntry вставляет новую запись подписки.
func (s *Storage) CreateEntry(ctx context.Context, entry models.Entry) error {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.DB.ExecContext(ctx, query,
		entry.ID, entry.CustomerName, entry.Email, entry.WhatsappNumber, string(entry.PlanType),
		nullFloat(entry.OriginalAmount), entry.Discount, entry.Amount,
		entry.StartDate.Format(dateLayout), entry.StartTime, entry.EndTime,
		nullDate(entry.EndDate), nullString(entry.EndTimeManual),
		nullTime(entry.ExpiryDate), entry.Status, entry.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertEntry вставляет запись либо замещает существующую с тем же ID.
// Используется при миграции старых JSON-выгрузок: повторный запуск
// миграции не плодит дубликатов.
func (s *Storage) UpsertEntry(ctx context.Context, entry models.Entry) error {
	const op = "storage.UpsertEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT OR REPLACE INTO subscriptions (` + subscriptionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.DB.ExecContext(ctx, query,
		entry.ID, entry.CustomerName, entry.Email, entry.WhatsappNumber, string(entry.PlanType),
		nullFloat(entry.OriginalAmount), entry.Discount, entry.Amount,
		entry.StartDate.Format(dateLayout), entry.StartTime, entry.EndTime,
		nullDate(entry.EndDate), nullString(entry.EndTimeManual),
		nullTime(entry.ExpiryDate), entry.Status, entry.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadEntry возвращает данные подписки по её ID.
func (s *Storage) ReadEntry(ctx context.Context, id string) (*models.Entry, error) {
	const op = "storage.ReadEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`
	row := s.DB.QueryRowContext(ctx, query, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// UpdateEntry обновляет данные подписки по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateEntry(ctx context.Context, entry models.Entry) (int, error) {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET customer_name = ?, email = ?, whatsapp_number = ?, plan_type = ?,
			      original_amount = ?, discount = ?, amount = ?, start_date = ?,
			      start_time = ?, end_time = ?, end_date = ?, end_time_manual = ?,
			      expiry_date = ?, status = ?
			  WHERE id = ?`
	result, err := s.DB.ExecContext(ctx, query,
		entry.CustomerName, entry.Email, entry.WhatsappNumber, string(entry.PlanType),
		nullFloat(entry.OriginalAmount), entry.Discount, entry.Amount,
		entry.StartDate.Format(dateLayout), entry.StartTime, entry.EndTime,
		nullDate(entry.EndDate), nullString(entry.EndTimeManual),
		nullTime(entry.ExpiryDate), entry.Status, entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateEntryStatus записывает производный статус в строку подписки.
// Колонка status — не источник истины, но планировщик опирается на неё,
// чтобы не слать повторные уведомления об одном и том же переходе.
func (s *Storage) UpdateEntryStatus(ctx context.Context, id, status string) error {
	const op = "storage.UpdateEntryStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `UPDATE subscriptions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveEntry удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveEntry(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListEntries возвращает все подписки в порядке добавления.
func (s *Storage) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	const op = "storage.ListEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Stats считает агрегаты по таблице подписок напрямую в SQL.
func (s *Storage) Stats(ctx context.Context) (*models.StorageStats, error) {
	const op = "storage.Stats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var stats models.StorageStats
	var revenue sql.NullFloat64
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(amount),
		       COUNT(CASE WHEN status = 'active' THEN 1 END),
		       COUNT(CASE WHEN plan_type = 'monthly' THEN 1 END),
		       COUNT(CASE WHEN discount > 0 THEN 1 END)
		FROM subscriptions`).Scan(
		&stats.TotalSubscriptions, &revenue, &stats.ActiveSubscriptions,
		&stats.MonthlyPlans, &stats.WithDiscounts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.TotalRevenue = revenue.Float64
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		entry          models.Entry
		planType       string
		originalAmount sql.NullFloat64
		startDate      string
		endDate        sql.NullString
		endTimeManual  sql.NullString
		expiryDate     sql.NullString
		createdAt      string
	)
	if err := row.Scan(&entry.ID, &entry.CustomerName, &entry.Email, &entry.WhatsappNumber,
		&planType, &originalAmount, &entry.Discount, &entry.Amount,
		&startDate, &entry.StartTime, &entry.EndTime,
		&endDate, &endTimeManual, &expiryDate, &entry.Status, &createdAt); err != nil {
		return nil, err
	}

	entry.PlanType = models.PlanType(planType)
	if originalAmount.Valid {
		entry.OriginalAmount = &originalAmount.Float64
	}

	var err error
	if entry.StartDate, err = parseStored(startDate, dateLayout); err != nil {
		return nil, fmt.Errorf("bad start_date %q: %w", startDate, err)
	}
	if endDate.Valid {
		d, err := parseStored(endDate.String, dateLayout)
		if err != nil {
			return nil, fmt.Errorf("bad end_date %q: %w", endDate.String, err)
		}
		entry.EndDate = &d
	}
	entry.EndTimeManual = endTimeManual.String
	if expiryDate.Valid {
		e, err := parseStored(expiryDate.String, timeLayout)
		if err != nil {
			return nil, fmt.Errorf("bad expiry_date %q: %w", expiryDate.String, err)
		}
		entry.ExpiryDate = &e
	}
	if entry.CreatedAt, err = parseStored(createdAt, timeLayout); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	return &entry, nil
}

// parseStored терпим к форматам: старые выгрузки хранят и полные метки
// времени, и голые даты в одних и тех же колонках.
func parseStored(value, layout string) (time.Time, error) {
	if t, err := time.Parse(layout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, value)
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullDate(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(dateLayout)
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(timeLayout)
}
