package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// CreateNotification дописывает запись в журнал уведомлений и возвращает её ID.
func (s *Storage) CreateNotification(ctx context.Context, entry models.NotificationEntry) (int64, error) {
	const op = "storage.CreateNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notifications (timestamp, type, subscription_id, message)
			  VALUES (?, ?, ?, ?)`
	result, err := s.DB.ExecContext(ctx, query,
		entry.Timestamp.Format(timeLayout), string(entry.Type),
		nullString(entry.SubscriptionID), entry.Message)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListNotifications возвращает записи журнала от новых к старым.
func (s *Storage) ListNotifications(ctx context.Context, limit int) ([]*models.NotificationEntry, error) {
	const op = "storage.ListNotifications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, timestamp, type, subscription_id, message
			  FROM notifications
			  ORDER BY timestamp DESC, id DESC
			  LIMIT ?`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.NotificationEntry
	for rows.Next() {
		var (
			item           models.NotificationEntry
			timestamp      string
			typ            string
			subscriptionID sql.NullString
		)
		if err := rows.Scan(&item.ID, &timestamp, &typ, &subscriptionID, &item.Message); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Type = models.NotificationType(typ)
		item.SubscriptionID = subscriptionID.String
		if item.Timestamp, err = parseStored(timestamp, timeLayout); err != nil {
			return nil, fmt.Errorf("%s: bad timestamp %q: %w", op, timestamp, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ClearNotifications очищает журнал целиком и возвращает число удалённых записей.
func (s *Storage) ClearNotifications(ctx context.Context) (int, error) {
	const op = "storage.ClearNotifications"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
