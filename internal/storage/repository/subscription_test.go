package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceivy/spaceivy-crm/internal/migrations"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, migrations.Run(db.DB, "../../../migrations"))
	return db
}

func sampleEntry(id string) models.Entry {
	expiry := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	original := 600.0
	return models.Entry{
		ID:             id,
		CustomerName:   "Rahul Sharma",
		Email:          "rahul@example.com",
		WhatsappNumber: "+919800000001",
		PlanType:       models.PlanWorkDay,
		OriginalAmount: &original,
		Discount:       25,
		Amount:         575,
		StartDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		EndTime:        "19:00",
		ExpiryDate:     &expiry,
		Status:         "active",
		CreatedAt:      time.Date(2025, 3, 10, 9, 55, 0, 0, time.UTC),
	}
}

func TestStorage_CreateRead(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	entry := sampleEntry("SUB-aaaaaa")
	require.NoError(t, db.CreateEntry(ctx, entry))

	got, err := db.ReadEntry(ctx, "SUB-aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, entry.CustomerName, got.CustomerName)
	assert.Equal(t, entry.PlanType, got.PlanType)
	assert.Equal(t, entry.Amount, got.Amount)
	assert.Equal(t, entry.Discount, got.Discount)
	if assert.NotNil(t, got.OriginalAmount) {
		assert.Equal(t, *entry.OriginalAmount, *got.OriginalAmount)
	}
	assert.True(t, got.StartDate.Equal(entry.StartDate))
	if assert.NotNil(t, got.ExpiryDate) {
		assert.True(t, got.ExpiryDate.Equal(*entry.ExpiryDate))
	}
	assert.Nil(t, got.EndDate)
	assert.Empty(t, got.EndTimeManual)
}

func TestStorage_ReadMissing(t *testing.T) {
	db := newTestStorage(t)

	_, err := db.ReadEntry(context.Background(), "SUB-ghost1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdateRemove(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	entry := sampleEntry("SUB-aaaaaa")
	require.NoError(t, db.CreateEntry(ctx, entry))

	entry.CustomerName = "Priya Patel"
	entry.Amount = 600
	count, err := db.UpdateEntry(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := db.ReadEntry(ctx, "SUB-aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "Priya Patel", got.CustomerName)
	assert.Equal(t, float64(600), got.Amount)

	missing := sampleEntry("SUB-ghost1")
	count, err = db.UpdateEntry(ctx, missing)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = db.RemoveEntry(ctx, "SUB-aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = db.RemoveEntry(ctx, "SUB-aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_UpsertIsIdempotent(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	entry := sampleEntry("SUB-aaaaaa")
	require.NoError(t, db.UpsertEntry(ctx, entry))
	entry.Amount = 700
	require.NoError(t, db.UpsertEntry(ctx, entry))

	entries, err := db.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(700), entries[0].Amount)
}

func TestStorage_ListOrder(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	first := sampleEntry("SUB-000001")
	first.CreatedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	second := sampleEntry("SUB-000002")
	second.CreatedAt = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	require.NoError(t, db.CreateEntry(ctx, second))
	require.NoError(t, db.CreateEntry(ctx, first))

	entries, err := db.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SUB-000001", entries[0].ID)
	assert.Equal(t, "SUB-000002", entries[1].ID)
}

func TestStorage_UpdateEntryStatus(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, db.CreateEntry(ctx, sampleEntry("SUB-aaaaaa")))
	require.NoError(t, db.UpdateEntryStatus(ctx, "SUB-aaaaaa", "expired"))

	got, err := db.ReadEntry(ctx, "SUB-aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "expired", got.Status)
}

func TestStorage_Stats(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	active := sampleEntry("SUB-000001")
	monthly := sampleEntry("SUB-000002")
	monthly.PlanType = models.PlanMonthly
	monthly.Status = "expired"
	monthly.Discount = 0
	monthly.OriginalAmount = nil
	monthly.Amount = 2000

	require.NoError(t, db.CreateEntry(ctx, active))
	require.NoError(t, db.CreateEntry(ctx, monthly))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSubscriptions)
	assert.Equal(t, float64(2575), stats.TotalRevenue)
	assert.Equal(t, 1, stats.ActiveSubscriptions)
	assert.Equal(t, 1, stats.MonthlyPlans)
	assert.Equal(t, 1, stats.WithDiscounts)
}

func TestStorage_Notifications(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, db.CreateEntry(ctx, sampleEntry("SUB-aaaaaa")))

	first := models.NotificationEntry{
		Timestamp:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Type:           models.NotificationSystem,
		SubscriptionID: "SUB-aaaaaa",
		Message:        "Subscription SUB-aaaaaa created for Rahul Sharma (work-day)",
	}
	second := models.NotificationEntry{
		Timestamp: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		Type:      models.NotificationEmail,
		Message:   "Customer email sent to rahul@example.com",
	}

	id, err := db.CreateNotification(ctx, first)
	require.NoError(t, err)
	assert.Positive(t, id)
	_, err = db.CreateNotification(ctx, second)
	require.NoError(t, err)

	// Новые записи первыми
	list, err := db.ListNotifications(ctx, 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.NotificationEmail, list[0].Type)
	assert.Equal(t, "SUB-aaaaaa", list[1].SubscriptionID)

	list, err = db.ListNotifications(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Удаление подписки обнуляет ссылку, но запись журнала остаётся
	_, err = db.RemoveEntry(ctx, "SUB-aaaaaa")
	require.NoError(t, err)
	list, err = db.ListNotifications(ctx, 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Empty(t, list[1].SubscriptionID)

	deleted, err := db.ClearNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}
