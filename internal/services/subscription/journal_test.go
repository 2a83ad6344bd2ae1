package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceivy/spaceivy-crm/internal/cache"
	"github.com/spaceivy/spaceivy-crm/internal/migrations"
	"github.com/spaceivy/spaceivy-crm/internal/models"
	"github.com/spaceivy/spaceivy-crm/internal/notifier"
	notificationservice "github.com/spaceivy/spaceivy-crm/internal/services/notification"
	"github.com/spaceivy/spaceivy-crm/internal/storage/repository"
)

func newSQLiteService(t *testing.T) (*SubscriptionService, *notificationservice.NotificationService) {
	t.Helper()
	db, err := repository.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, migrations.Run(db.DB, "../../../migrations"))

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	journal := notificationservice.NewNotificationService(db, logger)
	svc := NewSubscriptionService(db, cache.Noop{}, journal,
		notifier.NewSimulated("email", logger), notifier.NewSimulated("whatsapp", logger),
		"", logger)
	return svc, journal
}

// Журнал пишется в ту же SQLite-базу, что и подписки, с включёнными внешними
// ключами, поэтому сценарий удаления проверяется на настоящем хранилище.
func TestSubscription_RemoveJournalOnSQLite(t *testing.T) {
	svc, journal := newSQLiteService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	count, err := svc.Remove(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	list, err := journal.List(ctx, 50)
	require.NoError(t, err)

	var removal *models.NotificationEntry
	for _, item := range list {
		if item.Message == fmt.Sprintf("Subscription %s removed", entry.ID) {
			removal = item
		}
	}
	if assert.NotNil(t, removal, "no removal entry in the journal") {
		assert.Equal(t, models.NotificationSystem, removal.Type)
		assert.Empty(t, removal.SubscriptionID)
	}
}
