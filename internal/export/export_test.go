package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaceivy/spaceivy-crm/internal/models"
)

func sampleEntry() *models.Entry {
	expiry := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	return &models.Entry{
		ID:             "SUB-aaaaaa",
		CustomerName:   "Rahul Sharma",
		Email:          "rahul@example.com",
		WhatsappNumber: "+919800000001",
		PlanType:       models.PlanWorkDay,
		Amount:         575,
		StartDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		EndTime:        "19:00",
		ExpiryDate:     &expiry,
		Status:         "expired",
		CreatedAt:      time.Date(2025, 3, 10, 9, 55, 0, 0, time.UTC),
	}
}

func TestRow(t *testing.T) {
	row := Row(sampleEntry())
	require.Len(t, row, len(Headers))

	assert.Equal(t, "Rahul Sharma", row[0])
	assert.Equal(t, "work-day", row[3])
	assert.Equal(t, "9", row[4])
	assert.Equal(t, "₹500 (8 hrs) + ₹75 (1 extra hr)", row[5])
	assert.Equal(t, "575", row[6])
	assert.Equal(t, "March 10, 2025", row[7])
	assert.Equal(t, "Auto-calculated", row[10])
	assert.Equal(t, "7:00 PM", row[13])
	assert.Equal(t, "Auto-calculated", row[14])
}

func TestRow_ManualExpiry(t *testing.T) {
	entry := sampleEntry()
	endDate := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	entry.EndDate = &endDate
	entry.EndTimeManual = "21:30"

	row := Row(entry)
	assert.Equal(t, "2025-03-12", row[10])
	assert.Equal(t, "21:30", row[11])
	assert.Equal(t, "Manual", row[14])
}

func TestRow_NonTimeBasedPlan(t *testing.T) {
	entry := sampleEntry()
	entry.PlanType = models.PlanMonthly
	entry.StartTime = ""
	entry.EndTime = ""
	entry.ExpiryDate = nil

	row := Row(entry)
	assert.Equal(t, "N/A", row[4])
	assert.Equal(t, "N/A", row[5])
	assert.Equal(t, "N/A", row[12])
	assert.Equal(t, "N/A", row[13])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []*models.Entry{sampleEntry()})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Headers, records[0])
	assert.Equal(t, "Rahul Sharma", records[1][0])
	assert.Equal(t, "expired", records[1][15])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	notifications := []*models.NotificationEntry{
		{ID: 1, Type: models.NotificationSystem, Message: "Subscription SUB-aaaaaa created"},
	}
	err := WriteJSON(&buf, []*models.Entry{sampleEntry()}, notifications)
	require.NoError(t, err)

	var backup Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &backup))
	require.Len(t, backup.Subscriptions, 1)
	require.Len(t, backup.Notifications, 1)
	assert.Equal(t, "SUB-aaaaaa", backup.Subscriptions[0].ID)
	assert.False(t, backup.ExportDate.IsZero())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, []*models.Entry{sampleEntry()})
	require.NoError(t, err)
	// XLSX — это zip-архив, начинается с PK
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
