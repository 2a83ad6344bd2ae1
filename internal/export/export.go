// Package export формирует выгрузки подписок: CSV, XLSX и полный JSON-бэкап.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spaceivy/spaceivy-crm/internal/lib/billing"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// Headers колонки выгрузки, порядок фиксирован.
var Headers = []string{
	"Customer Name", "Email", "WhatsApp", "Plan Type",
	"Billable Hours", "Rate Applied", "Amount",
	"Start Date", "Start Time", "End Time",
	"Manual End Date", "Manual End Time",
	"Expiry Date", "Expiry Time", "Expiry Type", "Status",
}

const dateLayout = "January 2, 2006"

// Row собирает строку выгрузки для одной подписки. Тариф пересчитывается
// из пары время начала/окончания; для недельных и месячных планов расчёт
// недоступен и соответствующие колонки остаются "N/A".
func Row(entry *models.Entry) []string {
	billableHours := "N/A"
	rateApplied := "N/A"
	if calc, err := billing.Calculate(entry.StartTime, entry.EndTime); err == nil {
		billableHours = fmt.Sprintf("%d", calc.BillableHours)
		rateApplied = calc.RateApplied
	}

	manualEndDate := "Auto-calculated"
	if entry.EndDate != nil {
		manualEndDate = entry.EndDate.Format("2006-01-02")
	}
	manualEndTime := "Auto-calculated"
	if entry.EndTimeManual != "" {
		manualEndTime = entry.EndTimeManual
	}

	expiryDate, expiryTime := "N/A", "N/A"
	if entry.ExpiryDate != nil {
		expiryDate = entry.ExpiryDate.Format(dateLayout)
		expiryTime = entry.ExpiryDate.Format("3:04 PM")
	}
	expiryType := "Auto-calculated"
	if entry.ManualExpiry() {
		expiryType = "Manual"
	}

	return []string{
		entry.CustomerName,
		entry.Email,
		entry.WhatsappNumber,
		string(entry.PlanType),
		billableHours,
		rateApplied,
		fmt.Sprintf("%g", entry.Amount),
		entry.StartDate.Format(dateLayout),
		entry.StartTime,
		entry.EndTime,
		manualEndDate,
		manualEndTime,
		expiryDate,
		expiryTime,
		expiryType,
		entry.Status,
	}
}

// WriteCSV пишет выгрузку в формате CSV.
func WriteCSV(w io.Writer, entries []*models.Entry) error {
	const op = "export.WriteCSV"
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, entry := range entries {
		if err := cw.Write(Row(entry)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WriteXLSX пишет выгрузку в формате XLSX на лист Subscriptions.
func WriteXLSX(w io.Writer, entries []*models.Entry) error {
	const op = "export.WriteXLSX"
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Subscriptions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, Headers); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, entry := range entries {
		if err := writeRow(i+2, Row(entry)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Backup полный снимок данных для JSON-бэкапа.
type Backup struct {
	Subscriptions []*models.Entry             `json:"subscriptions"`
	Notifications []*models.NotificationEntry `json:"notifications"`
	ExportDate    time.Time                   `json:"export_date"`
}

// WriteJSON пишет полный снимок подписок и журнала уведомлений.
func WriteJSON(w io.Writer, entries []*models.Entry, notifications []*models.NotificationEntry) error {
	const op = "export.WriteJSON"
	backup := Backup{
		Subscriptions: entries,
		Notifications: notifications,
		ExportDate:    time.Now().UTC(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
