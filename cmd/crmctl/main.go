// crmctl — служебная утилита для работы с базой CRM: перенос данных
// из браузерной выгрузки, полный экспорт, резервная копия и сводка.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/spaceivy/spaceivy-crm/internal/export"
	"github.com/spaceivy/spaceivy-crm/internal/lib/expiry"
	"github.com/spaceivy/spaceivy-crm/internal/migrations"
	"github.com/spaceivy/spaceivy-crm/internal/models"
	"github.com/spaceivy/spaceivy-crm/internal/storage/repository"
)

var (
	dbPath         string
	migrationsPath string
)

func main() {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Spaceivy CRM database utility",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "./spaceivy_crm.db", "path to the SQLite database file")
	root.PersistentFlags().StringVar(&migrationsPath, "migrations", "./migrations", "path to the migrations directory")

	root.AddCommand(migrateCmd(), exportCmd(), backupCmd(), statsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStorage() (*repository.Storage, error) {
	db, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db.DB, migrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// legacyEntry запись браузерной выгрузки localStorage: ключи в camelCase,
// номер телефона мог называться phone.
type legacyEntry struct {
	ID             string   `json:"id"`
	CustomerName   string   `json:"customerName"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	WhatsappNumber string   `json:"whatsappNumber"`
	PlanType       string   `json:"planType"`
	OriginalAmount *float64 `json:"originalAmount"`
	Discount       float64  `json:"discount"`
	Amount         float64  `json:"amount"`
	StartDate      string   `json:"startDate"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	EndDate        string   `json:"endDate"`
	EndTimeManual  string   `json:"endTimeManual"`
	ExpiryDate     string   `json:"expiryDate"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"createdAt"`
}

type legacyDump struct {
	Subscriptions []legacyEntry `json:"subscriptions"`
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <json-file>",
		Short: "Import subscriptions from a browser-export JSON dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var dump legacyDump
			if err := json.Unmarshal(raw, &dump); err != nil {
				return fmt.Errorf("parse dump: %w", err)
			}
			fmt.Printf("found %d subscriptions to migrate\n", len(dump.Subscriptions))

			db, err := openStorage()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ctx := context.Background()
			migrated, failed := 0, 0
			for _, legacy := range dump.Subscriptions {
				entry, err := convertLegacy(legacy)
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipping %s: %v\n", legacy.ID, err)
					failed++
					continue
				}
				if err := db.UpsertEntry(ctx, *entry); err != nil {
					fmt.Fprintf(os.Stderr, "failed to migrate %s: %v\n", legacy.ID, err)
					failed++
					continue
				}
				migrated++
			}
			fmt.Printf("migration complete: %d migrated, %d errors\n", migrated, failed)
			return nil
		},
	}
}

// convertLegacy приводит запись старой выгрузки к доменной модели.
// Отсутствующие времена получают значения по умолчанию 09:00-17:00,
// отсутствующий момент истечения пересчитывается по тарифу.
func convertLegacy(legacy legacyEntry) (*models.Entry, error) {
	if legacy.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	startDate, err := parseLegacyDate(legacy.StartDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", legacy.StartDate, err)
	}

	whatsapp := legacy.WhatsappNumber
	if whatsapp == "" {
		whatsapp = legacy.Phone
	}
	startTime := legacy.StartTime
	if startTime == "" {
		startTime = "09:00"
	}
	endTime := legacy.EndTime
	if endTime == "" {
		endTime = "17:00"
	}
	status := legacy.Status
	if status == "" {
		status = "active"
	}

	entry := &models.Entry{
		ID:             legacy.ID,
		CustomerName:   legacy.CustomerName,
		Email:          legacy.Email,
		WhatsappNumber: whatsapp,
		PlanType:       models.PlanType(legacy.PlanType),
		OriginalAmount: legacy.OriginalAmount,
		Discount:       legacy.Discount,
		Amount:         legacy.Amount,
		StartDate:      startDate,
		StartTime:      startTime,
		EndTime:        endTime,
		EndTimeManual:  legacy.EndTimeManual,
		Status:         status,
	}

	if legacy.EndDate != "" {
		endDate, err := parseLegacyDate(legacy.EndDate)
		if err != nil {
			return nil, fmt.Errorf("bad end date %q: %w", legacy.EndDate, err)
		}
		entry.EndDate = &endDate
	}

	if legacy.ExpiryDate != "" {
		exp, err := parseLegacyTimestamp(legacy.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("bad expiry date %q: %w", legacy.ExpiryDate, err)
		}
		entry.ExpiryDate = &exp
	} else if exp, err := expiry.Resolve(startDate, startTime, endTime,
		entry.PlanType, entry.EndDate, entry.EndTimeManual); err == nil {
		entry.ExpiryDate = &exp
	}

	if legacy.CreatedAt != "" {
		created, err := parseLegacyTimestamp(legacy.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("bad created at %q: %w", legacy.CreatedAt, err)
		}
		entry.CreatedAt = created
	} else {
		entry.CreatedAt = time.Now().UTC()
	}

	return entry, nil
}

func parseLegacyDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(24 * time.Hour), nil
}

func parseLegacyTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format")
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <output-file>",
		Short: "Export all data to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStorage()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ctx := context.Background()
			entries, err := db.ListEntries(ctx)
			if err != nil {
				return err
			}
			notifications, err := db.ListNotifications(ctx, 10000)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = f.Close()
			}()

			if err := export.WriteJSON(f, entries, notifications); err != nil {
				return err
			}
			fmt.Printf("exported %d subscriptions to %s\n", len(entries), args[0])
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <backup-file>",
		Short: "Copy the SQLite database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = src.Close()
			}()

			dst, err := os.Create(args[0])
			if err != nil {
				return err
			}

			written, err := io.Copy(dst, src)
			if closeErr := dst.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}
			fmt.Printf("backup created: %s (%d bytes)\n", args[0], written)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print database statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStorage()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			stats, err := db.Stats(context.Background())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Metric", "Value"})
			t.AppendRows([]table.Row{
				{"Total subscriptions", stats.TotalSubscriptions},
				{"Total revenue", fmt.Sprintf("₹%g", stats.TotalRevenue)},
				{"Active subscriptions", stats.ActiveSubscriptions},
				{"Monthly plans", stats.MonthlyPlans},
				{"With discounts", stats.WithDiscounts},
			})
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}
