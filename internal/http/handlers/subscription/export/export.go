// Package export реализует HTTP-обработчик выгрузки подписок.
//
// Формат выбирается query-параметром format: csv (по умолчанию), xlsx или
// json. JSON-выгрузка — полный бэкап вместе с журналом уведомлений.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/spaceivy/spaceivy-crm/internal/export"
	"github.com/spaceivy/spaceivy-crm/internal/http/response"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// backupLimit сколько записей журнала попадает в JSON-бэкап.
const backupLimit = 10000

// Handler обрабатывает запросы на выгрузку данных.
type Handler struct {
	log           *slog.Logger
	service       Service
	notifications NotificationService
}

// Service описывает интерфейс бизнес-логики чтения списка подписок.
type Service interface {
	List(ctx context.Context) ([]*models.Entry, error)
}

// NotificationService отдаёт журнал уведомлений для полного JSON-бэкапа.
type NotificationService interface {
	List(ctx context.Context, limit int) ([]*models.NotificationEntry, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, notifications NotificationService) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		notifications: notifications,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка подписок
// @Description Отдаёт файл с подписками: CSV, XLSX или полный JSON-бэкап.
// @Tags Subscriptions
// @Produce  octet-stream
// @Param format query string false "Формат выгрузки: csv, xlsx или json" default(csv)
// @Success 200 {file} file "Файл выгрузки"
// @Failure 400 {object} response.ErrorResponse "Неизвестный формат"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	entries, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export subscriptions"))
		return
	}

	filename := fmt.Sprintf("spaceivy-subscriptions-%s.%s", time.Now().Format("2006-01-02"), format)

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		err = export.WriteCSV(w, entries)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		err = export.WriteXLSX(w, entries)
	case "json":
		var notifications []*models.NotificationEntry
		notifications, err = h.notifications.List(r.Context(), backupLimit)
		if err != nil {
			log.Error("failed to list notifications", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not export subscriptions"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		err = export.WriteJSON(w, entries, notifications)
	default:
		log.Error("unknown export format", slog.String("format", format))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown export format"))
		return
	}
	if err != nil {
		// Заголовки уже могли уйти клиенту, остаётся только залогировать.
		log.Error("failed to write export", sl.Err(err))
		return
	}

	log.Info("success to export subscriptions",
		slog.String("format", format), slog.Int("count", len(entries)))
}
