// Package list реализует HTTP-обработчик для чтения журнала уведомлений.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/spaceivy/spaceivy-crm/internal/http/response"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// Handler обрабатывает запросы на чтение журнала уведомлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс журнала уведомлений.
type Service interface {
	List(ctx context.Context, limit int) ([]*models.NotificationEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Журнал уведомлений
// @Description Возвращает записи журнала от новых к старым. Количество ограничивается query-параметром limit (по умолчанию 50).
// @Tags Notifications
// @Produce  json
// @Param limit query int false "Максимум записей" default(50)
// @Success 200 {object} response.Response "Записи журнала"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Error("invalid limit", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = parsed
	}

	res, err := h.service.List(r.Context(), limit)
	if err != nil {
		log.Error("failed to list notifications", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list notifications"))
		return
	}
	if res == nil {
		res = []*models.NotificationEntry{}
	}

	log.Info("success to list notifications", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(res))
}
