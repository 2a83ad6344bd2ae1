// Package clear реализует HTTP-обработчик очистки журнала уведомлений.
package clear

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/spaceivy/spaceivy-crm/internal/http/response"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
)

// Handler обрабатывает запросы на очистку журнала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс журнала уведомлений.
type Service interface {
	Clear(ctx context.Context) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Очистить журнал уведомлений
// @Description Удаляет все записи журнала целиком. Частичная очистка не поддерживается.
// @Tags Notifications
// @Produce  json
// @Success 200 {object} response.Response "Количество удалённых записей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /notifications [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.clear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count, err := h.service.Clear(r.Context())
	if err != nil {
		log.Error("failed to clear notifications", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not clear notifications"))
		return
	}

	log.Info("success to clear notifications", slog.Int("deleted", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_count": count,
	}))
}
