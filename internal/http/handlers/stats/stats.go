// Package stats реализует HTTP-обработчик сводных показателей.
package stats

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/spaceivy/spaceivy-crm/internal/http/response"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// Handler обрабатывает запросы на получение сводных показателей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подсчёта показателей.
type Service interface {
	Stats(ctx context.Context) (*models.Stats, error)
	RevenueTotal(ctx context.Context, asOf time.Time) (float64, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводные показатели
// @Description Возвращает количество подписок, выручку и счётчики активных и истекающих подписок. Query-параметр as_of (2006-01-02) пересчитывает выручку на указанную дату.
// @Tags Stats
// @Produce  json
// @Param as_of query string false "Дата для расчёта выручки в формате 2006-01-02"
// @Success 200 {object} response.Response "Показатели"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to count stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count stats"))
		return
	}

	if raw := r.URL.Query().Get("as_of"); raw != "" {
		asOf, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("invalid as_of date", slog.String("as_of", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid as_of date, expected 2006-01-02"))
			return
		}
		res.TotalRevenue, err = h.service.RevenueTotal(r.Context(), asOf)
		if err != nil {
			log.Error("failed to count revenue", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not count stats"))
			return
		}
	}

	log.Info("success to count stats")
	render.JSON(w, r, response.OKWithData(res))
}
