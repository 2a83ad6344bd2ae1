// Package create реализует HTTP-обработчик для дописывания записи
// в журнал уведомлений.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/spaceivy/spaceivy-crm/internal/http/response"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/models"
)

// Handler обрабатывает запросы на добавление записи журнала.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс журнала уведомлений.
type Service interface {
	Append(ctx context.Context, typ models.NotificationType, subscriptionID, message string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить запись журнала
// @Description Дописывает запись в журнал уведомлений. Журнал только дописывается, изменение записей невозможно.
// @Tags Notifications
// @Accept  json
// @Produce  json
// @Param request body models.DummyNotification true "Запись журнала"
// @Success 201 {object} response.Response "Запись добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /notifications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyNotification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	err := h.service.Append(r.Context(), models.NotificationType(req.Type), req.SubscriptionID, req.Message)
	if err != nil {
		log.Error("failed to append notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not append notification"))
		return
	}

	log.Info("success to append notification", slog.String("type", req.Type))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(nil))
}
