// Package health реализует обработчик проверки живости сервера.
package health

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/spaceivy/spaceivy-crm/internal/http/response"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
)

// Handler отвечает на проверку живости, заодно пингуя базу.
type Handler struct {
	log *slog.Logger
	db  *sql.DB
}

// New создает новый Handler.
func New(log *slog.Logger, db *sql.DB) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.db.PingContext(r.Context()); err != nil {
		h.log.Error("database ping failed", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database unavailable"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
