package read

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/spaceivy/spaceivy-crm/internal/models"
	"github.com/spaceivy/spaceivy-crm/internal/storage/repository"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Read(ctx context.Context, id string) (*models.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	entry := &models.Entry{
		ID:        "SUB-aaaaaa",
		PlanType:  models.PlanWorkDay,
		Amount:    575,
		StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    "active",
	}

	tests := []struct {
		name           string
		id             string
		setupMock      func(service *ServiceMock)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name: "успешное чтение",
			id:   "SUB-aaaaaa",
			setupMock: func(service *ServiceMock) {
				service.On("Read", mock.Anything, "SUB-aaaaaa").Return(entry, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name: "неизвестный идентификатор",
			id:   "SUB-ghost1",
			setupMock: func(service *ServiceMock) {
				service.On("Read", mock.Anything, "SUB-ghost1").
					Return(nil, fmt.Errorf("storage.ReadEntry: %w", repository.ErrNotFound)).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
		},
		{
			name: "ошибка сервиса",
			id:   "SUB-aaaaaa",
			setupMock: func(service *ServiceMock) {
				service.On("Read", mock.Anything, "SUB-aaaaaa").
					Return(nil, errors.New("db locked")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMock(service)
			handler := New(newNoopLogger(), service)

			router := chi.NewRouter()
			router.Get("/api/subscriptions/{id}", handler.ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/"+tt.id, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)

			var resp map[string]any
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			service.AssertExpectations(t)
		})
	}
}
