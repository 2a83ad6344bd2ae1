package create

import (
	"bytes"
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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/spaceivy/spaceivy-crm/internal/models"
	subscription "github.com/spaceivy/spaceivy-crm/internal/services/subscription"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Create(ctx context.Context, req models.DummyEntry) (*models.Entry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validBody() models.DummyEntry {
	return models.DummyEntry{
		CustomerName:   "Rahul Sharma",
		Email:          "rahul@example.com",
		WhatsappNumber: "+919800000001",
		PlanType:       "hourly",
		StartDate:      "2025-03-10",
		StartTime:      "09:00",
		EndTime:        "13:00",
	}
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	created := &models.Entry{
		ID:        "SUB-aaaaaa",
		PlanType:  models.PlanHourly,
		Amount:    300,
		StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(service *ServiceMock)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name:        "успешное создание",
			requestBody: validBody(),
			setupMock: func(service *ServiceMock) {
				service.On("Create", mock.Anything, validBody()).Return(created, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:           "битый JSON",
			requestBody:    "not a json",
			setupMock:      func(service *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
		},
		{
			name: "валидация: нет имени клиента",
			requestBody: func() models.DummyEntry {
				req := validBody()
				req.CustomerName = ""
				return req
			}(),
			setupMock:      func(service *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name: "валидация: неизвестный тариф",
			requestBody: func() models.DummyEntry {
				req := validBody()
				req.PlanType = "yearly"
				return req
			}(),
			setupMock:      func(service *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:        "валидация на уровне сервиса",
			requestBody: validBody(),
			setupMock: func(service *ServiceMock) {
				service.On("Create", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: end time must be after start time", subscription.ErrValidation)).Once()
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name:        "ошибка сервиса",
			requestBody: validBody(),
			setupMock: func(service *ServiceMock) {
				service.On("Create", mock.Anything, mock.Anything).
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

			var body bytes.Buffer
			switch v := tt.requestBody.(type) {
			case string:
				body.WriteString(v)
			default:
				assert.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", &body)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)

			var resp map[string]any
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
			service.AssertExpectations(t)
		})
	}
}
