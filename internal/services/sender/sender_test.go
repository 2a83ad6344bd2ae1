package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/spaceivy/spaceivy-crm/internal/models"
)

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Send(recipient, subject, body string) error {
	return m.Called(recipient, subject, body).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func marshalEvent(t *testing.T, event models.ExpiryEvent) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	assert.NoError(t, err)
	return body
}

func TestSender_HandleExpiryEvent(t *testing.T) {
	event := models.ExpiryEvent{
		SubscriptionID: "SUB-aaaaaa",
		CustomerName:   "Rahul Sharma",
		Email:          "rahul@example.com",
		WhatsappNumber: "+919800000001",
		PlanType:       models.PlanMonthly,
		Amount:         2000,
		ExpiryDate:     time.Now().Add(20 * time.Hour),
		Status:         "expiring",
	}

	t.Run("напоминание уходит в оба канала", func(t *testing.T) {
		email := new(NotifierMock)
		whatsapp := new(NotifierMock)
		email.On("Send", "rahul@example.com", mock.Anything, mock.MatchedBy(func(body string) bool {
			return len(body) > 0
		})).Return(nil).Once()
		whatsapp.On("Send", "+919800000001", mock.Anything, mock.Anything).Return(nil).Once()

		svc := NewSenderService(email, whatsapp, newNoopLogger())
		err := svc.HandleExpiryEvent(marshalEvent(t, event))

		assert.NoError(t, err)
		email.AssertExpectations(t)
		whatsapp.AssertExpectations(t)
	})

	t.Run("истёкшая подписка получает другую тему", func(t *testing.T) {
		expired := event
		expired.Status = "expired"
		expired.ExpiryDate = time.Now().Add(-time.Hour)

		email := new(NotifierMock)
		whatsapp := new(NotifierMock)
		email.On("Send", mock.Anything, "Spaceivy Subscription Expired", mock.Anything).Return(nil).Once()
		whatsapp.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		svc := NewSenderService(email, whatsapp, newNoopLogger())
		err := svc.HandleExpiryEvent(marshalEvent(t, expired))

		assert.NoError(t, err)
		email.AssertExpectations(t)
	})

	t.Run("битое сообщение не требует повторной доставки", func(t *testing.T) {
		email := new(NotifierMock)
		whatsapp := new(NotifierMock)

		svc := NewSenderService(email, whatsapp, newNoopLogger())
		err := svc.HandleExpiryEvent([]byte("{not json"))

		assert.NoError(t, err)
		email.AssertNotCalled(t, "Send")
	})

	t.Run("сбой почты возвращает ошибку для повтора", func(t *testing.T) {
		email := new(NotifierMock)
		whatsapp := new(NotifierMock)
		email.On("Send", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp timeout")).Once()

		svc := NewSenderService(email, whatsapp, newNoopLogger())
		err := svc.HandleExpiryEvent(marshalEvent(t, event))

		assert.Error(t, err)
		whatsapp.AssertNotCalled(t, "Send")
	})
}
