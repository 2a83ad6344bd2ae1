// Package services содержит отправитель напоминаний: читает события истечения
// из очереди и рассылает письма и WhatsApp-сообщения клиентам.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
	"github.com/spaceivy/spaceivy-crm/internal/models"
	"github.com/spaceivy/spaceivy-crm/internal/notifier"
)

// SenderService превращает события истечения в напоминания клиентам.
type SenderService struct {
	email    notifier.Notifier
	whatsapp notifier.Notifier
	log      *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(email, whatsapp notifier.Notifier, log *slog.Logger) *SenderService {
	return &SenderService{
		email:    email,
		whatsapp: whatsapp,
		log:      log,
	}
}

// HandleExpiryEvent обрабатывает одно сообщение очереди. Ошибка разбора
// не возвращается наружу: такое сообщение бессмысленно доставлять повторно.
func (s *SenderService) HandleExpiryEvent(body []byte) error {
	var event models.ExpiryEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal expiry event", sl.Err(err))
		return nil
	}

	subject, emailBody := reminderEmail(event)
	if err := s.email.Send(event.Email, subject, emailBody); err != nil {
		s.log.Error("failed to send reminder email",
			slog.String("id", event.SubscriptionID), sl.Err(err))
		return fmt.Errorf("send reminder email: %w", err)
	}

	if err := s.whatsapp.Send(event.WhatsappNumber, subject, reminderWhatsApp(event)); err != nil {
		s.log.Error("failed to send reminder whatsapp message",
			slog.String("id", event.SubscriptionID), sl.Err(err))
		return fmt.Errorf("send reminder whatsapp: %w", err)
	}

	s.log.Info("reminder sent", slog.String("id", event.SubscriptionID),
		slog.String("status", event.Status))
	return nil
}

// reminderEmail собирает тему и текст письма-напоминания.
func reminderEmail(event models.ExpiryEvent) (string, string) {
	days := daysUntil(event.ExpiryDate)
	subject := fmt.Sprintf("Spaceivy Subscription Reminder - %d days remaining", days)
	if event.Status == "expired" {
		subject = "Spaceivy Subscription Expired"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", event.CustomerName)
	if event.Status == "expired" {
		fmt.Fprintf(&b, "Your Spaceivy %s subscription has expired.\n\n", event.PlanType)
	} else {
		fmt.Fprintf(&b, "This is a friendly reminder that your Spaceivy %s subscription will expire in %d days.\n\n",
			event.PlanType, days)
	}
	b.WriteString("Subscription Details:\n")
	fmt.Fprintf(&b, "- Plan: %s\n", event.PlanType)
	fmt.Fprintf(&b, "- Amount: ₹%g\n", event.Amount)
	fmt.Fprintf(&b, "- Expires: %s\n\n", event.ExpiryDate.Format("January 2, 2006"))
	b.WriteString("To continue enjoying our services, please renew your subscription before the expiry date.\n\n")
	b.WriteString("If you have any questions, please don't hesitate to contact us.\n\n")
	b.WriteString("Best regards,\nSpaceivy Team\nspaceivylounge@gmail.com\n")
	return subject, b.String()
}

// reminderWhatsApp собирает текст WhatsApp-напоминания.
func reminderWhatsApp(event models.ExpiryEvent) string {
	var b strings.Builder
	b.WriteString("Spaceivy Subscription Reminder\n\n")
	fmt.Fprintf(&b, "Hi %s,\n\n", event.CustomerName)
	if event.Status == "expired" {
		fmt.Fprintf(&b, "Your %s subscription has expired.\n\n", event.PlanType)
	} else {
		fmt.Fprintf(&b, "Your %s subscription expires in %d days.\n\n", event.PlanType, daysUntil(event.ExpiryDate))
	}
	fmt.Fprintf(&b, "Amount: ₹%g\n", event.Amount)
	fmt.Fprintf(&b, "Expires: %s\n\n", event.ExpiryDate.Format("Jan 2, 2006"))
	b.WriteString("Renew now to continue enjoying our services!\n\n")
	b.WriteString("Contact: spaceivylounge@gmail.com\n")
	return b.String()
}

func daysUntil(expiry time.Time) int {
	days := int(math.Ceil(time.Until(expiry).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
