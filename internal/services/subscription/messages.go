package services

import (
	"fmt"
	"strings"

	"github.com/spaceivy/spaceivy-crm/internal/models"
)

const (
	dateLayout       = "January 2, 2006"
	expiryTimeLayout = "3:04 PM"
)

// customerEmailBody текст приветственного письма клиенту.
func customerEmailBody(entry *models.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", entry.CustomerName)
	b.WriteString("Thank you for subscribing to Spaceivy!\n\n")
	b.WriteString("Subscription Details:\n")
	fmt.Fprintf(&b, "- Plan: %s\n", entry.PlanType)
	fmt.Fprintf(&b, "- Amount: ₹%g\n", entry.Amount)
	fmt.Fprintf(&b, "- Start Date: %s\n", entry.StartDate.Format(dateLayout))
	if entry.StartTime != "" || entry.EndTime != "" {
		fmt.Fprintf(&b, "- Time: %s - %s\n", entry.StartTime, entry.EndTime)
	}
	fmt.Fprintf(&b, "- Expiry Date: %s\n", formatExpiry(entry))
	fmt.Fprintf(&b, "- Expiry Type: %s\n", expiryType(entry))
	b.WriteString("\nWe're excited to have you on board!\n\n")
	b.WriteString("Best regards,\nSpaceivy Team\n")
	return b.String()
}

// adminEmailBody текст письма администратору о новой подписке.
func adminEmailBody(entry *models.Entry) string {
	var b strings.Builder
	b.WriteString("New Subscription Created:\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", entry.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", entry.Email)
	fmt.Fprintf(&b, "WhatsApp: %s\n", entry.WhatsappNumber)
	fmt.Fprintf(&b, "Plan: %s\n", entry.PlanType)
	fmt.Fprintf(&b, "Amount: ₹%g\n", entry.Amount)
	fmt.Fprintf(&b, "Start: %s at %s\n", entry.StartDate.Format(dateLayout), entry.StartTime)
	fmt.Fprintf(&b, "End: %s\n", entry.EndTime)
	fmt.Fprintf(&b, "Expiry: %s (%s)\n", formatExpiry(entry), expiryType(entry))
	if entry.EndDate != nil {
		fmt.Fprintf(&b, "Manual End Date: %s\n", entry.EndDate.Format("2006-01-02"))
	}
	if entry.EndTimeManual != "" {
		fmt.Fprintf(&b, "Manual End Time: %s\n", entry.EndTimeManual)
	}
	fmt.Fprintf(&b, "\nRevenue: ₹%g\n", entry.Amount)
	return b.String()
}

// whatsappBody текст приветственного WhatsApp-сообщения.
func whatsappBody(entry *models.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", entry.CustomerName)
	fmt.Fprintf(&b, "Your Spaceivy %s subscription is confirmed.\n\n", entry.PlanType)
	fmt.Fprintf(&b, "Amount: ₹%g\n", entry.Amount)
	fmt.Fprintf(&b, "Expires: %s\n\n", formatExpiry(entry))
	b.WriteString("Contact: spaceivylounge@gmail.com\n")
	return b.String()
}

func formatExpiry(entry *models.Entry) string {
	if entry.ExpiryDate == nil {
		return "N/A"
	}
	return entry.ExpiryDate.Format(dateLayout) + " " + entry.ExpiryDate.Format(expiryTimeLayout)
}

func expiryType(entry *models.Entry) string {
	if entry.EndDate != nil || entry.EndTimeManual != "" {
		return "Manually Set"
	}
	return "Auto-calculated"
}
