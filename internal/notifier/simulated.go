package notifier

import "log/slog"

// Simulated пишет уведомление в лог вместо реальной доставки.
// Используется для WhatsApp (реального транспорта нет) и для email,
// когда SMTP не настроен.
type Simulated struct {
	channel string
	log     *slog.Logger
}

// NewSimulated создает новый симулятор доставки для канала channel
// ("email", "whatsapp").
func NewSimulated(channel string, log *slog.Logger) *Simulated {
	return &Simulated{channel: channel, log: log}
}

// Send логирует уведомление и сообщает об успешной доставке.
func (n *Simulated) Send(recipient, subject, body string) error {
	n.log.Info("simulated delivery",
		slog.String("channel", n.channel),
		slog.String("to", recipient),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
