package notifier

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/spaceivy/spaceivy-crm/internal/config"
	"github.com/spaceivy/spaceivy-crm/internal/lib/sl"
)

// SMTPNotifier отправляет письма через SMTP с STARTTLS.
type SMTPNotifier struct {
	cfg config.SMTP
	log *slog.Logger
}

// NewSMTP создает новый SMTPNotifier.
func NewSMTP(cfg config.SMTP, log *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, log: log}
}

// Send отправляет письмо получателю.
func (n *SMTPNotifier) Send(recipient, subject, body string) error {
	client, err := n.connect()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	msg := strings.Join([]string{
		"From: " + n.cfg.SMTPUser,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if err := client.Mail(n.cfg.SMTPUser); err != nil {
		n.log.Error("failed to set MAIL FROM", "from", n.cfg.SMTPUser, sl.Err(err))
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		n.log.Error("failed to set RCPT TO", "recipient", recipient, sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		n.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		n.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		n.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		n.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	n.log.Info("email sent", "to", recipient)
	return nil
}

func (n *SMTPNotifier) connect() (*smtp.Client, error) {
	addr := net.JoinHostPort(n.cfg.SMTPHost, strconv.Itoa(n.cfg.SMTPPort))

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, n.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: n.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("smtp auth failed: %w", err)
	}

	return client, nil
}
