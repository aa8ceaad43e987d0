package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"
	"time"

	"teamhub/config"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

func NewMailer(cfg config.MailConfig, logger *slog.Logger) Mailer {
	switch cfg.Driver {
	case "smtp":
		return &SMTPMailer{cfg: cfg}
	case "resend":
		return &ResendMailer{cfg: cfg, client: &http.Client{Timeout: 10 * time.Second}}
	default:
		return &LogMailer{logger: logger}
	}
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody

	if err := smtp.SendMail(addr, auth, m.cfg.SMTPUsername, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendMailer delivers through the Resend HTTP API.
type ResendMailer struct {
	cfg    config.MailConfig
	client *http.Client
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	body, err := json.Marshal(resendRequest{
		From:    m.cfg.From,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.ResendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer only logs outgoing mail. Used in development; the body, and with
// it any code, is logged at debug level.
type LogMailer struct {
	logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.logger.InfoContext(ctx, "email not delivered (log mail driver)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("bytes", len(htmlBody)),
	)
	m.logger.DebugContext(ctx, "email body",
		slog.String("to", to),
		slog.String("body", htmlBody),
	)
	return nil
}
