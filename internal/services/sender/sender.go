// Package services реализует воркер уведомлений: разбирает события проверки
// ценовых заявок из очереди и отправляет авторам письма о результате.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	libsmtp "github.com/gambiamarkets/price-tracker/internal/lib/smtp"
	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// SenderService отправляет письма о результатах проверки заявок.
type SenderService struct {
	transport libsmtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport libsmtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleReviewedEvent обрабатывает событие проверки заявки из очереди
// и отправляет автору письмо о подтверждении или отклонении.
func (s *SenderService) HandleReviewedEvent(body []byte) error {
	var event models.ReviewEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.Email}
	var subject, bodyText string
	switch event.Status {
	case models.StatusApproved:
		subject = "Your price submission has been approved"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour price submission for %s at %s (%.2f per %s) has been reviewed and approved. It is now part of the published price history.",
			event.SubmitterName, event.ProductName, event.MarketName, event.Price, event.Unit)
	case models.StatusRejected:
		subject = "Your price submission has been rejected"
		bodyText = fmt.Sprintf("Hello, %s!\n\nYour price submission for %s at %s (%.2f per %s) has been reviewed and rejected.",
			event.SubmitterName, event.ProductName, event.MarketName, event.Price, event.Unit)
		if event.Reason != "" {
			bodyText += fmt.Sprintf("\n\nReason: %s", event.Reason)
		}
	default:
		s.log.Warn("skipping review event with unexpected status",
			slog.String("status", string(event.Status)), slog.String("uid", event.SubmissionUID))
		return nil
	}

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
