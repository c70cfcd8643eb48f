package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventticketing/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, data *domain.BookingReceiptEmailData) error {
	return s.sendReceipt(ctx, "booking_confirmed", data)
}

func (s *emailService) SendBookingCancelled(ctx context.Context, data *domain.BookingReceiptEmailData) error {
	return s.sendReceipt(ctx, "booking_cancelled", data)
}

func (s *emailService) sendReceipt(ctx context.Context, template string, data *domain.BookingReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("%s email data is nil", template)
	}
	if data.Email == "" {
		return fmt.Errorf("%s email has no recipient", template)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "booking_id", data.BookingID)
	return nil
}
