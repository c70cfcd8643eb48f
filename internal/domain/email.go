package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// BookingReceiptEmailData holds data for booking confirmation and cancellation receipts.
type BookingReceiptEmailData struct {
	Email         string
	Name          string
	BookingID     string
	EventTitle    string
	EventDate     time.Time
	TicketsBooked int
	TotalAmount   float64
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendBookingConfirmed(ctx context.Context, data *BookingReceiptEmailData) error
	SendBookingCancelled(ctx context.Context, data *BookingReceiptEmailData) error
}
