package services

import (
	"context"
	"errors"
	"testing"

	"eventticketing/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	to, subject string
	err         error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	f.to, f.subject = to, subject
	return f.err
}

type fakeRenderer struct {
	template string
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.template = name
	if name == "broken" {
		return "", "", "", errors.New("parse")
	}
	return "Subject " + name, "<p>html</p>", "text", nil
}

func TestEmailService_BookingReceipts(t *testing.T) {
	mailer := &fakeMailer{}
	renderer := &fakeRenderer{}
	svc := NewEmailService(mailer, renderer, discardLogger())
	data := &domain.BookingReceiptEmailData{Email: "alice@example.com", BookingID: "bk-1", EventTitle: "Jazz"}

	require.NoError(t, svc.SendBookingConfirmed(context.Background(), data))
	assert.Equal(t, "booking_confirmed", renderer.template)
	assert.Equal(t, "alice@example.com", mailer.to)

	require.NoError(t, svc.SendBookingCancelled(context.Background(), data))
	assert.Equal(t, "Subject booking_cancelled", mailer.subject)

	require.Error(t, svc.SendBookingConfirmed(context.Background(), nil))
	require.Error(t, svc.SendBookingConfirmed(context.Background(), &domain.BookingReceiptEmailData{}))

	mailer.err = errors.New("ses throttled")
	err := svc.SendBookingConfirmed(context.Background(), data)
	require.ErrorContains(t, err, "send booking_confirmed email")
}
