package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingMailer struct {
	calls int
	err   error
}

func (f *failingMailer) Send(to, subject, html, text string) error {
	f.calls++
	return f.err
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &noopMailer{}, m)
	require.NoError(t, m.Send("a@example.com", "s", "<p>h</p>", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, discardLogger())
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "tickets@example.com", SES: SESConfig{Region: "eu-west-1"}}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &breakerMailer{}, m)
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "tickets@example.com", fromName: "Tickets", timeout: time.Second, logger: discardLogger()}

	require.NoError(t, m.Send("ana@example.com", "Booking confirmed", "<p>hi</p>", ""))
	require.NotNil(t, client.input)
	assert.Equal(t, "Tickets <tickets@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ana@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Booking confirmed", aws.ToString(client.input.Message.Subject.Data))
	assert.NotNil(t, client.input.Message.Body.Html)
	assert.Nil(t, client.input.Message.Body.Text)

	client.err = errors.New("throttled")
	err := m.Send("ana@example.com", "s", "", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestBreakerMailer_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &failingMailer{err: errors.New("smtp down")}
	m := NewBreakerMailer(next, "test", BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, discardLogger())

	for i := 0; i < 2; i++ {
		err := m.Send("a@example.com", "s", "", "t")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMailerUnavailable)
	}

	err := m.Send("a@example.com", "s", "", "t")
	require.ErrorIs(t, err, ErrMailerUnavailable)
	assert.Equal(t, 2, next.calls)
}

func TestBreakerMailer_PassesThroughSuccess(t *testing.T) {
	next := &failingMailer{}
	m := NewBreakerMailer(next, "test", BreakerConfig{}, discardLogger())
	require.NoError(t, m.Send("a@example.com", "s", "", "t"))
	assert.Equal(t, 1, next.calls)
}
