package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventticketing/internal/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// ConsumerMetrics receives one outcome per handled message.
type ConsumerMetrics interface {
	NotificationHandled(outcome string)
}

// ConsumerConfig tunes retries of the notification handler.
type ConsumerConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	CloseTimeout    time.Duration
}

// NotificationConsumer turns booking events into user notifications and,
// when an EmailService is set, receipt emails. It implements suture.Service.
type NotificationConsumer struct {
	subscriber    message.Subscriber
	notifications domain.NotificationService
	emails        domain.EmailService
	metrics       ConsumerMetrics
	config        ConsumerConfig
	logger        *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewNotificationConsumer builds a consumer. emails and metrics may be nil.
func NewNotificationConsumer(subscriber message.Subscriber, notifications domain.NotificationService,
	emails domain.EmailService, metrics ConsumerMetrics, config ConsumerConfig, logger *slog.Logger) *NotificationConsumer {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 100 * time.Millisecond
	}
	if config.CloseTimeout <= 0 {
		config.CloseTimeout = 10 * time.Second
	}
	return &NotificationConsumer{
		subscriber:    subscriber,
		notifications: notifications,
		emails:        emails,
		metrics:       metrics,
		config:        config,
		logger:        logger,
		ready:         make(chan struct{}),
	}
}

// Ready is closed once the first router has subscribed to every topic.
func (c *NotificationConsumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve runs a fresh watermill router until ctx is cancelled. A router cannot
// be restarted, so each supervised restart builds a new one.
func (c *NotificationConsumer) Serve(ctx context.Context) error {
	wmLogger := watermill.NewSlogLogger(c.logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: c.config.CloseTimeout}, wmLogger)
	if err != nil {
		return fmt.Errorf("create notification router: %w", err)
	}

	router.AddMiddleware(
		c.dropAfterRetries,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      c.config.MaxRetries,
			InitialInterval: c.config.InitialInterval,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
	)
	for _, topic := range Topics() {
		router.AddConsumerHandler("notify-"+topic, topic, c.subscriber, c.handle)
	}

	go func() {
		select {
		case <-router.Running():
			c.readyOnce.Do(func() { close(c.ready) })
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("notification router: %w", err)
	}
	return ctx.Err()
}

func (c *NotificationConsumer) String() string {
	return "notification-consumer"
}

// dropAfterRetries acks messages whose handler still fails once retries are
// exhausted. The in-process bus would otherwise redeliver them forever.
func (c *NotificationConsumer) dropAfterRetries(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		if err != nil {
			c.observe("failed")
			c.logger.Error("booking notification dropped",
				"message_id", msg.UUID,
				"kind", msg.Metadata.Get(kindMetadataKey),
				"err", err)
			return nil, nil
		}
		return out, nil
	}
}

func (c *NotificationConsumer) handle(msg *message.Message) error {
	var evt domain.BookingEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		c.observe("malformed")
		c.logger.Error("malformed booking event", "message_id", msg.UUID, "err", err)
		return nil
	}

	ctx := msg.Context()
	n, err := c.notifications.NotifyBooking(ctx, evt)
	if err != nil {
		return fmt.Errorf("notify booking %s: %w", evt.BookingID, err)
	}
	c.observe("delivered")
	c.logger.DebugContext(ctx, "booking notification stored",
		"notification_id", n.ID, "booking_id", evt.BookingID, "kind", evt.Kind)

	c.sendReceipt(ctx, evt)
	return nil
}

// sendReceipt mails a receipt on a best-effort basis. Failures are logged and
// do not cause a retry, which would duplicate the notification.
func (c *NotificationConsumer) sendReceipt(ctx context.Context, evt domain.BookingEvent) {
	if c.emails == nil || evt.UserEmail == "" {
		return
	}
	data := &domain.BookingReceiptEmailData{
		Email:         evt.UserEmail,
		Name:          evt.UserName,
		BookingID:     evt.BookingID,
		EventTitle:    evt.EventTitle,
		EventDate:     evt.EventDate,
		TicketsBooked: evt.TicketsBooked,
		TotalAmount:   evt.TotalAmount,
	}
	var err error
	switch evt.Kind {
	case domain.BookingConfirmed:
		err = c.emails.SendBookingConfirmed(ctx, data)
	case domain.BookingCancelled:
		err = c.emails.SendBookingCancelled(ctx, data)
	default:
		return
	}
	if err != nil {
		c.logger.WarnContext(ctx, "booking receipt not sent", "booking_id", evt.BookingID, "err", err)
	}
}

func (c *NotificationConsumer) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.NotificationHandled(outcome)
	}
}
