// Package messaging carries booking events from the inventory coordinator to
// the notification consumer over a watermill pub/sub.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"eventticketing/internal/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const kindMetadataKey = "kind"

// Topics lists every topic a booking event can be published on.
func Topics() []string {
	return []string{string(domain.BookingConfirmed), string(domain.BookingCancelled)}
}

// NewBus returns the in-process pub/sub shared by publisher and consumer.
func NewBus(buffer int64, logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
	}, watermill.NewSlogLogger(logger))
}

// BookingPublisher implements domain.BookingEventPublisher.
type BookingPublisher struct {
	publisher message.Publisher
}

func NewBookingPublisher(publisher message.Publisher) *BookingPublisher {
	return &BookingPublisher{publisher: publisher}
}

// Publish encodes evt as JSON and publishes it on the topic named by its kind.
func (p *BookingPublisher) Publish(ctx context.Context, evt domain.BookingEvent) error {
	if evt.Kind == "" {
		return fmt.Errorf("publish booking event: empty kind")
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode booking event: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(kindMetadataKey, string(evt.Kind))
	msg.SetContext(ctx)
	if err := p.publisher.Publish(string(evt.Kind), msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Kind, err)
	}
	return nil
}

var _ domain.BookingEventPublisher = (*BookingPublisher)(nil)
