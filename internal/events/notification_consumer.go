package events

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/JeremyNakano12/nakanostay-backend/internal/email"
	"github.com/JeremyNakano12/nakanostay-backend/internal/kafka"
)

// NotificationConsumer listens to booking lifecycle events and emails guests.
type NotificationConsumer struct {
	consumer *kafka.Consumer
	sender   *email.Sender
	logger   *zap.Logger
}

// NewNotificationConsumer creates a NotificationConsumer reading the booking
// events topic with the given group id.
func NewNotificationConsumer(
	brokers []string,
	groupID string,
	sender *email.Sender,
	logger *zap.Logger,
) *NotificationConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &NotificationConsumer{
		consumer: consumer,
		sender:   sender,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NotificationConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case BookingCreated, BookingConfirmed, BookingCancelled, BookingCompleted:
		return c.handleBookingEvent(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *NotificationConsumer) handleBookingEvent(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt BookingEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse booking event data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	subject, body := composeNotification(cloudEvent.Type, evt)
	if subject == "" {
		return nil
	}

	if err := c.sender.Send(ctx, evt.GuestEmail, subject, body); err != nil {
		c.logger.Error("failed to send booking notification",
			zap.String("booking_code", evt.Code),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking notification sent",
		zap.String("booking_code", evt.Code),
		zap.String("type", cloudEvent.Type),
	)
	return nil
}

func composeNotification(eventType string, evt BookingEvent) (subject, body string) {
	switch eventType {
	case BookingCreated:
		subject = fmt.Sprintf("Booking %s received", evt.Code)
		body = fmt.Sprintf(
			"Hi %s, we received your booking %s for %s to %s. We will confirm it shortly.",
			evt.GuestName, evt.Code, evt.CheckIn, evt.CheckOut,
		)
	case BookingConfirmed:
		subject = fmt.Sprintf("Booking %s confirmed", evt.Code)
		body = fmt.Sprintf(
			"Hi %s, your booking %s is confirmed. Check-in %s, check-out %s.",
			evt.GuestName, evt.Code, evt.CheckIn, evt.CheckOut,
		)
	case BookingCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", evt.Code)
		body = fmt.Sprintf(
			"Hi %s, your booking %s has been cancelled.",
			evt.GuestName, evt.Code,
		)
	case BookingCompleted:
		subject = fmt.Sprintf("Thanks for staying with us, %s", evt.GuestName)
		body = fmt.Sprintf(
			"Your stay for booking %s is complete. We hope to see you again.",
			evt.Code,
		)
	}
	return subject, body
}
