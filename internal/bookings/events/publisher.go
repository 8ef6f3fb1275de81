package events

import (
	"context"

	"roombook/pkg/config"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	eventSource = "roombook"
)

// BookingEvent is the JSON payload published for every admission and
// cancellation. Keyed by room id so one room's events stay ordered.
type BookingEvent struct {
	BookingID   string `json:"booking_id"`
	RoomID      string `json:"room_id"`
	OwnerID     string `json:"owner_id"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Publisher emits booking lifecycle events. It is best-effort: when brokers
// are not configured it is a no-op, and publish failures are logged without
// failing the booking request.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(cfg *config.Config) *Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Booking event publishing disabled, no Kafka brokers configured")
		return &Publisher{log: cfg.Log}
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic)
	if err != nil {
		cfg.Log.Error("Failed to initialize booking event producer, events disabled",
			"brokers", cfg.KafkaBrokers,
			"topic", cfg.KafkaBookingTopic,
			"error", err,
		)
		return &Publisher{log: cfg.Log}
	}

	cfg.Log.Info("Booking event publisher initialized",
		"topic", cfg.KafkaBookingTopic,
	)
	return &Publisher{producer: producer, log: cfg.Log}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.RoomID).
		WithValue(BookingEvent{
			BookingID:   booking.ID,
			RoomID:      booking.RoomID,
			OwnerID:     booking.OwnerID,
			BookingDate: booking.BookingDate,
			StartTime:   booking.StartTime,
			EndTime:     booking.EndTime,
		}).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"room_id", booking.RoomID,
			"error", err,
		)
	}
}

func (p *Publisher) Close() {
	if p.producer == nil {
		return
	}
	if err := p.producer.Close(); err != nil {
		p.log.Warn("Failed to close booking event producer", "error", err)
	}
}
