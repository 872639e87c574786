package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"land-scanner-service/internal/constants"
	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// MessagePublisher is satisfied by *rabbitmq_producer.Publisher.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ScanEventsPublisher implements port.ScanEventsPort on a RabbitMQ exchange.
type ScanEventsPublisher struct {
	producer MessagePublisher
}

func NewScanEventsPublisher(producer MessagePublisher) (*ScanEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &ScanEventsPublisher{producer: producer}, nil
}

func (p *ScanEventsPublisher) PublishScanCompleted(ctx context.Context, event domain.ScanCompletedEvent) error {
	return p.publish(ctx, constants.RoutingKeyScanCompleted, "ScanCompletedEvent", event)
}

func (p *ScanEventsPublisher) PublishParcelScored(ctx context.Context, event domain.ParcelScoredEvent) error {
	return p.publish(ctx, constants.RoutingKeyParcelScored, "ParcelScoredEvent", event)
}

func (p *ScanEventsPublisher) publish(ctx context.Context, routingKey, eventType string, event interface{}) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ScanEventsPublisher",
		"routing_key": routingKey,
	})

	body, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal event to JSON", err, nil)
		return fmt.Errorf("failed to marshal %s: %w", eventType, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    eventType,
			constants.HeaderEventVersion: constants.EventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish event", err, nil)
		return err
	}

	adapterLogger.Debug("Event published", port.Fields{"event_type": eventType})
	return nil
}

// NoopScanEventsPublisher is used when RabbitMQ is disabled.
type NoopScanEventsPublisher struct{}

func (NoopScanEventsPublisher) PublishScanCompleted(ctx context.Context, event domain.ScanCompletedEvent) error {
	contextkeys.LoggerFromContext(ctx).Debug("RabbitMQ disabled, scan.completed not published", port.Fields{
		"scan_run_id": event.ScanRunID,
	})
	return nil
}

func (NoopScanEventsPublisher) PublishParcelScored(context.Context, domain.ParcelScoredEvent) error {
	return nil
}
