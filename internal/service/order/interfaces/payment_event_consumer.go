// internal/service/order/interfaces/payment_event_consumer.go
package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"oms/internal/pkg/logger"
	"oms/internal/pkg/metrics"
	"oms/internal/pkg/mq"
	"oms/internal/service/order/application"
	"oms/internal/service/order/domain/port"
)

// PaymentEventConsumer is the driving adapter for the payment.succeeded
// topic. The notification is fire-and-forget: there is no caller to answer,
// so every failure ends in the log and the event counter, never in a reply.
type PaymentEventConsumer struct {
	reader  *kafka.Reader
	service *application.OrderApplicationService
	deduper port.EventDeduper
	metrics *metrics.ServerMetrics
}

func NewPaymentEventConsumer(reader *kafka.Reader, service *application.OrderApplicationService, deduper port.EventDeduper, m *metrics.ServerMetrics) *PaymentEventConsumer {
	return &PaymentEventConsumer{reader: reader, service: service, deduper: deduper, metrics: m}
}

// Run consumes until ctx is cancelled. Offsets are committed after
// processing regardless of outcome; redelivery and retry policy belong to
// the messaging layer, and the reconciliation itself is idempotent.
func (c *PaymentEventConsumer) Run(ctx context.Context) error {
	topic := c.reader.Config().Topic
	logger.Ctx(ctx).Info().Str("topic", topic).Msg("payment event consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Ctx(ctx).Info().Msg("payment event consumer shutting down")
				return nil
			}
			logger.Ctx(ctx).Error().Err(err).Msg("could not fetch payment event, retrying")
			time.Sleep(time.Second)
			continue
		}

		c.processMessage(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Ctx(ctx).Error().Err(err).Msg("failed to commit payment event offset")
		}
	}
}

// Close stops the underlying reader; it unblocks a pending FetchMessage.
func (c *PaymentEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *PaymentEventConsumer) processMessage(parentCtx context.Context, msg kafka.Message) {
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(parentCtx, &carrier)
	topic := c.reader.Config().Topic

	var event application.PaymentSucceededEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("malformed payment event, skipping")
		c.count(topic, "malformed")
		return
	}
	if event.OrderID == "" {
		logger.Ctx(ctx).Error().Msg("payment event without orderId, skipping")
		c.count(topic, "malformed")
		return
	}

	// The dedup claim fails open: the store-level upsert keeps redelivery
	// safe even when redis is down.
	claimed := false
	if c.deduper != nil {
		first, err := c.deduper.FirstDelivery(ctx, event.DedupKey())
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("dedup check failed, processing anyway")
		} else if !first {
			logger.Ctx(ctx).Info().Str("order_id", event.OrderID).
				Msg("duplicate payment event, skipping")
			c.count(topic, "duplicate")
			return
		} else {
			claimed = true
		}
	}

	if err := c.service.PaidOrder(ctx, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).
			Msg("payment reconciliation failed")
		// Give the claim back so the broker's redelivery is processed
		// instead of being skipped as a duplicate.
		if claimed {
			if relErr := c.deduper.Release(ctx, event.DedupKey()); relErr != nil {
				logger.Ctx(ctx).Warn().Err(relErr).Str("order_id", event.OrderID).
					Msg("could not release dedup claim after failure")
			}
		}
		c.count(topic, "failed")
		return
	}
	c.count(topic, "processed")
}

func (c *PaymentEventConsumer) count(topic, outcome string) {
	if c.metrics != nil {
		c.metrics.Events.WithLabelValues(topic, outcome).Inc()
	}
}
