// Package events publishes quote lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/config"
)

// TypeQuoteSaved is emitted after a quote snapshot is stored.
const TypeQuoteSaved = "quote.saved"

// Event is the envelope written to the topic.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// QuoteSaved is the payload of a quote.saved event.
type QuoteSaved struct {
	QuoteID    string  `json:"quote_id"`
	Style      string  `json:"style"`
	Method     string  `json:"method"`
	Quantity   int     `json:"quantity"`
	Tier       string  `json:"tier"`
	UnitPrice  float64 `json:"unit_price"`
	OrderTotal float64 `json:"order_total"`
}

// Publisher sends quote events.
type Publisher interface {
	PublishQuoteSaved(ctx context.Context, q QuoteSaved) error
}

// Producer publishes events through a synchronous Kafka producer.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewProducer connects to the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logrus.FieldLogger) (*Producer, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.WithField("brokers", cfg.Brokers).Info("kafka producer connected")
	return &Producer{producer: p, topic: cfg.Topic, log: log, now: time.Now}, nil
}

// PublishQuoteSaved sends a quote.saved event keyed by quote ID.
func (p *Producer) PublishQuoteSaved(ctx context.Context, q QuoteSaved) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote saved payload: %w", err)
	}
	return p.publish(q.QuoteID, Event{ID: uuid.New(), Type: TypeQuoteSaved, Timestamp: p.now().UTC(), Data: data})
}

func (p *Producer) publish(key string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send %s event: %w", event.Type, err)
	}

	p.log.WithFields(logrus.Fields{
		"event_id":  event.ID,
		"type":      event.Type,
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
	}).Debug("event published")
	return nil
}

// Close shuts the producer down. It is safe on a nil or empty producer.
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// Discard drops every event. It is used when Kafka is disabled.
type Discard struct{}

// PublishQuoteSaved implements Publisher.
func (Discard) PublishQuoteSaved(context.Context, QuoteSaved) error { return nil }
