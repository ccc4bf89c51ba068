package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bazaarHub/pkg/logger"

	"github.com/IBM/sarama"
)

const (
	PayoutRecordedTopic     = "payout.recorded"
	OrderStatusChangedTopic = "order.status_changed"
)

type PayoutRecordedEvent struct {
	PayoutID   uint      `json:"payout_id"`
	Reference  string    `json:"reference"`
	VendorID   uint      `json:"vendor_id"`
	NetPayable float64   `json:"net_payable"`
	AmountPaid *float64  `json:"amount_paid"`
	Paid       bool      `json:"paid"`
	CreatedBy  uint      `json:"created_by"`
	EventTime  time.Time `json:"event_time"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint      `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	VendorIDs []uint    `json:"vendor_ids"`
	ChangedBy uint      `json:"changed_by"`
	EventTime time.Time `json:"event_time"`
}

type KafkaProducer struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

func NewKafkaProducer(brokers []string, topicPrefix string) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewKafkaProducerWith(producer, topicPrefix), nil
}

// NewKafkaProducerWith wraps an existing producer.
func NewKafkaProducerWith(producer sarama.SyncProducer, topicPrefix string) *KafkaProducer {
	return &KafkaProducer{
		producer:    producer,
		topicPrefix: topicPrefix,
	}
}

func (p *KafkaProducer) topic(name string) string {
	if p.topicPrefix == "" {
		return name
	}
	return p.topicPrefix + "." + name
}

func (p *KafkaProducer) PublishPayoutRecorded(ctx context.Context, event PayoutRecordedEvent) error {
	event.EventTime = time.Now()
	return p.send(ctx, PayoutRecordedTopic, fmt.Sprint(event.VendorID), event)
}

func (p *KafkaProducer) PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error {
	event.EventTime = time.Now()
	return p.send(ctx, OrderStatusChangedTopic, fmt.Sprint(event.OrderID), event)
}

func (p *KafkaProducer) send(ctx context.Context, name, key string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic(name),
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		logger.Error("Failed to send message to Kafka", "topic", msg.Topic, err)
		return err
	}

	logger.Debug("Event published to Kafka", "topic", msg.Topic, "partition", partition, "offset", offset, "key", key)

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops every event; used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPayoutRecorded(context.Context, PayoutRecordedEvent) error { return nil }

func (NoopPublisher) PublishOrderStatusChanged(context.Context, OrderStatusChangedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
