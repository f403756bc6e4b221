package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
	ContactCreated = "contact_created"
	ContactUpdated = "contact_updated"
	ContactDeleted = "contact_deleted"
	BannerCreated  = "banner_created"
	BannerDeleted  = "banner_deleted"
)

// Event is a catalog change notification for downstream consumers.
type Event struct {
	Type string    `json:"type"`
	ID   uint      `json:"id"`
	Name string    `json:"name,omitempty"`
	At   time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer publishes one message per write; a short batch timeout keeps Publish from
// holding the request for kafka-go's default second.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}}
}

func message(e Event) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{Key: []byte(strconv.FormatUint(uint64(e.ID), 10)), Value: data, Time: e.At}, nil
}

func (p *Producer) Publish(ctx context.Context, e Event) error {
	msg, err := message(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
