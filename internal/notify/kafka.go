package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/kmorten/price-tracker/internal/models"
)

// Producer publishes price events to Kafka, keyed by product URL.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer, topic: topic}
}

// PublishPriceRecorded publishes an event for a freshly recorded row.
func (p *Producer) PublishPriceRecorded(ctx context.Context, rec models.Record) error {
	event := models.PriceEvent{
		EventType:   models.EventPriceRecorded,
		URL:         rec.URL,
		ProductName: rec.ProductName,
		Date:        rec.Date.Format(models.DateLayout),
		Price:       rec.Price,
		Timestamp:   time.Now(),
	}
	return p.publish(ctx, rec.URL, event)
}

// PublishFetchFailed publishes an event for a failed fetch.
func (p *Producer) PublishFetchFailed(ctx context.Context, url string, day time.Time) error {
	event := models.PriceEvent{
		EventType: models.EventFetchFailed,
		URL:       url,
		Date:      day.Format(models.DateLayout),
		Timestamp: time.Now(),
	}
	return p.publish(ctx, url, event)
}

// PublishPriceDrop publishes an event when today's price undercuts
// yesterday's.
func (p *Producer) PublishPriceDrop(ctx context.Context, url, name string, day time.Time, today, yesterday decimal.Decimal) error {
	event := models.PriceEvent{
		EventType:     models.EventPriceDrop,
		URL:           url,
		ProductName:   name,
		Date:          day.Format(models.DateLayout),
		Price:         models.FormatPrice(today),
		PreviousPrice: models.FormatPrice(yesterday),
		Timestamp:     time.Now(),
	}
	return p.publish(ctx, url, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.PriceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Close closes the Kafka producer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
