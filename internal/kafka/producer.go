package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fxrhxn/risk-var/internal/models"
)

// Producer handles publishing risk events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishVarComputed publishes an event for a completed VaR computation
func (p *Producer) PublishVarComputed(ctx context.Context, method string, confidence, result float64) error {
	event := models.RiskEvent{
		EventType:  models.EventVarComputed,
		Method:     method,
		Confidence: confidence,
		Var:        result,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, method, event)
}

// PublishReturnsFetched publishes an event for a derived return series
func (p *Producer) PublishReturnsFetched(ctx context.Context, ticker string, points int) error {
	event := models.RiskEvent{
		EventType: models.EventReturnsFetched,
		Ticker:    ticker,
		Points:    points,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, ticker, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.RiskEvent) error {
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

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
