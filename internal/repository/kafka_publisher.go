package repository

import (
	"context"
	"fmt"

	"FinQuote/internal/domain/models"
	domrepo "FinQuote/internal/domain/repository"
	"FinQuote/pkg/kafka"
)

// BatchProducer is the part of the Kafka producer the publisher uses.
type BatchProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []kafka.Message) error
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaPublisher emits quote snapshots and decisions keyed by symbol so a
// hash-balanced writer keeps per-symbol ordering.
type KafkaPublisher struct {
	producer       BatchProducer
	quotesTopic    string
	decisionsTopic string
}

var _ domrepo.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(p BatchProducer, quotesTopic, decisionsTopic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, quotesTopic: quotesTopic, decisionsTopic: decisionsTopic}
}

func (k *KafkaPublisher) PublishQuotes(ctx context.Context, quotes []models.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, len(quotes))
	for i := range quotes {
		msgs[i] = kafka.Message{Key: []byte(quotes[i].Symbol), Value: quotes[i]}
	}
	if err := k.producer.PublishBatch(ctx, k.quotesTopic, msgs); err != nil {
		return fmt.Errorf("publish quotes: %w", err)
	}
	return nil
}

func (k *KafkaPublisher) PublishDecision(ctx context.Context, report *models.DecisionReport) error {
	if report == nil {
		return nil
	}
	if err := k.producer.Publish(ctx, k.decisionsTopic, []byte(report.Symbol), report); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
