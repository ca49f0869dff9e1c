package repository

import (
	"context"
	"encoding/json"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinQuote/internal/domain/models"
	"FinQuote/pkg/kafka"
)

type memWriter struct {
	msgs []segkafka.Message
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error { return nil }

func TestKafkaPublisher_Quotes(t *testing.T) {
	w := &memWriter{}
	pub := NewKafkaPublisher(kafka.NewProducerWithWriter(w, "gzip"), "q", "d")

	err := pub.PublishQuotes(context.Background(), []models.Quote{
		{Symbol: "AAPL", Price: 1},
		{Symbol: "005930", Price: 2},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "q", w.msgs[0].Topic)
	assert.Equal(t, []byte("005930"), w.msgs[1].Key)

	var q models.Quote
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &q))
	assert.Equal(t, 2.0, q.Price)

	require.NoError(t, pub.PublishQuotes(context.Background(), nil))
	assert.Len(t, w.msgs, 2)
}

func TestKafkaPublisher_Decision(t *testing.T) {
	w := &memWriter{}
	pub := NewKafkaPublisher(kafka.NewProducerWithWriter(w, "gzip"), "q", "d")

	report := &models.DecisionReport{Symbol: "AAPL", Decision: models.AgentDecision{Signal: models.SignalBuy}}
	require.NoError(t, pub.PublishDecision(context.Background(), report))
	require.NoError(t, pub.PublishDecision(context.Background(), nil))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "d", w.msgs[0].Topic)
	assert.Contains(t, string(w.msgs[0].Value), `"signal":"BUY"`)
	require.NoError(t, pub.Close())
}
