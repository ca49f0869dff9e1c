package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches []DigestBatch
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.(DigestBatch))
	return nil
}

func (p *capturePublisher) snapshot() (string, []DigestBatch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.topic, p.batches
}

func TestLogCollector_GroupsBySymbolAndSource(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{Interval: time.Hour, Environment: "test", Publisher: pub})

	c.AddLog("error", "upstream failed", map[string]interface{}{"symbol": "AAPL", "source": "yahoo", "error": "timeout"}, "yahoo.go:10")
	c.AddLog("error", "upstream failed", map[string]interface{}{"symbol": "AAPL", "source": "yahoo", "error": "EOF"}, "yahoo.go:10")
	c.AddLog("error", "upstream failed", map[string]interface{}{"symbol": "005930", "source": "naver"}, "yahoo.go:10")
	c.Close()

	topic, batches := pub.snapshot()
	assert.Equal(t, "finquote.logs", topic)
	require.Len(t, batches, 1)

	b := batches[0]
	assert.Equal(t, "test", b.Environment)
	assert.False(t, b.WindowEnd.Before(b.WindowStart))
	require.Len(t, b.Entries, 2)

	// most frequent first; varying error text stays in one group
	assert.Equal(t, "AAPL", b.Entries[0].Symbol)
	assert.Equal(t, "yahoo", b.Entries[0].Source)
	assert.Equal(t, 2, b.Entries[0].Count)
	assert.Equal(t, "timeout", b.Entries[0].Fields["error"])
	assert.Equal(t, "005930", b.Entries[1].Symbol)
	assert.Equal(t, 1, b.Entries[1].Count)
}

func TestLogCollector_MaxDistinctFlushesEarly(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{Interval: time.Hour, MaxDistinct: 2, Publisher: pub})

	c.AddLog("error", "a", nil, "")
	c.AddLog("error", "b", nil, "")
	c.AddLog("error", "c", nil, "")
	c.Close()

	_, batches := pub.snapshot()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Entries, 2)
	require.Len(t, batches[1].Entries, 1)
	assert.Equal(t, "c", batches[1].Entries[0].Message)
}

func TestLogCollector_IntervalFlush(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{Interval: 20 * time.Millisecond, Publisher: pub})
	defer c.Close()

	c.AddLog("error", "tick", nil, "")
	require.Eventually(t, func() bool {
		_, batches := pub.snapshot()
		return len(batches) == 1
	}, time.Second, 5*time.Millisecond)
}

type failingPublisher struct{}

func (failingPublisher) PublishMessage(context.Context, string, interface{}) error {
	return errors.New("broker down")
}

func TestLogCollector_PublishFailureAndNilPublisher(t *testing.T) {
	c := NewLogCollector(&CollectionConfig{Interval: time.Hour, Publisher: failingPublisher{}})
	c.AddLog("error", "lost", nil, "")
	assert.NotPanics(t, c.Close)
	assert.NotPanics(t, c.Close)

	c = NewLogCollector(&CollectionConfig{Interval: time.Hour})
	c.AddLog("error", "dropped", nil, "")
	assert.NotPanics(t, c.Close)
}

func TestLogger_ErrorIsCollected(t *testing.T) {
	pub := &capturePublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{Interval: time.Hour, Publisher: pub})

	l.Error("boom", String("symbol", "AAPL"), String("k", "v"))
	l.Warn("not collected")
	l.RemoveCollector()

	_, batches := pub.snapshot()
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Entries, 1)
	e := batches[0].Entries[0]
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, "AAPL", e.Symbol)
	assert.Equal(t, "v", e.Fields["k"])
}
