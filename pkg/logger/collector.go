package logger

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Publisher ships a flushed DigestBatch. The Kafka producer satisfies it.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	Interval    time.Duration // window length, 30s when zero
	MaxDistinct int           // distinct errors that force an early flush, 100 when zero
	Topic       string
	Environment string
	Publisher   Publisher
}

// ErrorDigest is one repeated error inside a flush window. Errors group by
// level, caller, message, symbol and source; other fields are kept from
// the first occurrence only, so varying error text does not split a group.
type ErrorDigest struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Symbol    string                 `json:"symbol,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Caller    string                 `json:"caller"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// DigestBatch is the payload published per window, most frequent first.
type DigestBatch struct {
	Environment string        `json:"environment,omitempty"`
	WindowStart time.Time     `json:"window_start"`
	WindowEnd   time.Time     `json:"window_end"`
	Entries     []ErrorDigest `json:"entries"`
}

const (
	defaultWindow      = 30 * time.Second
	defaultMaxDistinct = 100
	defaultLogTopic    = "finquote.logs"
	publishTimeout     = 10 * time.Second
)

// LogCollector folds repeated error logs into per-window digests.
type LogCollector struct {
	cfg CollectionConfig

	mu          sync.Mutex
	digests     map[string]*ErrorDigest
	windowStart time.Time

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	cfg := *config
	if cfg.Interval <= 0 {
		cfg.Interval = defaultWindow
	}
	if cfg.MaxDistinct <= 0 {
		cfg.MaxDistinct = defaultMaxDistinct
	}
	if cfg.Topic == "" {
		cfg.Topic = defaultLogTopic
	}

	c := &LogCollector{
		cfg:         cfg,
		digests:     make(map[string]*ErrorDigest),
		windowStart: time.Now(),
		done:        make(chan struct{}),
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	symbol, source := stringField(fields, "symbol"), stringField(fields, "source")
	key := strings.Join([]string{level, caller, message, symbol, source}, "\x1f")

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.digests[key]; ok {
		d.Count++
		d.LastSeen = now
		return
	}
	c.digests[key] = &ErrorDigest{
		Level:     level,
		Message:   message,
		Symbol:    symbol,
		Source:    source,
		Caller:    caller,
		Fields:    fields,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
	if len(c.digests) >= c.cfg.MaxDistinct {
		c.flushLocked(now)
	}
}

func (c *LogCollector) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.mu.Lock()
			c.flushLocked(now)
			c.mu.Unlock()
		case <-c.done:
			c.mu.Lock()
			c.flushLocked(time.Now())
			c.mu.Unlock()
			return
		}
	}
}

// flushLocked starts a new window and publishes the old one. c.mu must be held.
func (c *LogCollector) flushLocked(now time.Time) {
	if len(c.digests) == 0 {
		c.windowStart = now
		return
	}
	batch := DigestBatch{
		Environment: c.cfg.Environment,
		WindowStart: c.windowStart,
		WindowEnd:   now,
		Entries:     make([]ErrorDigest, 0, len(c.digests)),
	}
	for _, d := range c.digests {
		batch.Entries = append(batch.Entries, *d)
	}
	sort.Slice(batch.Entries, func(i, j int) bool {
		if batch.Entries[i].Count != batch.Entries[j].Count {
			return batch.Entries[i].Count > batch.Entries[j].Count
		}
		return batch.Entries[i].FirstSeen.Before(batch.Entries[j].FirstSeen)
	})
	c.digests = make(map[string]*ErrorDigest)
	c.windowStart = now

	if c.cfg.Publisher == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := c.cfg.Publisher.PublishMessage(ctx, c.cfg.Topic, batch); err != nil {
			// the logger itself may be what is failing
			fmt.Fprintf(os.Stderr, "log digest publish failed: %v\n", err)
		}
	}()
}

// Close flushes the open window and waits for in-flight publishes.
func (c *LogCollector) Close() {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
