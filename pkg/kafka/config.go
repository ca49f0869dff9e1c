package kafka

import (
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerOption configures Producer.
type ProducerOption func(*ProducerConfig)

// ProducerConfig describes how quote, decision and log digest events are
// written. Keyed partitioning keeps every event of one symbol on one
// partition, so consumers see a symbol's quotes in publish order.
type ProducerConfig struct {
	Brokers      []string
	RequiredAcks int // -1 all replicas, 0 none, 1 leader
	Compression  string
	MaxAttempts  int

	WriteTimeout time.Duration
	ReadTimeout  time.Duration

	BatchSize     int
	BatchBytes    int
	Linger        time.Duration
	Async         bool
	KeyedBySymbol bool
	AutoCreate    bool
}

func defaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		RequiredAcks:  -1,
		Compression:   "gzip",
		MaxAttempts:   3,
		WriteTimeout:  10 * time.Second,
		ReadTimeout:   10 * time.Second,
		BatchSize:     100,
		BatchBytes:    1 << 20,
		Linger:        time.Second,
		KeyedBySymbol: true,
	}
}

var errNoBrokers = errors.New("brokers are required")

// Validate rejects settings kafka-go would silently misinterpret.
func (c *ProducerConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return errNoBrokers
	}
	switch c.RequiredAcks {
	case -1, 0, 1:
	default:
		return fmt.Errorf("required acks %d: want -1, 0 or 1", c.RequiredAcks)
	}
	if _, ok := compressionCodecs[c.Compression]; !ok {
		return fmt.Errorf("unknown compression %q", c.Compression)
	}
	return nil
}

var compressionCodecs = map[string]kafka.Compression{
	"none":   0,
	"gzip":   kafka.Gzip,
	"snappy": kafka.Snappy,
	"lz4":    kafka.Lz4,
	"zstd":   kafka.Zstd,
}

func (c *ProducerConfig) newWriter() *kafka.Writer {
	var bal kafka.Balancer = &kafka.LeastBytes{}
	if c.KeyedBySymbol {
		bal = &kafka.Hash{}
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Balancer:               bal,
		RequiredAcks:           kafka.RequiredAcks(c.RequiredAcks),
		Compression:            compressionCodecs[c.Compression],
		MaxAttempts:            c.MaxAttempts,
		WriteTimeout:           c.WriteTimeout,
		ReadTimeout:            c.ReadTimeout,
		BatchSize:              c.BatchSize,
		BatchBytes:             int64(c.BatchBytes),
		BatchTimeout:           c.Linger,
		Async:                  c.Async,
		AllowAutoTopicCreation: c.AutoCreate,
	}
}

func WithBrokers(brokers []string) ProducerOption {
	return func(c *ProducerConfig) { c.Brokers = brokers }
}

// WithDelivery sets acks, codec and writer retries together.
func WithDelivery(acks int, compression string, maxAttempts int) ProducerOption {
	return func(c *ProducerConfig) {
		c.RequiredAcks = acks
		c.Compression = compression
		if maxAttempts > 0 {
			c.MaxAttempts = maxAttempts
		}
	}
}

// WithBatching bounds a batch by message count, bytes and linger time.
// Zero values keep the defaults.
func WithBatching(size, bytes int, linger time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		if size > 0 {
			c.BatchSize = size
		}
		if bytes > 0 {
			c.BatchBytes = bytes
		}
		if linger > 0 {
			c.Linger = linger
		}
	}
}

func WithTimeouts(write, read time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		c.WriteTimeout = write
		c.ReadTimeout = read
	}
}

// WithAsync makes publishes fire-and-forget; write errors are then lost.
func WithAsync(async bool) ProducerOption {
	return func(c *ProducerConfig) { c.Async = async }
}

func WithAutoCreateTopics(v bool) ProducerOption {
	return func(c *ProducerConfig) { c.AutoCreate = v }
}
