package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/akriventsev/margherita/events"
)

// KafkaRelayConfig конфигурация Kafka-релея
type KafkaRelayConfig struct {
	Brokers       []string
	Topic         string
	Compression   string // none, gzip, snappy, lz4, zstd
	BatchSize     int
	FlushInterval time.Duration
}

// Validate проверяет корректность конфигурации
func (c KafkaRelayConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("Brokers cannot be empty")
	}
	if c.Topic == "" {
		return fmt.Errorf("Topic cannot be empty")
	}
	return nil
}

// DefaultKafkaRelayConfig возвращает конфигурацию Kafka-релея по умолчанию
func DefaultKafkaRelayConfig() KafkaRelayConfig {
	return KafkaRelayConfig{
		Brokers:       []string{"localhost:9092"},
		Topic:         "order-events",
		Compression:   "snappy",
		BatchSize:     100,
		FlushInterval: 10 * time.Millisecond,
	}
}

// KafkaRelay публикует доменные события в Kafka. Ключ сообщения -
// идентификатор агрегата: hash partitioning сохраняет порядок событий
// одного заказа.
type KafkaRelay struct {
	config KafkaRelayConfig
	writer *kafka.Writer
}

// NewKafkaRelay создает новый Kafka-релей
func NewKafkaRelay(config KafkaRelayConfig) (*KafkaRelay, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Kafka relay config: %w", err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    config.BatchSize,
		BatchTimeout: config.FlushInterval,
		Compression:  kafkaCompression(config.Compression),
		WriteTimeout: 10 * time.Second,
	}

	return &KafkaRelay{
		config: config,
		writer: writer,
	}, nil
}

func kafkaCompression(compression string) kafka.Compression {
	switch compression {
	case "gzip":
		return kafka.Gzip
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return 0
	}
}

// Publish публикует событие
func (r *KafkaRelay) Publish(ctx context.Context, event events.Event) error {
	data, err := Envelope(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.AggregateID()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "event_id", Value: []byte(event.EventID())},
		},
	}

	if err := r.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventID(), err)
	}
	return nil
}

// Close закрывает writer
func (r *KafkaRelay) Close() error {
	return r.writer.Close()
}
