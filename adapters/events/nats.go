package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/akriventsev/margherita/events"
)

// RetryConfig политика повторов публикации
type RetryConfig struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig возвращает политику повторов по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// NATSRelayConfig конфигурация NATS-релея
type NATSRelayConfig struct {
	Conn          *nats.Conn
	SubjectPrefix string
	RetryPolicy   RetryConfig
}

// Validate проверяет корректность конфигурации
func (c NATSRelayConfig) Validate() error {
	if c.Conn == nil {
		return fmt.Errorf("NATS connection is required")
	}
	if c.SubjectPrefix == "" {
		return fmt.Errorf("SubjectPrefix cannot be empty")
	}
	return nil
}

// DefaultNATSRelayConfig возвращает конфигурацию NATS-релея по умолчанию
func DefaultNATSRelayConfig() NATSRelayConfig {
	return NATSRelayConfig{
		SubjectPrefix: "events",
		RetryPolicy:   DefaultRetryConfig(),
	}
}

// NATSRelay публикует доменные события в NATS.
// Subject формируется как {prefix}.{event_type}.
type NATSRelay struct {
	config NATSRelayConfig
	conn   *nats.Conn
}

// NewNATSRelay создает новый NATS-релей
func NewNATSRelay(config NATSRelayConfig) (*NATSRelay, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid NATS relay config: %w", err)
	}
	return &NATSRelay{
		config: config,
		conn:   config.Conn,
	}, nil
}

// Publish публикует событие с повторами
func (r *NATSRelay) Publish(ctx context.Context, event events.Event) error {
	data, err := Envelope(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", r.config.SubjectPrefix, event.EventType())

	retry := r.config.RetryPolicy
	delay := retry.InitialDelay

	for attempt := 0; attempt < retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * retry.BackoffMultiplier)
			if delay > retry.MaxDelay {
				delay = retry.MaxDelay
			}
		}

		if err := r.conn.Publish(subject, data); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to publish event %s after %d attempts",
		event.EventID(), retry.MaxAttempts)
}
