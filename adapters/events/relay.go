// Package events предоставляет исходящие релеи доменных событий
// во внешние брокеры. Релеи подключаются как обработчики событий:
// их сбои изолируются публикатором и не влияют на исходную команду.
package events

import (
	"encoding/json"
	"time"

	"github.com/akriventsev/margherita/events"
)

// Envelope сериализует событие в транспортный конверт: базовые поля
// события плюс его специфичный payload.
func Envelope(event events.Event) ([]byte, error) {
	envelope := map[string]interface{}{
		"event_id":          event.EventID(),
		"event_type":        event.EventType(),
		"aggregate_id":      event.AggregateID(),
		"aggregate_version": event.AggregateVersion(),
		"occurred_at":       event.OccurredAt().Format(time.RFC3339Nano),
	}

	if metadata := event.Metadata(); len(metadata) > 0 {
		envelope["metadata"] = metadata
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	for k, v := range payload {
		if _, exists := envelope[k]; !exists {
			envelope[k] = v
		}
	}

	return json.Marshal(envelope)
}

// Attach подписывает релей на перечисленные типы событий
func Attach(sub events.EventSubscriber, relay events.EventPublisher, eventTypes ...string) error {
	for _, eventType := range eventTypes {
		handler := &events.EventHandlerFunc{
			Type: eventType,
			Fn:   relay.Publish,
		}
		if err := sub.Subscribe(eventType, handler); err != nil {
			return err
		}
	}
	return nil
}
