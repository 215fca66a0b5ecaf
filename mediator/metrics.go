package mediator

import (
	"context"
	"time"

	"github.com/akriventsev/margherita/metrics"
)

// MetricsBehavior записывает метрики выполнения команд и запросов:
// счетчики по имени и статусу, гистограммы длительности и число
// активных операций.
type MetricsBehavior struct {
	metrics *metrics.Metrics
}

// NewMetricsBehavior создает behavior сбора метрик
func NewMetricsBehavior(m *metrics.Metrics) *MetricsBehavior {
	return &MetricsBehavior{metrics: m}
}

// Handle реализует интерфейс Behavior
func (b *MetricsBehavior) Handle(ctx context.Context, req RequestInfo, next Next) Result {
	start := time.Now()

	switch req.Kind {
	case RequestKindCommand:
		b.metrics.IncrementActiveCommands(ctx)
		defer b.metrics.DecrementActiveCommands(ctx)
	case RequestKindQuery:
		b.metrics.IncrementActiveQueries(ctx)
		defer b.metrics.DecrementActiveQueries(ctx)
	}

	result := next(ctx)
	duration := time.Since(start)

	switch req.Kind {
	case RequestKindCommand:
		b.metrics.RecordCommand(ctx, req.Name, duration, result.IsOk())
	case RequestKindQuery:
		b.metrics.RecordQuery(ctx, req.Name, duration, result.IsOk())
	}

	return result
}
