// Package mediator предоставляет behavior трассировки на основе OpenTelemetry.
package mediator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingBehavior открывает span перед вызовом продолжения и закрывает его
// после, записывая статус. Неуспешный Result обработчика фиксируется
// как ошибка span, но продолжает распространяться как Result.
type TracingBehavior struct {
	tracer trace.Tracer
}

// NewTracingBehavior создает behavior трассировки
func NewTracingBehavior() *TracingBehavior {
	return &TracingBehavior{
		tracer: otel.Tracer("margherita.mediator"),
	}
}

// Handle реализует интерфейс Behavior
func (b *TracingBehavior) Handle(ctx context.Context, req RequestInfo, next Next) Result {
	ctx, span := b.tracer.Start(ctx, fmt.Sprintf("%s.%s", req.Kind, req.Name))
	defer span.End()

	span.SetAttributes(
		attribute.String("request.kind", string(req.Kind)),
		attribute.String("request.name", req.Name),
	)

	result := next(ctx)

	if result.IsErr() {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, result.Error.Error())
		span.SetAttributes(
			attribute.Bool("request.success", false),
			attribute.String("request.error_kind", string(result.ErrorKind())),
		)
	} else {
		span.SetStatus(codes.Ok, "")
		span.SetAttributes(attribute.Bool("request.success", true))
	}

	return result
}
