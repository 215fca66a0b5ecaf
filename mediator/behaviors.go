package mediator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/akriventsev/margherita/core"
)

// Logger интерфейс логирования для behaviors
type Logger interface {
	Printf(format string, args ...interface{})
}

type stdLogger struct{}

func (stdLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// LoggingBehavior логирует начало и завершение каждого запроса
// с длительностью и статусом.
type LoggingBehavior struct {
	logger Logger
}

// NewLoggingBehavior создает behavior логирования
func NewLoggingBehavior() *LoggingBehavior {
	return &LoggingBehavior{logger: stdLogger{}}
}

// WithLogger устанавливает логгер
func (b *LoggingBehavior) WithLogger(logger Logger) *LoggingBehavior {
	b.logger = logger
	return b
}

// Handle реализует интерфейс Behavior
func (b *LoggingBehavior) Handle(ctx context.Context, req RequestInfo, next Next) Result {
	b.logger.Printf("mediator: %s %s started", req.Kind, req.Name)
	start := time.Now()

	result := next(ctx)

	if result.IsErr() {
		b.logger.Printf("mediator: %s %s failed after %s: %v", req.Kind, req.Name, time.Since(start), result.Error)
	} else {
		b.logger.Printf("mediator: %s %s completed in %s", req.Kind, req.Name, time.Since(start))
	}

	return result
}

// RecoveryBehavior перехватывает панику обработчика и превращает ее
// в неуспешный Result с внутренней ошибкой, не роняя процесс.
type RecoveryBehavior struct {
	logger Logger
}

// NewRecoveryBehavior создает behavior восстановления после паники
func NewRecoveryBehavior() *RecoveryBehavior {
	return &RecoveryBehavior{logger: stdLogger{}}
}

// WithLogger устанавливает логгер
func (b *RecoveryBehavior) WithLogger(logger Logger) *RecoveryBehavior {
	b.logger = logger
	return b
}

// Handle реализует интерфейс Behavior
func (b *RecoveryBehavior) Handle(ctx context.Context, req RequestInfo, next Next) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Printf("mediator: %s %s panicked: %v", req.Kind, req.Name, r)
			result = core.Err[any](core.NewInternalError(fmt.Sprintf("panic in %s handler: %v", req.Name, r)))
		}
	}()

	return next(ctx)
}
