// Package mediator предоставляет единую точку входа для выполнения команд
// и запросов через цепочку композируемых pipeline behaviors.
package mediator

import (
	"context"

	"github.com/akriventsev/margherita/core"
	"github.com/akriventsev/margherita/unitofwork"
)

// Command представляет команду: типизированный запрос на изменение состояния
type Command interface {
	CommandName() string
}

// Query представляет запрос на чтение
type Query interface {
	QueryName() string
}

// Result результат выполнения команды или запроса
type Result = core.Result[any]

// CommandHandler обработчик команд.
// Нарушения бизнес-правил и отсутствие агрегата возвращаются как
// типизированный Result с ошибкой, а не как panic.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) Result
	CommandName() string
}

// QueryHandler обработчик запросов
type QueryHandler interface {
	Handle(ctx context.Context, q Query) Result
	QueryName() string
}

// RequestKind вид запроса для behaviors и метрик
type RequestKind string

const (
	RequestKindCommand RequestKind = "command"
	RequestKindQuery   RequestKind = "query"
)

// RequestInfo описание выполняемого запроса, доступное behaviors.
// Behaviors не знают конкретных типов команд: это единственная форма,
// которую им разрешено инспектировать наряду с Result.
type RequestInfo struct {
	// Kind вид запроса: команда или запрос на чтение
	Kind RequestKind
	// Name имя конкретного типа запроса
	Name string
	// Request исходный объект запроса
	Request interface{}
	// UnitOfWork область учета событий текущего запроса
	UnitOfWork *unitofwork.UnitOfWork
}

// Next продолжение цепочки behaviors
type Next func(ctx context.Context) Result

// Behavior middleware, оборачивающий выполнение одного запроса.
// Behaviors композируемы и не зависят от конкретного типа запроса.
type Behavior interface {
	Handle(ctx context.Context, req RequestInfo, next Next) Result
}

// BehaviorFunc адаптер функции к интерфейсу Behavior
type BehaviorFunc func(ctx context.Context, req RequestInfo, next Next) Result

func (f BehaviorFunc) Handle(ctx context.Context, req RequestInfo, next Next) Result {
	return f(ctx, req, next)
}
