package unitofwork

import "context"

type contextKey struct{}

// NewContext возвращает контекст с привязанным Unit of Work.
// Медиатор привязывает новый Unit of Work к каждому запросу.
func NewContext(ctx context.Context, uow *UnitOfWork) context.Context {
	return context.WithValue(ctx, contextKey{}, uow)
}

// FromContext извлекает Unit of Work из контекста запроса
func FromContext(ctx context.Context) (*UnitOfWork, bool) {
	uow, ok := ctx.Value(contextKey{}).(*UnitOfWork)
	return uow, ok
}
