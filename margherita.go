// Package margherita предоставляет ядро демонстрационного сервиса заказа пиццы:
// CQRS медиатор с цепочкой pipeline behaviors, Event Sourced агрегаты
// и Unit of Work для доставки доменных событий после фиксации изменений.
//
// Основные возможности:
//   - Медиатор команд и запросов с ровно одним обработчиком на тип запроса
//   - Pipeline behaviors: трассировка, диспетчеризация доменных событий, метрики
//   - Агрегат заказа с конечным автоматом жизненного цикла
//   - Unit of Work с доставкой событий ровно один раз после успешной записи
//   - Репозитории: in-memory и PostgreSQL
//
// Пример использования:
//
//	med := mediator.New(registry, mediator.WithBehaviors(...))
//	res := med.Execute(ctx, orders.PlaceOrderCommand{...})
//	if res.IsErr() {
//	    log.Fatal(res.Error)
//	}
package margherita

// Version представляет версию библиотеки
const (
	Version = "1.0.0"
	Major   = 1
	Minor   = 0
	Patch   = 0
)

// Metadata содержит метаданные о библиотеке
type Metadata struct {
	Name        string
	Version     string
	Description string
	Author      string
	License     string
}

// GetMetadata возвращает метаданные библиотеки
func GetMetadata() Metadata {
	return Metadata{
		Name:        "Margherita",
		Version:     Version,
		Description: "Pizza ordering core built on CQRS, Event Sourcing and Unit of Work",
		Author:      "Margherita Team",
		License:     "MIT",
	}
}
