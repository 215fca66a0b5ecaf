// Package mediator предоставляет реестр для управления обработчиками команд и запросов.
package mediator

import (
	"fmt"
	"sync"
	"time"
)

// Registry реестр команд и запросов.
// Для каждого типа запроса допускается ровно один обработчик:
// повторная регистрация отклоняется.
type Registry struct {
	mu              sync.RWMutex
	commandHandlers map[string]CommandHandler
	queryHandlers   map[string]QueryHandler
	handlerStats    map[string]*HandlerStats
}

// HandlerStats статистика по обработчику
type HandlerStats struct {
	RegisteredAt int64
	Type         string
}

// NewRegistry создает новый реестр
func NewRegistry() *Registry {
	return &Registry{
		commandHandlers: make(map[string]CommandHandler),
		queryHandlers:   make(map[string]QueryHandler),
		handlerStats:    make(map[string]*HandlerStats),
	}
}

// RegisterCommandHandler регистрирует обработчик команды
func (r *Registry) RegisterCommandHandler(handler CommandHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	commandName := handler.CommandName()
	if _, exists := r.commandHandlers[commandName]; exists {
		return fmt.Errorf("command handler already registered: %s", commandName)
	}

	r.commandHandlers[commandName] = handler
	r.handlerStats[commandName] = &HandlerStats{
		RegisteredAt: time.Now().Unix(),
		Type:         "command",
	}

	return nil
}

// RegisterQueryHandler регистрирует обработчик запроса
func (r *Registry) RegisterQueryHandler(handler QueryHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	queryName := handler.QueryName()
	if _, exists := r.queryHandlers[queryName]; exists {
		return fmt.Errorf("query handler already registered: %s", queryName)
	}

	r.queryHandlers[queryName] = handler
	r.handlerStats[queryName] = &HandlerStats{
		RegisteredAt: time.Now().Unix(),
		Type:         "query",
	}

	return nil
}

// UnregisterCommandHandler удаляет обработчик команды
func (r *Registry) UnregisterCommandHandler(commandName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commandHandlers[commandName]; !exists {
		return fmt.Errorf("command handler not found: %s", commandName)
	}

	delete(r.commandHandlers, commandName)
	delete(r.handlerStats, commandName)

	return nil
}

// UnregisterQueryHandler удаляет обработчик запроса
func (r *Registry) UnregisterQueryHandler(queryName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.queryHandlers[queryName]; !exists {
		return fmt.Errorf("query handler not found: %s", queryName)
	}

	delete(r.queryHandlers, queryName)
	delete(r.handlerStats, queryName)

	return nil
}

// GetCommandHandler возвращает обработчик команды
func (r *Registry) GetCommandHandler(commandName string) (CommandHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.commandHandlers[commandName]
	return handler, exists
}

// GetQueryHandler возвращает обработчик запроса
func (r *Registry) GetQueryHandler(queryName string) (QueryHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.queryHandlers[queryName]
	return handler, exists
}

// GetAllCommandHandlers возвращает все зарегистрированные обработчики команд
func (r *Registry) GetAllCommandHandlers() map[string]CommandHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]CommandHandler)
	for k, v := range r.commandHandlers {
		result[k] = v
	}
	return result
}

// GetAllQueryHandlers возвращает все зарегистрированные обработчики запросов
func (r *Registry) GetAllQueryHandlers() map[string]QueryHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]QueryHandler)
	for k, v := range r.queryHandlers {
		result[k] = v
	}
	return result
}

// GetStats возвращает статистику по зарегистрированным обработчикам
func (r *Registry) GetStats() map[string]*HandlerStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*HandlerStats)
	for k, v := range r.handlerStats {
		result[k] = v
	}
	return result
}
