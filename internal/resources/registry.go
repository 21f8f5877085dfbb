package resources

import (
	"fmt"
	"sort"
	"sync"
)

// Registry — реестр бэкендов по имени драйвера.
//
// Позволяет регистрировать и получать фабрики по имени.
// Потокобезопасен.
type Registry[F any] struct {
	mu        sync.RWMutex
	factories map[string]F
}

// NewRegistry создаёт пустой реестр.
func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{
		factories: make(map[string]F),
	}
}

// Register регистрирует фабрику.
// Если фабрика с таким именем уже существует, она будет перезаписана.
func (r *Registry[F]) Register(driver string, factory F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[driver] = factory
}

// Get возвращает фабрику по имени.
// Возвращает ErrUnknownDriver, если драйвер не найден.
func (r *Registry[F]) Get(driver string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[driver]
	if !exists {
		var zero F
		return zero, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	return factory, nil
}

// Has проверяет, зарегистрирован ли драйвер.
func (r *Registry[F]) Has(driver string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[driver]
	return exists
}

// Drivers возвращает отсортированный список драйверов.
func (r *Registry[F]) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]string, 0, len(r.factories))
	for d := range r.factories {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	return drivers
}
