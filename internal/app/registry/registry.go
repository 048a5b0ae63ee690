// Package registry maps driver names from configuration to constructors.
// Drivers register themselves from init() in their own packages.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/medeiros-dev/notification-decision/configs"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/audit"
	"github.com/medeiros-dev/notification-decision/internal/domain/port/store"
)

type StoreFactory func(cfg *configs.Config) (store.PreferencesStore, error)

type RecorderFactory func(cfg *configs.Config) (audit.Recorder, error)

var (
	storeFactories    = make(map[string]StoreFactory)
	recorderFactories = make(map[string]RecorderFactory)
	registryMutex     sync.RWMutex
)

func RegisterStoreFactory(name string, factory StoreFactory) error {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if _, exists := storeFactories[name]; exists {
		return fmt.Errorf("store factory already registered: %s", name)
	}
	storeFactories[name] = factory
	return nil
}

func GetStoreFactory(name string) (StoreFactory, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	factory, exists := storeFactories[name]
	if !exists {
		return nil, fmt.Errorf("no store factory registered for name: %s", name)
	}
	return factory, nil
}

func RegisterRecorderFactory(name string, factory RecorderFactory) error {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if _, exists := recorderFactories[name]; exists {
		return fmt.Errorf("audit recorder factory already registered: %s", name)
	}
	recorderFactories[name] = factory
	return nil
}

func GetRecorderFactory(name string) (RecorderFactory, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	factory, exists := recorderFactories[name]
	if !exists {
		return nil, fmt.Errorf("no audit recorder factory registered for name: %s", name)
	}
	return factory, nil
}

// StoreDrivers lists registered store drivers, sorted.
func StoreDrivers() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	names := make([]string, 0, len(storeFactories))
	for name := range storeFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
