package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/johnny-papercut/fantasy/internal/pkg/config"
	"github.com/johnny-papercut/fantasy/internal/pkg/models"
)

// Factory builds a provider adapter from the ingest configuration.
type Factory func(cfg *config.IngestConfig) Provider

var (
	registryMu sync.RWMutex
	registry   = map[models.ProviderKind]Factory{}
)

// Register installs a factory for a provider kind. Adapters call this from
// init(); importing an adapter package is what makes its kind available.
func Register(kind models.ProviderKind, f Factory) {
	if kind == "" {
		panic("provider: empty kind in Register")
	}
	if f == nil {
		panic("provider: nil factory in Register for " + string(kind))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[kind]; exists {
		panic("provider: duplicate registration for " + string(kind))
	}
	registry[kind] = f
}

// ForKind returns the factory registered for a provider kind.
func ForKind(kind models.ProviderKind) (Factory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[kind]
	if !ok {
		available := make([]models.ProviderKind, 0, len(registry))
		for k := range registry {
			available = append(available, k)
		}
		sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })
		return nil, fmt.Errorf("provider: unknown kind %q (available: %v)", kind, available)
	}
	return f, nil
}

// AvailableKinds lists the registered provider kinds, sorted.
func AvailableKinds() []models.ProviderKind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]models.ProviderKind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
