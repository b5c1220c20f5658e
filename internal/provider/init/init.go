// Package init handles provider initialization to avoid import cycles
package init

import (
	"fmt"

	"github.com/Digital-Shane/tvrename/internal/provider"
	"github.com/Digital-Shane/tvrename/internal/provider/omdb"
	"github.com/Digital-Shane/tvrename/internal/provider/tmdb"
	"github.com/Digital-Shane/tvrename/internal/provider/tvdb"
)

// LoadBuiltinProviders registers the built-in catalogs with the global registry.
// It is safe to call more than once.
func LoadBuiltinProviders() error {
	return RegisterBuiltins(provider.GlobalRegistry)
}

// RegisterBuiltins registers the built-in catalogs with registry.
func RegisterBuiltins(registry *provider.Registry) error {
	builtins := []struct {
		p        provider.Provider
		priority int
	}{
		{tvdb.New(), 100},
		{tmdb.New(), 50},
		{omdb.New(), 25},
	}

	for _, b := range builtins {
		if _, exists := registry.Get(b.p.Name()); exists {
			continue
		}
		if err := registry.Register(b.p.Name(), b.p, b.priority); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", b.p.Name(), err)
		}
	}
	return nil
}
