package experiment

import (
	"fmt"

	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/physics"
)

// ProviderFunc builds an equation from a configuration.
type ProviderFunc func(cfg *config.Config) (physics.Provider, error)

type Registry struct {
	providers map[dynamo.Family]ProviderFunc
}

func NewRegistry() *Registry {
	r := &Registry{providers: make(map[dynamo.Family]ProviderFunc)}
	for _, f := range dynamo.Families {
		r.Register(f, func(cfg *config.Config) (physics.Provider, error) {
			return cfg.ProviderFor(f)
		})
	}
	return r
}

// Register replaces the provider of a family.
func (r *Registry) Register(f dynamo.Family, fn ProviderFunc) {
	r.providers[f] = fn
}

func (r *Registry) Provider(f dynamo.Family, cfg *config.Config) (physics.Provider, error) {
	fn, ok := r.providers[f]
	if !ok {
		return nil, dynamo.Invalid("unknown equation family %q", f)
	}
	p, err := fn(cfg)
	if err != nil {
		return nil, err
	}
	if p.Family() != f {
		return nil, fmt.Errorf("provider for %s reports family %s: %w", f, p.Family(), dynamo.ErrShapeMismatch)
	}
	return p, nil
}
