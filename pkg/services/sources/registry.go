package sources

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/rs/zerolog"
)

// Factory opens a statement source for a resolved configuration.
type Factory func(ctx context.Context, cfg *config.Config) (statements.Source, io.Closer, error)

// Registry manages statement source factories by name
type Registry interface {
	// Register adds a new source factory
	Register(name string, factory Factory) error
	// Create opens the source registered under name
	Create(ctx context.Context, name string, cfg *config.Config) (statements.Source, io.Closer, error)
	// ListSources returns the registered source names in sorted order
	ListSources() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty source registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry with the API and snapshot sources.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(config.SourceFMP, NewRemote)
	_ = r.Register(config.SourceDuckDB, func(_ context.Context, cfg *config.Config) (statements.Source, io.Closer, error) {
		return OpenStore(cfg)
	})
	return r
}

func (r *registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// Create opens the named source. A factory that hands back no closer gets a
// no-op one so callers can always defer Close.
func (r *registry) Create(ctx context.Context, name string, cfg *config.Config) (statements.Source, io.Closer, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, nil, fmt.Errorf("unsupported source %q, expected one of %v", name, r.ListSources())
	}

	source, closer, err := factory(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s source: %w", name, err)
	}
	if source == nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, fmt.Errorf("source %q factory returned no source", name)
	}
	if closer == nil {
		closer = nopCloser{}
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", name).
		Str("symbol", cfg.API.Symbol).
		Msg("statement source opened")
	return source, closer, nil
}

func (r *registry) ListSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
