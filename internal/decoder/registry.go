package decoder

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages decoder backends.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry creates a new decoder registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]Decoder),
	}
}

// Register adds a decoder to the registry.
func (r *Registry) Register(d Decoder) error {
	if d == nil {
		return fmt.Errorf("cannot register nil decoder")
	}
	name := d.Name()
	if name == "" {
		return fmt.Errorf("decoder name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.decoders[name]; exists {
		return fmt.Errorf("decoder already registered: %s", name)
	}

	r.decoders[name] = d
	return nil
}

// Get returns a decoder by name. An empty name selects DefaultName.
func (r *Registry) Get(name string) (Decoder, error) {
	if name == "" {
		name = DefaultName
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decoders[name]
	if !ok {
		return nil, fmt.Errorf("decoder not found: %s", name)
	}
	return d, nil
}

// List returns all registered decoder names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if a decoder is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.decoders[name]
	return ok
}

// DefaultRegistry is the global decoder registry.
var DefaultRegistry = NewRegistry()

// Register adds a decoder to the default registry.
func Register(d Decoder) error {
	return DefaultRegistry.Register(d)
}

// Get returns a decoder from the default registry.
func Get(name string) (Decoder, error) {
	return DefaultRegistry.Get(name)
}

// List returns all decoder names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}

func mustRegister(d Decoder) {
	if err := Register(d); err != nil {
		panic(err)
	}
}
