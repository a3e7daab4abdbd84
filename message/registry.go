package message

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// Factory constructs a concrete typed message from a raw envelope mapping.
type Factory func(raw map[string]any) (Envelope, error)

// Registry is a thread-safe dispatch table mapping discriminator values to
// typed message factories. Resolution is a static table lookup: the tag
// alone selects the variant, with no shape-based fallback matching.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a discriminator value to a factory. Registering the same
// value twice is an error.
func (r *Registry) Register(msgType string, factory Factory) error {
	if msgType == "" {
		return fmt.Errorf("register: empty message type")
	}
	if factory == nil {
		return fmt.Errorf("register %q: nil factory", msgType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[msgType]; exists {
		return fmt.Errorf("register %q: already registered", msgType)
	}
	r.factories[msgType] = factory
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(msgType string, factory Factory) {
	if err := r.Register(msgType, factory); err != nil {
		panic(err)
	}
}

// Parse resolves a raw envelope to its registered variant. The
// discriminator is read from `msg_type` or the legacy `type` key; a
// missing discriminator is a MissingField error and an unregistered value
// is UnknownMessageType.
func (r *Registry) Parse(raw map[string]any) (Envelope, error) {
	d := schema.NewDecoder(raw)
	msgType := d.String("msg_type", "type")
	if err := d.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory, ok := r.factories[msgType]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewUnknownMessageType(msgType)
	}
	return factory(raw)
}

// Types returns the registered discriminator values, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
