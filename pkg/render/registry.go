package render

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Registry stores submission encoders by name.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// NewDefaultRegistry returns a registry holding the json, form, pretty and
// receipt encoders.
func NewDefaultRegistry() (*Registry, error) {
	receipt, err := NewReceiptEncoder(nil)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, enc := range []Encoder{JSONEncoder{}, FormEncoder{}, PrettyEncoder{}, receipt} {
		if err := r.Register(enc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an encoder by its Name(). Duplicate names return an error.
func (r *Registry) Register(encoder Encoder) error {
	if encoder == nil {
		return fmt.Errorf("render: encoder is required")
	}
	name := encoder.Name()
	if name == "" {
		return fmt.Errorf("render: encoder name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encoders[name]; exists {
		return fmt.Errorf("render: encoder %q already registered", name)
	}
	r.encoders[name] = encoder
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(encoder Encoder) {
	if err := r.Register(encoder); err != nil {
		panic(err)
	}
}

// Get retrieves an encoder by name.
func (r *Registry) Get(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encoder, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("render: encoder %q not found (have %v)", name, r.namesLocked())
	}
	return encoder, nil
}

// Has reports whether an encoder is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.encoders[name]
	return ok
}

// List returns the sorted encoder names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Encode looks up name and encodes the submission with it.
func (r *Registry) Encode(ctx context.Context, name string, f schema.Form, submission form.Submission) ([]byte, error) {
	encoder, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return encoder.Encode(ctx, f, submission)
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
