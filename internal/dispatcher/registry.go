package dispatcher

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-bridge/models"
)

// Handler executes one action and returns its payload. A nil payload with a
// nil error is a bare acknowledgement.
type Handler func(ctx context.Context, req models.ActionRequest) (any, error)

// Registry maps action names to handlers. It is filled while the application
// is wired and only read afterwards, so lookups take no lock.
type Registry struct {
	handlers map[models.ActionName]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[models.ActionName]Handler)}
}

// Register binds name to handler, replacing any previous binding.
func (r *Registry) Register(name models.ActionName, handler Handler) {
	r.handlers[name] = handler
}

// Resolve returns the handler for name or an error wrapping ErrUnknownAction.
func (r *Registry) Resolve(name models.ActionName) (Handler, error) {
	handler, ok := r.handlers[name]
	if !ok || handler == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return handler, nil
}

// Names lists the registered action names.
func (r *Registry) Names() []models.ActionName {
	names := make([]models.ActionName, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
