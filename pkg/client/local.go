package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Local serves a schema from a local source and accepts every registration.
// It backs offline mode and tests that do not need HTTP.
type Local struct {
	loader *schema.Loader
	source schema.Source

	mu    sync.Mutex
	users map[string]string
}

// NewLocal returns a Local client reading src through loader. A nil loader
// reads plain files only.
func NewLocal(loader *schema.Loader, src schema.Source) *Local {
	if loader == nil {
		loader = schema.NewLoader()
	}
	return &Local{
		loader: loader,
		source: src,
		users:  make(map[string]string),
	}
}

// CreateUser records the registration.
func (l *Local) CreateUser(ctx context.Context, rollNumber, name string) error {
	if err := ctx.Err(); err != nil {
		return &RequestError{Op: OpCreateUser, Err: err}
	}
	if rollNumber == "" || name == "" {
		return &RequestError{Op: OpCreateUser, Err: errors.New("rollNumber and name are required")}
	}
	l.mu.Lock()
	l.users[rollNumber] = name
	l.mu.Unlock()
	return nil
}

// GetForm loads the configured source for a registered roll number. Like
// the remote service it answers 404 for roll numbers it has not seen.
func (l *Local) GetForm(ctx context.Context, rollNumber string) (schema.Form, error) {
	if _, ok := l.Registered(rollNumber); !ok {
		return schema.Form{}, &RequestError{Op: OpGetForm, StatusCode: http.StatusNotFound, Err: errors.New("user not registered")}
	}
	form, err := l.loader.Load(ctx, l.source)
	if err != nil {
		return schema.Form{}, &RequestError{Op: OpGetForm, Err: err}
	}
	return form.Sanitized(), nil
}

// Registered reports the name recorded for rollNumber.
func (l *Local) Registered(rollNumber string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name, ok := l.users[rollNumber]
	return name, ok
}
