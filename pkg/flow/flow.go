// Package flow sequences the wizard's outer steps: login, registration,
// schema fetch and the resulting form session.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// View is the screen the presentation layer should show.
type View int

const (
	ViewLogin View = iota
	ViewLoading
	ViewForm
	ViewSubmitted
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewLoading:
		return "loading"
	case ViewForm:
		return "form"
	case ViewSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

var (
	// ErrMissingCredentials is returned when the roll number or name is blank.
	ErrMissingCredentials = errors.New("flow: roll number and name are required")
	// ErrWrongView is returned when an action is not offered by the current view.
	ErrWrongView = errors.New("flow: action not available in the current view")
)

// Client is the remote collaborator. *client.Client and *client.Local
// satisfy it.
type Client interface {
	CreateUser(ctx context.Context, rollNumber, name string) error
	GetForm(ctx context.Context, rollNumber string) (schema.Form, error)
}

// Credentials identify the student.
type Credentials struct {
	RollNumber string
	Name       string
}

func (c Credentials) normalized() Credentials {
	return Credentials{
		RollNumber: strings.TrimSpace(c.RollNumber),
		Name:       strings.TrimSpace(c.Name),
	}
}

// Flow holds the outer state of one wizard run.
type Flow struct {
	client      Client
	sessionOpts []form.Option
	logger      *slog.Logger

	view     View
	creds    Credentials
	session  *form.Session
	fetchErr error
}

// Option configures a Flow.
type Option func(*Flow)

// WithSessionOptions forwards options to every form.Session the flow creates.
func WithSessionOptions(options ...form.Option) Option {
	return func(f *Flow) {
		f.sessionOpts = append(f.sessionOpts, options...)
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New starts a flow on the login view.
func New(c Client, options ...Option) *Flow {
	f := &Flow{
		client: c,
		view:   ViewLogin,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f
}

// View returns the current screen.
func (f *Flow) View() View {
	if f.view == ViewForm && f.session != nil && f.session.Submitted() {
		return ViewSubmitted
	}
	return f.view
}

// Credentials returns the registered credentials, empty before a successful
// registration.
func (f *Flow) Credentials() Credentials {
	return f.creds
}

// Session returns the form session, nil until the schema has been fetched.
func (f *Flow) Session() *form.Session {
	return f.session
}

// FetchErr returns the last schema fetch failure while on the loading view.
func (f *Flow) FetchErr() error {
	return f.fetchErr
}

// Login registers the student and, on success, fetches their form. A failed
// registration keeps the login view and retains nothing. A failed fetch
// leaves the flow on the loading view where Retry is offered.
func (f *Flow) Login(ctx context.Context, creds Credentials) error {
	if f.view != ViewLogin {
		return fmt.Errorf("%w: login from %s", ErrWrongView, f.View())
	}
	creds = creds.normalized()
	if creds.RollNumber == "" || creds.Name == "" {
		return ErrMissingCredentials
	}

	if err := f.client.CreateUser(ctx, creds.RollNumber, creds.Name); err != nil {
		f.logger.WarnContext(ctx, "registration failed", slog.String("roll_number", creds.RollNumber), slog.Any("error", err))
		return err
	}
	f.logger.InfoContext(ctx, "registered", slog.String("roll_number", creds.RollNumber))

	f.creds = creds
	f.view = ViewLoading
	return f.fetch(ctx)
}

// Retry repeats the schema fetch after a failure.
func (f *Flow) Retry(ctx context.Context) error {
	if f.view != ViewLoading {
		return fmt.Errorf("%w: retry from %s", ErrWrongView, f.View())
	}
	return f.fetch(ctx)
}

// Reload fetches the schema again and replaces the session wholesale,
// discarding any answers. It is the only way out of the submitted view.
func (f *Flow) Reload(ctx context.Context) error {
	if f.view == ViewLogin {
		return fmt.Errorf("%w: reload from %s", ErrWrongView, f.View())
	}
	f.view = ViewLoading
	f.session = nil
	return f.fetch(ctx)
}

// Logout returns to the login view and forgets everything.
func (f *Flow) Logout() {
	f.view = ViewLogin
	f.creds = Credentials{}
	f.session = nil
	f.fetchErr = nil
}

func (f *Flow) fetch(ctx context.Context) error {
	schemaForm, err := f.client.GetForm(ctx, f.creds.RollNumber)
	if err != nil {
		return f.fetchFailed(ctx, err)
	}
	session, err := form.NewSession(schemaForm, f.sessionOpts...)
	if err != nil {
		return f.fetchFailed(ctx, &client.RequestError{Op: client.OpGetForm, Err: err})
	}

	f.session = session
	f.fetchErr = nil
	f.view = ViewForm
	f.logger.InfoContext(ctx, "form loaded",
		slog.String("form_title", schemaForm.Title),
		slog.Int("sections", session.SectionCount()),
	)
	return nil
}

func (f *Flow) fetchFailed(ctx context.Context, err error) error {
	f.fetchErr = err
	f.logger.WarnContext(ctx, "form fetch failed", slog.String("roll_number", f.creds.RollNumber), slog.Any("error", err))
	return err
}
