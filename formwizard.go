package formwizard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/flow"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Credentials aliases flow.Credentials for callers driving a flow directly.
type Credentials = flow.Credentials

// Submission aliases form.Submission.
type Submission = form.Submission

// NewRemoteClient returns a client for the hosted form service. Payloads are
// checked against the embedded contract unless client.WithoutContract is
// passed.
func NewRemoteClient(options ...client.Option) (*client.Client, error) {
	return client.New(options...)
}

// NewOfflineClient serves the schema at ref (a file path or http(s) URL) and
// accepts every registration.
func NewOfflineClient(ref string, timeout time.Duration) (*client.Local, error) {
	src, err := schema.ParseSource(ref)
	if err != nil {
		return nil, fmt.Errorf("formwizard: offline schema: %w", err)
	}
	loader := schema.NewLoader(
		schema.WithHTTPClient(&http.Client{}),
		schema.WithRequestTimeout(timeout),
	)
	return client.NewLocal(loader, src), nil
}

// NewFlow exposes the flow constructor from the top-level module.
func NewFlow(c flow.Client, options ...flow.Option) *flow.Flow {
	return flow.New(c, options...)
}

// NewWizard exposes the terminal wizard constructor.
func NewWizard(options ...tui.Option) (*tui.Wizard, error) {
	return tui.New(options...)
}

// Run signs in, loads the form and walks the terminal wizard until the
// submission is accepted. It is the simplest entry point for callers that
// just want the interactive experience.
func Run(ctx context.Context, c flow.Client, flowOptions []flow.Option, wizardOptions ...tui.Option) (Submission, error) {
	wizard, err := tui.New(wizardOptions...)
	if err != nil {
		return Submission{}, err
	}
	return wizard.Run(ctx, flow.New(c, flowOptions...))
}
