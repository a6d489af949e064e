// Package render turns a finished submission into bytes for display or
// hand-off: JSON, URL-encoded form data, key=value lines or a templated
// receipt.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Encoder renders a submission. The form is used for field order and labels;
// encoders that do not need it ignore it.
type Encoder interface {
	Name() string
	ContentType() string
	Encode(ctx context.Context, f schema.Form, submission form.Submission) ([]byte, error)
}

// JSONEncoder writes the submission as indented JSON.
type JSONEncoder struct{}

func (JSONEncoder) Name() string        { return "json" }
func (JSONEncoder) ContentType() string { return "application/json" }

func (JSONEncoder) Encode(ctx context.Context, _ schema.Form, submission form.Submission) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json: %w", err)
	}
	return append(out, '\n'), nil
}

// FormEncoder writes the values as application/x-www-form-urlencoded.
// Checkbox selections repeat the key with a "[]" suffix.
type FormEncoder struct{}

func (FormEncoder) Name() string        { return "form" }
func (FormEncoder) ContentType() string { return "application/x-www-form-urlencoded" }

func (FormEncoder) Encode(ctx context.Context, _ schema.Form, submission form.Submission) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	flattened := url.Values{}
	for id, value := range submission.Values {
		switch value.Kind() {
		case form.KindMulti:
			for _, item := range value.Items() {
				flattened.Add(id+"[]", item)
			}
		default:
			flattened.Set(id, value.Text())
		}
	}
	return []byte(flattened.Encode()), nil
}

// PrettyEncoder writes one key=value line per answer in field declaration
// order. Checkbox selections are indexed: topics[0]=go.
type PrettyEncoder struct{}

func (PrettyEncoder) Name() string        { return "pretty" }
func (PrettyEncoder) ContentType() string { return "text/plain; charset=utf-8" }

func (PrettyEncoder) Encode(ctx context.Context, f schema.Form, submission form.Submission) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, id := range orderedIDs(f, submission.Values) {
		value := submission.Values[id]
		if value.Kind() == form.KindMulti {
			for idx, item := range value.Items() {
				fmt.Fprintf(&b, "%s[%d]=%s\n", id, idx, item)
			}
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", id, value.Text())
	}
	return []byte(b.String()), nil
}

// orderedIDs lists answered fields in declaration order followed by any ids
// the form does not declare, sorted.
func orderedIDs(f schema.Form, values form.Values) []string {
	ids := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, section := range f.Sections {
		for _, field := range section.Fields {
			if _, ok := values[field.ID]; ok {
				ids = append(ids, field.ID)
				seen[field.ID] = struct{}{}
			}
		}
	}
	var extra []string
	for id := range values {
		if _, ok := seen[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
