package render

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/pongo"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

//go:embed templates/*.tpl
var templateFS embed.FS

// Templates exposes the embedded templates so callers can build an engine
// that renders them.
func Templates() embed.FS {
	return templateFS
}

const (
	receiptTemplate   = "templates/receipt"
	templateExtension = ".tpl"
	unanswered      = "-"
)

// ReceiptEncoder renders a human-readable receipt grouped by section, with
// option labels in place of option values.
type ReceiptEncoder struct {
	renderer template.TemplateRenderer
}

// NewReceiptEncoder uses renderer, which must resolve "templates/receipt".
// A nil renderer gets a pongo engine over the embedded templates.
func NewReceiptEncoder(renderer template.TemplateRenderer) (*ReceiptEncoder, error) {
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(templateFS), pongo.WithExtension(templateExtension))
		if err != nil {
			return nil, fmt.Errorf("render: receipt engine: %w", err)
		}
		renderer = engine
	}
	return &ReceiptEncoder{renderer: renderer}, nil
}

func (*ReceiptEncoder) Name() string        { return "receipt" }
func (*ReceiptEncoder) ContentType() string { return "text/plain; charset=utf-8" }

func (e *ReceiptEncoder) Encode(ctx context.Context, f schema.Form, submission form.Submission) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := e.renderer.RenderTemplate(receiptTemplate, receiptData(f, submission))
	if err != nil {
		return nil, fmt.Errorf("render: receipt: %w", err)
	}
	return []byte(out), nil
}

func receiptData(f schema.Form, submission form.Submission) map[string]any {
	title := submission.FormTitle
	if title == "" {
		title = f.Title
	}
	sections := make([]map[string]any, 0, len(f.Sections))
	for i, section := range f.Sections {
		sectionTitle := section.Title
		if sectionTitle == "" {
			sectionTitle = fmt.Sprintf("Section %d", i+1)
		}
		fields := make([]map[string]any, 0, len(section.Fields))
		for _, field := range section.Fields {
			fields = append(fields, map[string]any{
				"id":      field.ID,
				"label":   field.DisplayLabel(),
				"display": DisplayValue(field, submission.Values[field.ID]),
			})
		}
		sections = append(sections, map[string]any{
			"title":  sectionTitle,
			"fields": fields,
		})
	}
	return map[string]any{
		"title":       title,
		"id":          submission.ID,
		"submittedAt": formatTime(submission.SubmittedAt),
		"sections":    sections,
	}
}

// DisplayValue renders an answer for people: option values become their
// labels, selections are comma separated and blank answers show "-".
func DisplayValue(field schema.Field, value form.Value) string {
	if value.Blank() {
		return unanswered
	}
	if !field.Type.HasOptions() {
		return value.Text()
	}
	if value.Kind() == form.KindMulti {
		labels := make([]string, 0, value.Len())
		for _, item := range value.Items() {
			labels = append(labels, field.OptionLabel(item))
		}
		return strings.Join(labels, ", ")
	}
	return field.OptionLabel(value.Text())
}
