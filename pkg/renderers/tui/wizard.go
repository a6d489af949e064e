package tui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/flow"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/pongo"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

//go:embed templates/*.tpl
var templateFS embed.FS

// TemplatesFS exposes the login and section templates rooted at their
// directory, so "section.tpl" resolves directly.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return sub
}

const (
	loginTemplate     = "login"
	templateExtension = ".tpl"

	dropdownPlaceholder = "Select..."
)

type action int

const (
	actionNext action = iota
	actionSubmit
	actionPrev
	actionEdit
)

func (a action) label() string {
	switch a {
	case actionNext:
		return "Next section"
	case actionSubmit:
		return "Submit"
	case actionPrev:
		return "Previous section"
	default:
		return "Edit this section again"
	}
}

// Wizard walks a student through login and the paginated form in a
// terminal.
type Wizard struct {
	driver    PromptDriver
	theme     Theme
	templates template.TemplateRenderer
	encoder   render.Encoder
	out       io.Writer
	appName   string
	logger    *slog.Logger
}

// New constructs a wizard with defaults (survey driver, default theme, pretty
// output on stdout).
func New(options ...Option) (*Wizard, error) {
	w := &Wizard{
		theme:   DefaultTheme(),
		encoder: render.PrettyEncoder{},
		out:     os.Stdout,
		appName: "Form Wizard",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}

	if w.driver == nil {
		w.driver = NewSurveyDriver(w.theme)
	}
	globals := map[string]any{"app": w.appName, "theme": w.theme.Name}
	if w.templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(TemplatesFS()),
			pongo.WithExtension(templateExtension),
			pongo.WithGlobals(globals),
		)
		if err != nil {
			return nil, fmt.Errorf("tui: template engine: %w", err)
		}
		w.templates = engine
	} else if err := w.templates.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("tui: template globals: %w", err)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w, nil
}

// Run drives f until a submission is accepted. Registration failures return
// to the login prompts; fetch failures offer a retry.
func (w *Wizard) Run(ctx context.Context, f *flow.Flow) (form.Submission, error) {
	if f == nil {
		return form.Submission{}, errors.New("tui: flow is nil")
	}
	for {
		if err := ctx.Err(); err != nil {
			return form.Submission{}, err
		}

		switch f.View() {
		case flow.ViewLogin:
			creds, err := w.Login(ctx)
			if err != nil {
				return form.Submission{}, err
			}
			if err := f.Login(ctx, creds); err != nil {
				if f.View() == flow.ViewLogin {
					w.notify(ctx, w.theme.failure(loginFailure(err)))
				}
				continue
			}
			w.notify(ctx, w.theme.info("Signed in as "+f.Credentials().Name))

		case flow.ViewLoading:
			w.notify(ctx, w.theme.failure("Could not load your form: "+errorText(f.FetchErr())))
			retry, err := w.driver.Confirm(ctx, ConfirmConfig{
				Message: "Try loading the form again?",
				Default: true,
			})
			if err != nil {
				return form.Submission{}, err
			}
			if !retry {
				return form.Submission{}, fmt.Errorf("%w: %w", ErrDeclinedRetry, f.FetchErr())
			}
			if err := f.Retry(ctx); err != nil {
				if f.View() != flow.ViewLoading {
					return form.Submission{}, err
				}
				// Still loading: the next pass shows the new failure.
				w.logger.DebugContext(ctx, "retry failed", slog.Any("error", err))
			}

		case flow.ViewForm:
			return w.Fill(ctx, f.Session())

		default:
			return form.Submission{}, form.ErrSubmitted
		}
	}
}

// Login prompts for the roll number and name.
func (w *Wizard) Login(ctx context.Context) (flow.Credentials, error) {
	if banner, err := w.templates.RenderTemplate(loginTemplate, nil); err == nil {
		w.notify(ctx, strings.Trim(banner, "\n"))
	} else {
		w.logger.Debug("login banner", slog.Any("error", err))
	}

	roll, err := w.driver.Input(ctx, InputConfig{
		Message:   "Roll Number",
		Help:      "The roll number you were registered with",
		Validator: notBlank("roll number"),
	})
	if err != nil {
		return flow.Credentials{}, err
	}
	name, err := w.driver.Input(ctx, InputConfig{
		Message:   "Name",
		Validator: notBlank("name"),
	})
	if err != nil {
		return flow.Credentials{}, err
	}
	return flow.Credentials{RollNumber: roll, Name: name}, nil
}

// Fill prompts every field of the visible section, then asks where to go.
// It returns once the session accepts a submission.
func (w *Wizard) Fill(ctx context.Context, s *form.Session) (form.Submission, error) {
	if s == nil {
		return form.Submission{}, errors.New("tui: session is nil")
	}
	if s.Submitted() {
		return form.Submission{}, form.ErrSubmitted
	}

	for {
		w.showSection(ctx, s)
		for _, field := range s.CurrentSection().Fields {
			if err := w.promptField(ctx, s, field); err != nil {
				return form.Submission{}, err
			}
		}

		submission, done, err := w.advance(ctx, s)
		if err != nil {
			return form.Submission{}, err
		}
		if done {
			w.emit(ctx, s, submission)
			return submission, nil
		}
	}
}

func (w *Wizard) showSection(ctx context.Context, s *form.Session) {
	section := s.CurrentSection()
	title := section.Title
	if title == "" {
		title = fmt.Sprintf("Section %d", s.CurrentIndex()+1)
	}
	data := map[string]any{
		"title":       title,
		"description": section.Description,
		"index":       s.CurrentIndex() + 1,
		"count":       s.SectionCount(),
	}

	header := fmt.Sprintf("%s (%d/%d)", title, s.CurrentIndex()+1, s.SectionCount())
	if name := w.theme.SectionTemplate; name != "" {
		rendered, err := w.templates.RenderTemplate(name, data)
		if err == nil {
			header = strings.Trim(rendered, "\n")
		} else {
			w.logger.Debug("section header", slog.Any("error", err))
		}
	}
	w.notify(ctx, header)
}

func (w *Wizard) promptField(ctx context.Context, s *form.Session, field schema.Field) error {
	current, err := s.Value(field.ID)
	if err != nil {
		return err
	}
	label := fieldLabel(field)
	help := fieldHelp(field)
	if msg, ok := s.SectionErrors()[field.ID]; ok {
		w.notify(ctx, w.theme.failure(field.DisplayLabel()+": "+msg))
	}

	switch field.Type {
	case schema.FieldTypeTextArea:
		text, err := w.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current.Text(), Help: help})
		if err != nil {
			return err
		}
		return s.SetText(field.ID, text)

	case schema.FieldTypeDropdown:
		options := append([]string{dropdownPlaceholder}, optionLabels(field)...)
		defaultIdx := optionIndex(field, current.Text()) + 1
		idx, err := w.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: defaultIdx, Help: help})
		if err != nil {
			return err
		}
		value := ""
		if idx > 0 && idx <= len(field.Options) {
			value = field.Options[idx-1].Value
		}
		return s.SetText(field.ID, value)

	case schema.FieldTypeRadio:
		idx, err := w.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      optionLabels(field),
			DefaultIndex: optionIndex(field, current.Text()),
			Help:         help,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil
		}
		return s.SetText(field.ID, field.Options[idx].Value)

	case schema.FieldTypeCheckbox:
		var defaults []int
		for i, opt := range field.Options {
			if current.Contains(opt.Value) {
				defaults = append(defaults, i)
			}
		}
		indices, err := w.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: optionLabels(field), Defaults: defaults, Help: help})
		if err != nil {
			return err
		}
		chosen := make(map[int]bool, len(indices))
		for _, idx := range indices {
			chosen[idx] = true
		}
		for i, opt := range field.Options {
			if chosen[i] == current.Contains(opt.Value) {
				continue
			}
			if err := s.Toggle(field.ID, opt.Value, chosen[i]); err != nil {
				return err
			}
		}
		return nil

	default:
		text, err := w.driver.Input(ctx, InputConfig{Message: label, Default: current.Text(), Help: help})
		if err != nil {
			return err
		}
		return s.SetText(field.ID, text)
	}
}

// advance asks for the next move and applies it. done reports an accepted
// submission.
func (w *Wizard) advance(ctx context.Context, s *form.Session) (form.Submission, bool, error) {
	actions := make([]action, 0, 3)
	if s.IsLast() {
		actions = append(actions, actionSubmit)
	} else {
		actions = append(actions, actionNext)
	}
	if !s.IsFirst() {
		actions = append(actions, actionPrev)
	}
	actions = append(actions, actionEdit)

	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label()
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "What next?", Options: labels, DefaultIndex: 0})
	if err != nil {
		return form.Submission{}, false, err
	}
	if idx < 0 || idx >= len(actions) {
		return form.Submission{}, false, nil
	}

	switch actions[idx] {
	case actionNext:
		if err := s.Next(); err != nil {
			return form.Submission{}, false, w.report(ctx, err)
		}
		w.logger.Debug("advanced", slog.Int("section", s.CurrentIndex()))
	case actionPrev:
		if err := s.Prev(); err != nil {
			return form.Submission{}, false, err
		}
	case actionSubmit:
		submission, err := s.Submit(ctx)
		if err != nil {
			return form.Submission{}, false, w.report(ctx, err)
		}
		return submission, true, nil
	}
	return form.Submission{}, false, nil
}

// report prints validation and submitter failures so the section can be
// edited again. Other errors end the run.
func (w *Wizard) report(ctx context.Context, err error) error {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		w.notify(ctx, w.theme.failure(fmt.Sprintf("Please fix %d field(s) before continuing", len(verr.Errors))))
		return nil
	}
	if errors.Is(err, form.ErrSubmitted) || errors.Is(err, form.ErrNotLastSection) || errors.Is(err, form.ErrNoNextSection) {
		return err
	}
	w.notify(ctx, w.theme.failure("Submission failed: "+err.Error()))
	return nil
}

func (w *Wizard) emit(ctx context.Context, s *form.Session, submission form.Submission) {
	w.notify(ctx, w.theme.success("Form submitted"))
	if w.encoder == nil {
		return
	}
	data, err := w.encoder.Encode(ctx, s.Form(), submission)
	if err != nil {
		w.notify(ctx, w.theme.failure("Could not render submission: "+err.Error()))
		return
	}
	if _, err := w.out.Write(data); err != nil {
		w.logger.Warn("write submission", slog.Any("error", err))
	}
}

func (w *Wizard) notify(ctx context.Context, msg string) {
	_ = w.driver.Info(ctx, msg)
}

func fieldLabel(field schema.Field) string {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	return label
}

func fieldHelp(field schema.Field) string {
	var parts []string
	if field.Placeholder != "" {
		parts = append(parts, "e.g. "+field.Placeholder)
	}
	if field.Type == schema.FieldTypeDate {
		parts = append(parts, "format YYYY-MM-DD")
	}
	unit := "characters"
	if field.Type.MultiValued() {
		unit = "selections"
	}
	if min, ok := field.MinLen(); ok {
		parts = append(parts, fmt.Sprintf("at least %d %s", min, unit))
	}
	if max, ok := field.MaxLen(); ok {
		parts = append(parts, fmt.Sprintf("at most %d %s", max, unit))
	}
	return strings.Join(parts, "; ")
}

func optionLabels(field schema.Field) []string {
	out := make([]string, len(field.Options))
	for i, opt := range field.Options {
		out[i] = field.OptionLabel(opt.Value)
	}
	return out
}

func optionIndex(field schema.Field, value string) int {
	if value == "" {
		return -1
	}
	for i, opt := range field.Options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

func notBlank(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func loginFailure(err error) string {
	if errors.Is(err, flow.ErrMissingCredentials) {
		return "Roll number and name are required"
	}
	return "Registration failed: " + err.Error()
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
