package form

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// FormState is a snapshot of a session.
type FormState struct {
	CurrentSectionIndex int               `json:"currentSectionIndex"`
	Values              Values            `json:"values"`
	Errors              map[string]string `json:"errors"`
	Submitted           bool              `json:"submitted"`
}

// Session interprets one fetched form: it tracks the visible section,
// accumulates answers across sections and gates navigation on validation.
// It is not safe for concurrent use; callers drive it from a single event
// loop.
type Session struct {
	form      schema.Form
	current   int
	values    Values
	errors    map[string]string
	submitted bool

	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Session.
type Option func(*Session)

// WithSubmitter sets the collaborator that receives the final submission.
// Defaults to a LogSubmitter on the session logger.
func WithSubmitter(submitter Submitter) Option {
	return func(s *Session) {
		if submitter != nil {
			s.submitter = submitter
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how submission ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSession starts an empty session on the first section of form.
func NewSession(form schema.Form, options ...Option) (*Session, error) {
	if len(form.Sections) == 0 {
		return nil, ErrEmptySchema
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		form:   form.Clone(),
		values: make(Values),
		errors: make(map[string]string),
		now:    time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = loggerOrDiscard(s.logger)
	if s.submitter == nil {
		s.submitter = NewLogSubmitter(s.logger)
	}
	return s, nil
}

// Form returns a copy of the schema being interpreted.
func (s *Session) Form() schema.Form {
	return s.form.Clone()
}

// SectionCount returns the number of sections.
func (s *Session) SectionCount() int {
	return len(s.form.Sections)
}

// CurrentIndex returns the zero-based visible section index.
func (s *Session) CurrentIndex() int {
	return s.current
}

// CurrentSection returns the visible section.
func (s *Session) CurrentSection() schema.Section {
	return s.form.Sections[s.current]
}

// IsFirst reports whether Prev is unavailable.
func (s *Session) IsFirst() bool {
	return s.current == 0
}

// IsLast reports whether Submit (rather than Next) is the forward action.
func (s *Session) IsLast() bool {
	return s.current == len(s.form.Sections)-1
}

// Submitted reports whether the session reached its terminal state.
func (s *Session) Submitted() bool {
	return s.submitted
}

// Field returns the declared field for id.
func (s *Session) Field(id string) (schema.Field, bool) {
	field, _, ok := s.form.Field(id)
	return field, ok
}

// Value returns the stored answer for id resolved against the field type:
// checkbox fields always yield a multi value, other fields a single value.
func (s *Session) Value(id string) (Value, error) {
	field, ok := s.Field(id)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return resolve(field, s.values[id]), nil
}

// SetValue overwrites the answer for id and clears any error shown for it,
// whether or not the new value is itself valid.
func (s *Session) SetValue(id string, value Value) error {
	if s.submitted {
		return ErrSubmitted
	}
	field, ok := s.Field(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	want := KindSingle
	if field.Type.MultiValued() {
		want = KindMulti
	}
	if value.Kind() != want {
		return fmt.Errorf("%w: field %q expects a %s value, got %s", ErrValueKind, id, want, value.Kind())
	}
	if value.Kind() == KindMulti {
		value = MultiValue(value.items...)
	}

	s.values[id] = value
	delete(s.errors, id)
	return nil
}

// SetText is SetValue for single-valued fields.
func (s *Session) SetText(id, text string) error {
	return s.SetValue(id, StringValue(text))
}

// Toggle applies a checkbox transition: checking adds option to the set,
// unchecking removes it.
func (s *Session) Toggle(id, option string, checked bool) error {
	if s.submitted {
		return ErrSubmitted
	}
	field, ok := s.Field(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if !field.Type.MultiValued() {
		return fmt.Errorf("%w: field %q is not a checkbox group", ErrValueKind, id)
	}
	if !field.HasOption(option) {
		return fmt.Errorf("%w: %q for field %q", ErrUnknownOption, option, id)
	}

	current := resolve(field, s.values[id])
	if checked {
		current = current.With(option)
	} else {
		current = current.Without(option)
	}
	return s.SetValue(id, current)
}

// Values returns a copy of every accumulated answer.
func (s *Session) Values() Values {
	return s.values.Clone()
}

// Errors returns a copy of the current error mapping.
func (s *Session) Errors() map[string]string {
	return cloneErrors(s.errors)
}

// SectionErrors returns the errors that belong to fields of the visible
// section.
func (s *Session) SectionErrors() map[string]string {
	out := make(map[string]string)
	for _, field := range s.CurrentSection().Fields {
		if msg, ok := s.errors[field.ID]; ok {
			out[field.ID] = msg
		}
	}
	return out
}

// State returns a snapshot of the session.
func (s *Session) State() FormState {
	return FormState{
		CurrentSectionIndex: s.current,
		Values:              s.values.Clone(),
		Errors:              cloneErrors(s.errors),
		Submitted:           s.submitted,
	}
}

// Validate re-runs the rules for the visible section, replacing the error
// mapping with the result. It reports whether the section is valid.
func (s *Session) Validate() bool {
	s.errors = ValidateSection(s.CurrentSection(), s.values)
	return len(s.errors) == 0
}

// Next validates the visible section and advances on success. A failure
// leaves the index unchanged and returns a *ValidationError.
func (s *Session) Next() error {
	if s.submitted {
		return ErrSubmitted
	}
	if s.IsLast() {
		return ErrNoNextSection
	}
	if !s.Validate() {
		return s.validationError()
	}
	s.current++
	s.logger.Debug("section advanced", slog.Int("section", s.current))
	return nil
}

// Prev moves back one section without validating or touching errors.
func (s *Session) Prev() error {
	if s.submitted {
		return ErrSubmitted
	}
	if s.IsFirst() {
		return ErrNoPreviousSection
	}
	s.current--
	s.logger.Debug("section retreated", slog.Int("section", s.current))
	return nil
}

// Submit validates the last section and, on success, hands the full
// accumulator to the submitter. The session becomes terminal only when the
// submitter accepts the payload.
func (s *Session) Submit(ctx context.Context) (Submission, error) {
	if s.submitted {
		return Submission{}, ErrSubmitted
	}
	if !s.IsLast() {
		return Submission{}, ErrNotLastSection
	}
	if !s.Validate() {
		return Submission{}, s.validationError()
	}

	submission := Submission{
		ID:          s.newID(),
		FormTitle:   s.form.Title,
		Values:      s.values.Clone(),
		SubmittedAt: s.now().UTC(),
	}
	if err := s.submitter.Submit(ctx, submission); err != nil {
		return Submission{}, fmt.Errorf("form: submit: %w", err)
	}
	s.submitted = true
	return submission, nil
}

func (s *Session) validationError() error {
	return &ValidationError{Section: s.current, Errors: cloneErrors(s.errors)}
}

func cloneErrors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
