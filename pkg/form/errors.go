package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptySchema is returned when a session is created for a form with no
	// sections.
	ErrEmptySchema = errors.New("form: schema has no sections")
	// ErrUnknownField signals a value for a field the schema does not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrUnknownOption signals a checkbox toggle for an undeclared option.
	ErrUnknownOption = errors.New("form: unknown option")
	// ErrValueKind signals a single value written to a checkbox field or a set
	// written to any other field.
	ErrValueKind = errors.New("form: value kind does not match field type")
	// ErrValidation is matched by ValidationError.
	ErrValidation = errors.New("form: section is invalid")
	// ErrNoNextSection is returned by Next on the last section.
	ErrNoNextSection = errors.New("form: already on the last section")
	// ErrNoPreviousSection is returned by Prev on the first section.
	ErrNoPreviousSection = errors.New("form: already on the first section")
	// ErrNotLastSection is returned by Submit before the last section.
	ErrNotLastSection = errors.New("form: submit is only available on the last section")
	// ErrSubmitted is returned by every mutation after a successful submit.
	ErrSubmitted = errors.New("form: already submitted")
)

// ValidationError carries the per-field messages that blocked a Next or
// Submit.
type ValidationError struct {
	Section int
	Errors  map[string]string
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("form: section %d has %d invalid field(s): %s", e.Section, len(ids), strings.Join(ids, ", "))
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
