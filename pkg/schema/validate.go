package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSchema wraps every structural problem reported by Validate.
var ErrInvalidSchema = errors.New("schema: invalid form schema")

// Validate checks the structural contract the interpreter relies on: unique,
// non-empty field identifiers, known field types, options for choice fields,
// and coherent length bounds. All issues are reported together.
func (f Form) Validate() error {
	var issues []error
	seen := make(map[string]string)

	for si, section := range f.Sections {
		for fi, field := range section.Fields {
			loc := fmt.Sprintf("sections[%d].fields[%d]", si, fi)

			id := strings.TrimSpace(field.ID)
			if id == "" {
				issues = append(issues, fmt.Errorf("%s: fieldId is required", loc))
			} else if prev, dup := seen[id]; dup {
				issues = append(issues, fmt.Errorf("%s: duplicate fieldId %q (first declared at %s)", loc, id, prev))
			} else {
				seen[id] = loc
			}

			if !field.Type.Valid() {
				issues = append(issues, fmt.Errorf("%s: unsupported type %q", loc, field.Type))
			} else if field.Type.HasOptions() && len(field.Options) == 0 {
				issues = append(issues, fmt.Errorf("%s: %s field requires options", loc, field.Type))
			}

			if field.MinLength != nil && *field.MinLength < 0 {
				issues = append(issues, fmt.Errorf("%s: minLength must not be negative", loc))
			}
			if field.MaxLength != nil && *field.MaxLength < 0 {
				issues = append(issues, fmt.Errorf("%s: maxLength must not be negative", loc))
			}
			minLen, hasMin := field.MinLen()
			maxLen, hasMax := field.MaxLen()
			if hasMin && hasMax && minLen > maxLen {
				issues = append(issues, fmt.Errorf("%s: minLength %d exceeds maxLength %d", loc, minLen, maxLen))
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSchema, errors.Join(issues...))
}
