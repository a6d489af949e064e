package form

import (
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// MessageRequired is reported for required fields left blank.
const MessageRequired = "This field is required"

// MinLengthMessage is the default message for values shorter than min.
func MinLengthMessage(min int) string {
	return fmt.Sprintf("Minimum %d characters required", min)
}

// MaxLengthMessage is the default message for values longer than max.
func MaxLengthMessage(max int) string {
	return fmt.Sprintf("Maximum %d characters allowed", max)
}

type validationRules struct {
	required bool
	minLen   int
	hasMin   bool
	maxLen   int
	hasMax   bool
	message  string
}

func collectValidationRules(field schema.Field) validationRules {
	r := validationRules{
		required: field.Required,
		message:  field.CustomMessage(),
	}
	r.minLen, r.hasMin = field.MinLen()
	r.maxLen, r.hasMax = field.MaxLen()
	return r
}

// check applies the rules in priority order and returns the first failure.
// Length rules only look at non-empty values, so an optional field left empty
// never trips a minimum.
func (r validationRules) check(value Value) (string, bool) {
	if r.required && value.Blank() {
		return MessageRequired, true
	}

	n := value.Len()
	if n == 0 {
		return "", false
	}
	if r.hasMin && n < r.minLen {
		return r.messageOr(MinLengthMessage(r.minLen)), true
	}
	if r.hasMax && n > r.maxLen {
		return r.messageOr(MaxLengthMessage(r.maxLen)), true
	}
	return "", false
}

func (r validationRules) messageOr(fallback string) string {
	if r.message != "" {
		return r.message
	}
	return fallback
}

// ValidateField checks a single value against the field's rules. For checkbox
// fields the length bounds compare the number of selected options.
func ValidateField(field schema.Field, value Value) (string, bool) {
	return collectValidationRules(field).check(resolve(field, value))
}

// ValidateSection validates every field of section, in order, against the
// accumulated values. The result holds at most one message per failing field
// and is empty when the section is valid.
func ValidateSection(section schema.Section, values Values) map[string]string {
	errs := make(map[string]string)
	for _, field := range section.Fields {
		if msg, failed := ValidateField(field, values[field.ID]); failed {
			errs[field.ID] = msg
		}
	}
	return errs
}
