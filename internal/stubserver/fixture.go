package stubserver

import (
	_ "embed"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

//go:embed default_form.json
var defaultForm []byte

// DefaultForm returns the built-in three section student form.
func DefaultForm() schema.Form {
	form, err := schema.Parse(defaultForm, "default_form.json")
	if err != nil {
		panic("stubserver: embedded form: " + err.Error())
	}
	return form
}

// DefaultFormJSON returns the embedded get-form response body.
func DefaultFormJSON() []byte {
	out := make([]byte, len(defaultForm))
	copy(out, defaultForm)
	return out
}
