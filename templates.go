package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

// EmbeddedTemplates exposes the built-in receipt templates so callers can
// reuse or extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	fsys := render.Templates()
	sub, err := fs.Sub(fsys, "templates")
	if err != nil {
		return fsys
	}
	return sub
}

// PromptTemplates exposes the login banner and section header templates used
// by the terminal wizard.
func PromptTemplates() fs.FS {
	return tui.TemplatesFS()
}
