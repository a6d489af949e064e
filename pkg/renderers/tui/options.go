package tui

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/render/template"
)

// Option configures the Wizard.
type Option func(*Wizard)

// WithPromptDriver overrides the prompt driver used by the wizard.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithTheme applies message prefixes and the section template name.
func WithTheme(theme Theme) Option {
	return func(w *Wizard) {
		w.theme = theme
	}
}

// WithEncoder selects how the accepted submission is printed. Nil disables
// printing.
func WithEncoder(encoder render.Encoder) Option {
	return func(w *Wizard) {
		w.encoder = encoder
	}
}

// WithOutput sets where the encoded submission is written.
func WithOutput(out io.Writer) Option {
	return func(w *Wizard) {
		if out != nil {
			w.out = out
		}
	}
}

// WithTemplateRenderer overrides the engine that renders section headers.
// It must resolve the names referenced by the theme.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(w *Wizard) {
		if renderer != nil {
			w.templates = renderer
		}
	}
}

// WithAppName sets the banner shown above the login prompts.
func WithAppName(name string) Option {
	return func(w *Wizard) {
		w.appName = name
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}
