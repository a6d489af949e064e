package tui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	theme "github.com/goliatone/go-theme"
)

// Token keys read from a theme manifest.
const (
	TokenPrompt  = "tui.prompt"
	TokenInfo    = "tui.info"
	TokenError   = "tui.error"
	TokenSuccess = "tui.success"
	TokenHelp    = "tui.help"

	TemplateSection = "tui.section"
)

// Theme holds the prefixes and templates the wizard prints with.
type Theme struct {
	Name    string
	Variant string

	PromptPrefix  string
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
	HelpPrefix    string

	SectionTemplate string
}

// DefaultManifest describes the built-in theme and its "plain" variant for
// terminals without unicode glyphs.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "formwizard",
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenPrompt:  "?",
			TokenInfo:    "ℹ",
			TokenError:   "✗",
			TokenSuccess: "✓",
			TokenHelp:    "?",
		},
		Templates: map[string]string{
			TemplateSection: "section",
		},
		Variants: map[string]theme.Variant{
			"plain": {
				Tokens: map[string]string{
					TokenPrompt:  ">",
					TokenInfo:    "-",
					TokenError:   "!",
					TokenSuccess: "*",
					TokenHelp:    "help:",
				},
			},
		},
	}
}

// DefaultTheme resolves the default variant of DefaultManifest.
func DefaultTheme() Theme {
	t, err := ThemeFromManifest(DefaultManifest(), "")
	if err != nil {
		panic(err)
	}
	return t
}

// ThemeFromManifest registers the manifest and resolves the requested
// variant through a go-theme selector. An empty or "default" variant uses
// the base tokens.
func ThemeFromManifest(manifest *theme.Manifest, variant string) (Theme, error) {
	if manifest == nil {
		return Theme{}, fmt.Errorf("tui: theme manifest is required")
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return Theme{}, fmt.Errorf("tui: register theme %q: %w", manifest.Name, err)
	}
	return themeFromSelector(theme.Selector{Registry: registry, DefaultTheme: manifest.Name}, manifest.Name, variant)
}

// themeFromSelector maps a go-theme selection onto prompt prefixes and the
// section template. Unknown variants are rejected rather than silently
// falling back to the base tokens.
func themeFromSelector(selector theme.ThemeSelector, name, variant string) (Theme, error) {
	if selector == nil {
		return Theme{}, fmt.Errorf("tui: theme selector is required")
	}
	if variant == "default" {
		variant = ""
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Theme{}, fmt.Errorf("tui: select theme %q: %w", name, err)
	}
	if selection.Variant != "" {
		if selection.Manifest == nil {
			return Theme{}, fmt.Errorf("tui: theme %q has no manifest", selection.Theme)
		}
		if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
			return Theme{}, fmt.Errorf("tui: theme %q has no variant %q", selection.Theme, selection.Variant)
		}
	}

	tokens := selection.Tokens()
	resolved := selection.Variant
	if resolved == "" {
		resolved = "default"
	}
	return Theme{
		Name:            selection.Theme,
		Variant:         resolved,
		PromptPrefix:    tokens[TokenPrompt],
		InfoPrefix:      tokens[TokenInfo],
		ErrorPrefix:     tokens[TokenError],
		SuccessPrefix:   tokens[TokenSuccess],
		HelpPrefix:      tokens[TokenHelp],
		SectionTemplate: selection.Template(TemplateSection, ""),
	}, nil
}

func (t Theme) icons(icons *survey.IconSet) {
	if t.PromptPrefix != "" {
		icons.Question.Text = t.PromptPrefix
	}
	if t.ErrorPrefix != "" {
		icons.Error.Text = t.ErrorPrefix
	}
	if t.HelpPrefix != "" {
		icons.Help.Text = t.HelpPrefix
	}
}

func (t Theme) info(msg string) string {
	return prefixed(t.InfoPrefix, msg)
}

func (t Theme) failure(msg string) string {
	return prefixed(t.ErrorPrefix, msg)
}

func (t Theme) success(msg string) string {
	return prefixed(t.SuccessPrefix, msg)
}

func prefixed(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return prefix + " " + msg
}
