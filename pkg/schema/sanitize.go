package schema

import (
	"html"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

var (
	// Only recognised HTML elements and comments count as markup, so text
	// such as "x<y" or "<first>.<last>" is left alone.
	markupPattern = regexp.MustCompile(`(?i)<!--|</?(?:a|abbr|b|big|blockquote|br|center|code|del|div|em|embed|font|form|h[1-6]|hr|i|iframe|img|input|ins|kbd|li|link|mark|meta|object|ol|p|pre|q|s|script|small|span|strike|strong|style|sub|sup|svg|table|tbody|td|th|thead|tr|u|ul)(?:\s[^>]*)?/?>`)

	// CSI, OSC and two-byte ESC sequences.
	escapePattern = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)?|\x1b[@-_]`)
)

// Sanitized returns a copy of the form that is safe to print on a terminal.
// Display strings (titles, descriptions, labels, placeholders) lose markup
// and control sequences. Validation messages only lose control sequences so
// they reach the user as written. Identifiers and option values are left
// untouched because they are echoed back in submissions.
func (f Form) Sanitized() Form {
	out := f.Clone()
	out.Title = SanitizeText(out.Title)
	for si := range out.Sections {
		section := &out.Sections[si]
		section.Title = SanitizeText(section.Title)
		section.Description = SanitizeText(section.Description)
		for fi := range section.Fields {
			field := &section.Fields[fi]
			field.Label = SanitizeText(field.Label)
			field.Placeholder = SanitizeText(field.Placeholder)
			if field.Validation != nil {
				field.Validation.Message = stripControl(field.Validation.Message)
			}
			for oi := range field.Options {
				field.Options[oi].Label = SanitizeText(field.Options[oi].Label)
			}
		}
	}
	return out
}

// SanitizeText drops terminal control sequences from s and, when s carries
// HTML markup, strips it and decodes the entities the sanitizer emits.
// Plain text passes through apart from surrounding whitespace.
func SanitizeText(s string) string {
	cleaned := strings.TrimSpace(stripControl(s))
	if cleaned == "" || !markupPattern.MatchString(cleaned) {
		return cleaned
	}
	cleaned = textSanitizer().Sanitize(cleaned)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// stripControl removes escape sequences and every C0/C1 control character
// except newlines and tabs.
func stripControl(s string) string {
	if s == "" {
		return s
	}
	s = escapePattern.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
