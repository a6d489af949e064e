package form

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

// Kind distinguishes single string answers from option sets.
type Kind uint8

const (
	// KindNone marks the zero Value (field never answered).
	KindNone Kind = iota
	// KindSingle holds one string (text-like, dropdown, radio).
	KindSingle
	// KindMulti holds an ordered set of option values (checkbox).
	KindMulti
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindMulti:
		return "multi"
	default:
		return "none"
	}
}

// Value is a tagged union over the two answer shapes a field can hold.
type Value struct {
	kind  Kind
	text  string
	items []string
}

// StringValue builds a single-valued answer.
func StringValue(s string) Value {
	return Value{kind: KindSingle, text: s}
}

// MultiValue builds a set answer. Duplicates are dropped, first occurrence
// wins the position.
func MultiValue(items ...string) Value {
	out := Value{kind: KindMulti, items: make([]string, 0, len(items))}
	for _, item := range items {
		if !out.Contains(item) {
			out.items = append(out.items, item)
		}
	}
	return out
}

// Kind reports the value shape.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the single string; empty for multi and zero values.
func (v Value) Text() string {
	return v.text
}

// Items returns a copy of the selected options; nil for single values.
func (v Value) Items() []string {
	if v.kind != KindMulti {
		return nil
	}
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Len is the measure length rules apply to: characters for single values and
// the selection count for multi values.
func (v Value) Len() int {
	switch v.kind {
	case KindSingle:
		return utf8.RuneCountInString(v.text)
	case KindMulti:
		return len(v.items)
	default:
		return 0
	}
}

// Blank reports whether the value counts as missing for the required rule.
func (v Value) Blank() bool {
	switch v.kind {
	case KindSingle:
		return strings.TrimSpace(v.text) == ""
	case KindMulti:
		return len(v.items) == 0
	default:
		return true
	}
}

// Contains reports whether a multi value holds item.
func (v Value) Contains(item string) bool {
	for _, existing := range v.items {
		if existing == item {
			return true
		}
	}
	return false
}

// With returns a copy with item selected; a no-op when already present.
func (v Value) With(item string) Value {
	if v.Contains(item) {
		return MultiValue(v.items...)
	}
	return MultiValue(append(v.Items(), item)...)
}

// Without returns a copy with item deselected.
func (v Value) Without(item string) Value {
	out := Value{kind: KindMulti, items: make([]string, 0, len(v.items))}
	for _, existing := range v.items {
		if existing != item {
			out.items = append(out.items, existing)
		}
	}
	return out
}

// Equal compares shape and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.text != other.text || len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// String renders the value for display; multi values are comma separated.
func (v Value) String() string {
	if v.kind == KindMulti {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

// Interface returns the payload representation: a string or []string.
func (v Value) Interface() any {
	switch v.kind {
	case KindMulti:
		return v.Items()
	case KindSingle:
		return v.text
	default:
		return nil
	}
}

// MarshalJSON emits a JSON string or array depending on the kind.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// resolve reads a stored value against the field's declared type so callers
// always see the shape the field expects.
func resolve(field schema.Field, v Value) Value {
	if field.Type.MultiValued() {
		if v.kind == KindMulti {
			return v
		}
		return MultiValue()
	}
	if v.kind == KindSingle {
		return v
	}
	return StringValue("")
}

// Values is the accumulator: answers keyed by field identifier, persisted
// across section navigation.
type Values map[string]Value

// Clone returns an independent copy.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for id, v := range vs {
		if v.kind == KindMulti {
			v = MultiValue(v.items...)
		}
		out[id] = v
	}
	return out
}

// Payload converts the accumulator into plain Go values (string or []string)
// for serialization.
func (vs Values) Payload() map[string]any {
	out := make(map[string]any, len(vs))
	for id, v := range vs {
		out[id] = v.Interface()
	}
	return out
}
