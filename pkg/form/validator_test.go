package form

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/schema"
)

func TestValidateField_Required(t *testing.T) {
	field := schema.Field{ID: "name", Type: schema.FieldTypeText, Required: true}
	for _, input := range []Value{{}, StringValue(""), StringValue("  \t ")} {
		msg, failed := ValidateField(field, input)
		if !failed || msg != MessageRequired {
			t.Fatalf("value %q: got (%q, %v), want required error", input.Text(), msg, failed)
		}
	}
	if _, failed := ValidateField(field, StringValue("Alice")); failed {
		t.Fatalf("non-blank value should pass")
	}
}

func TestValidateField_LengthBoundaries(t *testing.T) {
	for k := 2; k <= 6; k++ {
		min := schema.Field{ID: "f", Type: schema.FieldTypeText, MinLength: schema.IntPtr(k)}
		msg, failed := ValidateField(min, StringValue(strings.Repeat("a", k-1)))
		if !failed || msg != MinLengthMessage(k) {
			t.Fatalf("min %d: got (%q, %v)", k, msg, failed)
		}
		if _, failed := ValidateField(min, StringValue(strings.Repeat("a", k))); failed {
			t.Fatalf("min %d: length k should pass", k)
		}

		max := schema.Field{ID: "f", Type: schema.FieldTypeText, MaxLength: schema.IntPtr(k)}
		msg, failed = ValidateField(max, StringValue(strings.Repeat("a", k+1)))
		if !failed || msg != MaxLengthMessage(k) {
			t.Fatalf("max %d: got (%q, %v)", k, msg, failed)
		}
		if _, failed := ValidateField(max, StringValue(strings.Repeat("a", k))); failed {
			t.Fatalf("max %d: length k should pass", k)
		}
	}
}

func TestValidateField_CustomMessage(t *testing.T) {
	field := schema.Field{
		ID:         "phone",
		Type:       schema.FieldTypeTel,
		MinLength:  schema.IntPtr(10),
		MaxLength:  schema.IntPtr(10),
		Validation: &schema.Validation{Message: "Use a ten digit number"},
	}
	for _, input := range []string{"123", "123456789012"} {
		msg, failed := ValidateField(field, StringValue(input))
		if !failed || msg != "Use a ten digit number" {
			t.Fatalf("value %q: got (%q, %v)", input, msg, failed)
		}
	}
}

func TestValidateField_RequiredWinsOverLength(t *testing.T) {
	field := schema.Field{
		ID:         "code",
		Type:       schema.FieldTypeText,
		Required:   true,
		MinLength:  schema.IntPtr(5),
		Validation: &schema.Validation{Message: "custom"},
	}
	msg, failed := ValidateField(field, StringValue("  "))
	if !failed || msg != MessageRequired {
		t.Fatalf("got (%q, %v), want required message", msg, failed)
	}
}

func TestValidateField_OptionalEmptySkipsLength(t *testing.T) {
	field := schema.Field{ID: "nick", Type: schema.FieldTypeText, MinLength: schema.IntPtr(3)}
	if msg, failed := ValidateField(field, StringValue("")); failed {
		t.Fatalf("optional empty value should pass, got %q", msg)
	}
	if msg, failed := ValidateField(field, Value{}); failed {
		t.Fatalf("unanswered optional field should pass, got %q", msg)
	}
}

func TestValidateField_CheckboxCountsSelections(t *testing.T) {
	field := schema.Field{
		ID:        "topics",
		Type:      schema.FieldTypeCheckbox,
		Required:  true,
		MinLength: schema.IntPtr(2),
		MaxLength: schema.IntPtr(3),
		Options:   []schema.Option{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}},
	}

	tests := []struct {
		value Value
		want  string
	}{
		{value: MultiValue(), want: MessageRequired},
		{value: MultiValue("a"), want: MinLengthMessage(2)},
		{value: MultiValue("a", "b"), want: ""},
		{value: MultiValue("a", "b", "c", "d"), want: MaxLengthMessage(3)},
	}
	for _, tt := range tests {
		msg, _ := ValidateField(field, tt.value)
		if msg != tt.want {
			t.Fatalf("selection %v: got %q, want %q", tt.value.Items(), msg, tt.want)
		}
	}
}

func TestValidateField_OptionalCheckboxClearedSkipsLength(t *testing.T) {
	field := schema.Field{
		ID:        "extras",
		Type:      schema.FieldTypeCheckbox,
		MinLength: schema.IntPtr(2),
		Options:   []schema.Option{{Value: "a"}, {Value: "b"}},
	}

	cleared := MultiValue("a").Without("a")
	if cleared.Kind() != KindMulti || cleared.Len() != 0 {
		t.Fatalf("expected an empty multi value, got %v", cleared)
	}
	for _, value := range []Value{MultiValue(), cleared} {
		if msg, failed := ValidateField(field, value); failed {
			t.Fatalf("emptied optional checkbox should pass, got %q", msg)
		}
	}
	if msg, _ := ValidateField(field, MultiValue("a")); msg != MinLengthMessage(2) {
		t.Fatalf("one selection should still fail min, got %q", msg)
	}
}

func TestValidateSection_OnlySectionFields(t *testing.T) {
	section := schema.Section{Fields: []schema.Field{
		{ID: "a", Type: schema.FieldTypeText, Required: true},
		{ID: "b", Type: schema.FieldTypeText, MaxLength: schema.IntPtr(2)},
		{ID: "c", Type: schema.FieldTypeText},
	}}
	values := Values{
		"b":     StringValue("long"),
		"other": StringValue(""),
	}

	got := ValidateSection(section, values)
	want := map[string]string{
		"a": MessageRequired,
		"b": MaxLengthMessage(2),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}
