package schema

// FieldType enumerates the input kinds a form field can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// FieldTypes lists every supported field type in declaration order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypeTel,
	FieldTypeDate,
	FieldTypeTextArea,
	FieldTypeDropdown,
	FieldTypeRadio,
	FieldTypeCheckbox,
}

// Valid reports whether the type is one of the supported field types.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MultiValued reports whether the field collects a set of option values
// instead of a single string.
func (t FieldType) MultiValued() bool {
	return t == FieldTypeCheckbox
}

// HasOptions reports whether the field is answered by picking from options.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Form is the root of a fetched form schema. Sections are addressed by their
// zero-based position only.
type Form struct {
	Title    string    `json:"formTitle" yaml:"formTitle"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section is one page of the wizard.
type Section struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field describes a single input and its validation metadata.
type Field struct {
	ID          string      `json:"fieldId" yaml:"fieldId"`
	Type        FieldType   `json:"type" yaml:"type"`
	Label       string      `json:"label" yaml:"label"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength   *int        `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Options     []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	DataTestID  string      `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// Option is a selectable choice for dropdown, radio and checkbox fields.
type Option struct {
	Value      string `json:"value" yaml:"value"`
	Label      string `json:"label" yaml:"label"`
	DataTestID string `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// Validation carries the custom message used for length violations.
type Validation struct {
	Message string `json:"message" yaml:"message"`
}

// Response is the envelope returned by the get-form endpoint.
type Response struct {
	Form *Form `json:"form" yaml:"form"`
}

// MinLen returns the minimum length bound. Zero or negative bounds count as
// unset.
func (f Field) MinLen() (int, bool) {
	if f.MinLength == nil || *f.MinLength <= 0 {
		return 0, false
	}
	return *f.MinLength, true
}

// MaxLen returns the maximum length bound. Zero or negative bounds count as
// unset.
func (f Field) MaxLen() (int, bool) {
	if f.MaxLength == nil || *f.MaxLength <= 0 {
		return 0, false
	}
	return *f.MaxLength, true
}

// CustomMessage returns the schema-provided validation message, if any.
func (f Field) CustomMessage() string {
	if f.Validation == nil {
		return ""
	}
	return f.Validation.Message
}

// HasOption reports whether value is one of the field's option values.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label for value, falling back to the value.
func (f Field) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			if opt.Label != "" {
				return opt.Label
			}
			return opt.Value
		}
	}
	return value
}

// DisplayLabel returns the label or, when blank, the field identifier.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// Field looks up a field by identifier across all sections and reports the
// index of the section that holds it.
func (f Form) Field(id string) (Field, int, bool) {
	for si, section := range f.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, si, true
			}
		}
	}
	return Field{}, -1, false
}

// FieldCount returns the number of fields across all sections.
func (f Form) FieldCount() int {
	total := 0
	for _, section := range f.Sections {
		total += len(section.Fields)
	}
	return total
}

// Clone returns a deep copy so callers can mutate the result freely.
func (f Form) Clone() Form {
	out := Form{Title: f.Title}
	if f.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(f.Sections))
	for i, section := range f.Sections {
		out.Sections[i] = section.clone()
	}
	return out
}

func (s Section) clone() Section {
	out := s
	if s.Fields == nil {
		return out
	}
	out.Fields = make([]Field, len(s.Fields))
	for i, field := range s.Fields {
		out.Fields[i] = field.clone()
	}
	return out
}

func (f Field) clone() Field {
	out := f
	if f.MinLength != nil {
		v := *f.MinLength
		out.MinLength = &v
	}
	if f.MaxLength != nil {
		v := *f.MaxLength
		out.MaxLength = &v
	}
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		out.Validation = &v
	}
	return out
}

// IntPtr is a small helper for building fields in code.
func IntPtr(v int) *int {
	return &v
}
