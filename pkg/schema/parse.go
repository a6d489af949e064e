package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a form schema from JSON or YAML. Both the bare form object and
// the get-form envelope ({"form": {...}}) are accepted.
func Parse(data []byte, name string) (Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Form{}, fmt.Errorf("schema: %s is empty", name)
	}

	var env Response
	if err := json.Unmarshal(data, &env); err == nil {
		return unwrapJSON(env, data, name)
	}

	if err := yaml.Unmarshal(data, &env); err == nil {
		return unwrapYAML(env, data, name)
	}

	return Form{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", name)
}

func unwrapJSON(env Response, data []byte, name string) (Form, error) {
	if env.Form != nil {
		return *env.Form, nil
	}
	var form Form
	if err := json.Unmarshal(data, &form); err != nil {
		return Form{}, fmt.Errorf("schema: parse %s: %w", name, err)
	}
	return form, nil
}

func unwrapYAML(env Response, data []byte, name string) (Form, error) {
	if env.Form != nil {
		return *env.Form, nil
	}
	var form Form
	if err := yaml.Unmarshal(data, &form); err != nil {
		return Form{}, fmt.Errorf("schema: parse %s: %w", name, err)
	}
	return form, nil
}
