// Package contract embeds the OpenAPI description of the remote form service
// and checks request and response bodies against it.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed remote.yaml
var remoteDocument []byte

const (
	PathCreateUser = "/create-user"
	PathGetForm    = "/get-form"

	mediaJSON = "application/json"
)

// ErrViolation marks payloads that do not match the contract.
var ErrViolation = errors.New("contract: payload violates schema")

// Contract holds the resolved schemas for the payloads the client exchanges.
type Contract struct {
	doc               *openapi3.T
	createUserRequest *openapi3.Schema
	formResponse      *openapi3.Schema
}

// Document returns the raw embedded OpenAPI document.
func Document() []byte {
	out := make([]byte, len(remoteDocument))
	copy(out, remoteDocument)
	return out
}

// Load parses the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return Parse(ctx, remoteDocument)
}

// Parse loads an OpenAPI document and resolves the create-user request
// schema and the get-form success response schema.
func Parse(ctx context.Context, data []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}

	createUser, err := operation(doc, PathCreateUser, http.MethodPost)
	if err != nil {
		return nil, err
	}
	getForm, err := operation(doc, PathGetForm, http.MethodGet)
	if err != nil {
		return nil, err
	}

	if createUser.RequestBody == nil || createUser.RequestBody.Value == nil {
		return nil, fmt.Errorf("contract: %s %s has no request body", http.MethodPost, PathCreateUser)
	}
	requestSchema, err := jsonSchema(createUser.RequestBody.Value.Content)
	if err != nil {
		return nil, fmt.Errorf("contract: %s request: %w", PathCreateUser, err)
	}

	ok := getForm.Responses.Status(http.StatusOK)
	if ok == nil || ok.Value == nil {
		return nil, fmt.Errorf("contract: %s has no %d response", PathGetForm, http.StatusOK)
	}
	responseSchema, err := jsonSchema(ok.Value.Content)
	if err != nil {
		return nil, fmt.Errorf("contract: %s response: %w", PathGetForm, err)
	}

	return &Contract{
		doc:               doc,
		createUserRequest: requestSchema,
		formResponse:      responseSchema,
	}, nil
}

// Servers lists the server URLs declared by the document.
func (c *Contract) Servers() []string {
	out := make([]string, 0, len(c.doc.Servers))
	for _, server := range c.doc.Servers {
		if server != nil {
			out = append(out, server.URL)
		}
	}
	return out
}

// ValidateCreateUser checks a create-user request body.
func (c *Contract) ValidateCreateUser(body []byte) error {
	return visit(c.createUserRequest, body, PathCreateUser)
}

// ValidateFormResponse checks a get-form success body.
func (c *Contract) ValidateFormResponse(body []byte) error {
	return visit(c.formResponse, body, PathGetForm)
}

// Accepts reports whether status is a documented response of path. Unknown
// paths accept nothing.
func (c *Contract) Accepts(path, method string, status int) bool {
	op, err := operation(c.doc, path, method)
	if err != nil || op.Responses == nil {
		return false
	}
	return op.Responses.Value(strconv.Itoa(status)) != nil
}

func operation(doc *openapi3.T, path, method string) (*openapi3.Operation, error) {
	if doc.Paths == nil {
		return nil, errors.New("contract: document does not contain any paths")
	}
	item := doc.Paths.Value(path)
	if item == nil {
		return nil, fmt.Errorf("contract: path %s not declared", path)
	}
	op := item.GetOperation(method)
	if op == nil {
		return nil, fmt.Errorf("contract: %s %s not declared", method, path)
	}
	return op, nil
}

func jsonSchema(content openapi3.Content) (*openapi3.Schema, error) {
	media := content.Get(mediaJSON)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, fmt.Errorf("no %s schema", mediaJSON)
	}
	return media.Schema.Value, nil
}

func visit(schema *openapi3.Schema, body []byte, path string) error {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %s: decode body: %w", ErrViolation, path, err)
	}
	if err := schema.VisitJSON(payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrViolation, path, err)
	}
	return nil
}
