package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/internal/stubserver"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// MustLoadSchema loads and validates a schema fixture, failing the test on
// error.
func MustLoadSchema(t *testing.T, path string) schema.Form {
	t.Helper()

	form, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return form
}

// LoadSchema reads a JSON or YAML schema fixture without requiring a
// testing.T, so setup code outside tests can share fixtures.
func LoadSchema(path string) (schema.Form, error) {
	if path == "" {
		return schema.Form{}, errors.New("testsupport: schema path is required")
	}
	form, err := schema.NewLoader().Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		return schema.Form{}, fmt.Errorf("testsupport: %w", err)
	}
	return form, nil
}

// StubServer starts the in-memory form service and closes it with the test.
func StubServer(t *testing.T, options ...stubserver.Option) (*httptest.Server, *stubserver.Server) {
	t.Helper()

	stub := stubserver.New(options...)
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return srv, stub
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	result, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return result, buf.String()
}
