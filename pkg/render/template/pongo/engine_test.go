package pongo_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formwizard/pkg/render/template/pongo"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tpl":  {Data: []byte(`Hello {{ name }}!`)},
		"header.tpl": {Data: []byte("{% autoescape off %}{{ title }}\n{{ title|rule:\"=\" }}{% endautoescape %}")},
		"global.tpl": {Data: []byte(`{{ app }}/{{ name|default:"anon" }}`)},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("unexpected output result=%q written=%q", result, written)
	}

	// extension is optional and compiled templates are cached
	again, err := engine.RenderTemplate("hello.tpl", map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if again != "Hello Grace!" {
		t.Fatalf("unexpected output %q", again)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngine_AutoescapeAndRuleFilter(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("header", map[string]any{"title": "Q&A"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Q&A\n===" {
		t.Fatalf("unexpected header %q", got)
	}

	escaped, err := engine.RenderString(`{{ v }}`, map[string]any{"v": "<b>"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if escaped != "&lt;b&gt;" {
		t.Fatalf("expected autoescaped output, got %q", escaped)
	}
}

func TestEngine_Globals(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobals(map[string]any{"app": "wizard"}))
	got, err := engine.RenderTemplate("global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "wizard/anon" {
		t.Fatalf("unexpected output %q", got)
	}

	if err := engine.GlobalContext(struct {
		App string `json:"app"`
	}{App: "cli"}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	got, err = engine.RenderTemplate("global", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "cli/Ada" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_StructData(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Title  string   `json:"title"`
		Values []string `json:"values"`
	}{Title: "Topics", Values: []string{"go", "rust"}}

	got, err := engine.RenderString(`{{ title }}: {{ values|join:", " }}`, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Topics: go, rust" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := engine.RenderString(`{{ x }}`, []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non-object data")
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	name := fmt.Sprintf("shout_%d", len(t.Name()))
	err := engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		return strings.ToUpper(fmt.Sprint(input)) + "!", nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	got, err := engine.RenderString(`{{ name|`+name+` }}`, map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
	if err := engine.RegisterFilter(name, func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	if err := engine.RegisterFilter("", nil); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestEngine_WithoutFiles(t *testing.T) {
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := engine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected error without template files")
	}
	got, err := engine.RenderString(`{{ 1|add:2 }}`, nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "3" {
		t.Fatalf("unexpected output %q", got)
	}
}
