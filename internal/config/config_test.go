package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var allKeys = []string{EnvBaseURL, EnvTimeout, EnvOutput, EnvSchema, EnvThemeVariant, EnvLogLevel, EnvStubAddr}

// clearEnv unsets every key for the test and restores the originals after.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil, missingEnvFile(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		Output:       DefaultOutput,
		ThemeVariant: DefaultThemeVariant,
		LogLevel:     DefaultLogLevel,
		StubAddr:     DefaultStubAddr,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Offline() {
		t.Fatalf("expected online mode by default")
	}
}

func TestLoad_EnvFileThenEnvThenFlags(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := strings.Join([]string{
		EnvBaseURL + "=http://from-file:9000",
		EnvOutput + "=json",
		EnvLogLevel + "=debug",
		EnvTimeout + "=3s",
	}, "\n")
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvOutput, "receipt")

	cfg, err := Load([]string{"-base-url", "http://127.0.0.1:8089", "-schema", "form.yaml"}, envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:8089" {
		t.Fatalf("flag should win, got %q", cfg.BaseURL)
	}
	if cfg.Output != "receipt" {
		t.Fatalf("environment should win over env file, got %q", cfg.Output)
	}
	if cfg.LogLevel != "debug" || cfg.Timeout != 3*time.Second {
		t.Fatalf("env file values not applied: %+v", cfg)
	}
	if !cfg.Offline() || cfg.SchemaPath != "form.yaml" {
		t.Fatalf("expected offline mode with schema, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{name: "bad timeout env", env: map[string]string{EnvTimeout: "soon"}, want: EnvTimeout},
		{name: "bad timeout flag", args: []string{"-timeout", "soon"}, want: "timeout"},
		{name: "negative timeout", args: []string{"-timeout", "-1s"}, want: "negative"},
		{name: "ftp base url", args: []string{"-base-url", "ftp://example.com"}, want: "http(s)"},
		{name: "unknown level", env: map[string]string{EnvLogLevel: "loud"}, want: "log level"},
		{name: "empty output", args: []string{"-output", " "}, want: "output"},
		{name: "stray args", args: []string{"extra"}, want: "unexpected arguments"},
		{name: "unknown flag", args: []string{"-nope"}, want: "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(tc.args, missingEnvFile(t))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "info"}.Logger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown k=v") {
		t.Fatalf("unexpected log output %q", out)
	}
}
