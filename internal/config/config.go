package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys. Each one has a matching command-line flag.
const (
	EnvBaseURL      = "FORMWIZARD_BASE_URL"
	EnvTimeout      = "FORMWIZARD_TIMEOUT"
	EnvOutput       = "FORMWIZARD_OUTPUT"
	EnvSchema       = "FORMWIZARD_SCHEMA"
	EnvThemeVariant = "FORMWIZARD_THEME_VARIANT"
	EnvLogLevel     = "FORMWIZARD_LOG_LEVEL"
	EnvStubAddr     = "FORMWIZARD_STUB_ADDR"
)

const (
	DefaultBaseURL      = "https://dynamic-form-generator-9rl7.onrender.com"
	DefaultTimeout      = 15 * time.Second
	DefaultOutput       = "pretty"
	DefaultThemeVariant = "default"
	DefaultLogLevel     = "warn"
	DefaultStubAddr     = ":8089"
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	Output       string
	SchemaPath   string
	ThemeVariant string
	LogLevel     string
	StubAddr     string
}

// Offline reports whether a local schema replaces the remote service.
func (c Config) Offline() bool {
	return c.SchemaPath != ""
}

// Load reads the env files (".env" when none are given; missing files are
// skipped), then the environment, then args. Flags win over the environment.
func Load(args []string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	cfg := Config{
		BaseURL:      getEnv(EnvBaseURL, DefaultBaseURL),
		Output:       getEnv(EnvOutput, DefaultOutput),
		SchemaPath:   getEnv(EnvSchema, ""),
		ThemeVariant: getEnv(EnvThemeVariant, DefaultThemeVariant),
		LogLevel:     getEnv(EnvLogLevel, DefaultLogLevel),
		StubAddr:     getEnv(EnvStubAddr, DefaultStubAddr),
	}
	timeout := DefaultTimeout
	if raw, ok := os.LookupEnv(EnvTimeout); ok && raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvTimeout, err)
		}
		timeout = parsed
	}

	fset := flag.NewFlagSet("formwizard", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "remote service base URL")
	fset.DurationVar(&cfg.Timeout, "timeout", timeout, "per-request timeout (0 disables)")
	fset.StringVar(&cfg.Output, "output", cfg.Output, "submission encoder (json, form, pretty, receipt)")
	fset.StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "local schema file; enables offline mode")
	fset.StringVar(&cfg.ThemeVariant, "theme-variant", cfg.ThemeVariant, "prompt theme variant (default, plain)")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fset.StringVar(&cfg.StubAddr, "addr", cfg.StubAddr, "stub server listen address")
	if err := fset.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if fset.NArg() > 0 {
		return Config{}, fmt.Errorf("config: unexpected arguments %v", fset.Args())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot type-check on its own.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("config: base url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https", u.Host == "":
		errs = append(errs, fmt.Errorf("config: base url %q must be an http(s) URL", c.BaseURL))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: timeout must not be negative"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, fmt.Errorf("config: output encoder is required"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Logger builds a text logger at the configured level.
func (c Config) Logger(out io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log level %q", raw)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
