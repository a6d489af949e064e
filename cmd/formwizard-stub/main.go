package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/stubserver"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

func main() {
	args, openAccess := splitOpenFlag(os.Args[1:])

	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Println("usage: formwizard-stub [-addr :8089] [-schema FILE] [-open] [-log-level LEVEL]")
		return
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	options := []stubserver.Option{stubserver.WithLogger(logger)}
	if cfg.Offline() {
		src, err := schema.ParseSource(cfg.SchemaPath)
		if err != nil {
			log.Fatalf("Invalid schema source: %v", err)
		}
		loader := schema.NewLoader(schema.WithHTTPClient(http.DefaultClient), schema.WithRequestTimeout(cfg.Timeout))
		form, err := loader.Load(ctx, src)
		if err != nil {
			log.Fatalf("Failed to load schema: %v", err)
		}
		options = append(options, stubserver.WithForm(form))
	}
	if openAccess {
		options = append(options, stubserver.WithOpenAccess())
	}

	srv := &http.Server{
		Addr:              cfg.StubAddr,
		Handler:           stubserver.New(options...),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("stub server listening", "addr", cfg.StubAddr)
	fmt.Printf("Stub form service on %s\n", cfg.StubAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

// splitOpenFlag pulls the stub-only -open switch out before the shared
// configuration flags are parsed.
func splitOpenFlag(args []string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	open := false
	for _, arg := range args {
		if arg == "-open" || arg == "--open" {
			open = true
			continue
		}
		rest = append(rest, arg)
	}
	return rest, open
}
