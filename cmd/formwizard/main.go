package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/flow"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Println("usage: formwizard [-base-url URL] [-schema FILE] [-output json|form|pretty|receipt] [-timeout D] [-theme-variant default|plain] [-log-level LEVEL]")
		return
	}
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var c flow.Client
	if cfg.Offline() {
		c, err = formwizard.NewOfflineClient(cfg.SchemaPath, cfg.Timeout)
	} else {
		c, err = formwizard.NewRemoteClient(
			client.WithBaseURL(cfg.BaseURL),
			client.WithTimeout(cfg.Timeout),
			client.WithLogger(logger),
		)
	}
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	encoders, err := render.NewDefaultRegistry()
	if err != nil {
		log.Fatalf("Failed to build encoders: %v", err)
	}
	encoder, err := encoders.Get(cfg.Output)
	if err != nil {
		log.Fatalf("Unknown output: %v", err)
	}

	theme, err := tui.ThemeFromManifest(tui.DefaultManifest(), cfg.ThemeVariant)
	if err != nil {
		log.Fatalf("Invalid theme: %v", err)
	}

	flowOptions := []flow.Option{
		flow.WithLogger(logger),
		flow.WithSessionOptions(
			form.WithLogger(logger),
			form.WithSubmitter(form.NewLogSubmitter(logger)),
		),
	}
	submission, err := formwizard.Run(ctx, c, flowOptions,
		tui.WithTheme(theme),
		tui.WithEncoder(encoder),
		tui.WithLogger(logger),
	)
	switch {
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Aborted")
		os.Exit(130)
	case err != nil:
		log.Fatalf("Form wizard failed: %v", err)
	}
	logger.Info("submission accepted", "id", submission.ID)
}
