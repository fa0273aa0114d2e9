// Klussite - Handyman Business Website and Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/klussite

// Command ai-run generates SEO content pieces for one or all AI profiles,
// within each profile's plan limits.
//
//	ai-run                       # every profile, Dutch
//	ai-run --profile-id 2 --language en
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/klussite/internal/analytics"
	"github.com/tomtom215/klussite/internal/assistant"
	"github.com/tomtom215/klussite/internal/cache"
	"github.com/tomtom215/klussite/internal/config"
	"github.com/tomtom215/klussite/internal/logging"
	"github.com/tomtom215/klussite/internal/store"
)

func main() {
	var (
		profileID int64
		language  string
	)
	flag.Int64Var(&profileID, "profile-id", 0, "AI profile id (default: all profiles)")
	flag.StringVar(&language, "language", assistant.DefaultLanguage, "content language")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := run(ctx, cfg, profileID, language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Done. Generated %d items.\n", res.Generated)
}

func run(ctx context.Context, cfg *config.Config, profileID int64, language string) (assistant.RunResult, error) {
	st, err := store.Open(cfg.Database)
	if err != nil {
		return assistant.RunResult{}, fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	// The generator never reads traffic data; mock analytics satisfies the
	// assistant's overview source.
	mem := cache.NewMemoryStore(0)
	defer func() { _ = mem.Close() }()
	overview := analytics.NewService(nil, mem, nil, analytics.Options{})

	var completer assistant.Completer
	if c := assistant.NewOpenAIClient(cfg.AI); c != nil {
		completer = c
	} else {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY not set, writing fallback templates")
	}
	gen := assistant.NewGenerator(assistant.New(completer, st, overview), st, cfg.Site.BaseURL)
	return gen.Run(ctx, profileID, language)
}
