// Klussite - Handyman Business Website and Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/klussite

// Command ga-check verifies the GA4 configuration by fetching a seven day
// overview and printing its headline figures.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomtom215/klussite/internal/analytics"
	"github.com/tomtom215/klussite/internal/cache"
	"github.com/tomtom215/klussite/internal/config"
	"github.com/tomtom215/klussite/internal/logging"
)

const setupHint = "Check GA4_PROPERTY_ID and GA4_CREDENTIALS_FILE."

func main() {
	days := flag.Int("days", 7, "report window in days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: "warn", Format: "console"})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Testing Google Analytics connection...")

	mem := cache.NewMemoryStore(0)
	defer func() { _ = mem.Close() }()
	svc := analytics.NewService(analytics.NewFromConfig(ctx, cfg.Analytics), mem, nil, analytics.OptionsFromConfig(cfg.Analytics))

	summary, _ := svc.Overview(ctx, *days, "")
	printSummary(os.Stdout, summary, svc.Live())
}

// printSummary writes the report with Dutch digit grouping.
func printSummary(w io.Writer, s analytics.Summary, live bool) {
	p := message.NewPrinter(language.Dutch)

	switch {
	case !live:
		p.Fprintln(w, "WARNING: using mock data, Google Analytics not configured.")
		p.Fprintln(w, setupHint)
	case s.IsMock():
		p.Fprintln(w, "ERROR: Google Analytics request failed, mock data shown.")
		p.Fprintln(w, setupHint)
	default:
		p.Fprintln(w, "Google Analytics connected successfully.")
	}

	p.Fprintf(w, "\nAnalytics Summary (%s):\n", s.Period)
	p.Fprintf(w, "   Users: %d\n", s.Overview.TotalUsers)
	p.Fprintf(w, "   Sessions: %d\n", s.Overview.TotalSessions)
	p.Fprintf(w, "   Page Views: %d\n", s.Overview.TotalPageviews)
	p.Fprintf(w, "   Bounce Rate: %v%%\n", s.Overview.BounceRate)

	if len(s.TopPages) > 0 {
		p.Fprintln(w, "\nTop Pages:")
		for i, page := range s.TopPages {
			if i == 3 {
				break
			}
			p.Fprintf(w, "   - %s - %d views\n", page.Page, page.Views)
		}
	}
}
