// Klussite - Handyman Business Website and Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/klussite

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/klussite/internal/analytics"
)

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		s := analytics.Summary{
			Period:   "Last 7 days",
			Overview: analytics.Overview{TotalUsers: 1234, TotalSessions: 2000, TotalPageviews: 15000},
			TopPages: []analytics.PageViews{
				{Page: "/", Views: 5000}, {Page: "/diensten/", Views: 900},
				{Page: "/contact/", Views: 400}, {Page: "/over-ons/", Views: 100},
			},
		}
		var buf bytes.Buffer
		printSummary(&buf, s, true)
		out := buf.String()

		for _, want := range []string{"connected successfully", "Users: 1.234", "Page Views: 15.000", "- / - 5.000 views"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "/over-ons/") {
			t.Error("only the top three pages are printed")
		}
	})

	t.Run("mock", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		printSummary(&buf, analytics.MockSummary(time.Now()), false)
		if !strings.Contains(buf.String(), "mock data") || !strings.Contains(buf.String(), setupHint) {
			t.Errorf("output = %s", buf.String())
		}
	})
}
