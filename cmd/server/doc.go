// Klussite - Handyman Business Website and Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/klussite

/*
Package main is the entry point of the Klussite server.

Klussite serves the content API of a handyman business website (pages,
services, portfolio, contact and quote forms) together with its admin
dashboard: GA4 traffic summaries with a mock fallback, a realtime visitor
map pushed over WebSocket, an AI chat assistant with support escalation
by mail, preview editing of content blocks and an SEO content generator.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("klussite")
	├── DataSupervisor ("data-layer")
	│   └── Scheduler (SEO content when AI_SCHEDULE_ENABLED, audit retention)
	├── RealtimeSupervisor ("realtime-layer")
	│   └── Realtime hub (GA4 realtime snapshots over WebSocket)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Record store: DuckDB, seeded on first start, plus the audit_events table
 4. Cache: in-process memory store or Redis
 5. Analytics: GA4 Data API client behind a circuit breaker, or mock mode
 6. Assistant: OpenAI-compatible chat completions, or fallback texts
 7. Mail: SMTP, or logged and skipped when no host is set
 8. Supervisor tree and HTTP server

# Configuration

Configuration is loaded via Koanf v2 (environment > config file > defaults).

	HTTP_PORT=8000
	DUCKDB_PATH=/data/klussite.duckdb
	CACHE_BACKEND=memory            # or redis with REDIS_URL
	CACHE_MAX_ENTRIES=10000
	GA4_PROPERTY_ID=123456789
	GA4_CREDENTIALS_FILE=/secrets/ga4.json
	OPENAI_API_KEY=sk-...
	EMAIL_HOST=smtp.example.nl
	SUPPORT_EMAIL=support@hmdklusbedrijf.nl
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD_HASH=$2a$10$...  # bcrypt; required
	ALLOW_OPEN_ADMIN=false          # true serves /admin without a hash (development)
	AI_SCHEDULE_ENABLED=true
	AI_SCHEDULE="0 3 * * 1"
	AUDIT_RETENTION_DAYS=365

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the
HTTP server (draining in-flight requests), the hub and the scheduler,
then the store and cache are closed.
*/
package main
