// Package http provides the inbound HTTP transport for the gateway.
//
// It exposes the two endpoints an MTA and a membership system talk to,
// plus operational endpoints for health checks and metrics scraping.
//
// # Usage
//
// Create and start an HTTP transport:
//
//	transport := http.NewHTTPTransport(hookService, syncService,
//	    http.WithAddr(":8025"),
//	    http.WithTLS("cert.pem", "key.pem"),
//	    http.WithAllowedOrigins([]string{"https://example.org"}),
//	    http.WithLogger(logger),
//	    http.WithExtraHandler(adminHandler),
//	    http.WithHealthChecker(healthChecker),
//	)
//	err := transport.Start(ctx)
//
// # Endpoints
//
//	POST /mta-hook   - Evaluate one SMTP stage, return a verdict
//	POST /user-sync  - Upsert or delete one membership account
//	GET  /health     - Component health, including store reachability
//	GET  /metrics    - Prometheus exposition
//	/admin/*         - Mounted extra handler for the admin surface
//
// # Security
//
//   - TLS 1.2 minimum when HTTPS is enabled via WithTLS
//   - DNS rebinding protection: Origin header validation via WithAllowedOrigins
//   - Real IP extraction from X-Forwarded-For/X-Real-IP, stored in context
//     under IPAddressKey; no handler in this repository reads it (the
//     admin surface's rate limiter keys on r.RemoteAddr), and the hook's
//     own policy-relevant IP comes from the request body, not the HTTP
//     transport
//
// # Middleware Chain
//
// Requests to /mta-hook and /user-sync pass through, outermost first:
// MetricsMiddleware -> RequestIDMiddleware -> RealIPMiddleware ->
// DNSRebindingProtection -> the endpoint handler.
package http
