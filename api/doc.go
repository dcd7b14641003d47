// Package api provides the wire types for the Genesis HTTP API.
//
// # API Overview
//
// Genesis exposes a small RESTful API for prompt-driven project scaffolding:
//   - POST /run — generate a project from a natural-language prompt
//   - GET /health, /healthz, /ready, /readyz — health and readiness probes
//   - GET / — service metadata and endpoint index
//   - GET /version — build information
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8000
//
// Prometheus metrics are served on a separate port (default 9091) at /metrics.
package api
