// Package middleware holds the global Echo middleware: rate limiting,
// CORS, request IDs, New Relic tracing, request-scoped logging,
// Prometheus metrics, panic recovery and the global error handler.
package middleware
