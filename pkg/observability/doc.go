/*
Package observability turns pipeline lifecycle hooks into logs and Prometheus metrics.

Metrics are registered on a caller-supplied registry so the HTTP server can expose
them on /metrics and tests can read them back without global state.
*/
package observability
