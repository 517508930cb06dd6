// Package http exposes a running session over HTTP with a chi router:
// the current snapshot, event ingress, a Mermaid graph, an SSE stream of
// transitions and Prometheus metrics.
package http
