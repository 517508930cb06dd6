/*
Package observability exports Prometheus metrics for a running state tree.

Metrics plug into the tree through domain.LifecycleHooks, so the core never
imports Prometheus. Combine them with other hooks using domain.MergeHooks.
*/
package observability
