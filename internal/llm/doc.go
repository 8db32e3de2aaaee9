// Package llm refines heuristic spending reports with a language model.
// Only anonymized aggregates are sent: category totals bucketed into ranges
// and counts, never merchant names or exact amounts. Requests go through a
// shared throttle (token bucket plus concurrency cap), retries and a
// response cache.
package llm
