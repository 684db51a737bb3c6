// Package llm provides an OpenRouter chat client that returns JSON payloads.
//
// The clustering oracle uses it to group flagged stories into themes and to
// draft topic proposals for selected clusters. Callers own the prompts and the
// response schema; this package only moves JSON across the wire.
//
// # Configuration
//
// Requires api_key and model; base_url, referer, title and timeout are
// optional. An empty api key makes every call fail fast so callers can report
// the oracle as unconfigured.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx, empty completions and network
// timeouts with exponential backoff (base 1s, max 10s, 5 attempts by
// default). A Retry-After header overrides the computed delay. Context
// cancellation aborts retries immediately.
package llm
