// Package server exposes comparisons over HTTP.
//
// Routes:
//
//	GET /api/health               component health
//	GET /api/compare/:cik         comparison JSON; ?refresh=true bypasses the cache,
//	                              ?format=markdown renders a Markdown report
//	GET /api/filings/:cik         the two located information tables
//	GET /api/stats                runtime counters, when WithStats is set
//
// Failures are returned as {"error": "...", "request_id": "..."} with a status
// derived from the failure kind.
package server
