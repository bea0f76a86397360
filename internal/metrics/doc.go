// Package metrics gathers runtime counters for monitoring.
//
// Sources:
//   - Snapshot cache size
//   - Document store hits, misses, inserts and drift
//   - Refresher cycles and failures
//
// Collector.Collect returns a point-in-time Snapshot that the HTTP server
// exposes at /api/stats.
package metrics
