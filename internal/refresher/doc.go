// Package refresher keeps the snapshot cache warm for a watchlist of funds.
//
// The refresher:
//   - Re-runs the comparison for every watched fund on an interval (default 6h)
//   - Refreshes funds concurrently, bounded by a semaphore
//   - Shares the EDGAR rate limiter with request traffic
//   - Logs per-fund failures and keeps going
package refresher
