// Package compare reconciles two holdings snapshots of the same fund.
//
// Reconcile emits one row per identifier found in either snapshot, sorted by
// identifier, followed by a synthetic TOTAL row carrying the portfolio totals.
// Summarize counts rows by status and sums current values, skipping TOTAL.
//
// Both functions are pure and safe for concurrent use.
package compare
