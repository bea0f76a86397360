// Package service runs the comparison pipeline for one fund: locate the two
// latest filings, fetch and parse both information tables, and reconcile them.
//
// Comparer owns the collaborators around the pure parser and engine: the
// snapshot cache, the optional document store, and request coalescing so
// concurrent requests for one fund share a single set of EDGAR calls.
package service
