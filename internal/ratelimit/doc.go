// Package ratelimit gates outbound EDGAR requests.
//
// SEC fair-access policy allows 10 requests per second per client. Every
// request made by the edgar client acquires a permit from a Limiter first.
// A single Limiter is shared by all goroutines in the process.
package ratelimit
