// Package cache keeps the most recently fetched snapshot pair per fund.
//
// Memory wraps the expirable LRU from hashicorp/golang-lru: entries expire
// after a TTL and the least recently used entry is evicted once MaxEntries
// is reached. Nop stores nothing and is used when caching is disabled.
package cache
