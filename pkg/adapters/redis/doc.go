// Package redis provides a Redis-backed key-value medium for shared or
// long-lived configuration.
package redis
