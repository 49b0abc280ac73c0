// Package sqlite provides a key-value medium stored in a SQLite database,
// using the pure-Go modernc.org/sqlite driver.
package sqlite
