/*
Package export implements the Streaming Export Session: a begin/write/finish
protocol that streams a generated artifact to a user-visible destination
without holding the whole result in memory.

A Manager owns at most one active session. Begin aborts the active session
before opening a new sink, so two sinks are never written at the same time.
Write without an active session is a silent no-op. Finish closes the sink asynchronously and delivers the outcome on
a channel; a close failure leaves the session Failed and is reported through
the configured ports.Reporter, never retried.
*/
package export
