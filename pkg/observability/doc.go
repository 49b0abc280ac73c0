/*
Package observability provides Prometheus instrumentation for the calform engine.

A nil *Metrics is valid and records nothing, so components can take metrics as
an optional dependency without nil checks at every call site.
*/
package observability
