/*
Package configstore implements the Durable Configuration Store: it keeps the
live form state synchronized with a durable key-value medium.

Every field is stored under its registry key. Flags are written as the literal
strings "true" and "false"; scalars are written as-is and never parsed here.
Loading yields an optional-value FormState: fields with no stored value stay
unset so the presentation layer can apply its own defaults.

Write failures are never returned to the caller. They are logged, counted and
handed to an optional handler, and the in-memory state stays authoritative for
the rest of the session.
*/
package configstore
