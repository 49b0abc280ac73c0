/*
Package ports defines the driven ports (interfaces) of the calform engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to run on various storage mediums and output destinations.

# Key Interfaces

  - KVStore: the durable string key-value medium (memory, file, Redis, SQLite).
  - SinkFactory / Sink: destinations for streamed export artifacts.
  - Reporter: the user-visible error channel.
  - Catalog: localized message lookup.
*/
package ports
