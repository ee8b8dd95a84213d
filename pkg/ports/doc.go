/*
Package ports defines the driven ports (interfaces) of the port-visit network builder.

These interfaces decouple the pure pipeline from record stores, network stores and
coordination backends, so the same build can read from a file, a database or an
in-memory fixture and write to any of the supported stores.

# Key Interfaces

  - EventSource: Loads the flat raw visit records a build starts from.
  - EventSink: Persists raw records produced by the acquisition client.
  - NetworkStore: Persists and retrieves the port and edge tables by dataset name.
  - DistributedLocker: Serializes builds of the same dataset across processes.
*/
package ports
