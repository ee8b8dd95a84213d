/*
Package domain contains the core domain models of the port-visit network builder.

It defines the records that flow through the pipeline, from the raw flat records produced
by the acquisition client to the two output tables consumed by the presentation layer.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - RawRecord: A flat, loosely typed visit record as read from a record store.
  - PortVisitEvent: A validated stay of one vessel at one port anchorage.
  - PortCallTransition: Two temporally adjacent, distinct port visits by one vessel.
  - PortMetrics: One row of the port table (activity and weighted degree strength).
  - Edge: One row of the edge table (a directed port pair and its trip count).
  - Network: Both tables plus the statistics of the build that produced them.
*/
package domain
