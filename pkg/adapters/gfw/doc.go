/*
Package gfw fetches port visit events from the Global Fishing Watch events API.

The API is paginated with limit/offset and answers with nested entries. Flatten turns
each entry into a flat domain.RawRecord using the input record columns, taking the
anchorage from port_visit.intermediateAnchorage and falling back to startAnchorage.
Records are not filtered here: incomplete records are dropped and counted later by the
cleaning stage of the build.
*/
package gfw
