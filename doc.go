/*
Package portnet builds a port-to-port maritime traffic network from vessel port-visit records.

Each vessel's visits are ordered in time and consecutive calls at different ports become
directed trips. Trips are aggregated into weighted edges and every port receives its
visit statistics plus weighted in, out and total degree strength. The two resulting
tables (ports and edges) feed hub and route analysis.

# Concept

The build is a deterministic batch pipeline: the same records always produce the same
tables, in the same order. Everything around the pipeline (where records come from,
where tables are stored, how they are served) lives behind the interfaces of
pkg/ports, so the Builder can be embedded in a CLI, an HTTP server or an agent tool.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/portnet"
		"github.com/aretw0/portnet/pkg/adapters/file"
	)

	func main() {
		src := file.NewRecordStore("port_visits.ndjson")

		network, err := portnet.New(portnet.WithWorkers(4)).BuildFromSource(context.Background(), src)
		if err != nil {
			log.Fatal(err)
		}

		for _, p := range network.Ports {
			fmt.Println(p.PortID, p.Visits, p.TotalStrength)
		}
	}
*/
package portnet
