package file

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/aretw0/portnet/pkg/domain"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WritePortsCSV writes the port table with a header in domain.PortColumns order.
func WritePortsCSV(w io.Writer, ports []domain.PortMetrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.PortColumns); err != nil {
		return err
	}
	for _, p := range ports {
		row := []string{
			p.PortID, p.PortName, p.PortFlag, formatFloat(p.PortLat), formatFloat(p.PortLon),
			strconv.Itoa(p.Visits), strconv.Itoa(p.VesselsUnique),
			formatFloat(p.TotalDurationHrs), formatFloat(p.AvgDistanceShoreKm),
			formatFloat(p.InStrength), formatFloat(p.OutStrength), formatFloat(p.TotalStrength),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesCSV writes the edge table with a header in domain.EdgeColumns order.
func WriteEdgesCSV(w io.Writer, edges []domain.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.EdgeColumns); err != nil {
		return err
	}
	for _, e := range edges {
		row := []string{
			e.PortIDFrom, e.PortIDTo, strconv.Itoa(e.Trips), strconv.Itoa(e.VesselsUnique),
			e.FromName, formatFloat(e.FromLat), formatFloat(e.FromLon),
			e.ToName, formatFloat(e.ToLat), formatFloat(e.ToLon),
			formatFloat(e.MedianDeltaHours),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes ports.csv and edges.csv for network into dir.
func ExportCSV(dir string, network *domain.Network) error {
	var buf bytes.Buffer
	if err := WritePortsCSV(&buf, network.Ports); err != nil {
		return fmt.Errorf("failed to encode ports: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, "ports.csv"), buf.Bytes()); err != nil {
		return err
	}

	buf.Reset()
	if err := WriteEdgesCSV(&buf, network.Edges); err != nil {
		return fmt.Errorf("failed to encode edges: %w", err)
	}
	return writeAtomic(filepath.Join(dir, "edges.csv"), buf.Bytes())
}
