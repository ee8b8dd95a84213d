package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const visitsNDJSON = `{"event_id":"e1","type":"port_visit","vessel_id":"v1","port_id":"A","port_name":"ALPHA","port_lat":1,"port_lon":2,"start":"2024-07-01T00:00:00Z"}
{"event_id":"e2","type":"port_visit","vessel_id":"v1","port_id":"B","port_name":"BRAVO","port_lat":3,"port_lon":4,"start":"2024-07-02T00:00:00Z"}
{"event_id":"e3","type":"port_visit","vessel_id":"v2","port_id":"B","port_name":"BRAVO","port_lat":3,"port_lon":4,"start":"2024-07-03T00:00:00Z"}
{"event_id":"e4","type":"port_visit","vessel_id":"v2","port_id":"A","port_name":"ALPHA","port_lat":1,"port_lon":2,"start":"2024-07-04T00:00:00Z"}
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	records := filepath.Join(dir, "visits.ndjson")
	require.NoError(t, os.WriteFile(records, []byte(visitsNDJSON), 0644))

	cfgPath := filepath.Join(dir, "portnet.yaml")
	cfg := "dataset: med\nlog_level: error\n" +
		"records:\n  kind: file\n  path: " + records + "\n" +
		"store:\n  kind: file\n  path: " + filepath.Join(dir, "datasets") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	t.Run("Version", func(t *testing.T) {
		out := run(t, "version")
		assert.True(t, strings.HasPrefix(out, "portnet version "))
	})

	t.Run("Build", func(t *testing.T) {
		out := run(t, "build", "--config", cfgPath, "--csv-dir", filepath.Join(dir, "csv"))
		assert.Contains(t, out, "Built med: 2 ports, 2 edges (0 records dropped)")
		assert.FileExists(t, filepath.Join(dir, "datasets", "med.json"))
		assert.FileExists(t, filepath.Join(dir, "csv", "edges.csv"))
	})

	t.Run("Graph", func(t *testing.T) {
		out := run(t, "graph", "--config", cfgPath)
		assert.True(t, strings.HasPrefix(out, "graph LR\n"))
		assert.Contains(t, out, "A -->|1| B")
		assert.Contains(t, out, "B -->|1| A")
	})

	t.Run("Summary", func(t *testing.T) {
		out := run(t, "summary", "--config", cfgPath)
		assert.Contains(t, out, "# Port network: med")
	})
}
