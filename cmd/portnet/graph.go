package main

import (
	"fmt"

	"github.com/aretw0/portnet/internal/cli"
	"github.com/aretw0/portnet/internal/presentation/graph"
	"github.com/aretw0/portnet/internal/presentation/views"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the route network visualization",
	Long:  `Loads a dataset and outputs a Mermaid diagram (graph LR) of its top routes, with the main hubs highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rankBy, _ := cmd.Flags().GetString("rank-by")
		top, _ := cmd.Flags().GetInt("top")
		hubs, _ := cmd.Flags().GetInt("hubs")
		selected, _ := cmd.Flags().GetString("port")

		rank, err := views.ParseRouteRank(rankBy)
		if err != nil {
			return err
		}

		stores, err := cli.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		network, err := stores.Network.Load(cmd.Context(), cfg.Dataset)
		if err != nil {
			return err
		}

		routes := views.TopRoutes(network.Edges, rank, views.ClampTopRoutes(top))
		overlay := &graph.GraphOverlay{Selected: selected}
		for _, h := range views.TopHubs(network.Ports, views.MetricTotalStrength, hubs) {
			overlay.Hubs = append(overlay.Hubs, h.PortID)
		}

		// Generate and print Mermaid graph
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(routes, network.Ports, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("rank-by", "trips", "Route ranking: trips or vessels_unique")
	graphCmd.Flags().Int("top", views.MinTopRoutes, "Routes to draw (50 to 500)")
	graphCmd.Flags().Int("hubs", 10, "Ports drawn as hubs")
	graphCmd.Flags().String("port", "", "Port id to highlight")
}
