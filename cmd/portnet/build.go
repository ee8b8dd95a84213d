package main

import (
	"github.com/aretw0/portnet/internal/cli"
	"github.com/aretw0/portnet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the port network from the record store",
	Long: `Cleans the stored port visit records, reconstructs vessel port-call sequences and
saves the resulting port and edge tables under the dataset name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			cfg.Build.Workers, _ = cmd.Flags().GetInt("workers")
		}
		csvDir, _ := cmd.Flags().GetString("csv-dir")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		source, closeRecords, err := cli.OpenRecords(cfg)
		if err != nil {
			return err
		}
		defer closeRecords()

		stores, err := cli.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		network, err := cli.RunBuild(ctx, cfg, logger, cli.BuildOptions{
			Source:  source,
			Stores:  stores,
			Metrics: observability.NewMetrics(prometheus.NewRegistry()),
			CSVDir:  csvDir,
		})
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Built %s: %d ports, %d edges (%d records dropped)",
			cfg.Dataset, len(network.Ports), len(network.Edges), network.Stats.RecordsDropped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().Int("workers", 1, "Vessels sequenced concurrently")
	buildCmd.Flags().String("csv-dir", "", "Also write ports.csv and edges.csv to this directory")
}
