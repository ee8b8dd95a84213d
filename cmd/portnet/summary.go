package main

import (
	"os"

	"github.com/aretw0/portnet/internal/cli"
	"github.com/aretw0/portnet/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a stored dataset",
	Long: `Prints the build statistics, top hubs and top routes of a dataset as Markdown.
On a terminal the Markdown is rendered; when piped it is written as is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")

		stores, err := cli.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		network, err := stores.Network.Load(cmd.Context(), cfg.Dataset)
		if err != nil {
			return err
		}

		md := tui.Summary(cfg.Dataset, network, top)
		return tui.Write(cmd.OutOrStdout(), md, tui.IsTerminal(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().Int("top", 10, "Rows in the hub and route tables")
}
