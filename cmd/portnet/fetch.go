package main

import (
	"fmt"

	"github.com/aretw0/portnet/internal/cli"
	"github.com/aretw0/portnet/internal/config"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download port visit events into the record store",
	Long: `Pages through the events API for the configured window and bounding box, flattens
each entry into a raw record and replaces the contents of the record store.
The API token is read from $GFW_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("%s is not set", config.EnvToken)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		sink, closeRecords, err := cli.OpenRecords(cfg)
		if err != nil {
			return err
		}
		defer closeRecords()

		n, err := cli.RunFetch(ctx, cli.ConfiguredFetcher(cfg, logger), sink, logger)
		if err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "Stored %d records in %s", n, cfg.Records.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
