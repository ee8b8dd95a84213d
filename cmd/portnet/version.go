package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/portnet"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of portnet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "portnet version %s\n", strings.TrimSpace(portnet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
