package main

import (
	"github.com/aretw0/portnet/internal/cli"
	"github.com/aretw0/portnet/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Exposes the stored datasets to agents over the Model Context Protocol.
By default the server speaks JSON-RPC on stdio; --sse serves it over HTTP instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		stores, err := cli.OpenStores(cfg)
		if err != nil {
			return err
		}
		defer stores.Close()

		server := mcp.NewServer(stores.Serving(cfg.Server.CacheTTL), logger)

		useSSE, _ := cmd.Flags().GetBool("sse")
		if !useSSE {
			return server.ServeStdio()
		}

		port, _ := cmd.Flags().GetInt("port")
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return server.ServeSSE(ctx, port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over HTTP with Server-Sent Events instead of stdio")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the SSE transport")
}
