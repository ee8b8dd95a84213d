// Package mcp exposes stored networks to agents as MCP tools and resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/portnet"
	"github.com/aretw0/portnet/internal/presentation/views"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DatasetsURI is the resource listing the stored datasets.
const DatasetsURI = "portnet://datasets"

// Server wraps a NetworkStore and exposes it as an MCP Server.
type Server struct {
	store     ports.NetworkStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.NetworkStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:     store,
		logger:    logger,
		mcpServer: server.NewMCPServer("portnet-mcp", strings.TrimSpace(portnet.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List the names of the stored port networks."),
	), s.handleListDatasets)

	s.mcpServer.AddTool(mcp.NewTool("top_hubs",
		mcp.WithDescription("Rank the ports of a dataset by a hub metric, highest first."),
		mcp.WithString("dataset", mcp.Required(), mcp.Description("Dataset name")),
		mcp.WithString("metric", mcp.Description("visits, vessels_unique, total_strength (default), in_strength or out_strength")),
		mcp.WithNumber("top", mcp.Description("Number of ports to return (default 20)")),
	), s.handleTopHubs)

	s.mcpServer.AddTool(mcp.NewTool("top_routes",
		mcp.WithDescription("Rank the port-to-port routes of a dataset."),
		mcp.WithString("dataset", mcp.Required(), mcp.Description("Dataset name")),
		mcp.WithString("rank_by", mcp.Description("trips (default) or vessels_unique")),
		mcp.WithNumber("top", mcp.Description("Number of routes, clamped to 50..500 (default 200)")),
	), s.handleTopRoutes)

	s.mcpServer.AddTool(mcp.NewTool("port_metrics",
		mcp.WithDescription("Get the metrics row of one port."),
		mcp.WithString("dataset", mcp.Required(), mcp.Description("Dataset name")),
		mcp.WithString("port_id", mcp.Required(), mcp.Description("Port anchorage id")),
	), s.handlePortMetrics)
}

func (s *Server) handleListDatasets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if names == nil {
		names = []string{}
	}
	return jsonResult(names)
}

func (s *Server) handleTopHubs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric, err := views.ParseHubMetric(request.GetString("metric", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	network, res := s.load(ctx, request)
	if res != nil {
		return res, nil
	}
	return jsonResult(views.TopHubs(network.Ports, metric, request.GetInt("top", 20)))
}

func (s *Server) handleTopRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rank, err := views.ParseRouteRank(request.GetString("rank_by", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	network, res := s.load(ctx, request)
	if res != nil {
		return res, nil
	}
	top := views.ClampTopRoutes(request.GetInt("top", 0))
	return jsonResult(views.TopRoutes(network.Edges, rank, top))
}

func (s *Server) handlePortMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	portID, err := request.RequireString("port_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	network, res := s.load(ctx, request)
	if res != nil {
		return res, nil
	}
	p, ok := network.Port(portID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("port %q not found", portID)), nil
	}
	return jsonResult(p)
}

// load resolves the dataset argument. A non-nil result is the error to return.
func (s *Server) load(ctx context.Context, request mcp.CallToolRequest) (*domain.Network, *mcp.CallToolResult) {
	dataset, err := request.RequireString("dataset")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	network, err := s.store.Load(ctx, dataset)
	if errors.Is(err, domain.ErrDatasetNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("dataset %q not found", dataset))
	}
	if err != nil {
		s.logger.Error("MCP load failed", "dataset", dataset, "err", err)
		return nil, mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err))
	}
	return network, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: portnet://datasets
	s.mcpServer.AddResource(mcp.NewResource(DatasetsURI, "Stored Port Networks",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list datasets: %w", err)
		}
		if names == nil {
			names = []string{}
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      DatasetsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
