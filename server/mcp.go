package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type MCPServer struct {
	Server *server.MCPServer
}

func NewMCPServer() *MCPServer {
	return &MCPServer{Server: server.NewMCPServer("SMDP Hub", "1.0.0")}
}

// Start serves MCP over stdio until ctx is cancelled or stdin closes.
func (s *MCPServer) Start(ctx context.Context) error {
	slog.Info("Started stdio MCP server")
	defer func() {
		slog.Info("Shut down stdio MCP server")
	}()
	return server.NewStdioServer(s.Server).Listen(ctx, os.Stdin, os.Stdout)
}

// RegisterHubTools exposes read-only registry and stats tools backed by d.
func (s *MCPServer) RegisterHubTools(d *Dispatcher) {
	listDevices := mcp.NewTool("list_devices",
		mcp.WithDescription("Get a list of the devices registered with this hub"),
	)
	s.Server.AddTool(listDevices, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		devices := d.Registery.List()
		sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
		return jsonResult(devices)
	})

	getDevice := mcp.NewTool("get_device",
		mcp.WithDescription("Get the registry record of a single device"),
		mcp.WithString("device_id",
			mcp.Required(),
			mcp.Description("Device identifier as sent in its registration"),
		),
	)
	s.Server.AddTool(getDevice, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("device_id")
		if err != nil {
			return mcp.NewToolResultError("device_id is required and must be a string"), nil
		}
		rec, ok := d.Registery.Get(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Device not found: %s", id)), nil
		}
		return jsonResult(rec)
	})

	hubStats := mcp.NewTool("hub_stats",
		mcp.WithDescription("Get message counters for this hub"),
	)
	s.Server.AddTool(hubStats, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(d.Stats())
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
