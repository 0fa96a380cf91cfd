package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/standardbeagle/jsinspect/internal/inspector"
)

// Tool names
const (
	ToolListTargets = "debug_targets_list"
	ToolOpenTarget  = "debug_target_open"
)

type toolHandlers struct {
	inspector  *inspector.Inspector
	defaultURL string
}

// RegisterTools registers the debug target tools on srv
func RegisterTools(srv *server.MCPServer, insp *inspector.Inspector, defaultURL string) {
	h := &toolHandlers{inspector: insp, defaultURL: defaultURL}

	listTool := mcplib.NewTool(ToolListTargets,
		mcplib.WithDescription(`List the JavaScript runtimes attached to a Metro dev server that can be debugged.

Targets without native page reload support and targets that hide themselves from the
inspector (dev menu, dev launcher) are left out. The newest runtime is listed first.`),
		mcplib.WithString("server_url",
			mcplib.Description("Dev server origin, e.g. http://localhost:8081. Defaults to the configured server."),
		),
	)
	srv.AddTool(listTool, h.handleList)

	openTool := mcplib.NewTool(ToolOpenTarget,
		mcplib.WithDescription(`Open React Native DevTools for one debug target.

Pick the target with target_id (from debug_targets_list) or app_id. With neither,
the call succeeds only when exactly one target is available.`),
		mcplib.WithString("server_url",
			mcplib.Description("Dev server origin. Defaults to the configured server."),
		),
		mcplib.WithString("target_id",
			mcplib.Description("Target ID from debug_targets_list"),
		),
		mcplib.WithString("app_id",
			mcplib.Description("Application ID, e.g. dev.expo.bareexpo. The newest matching runtime is opened."),
		),
	)
	srv.AddTool(openTool, h.handleOpen)
}

func (h *toolHandlers) serverURL(request mcplib.CallToolRequest) string {
	if u := request.GetString("server_url", ""); u != "" {
		return u
	}
	return h.defaultURL
}

func (h *toolHandlers) handleList(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	targets, err := h.inspector.QueryAll(ctx, h.serverURL(request))
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to list debug targets: %v", err)), nil
	}
	if targets == nil {
		targets = []inspector.Target{}
	}

	data, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to encode targets: %v", err)), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

func (h *toolHandlers) handleOpen(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	origin := h.serverURL(request)
	targetID := request.GetString("target_id", "")
	appID := request.GetString("app_id", "")

	targets, err := h.inspector.QueryAll(ctx, origin)
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to list debug targets: %v", err)), nil
	}

	target, err := pickTarget(targets, targetID, appID)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}

	ok, err := h.inspector.Open(ctx, origin, *target)
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to open debugger: %v", err)), nil
	}
	if !ok {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to open React Native DevTools for %s", target.ID)), nil
	}
	return mcplib.NewToolResultText(fmt.Sprintf("Opened debugger for %s on %s", target.ID, target.DisplayName())), nil
}

// pickTarget resolves the tool arguments to one target without prompting
func pickTarget(targets []inspector.Target, targetID, appID string) (*inspector.Target, error) {
	if len(targets) == 0 {
		return nil, errors.New("no debug targets found")
	}

	switch {
	case targetID != "":
		for i := range targets {
			if targets[i].ID == targetID {
				return &targets[i], nil
			}
		}
		return nil, fmt.Errorf("target %s not found; available: %s", targetID, joinIDs(targets))
	case appID != "":
		for i := range targets {
			if targets[i].AppID == appID {
				return &targets[i], nil
			}
		}
		return nil, fmt.Errorf("no debug target runs app %s; available: %s", appID, joinIDs(targets))
	case len(targets) == 1:
		return &targets[0], nil
	default:
		return nil, fmt.Errorf("%d debug targets found, pass target_id to choose one: %s", len(targets), joinIDs(targets))
	}
}

func joinIDs(targets []inspector.Target) string {
	ids := make([]string, len(targets))
	for i, target := range targets {
		ids[i] = fmt.Sprintf("%s (%s)", target.ID, target.DisplayName())
	}
	return strings.Join(ids, ", ")
}
