package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/standardbeagle/jsinspect/internal/inspector"
	"github.com/standardbeagle/jsinspect/internal/prompt"
	"github.com/standardbeagle/jsinspect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlers(t *testing.T, server *testutil.FakeDevServer) *toolHandlers {
	t.Helper()
	insp := inspector.New(
		inspector.WithEvaluateTimeout(200*time.Millisecond),
		inspector.WithChooser(prompt.FirstChooser{}),
	)
	return &toolHandlers{inspector: insp, defaultURL: server.URL}
}

func callRequest(name string, args map[string]interface{}) mcplib.CallToolRequest {
	var request mcplib.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServer(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	srv := NewServer(inspector.New(), server.URL, "test")
	assert.NotNil(t, srv)
}

func TestListTool(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.AddPage("old", testutil.PageBehavior{}, nil)
	server.AddPage("hidden", testutil.PageBehavior{Result: testutil.HiddenTrue}, nil)
	server.AddPage("new", testutil.PageBehavior{}, nil)

	h := newHandlers(t, server)
	result, err := h.handleList(context.Background(), callRequest(ToolListTargets, nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var targets []inspector.Target
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &targets))
	require.Len(t, targets, 2)
	assert.Equal(t, "new", targets[0].ID)
	assert.Equal(t, "old", targets[1].ID)
}

func TestListToolEmptyIsArray(t *testing.T) {
	server := testutil.NewFakeDevServer(t)

	result, err := newHandlers(t, server).handleList(context.Background(), callRequest(ToolListTargets, nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, "[]", resultText(t, result))
}

func TestListToolDiscoveryFailure(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.SetListResponse(http.StatusBadGateway, "")

	result, err := newHandlers(t, server).handleList(context.Background(), callRequest(ToolListTargets, nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "discovery endpoint unreachable")
}

func TestListToolServerURLArgument(t *testing.T) {
	configured := testutil.NewFakeDevServer(t)
	other := testutil.NewFakeDevServer(t)
	other.AddPage("elsewhere", testutil.PageBehavior{}, nil)

	h := newHandlers(t, configured)
	result, err := h.handleList(context.Background(), callRequest(ToolListTargets, map[string]interface{}{
		"server_url": other.URL,
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "elsewhere")
}

func TestOpenTool(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		wantErr  bool
		contains string
		opened   []string
	}{
		{"by target id", map[string]interface{}{"target_id": "a"}, false, "Opened debugger for a", []string{"a"}},
		{"by app id", map[string]interface{}{"app_id": "com.example.b"}, false, "Opened debugger for b", []string{"b"}},
		{"unknown target id", map[string]interface{}{"target_id": "zzz"}, true, "not found", nil},
		{"unknown app id", map[string]interface{}{"app_id": "com.example.none"}, true, "no debug target runs app", nil},
		{"ambiguous", nil, true, "pass target_id", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewFakeDevServer(t)
			server.AddPage("a", testutil.PageBehavior{}, map[string]interface{}{"appId": "com.example.a"})
			server.AddPage("b", testutil.PageBehavior{}, map[string]interface{}{"appId": "com.example.b"})

			result, err := newHandlers(t, server).handleOpen(context.Background(), callRequest(ToolOpenTarget, tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantErr, result.IsError)
			assert.Contains(t, resultText(t, result), tt.contains)
			assert.Equal(t, tt.opened, server.Opened())
		})
	}
}

func TestOpenToolSingleTarget(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.AddPage("only", testutil.PageBehavior{}, nil)

	result, err := newHandlers(t, server).handleOpen(context.Background(), callRequest(ToolOpenTarget, nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []string{"only"}, server.Opened())
}

func TestOpenToolNoTargets(t *testing.T) {
	server := testutil.NewFakeDevServer(t)

	result, err := newHandlers(t, server).handleOpen(context.Background(), callRequest(ToolOpenTarget, nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no debug targets found")
}

func TestOpenToolRefused(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.AddPage("only", testutil.PageBehavior{}, nil)
	server.SetOpenResponse(http.StatusNotFound, 0)

	result, err := newHandlers(t, server).handleOpen(context.Background(), callRequest(ToolOpenTarget, nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to open")
}

func TestOpenToolMissingDeviceID(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.AddPage("only", testutil.PageBehavior{}, map[string]interface{}{
		"reactNative": map[string]interface{}{
			"capabilities": map[string]interface{}{"nativePageReloads": true},
		},
	})

	result, err := newHandlers(t, server).handleOpen(context.Background(), callRequest(ToolOpenTarget, nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, server.Opened())
}
