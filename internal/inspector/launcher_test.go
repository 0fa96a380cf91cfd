package inspector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/standardbeagle/jsinspect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func launchTarget(id string) Target {
	return Target{
		ID:          id,
		ReactNative: &RuntimeInfo{LogicalDeviceID: "device-" + id},
	}
}

func TestOpenDebuggerMissingDeviceID(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	launcher := NewLauncher(nil)

	for _, target := range []Target{
		{ID: "no-runtime-info"},
		{ID: "empty-device", ReactNative: &RuntimeInfo{}},
	} {
		ok, err := launcher.OpenDebugger(context.Background(), server.URL, target)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Empty(t, server.Opened(), "no request may be sent without a device id")
}

func TestOpenDebuggerSuccess(t *testing.T) {
	server := testutil.NewFakeDevServer(t)

	ok, err := NewLauncher(nil).OpenDebugger(context.Background(), server.URL, launchTarget("dev1#1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"dev1#1"}, server.Opened())
}

func TestOpenDebuggerNonOKResponse(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.SetOpenResponse(http.StatusNotFound, 0)

	ok, err := NewLauncher(nil).OpenDebugger(context.Background(), server.URL, launchTarget("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

// The open-debugger endpoint may never answer on some devices.
// Running out of time must be reported as success, not failure.
func TestOpenDebuggerTimeoutIsSuccess(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.SetOpenResponse(http.StatusInternalServerError, 3*time.Second)

	start := time.Now()
	ok, err := NewLauncher(nil).OpenDebugger(context.Background(), server.URL, launchTarget("a"))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, LaunchTimeout)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestOpenDebuggerShortTimeout(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.SetOpenResponse(http.StatusOK, time.Second)

	launcher := NewLauncher(nil)
	launcher.timeout = 20 * time.Millisecond

	ok, err := launcher.OpenDebugger(context.Background(), server.URL, launchTarget("a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

// A caller-supplied client may give up before the launcher's own bound
func TestOpenDebuggerClientTimeoutIsSuccess(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.SetOpenResponse(http.StatusOK, time.Second)

	launcher := NewLauncher(&http.Client{Timeout: 20 * time.Millisecond})

	ok, err := launcher.OpenDebugger(context.Background(), server.URL, launchTarget("a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenDebuggerConnectionRefusedPropagates(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	origin := server.URL
	server.Close()

	ok, err := NewLauncher(nil).OpenDebugger(context.Background(), origin, launchTarget("a"))
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrLaunchFailed))

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "a", launchErr.TargetID)
}

func TestOpenDebuggerCallerCancellationIsFailure(t *testing.T) {
	server := testutil.NewFakeDevServer(t)
	server.SetOpenResponse(http.StatusOK, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ok, err := NewLauncher(nil).OpenDebugger(ctx, server.URL, launchTarget("a"))
	assert.ErrorIs(t, err, ErrLaunchFailed)
	assert.False(t, ok)
}

func TestOpenDebuggerRequestShape(t *testing.T) {
	var method, path, target string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, target = r.Method, r.URL.Path, r.URL.Query().Get("target")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// A path on the origin is replaced, matching URL resolution of an absolute path
	ok, err := NewLauncher(server.Client()).OpenDebugger(context.Background(), server.URL+"/status", launchTarget("dev1#2"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/open-debugger", path)
	assert.Equal(t, "dev1#2", target)
}
