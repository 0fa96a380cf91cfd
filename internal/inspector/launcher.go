package inspector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// LaunchTimeout bounds the open-debugger request. Some devices never answer it,
// so running out of time counts as success.
const LaunchTimeout = time.Second

// Launcher asks the dev server to open the debugger front-end for a target
type Launcher struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewLauncher creates a launcher. A nil client falls back to http.DefaultClient.
func NewLauncher(httpClient *http.Client) *Launcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Launcher{httpClient: httpClient, timeout: LaunchTimeout}
}

// OpenDebugger sends POST {origin}/open-debugger?target={id}.
// It returns false without a request when the target has no logical device ID,
// true when the request times out, and the response's OK-ness otherwise.
// Errors other than the timeout are returned as *LaunchError.
func (l *Launcher) OpenDebugger(ctx context.Context, origin string, target Target) (bool, error) {
	if target.LogicalDeviceID() == "" {
		debugLog("failed to open React Native DevTools, target %s is missing device ID", target.ID)
		return false, nil
	}

	openURL, err := url.Parse(origin)
	if err != nil {
		return false, &LaunchError{TargetID: target.ID, Underlying: fmt.Errorf("parse origin: %w", err)}
	}
	openURL.Path = "/open-debugger"
	openURL.RawQuery = url.Values{"target": {target.ID}}.Encode()

	launchCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(launchCtx, http.MethodPost, openURL.String(), nil)
	if err != nil {
		return false, &LaunchError{TargetID: target.ID, Underlying: fmt.Errorf("create request: %w", err)}
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		// Our own bound or the client's timeout counts; a caller cancelling ctx is still a failure
		if ctx.Err() == nil && (errors.Is(launchCtx.Err(), context.DeadlineExceeded) || isTimeout(err)) {
			debugLog("no response received from React Native DevTools for target %s", target.ID)
			return true, nil
		}
		return false, &LaunchError{TargetID: target.ID, Underlying: err}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if !ok {
		debugLog("failed to open React Native DevTools, received response: %d", resp.StatusCode)
	}
	return ok, nil
}
