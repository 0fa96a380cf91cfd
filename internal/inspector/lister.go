package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// Lister queries the dev server for its inspectable targets
type Lister struct {
	httpClient *http.Client
}

// NewLister creates a lister. A nil client falls back to http.DefaultClient.
// No timeout is applied here; callers bound the query through ctx.
func NewLister(httpClient *http.Client) *Lister {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Lister{httpClient: httpClient}
}

// ListTargets fetches {origin}/json/list and returns the targets newest first.
// The dev server appends new runtimes to the end of the list, so the response is reversed.
func (l *Lister) ListTargets(ctx context.Context, origin string) ([]Target, error) {
	listURL := strings.TrimRight(origin, "/") + "/json/list"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, &DiscoveryError{URL: listURL, Underlying: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &DiscoveryError{URL: listURL, Underlying: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DiscoveryError{URL: listURL, StatusCode: resp.StatusCode}
	}

	var targets []Target
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&targets); err != nil {
		return nil, &DiscoveryError{URL: listURL, Underlying: fmt.Errorf("decode response: %w", err)}
	}
	if targets == nil {
		return nil, &DiscoveryError{URL: listURL, Underlying: errors.New("decode response: expected a JSON array, got null")}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &DiscoveryError{URL: listURL, Underlying: errors.New("decode response: unexpected data after the target list")}
	}

	for _, target := range targets {
		if target.WebSocketDebuggerURL == "" {
			return nil, &DiscoveryError{
				URL:        listURL,
				Underlying: fmt.Errorf("target %q has no webSocketDebuggerUrl", target.ID),
			}
		}
	}

	slices.Reverse(targets)
	debugLog("listed %d targets from %s", len(targets), listURL)
	return targets, nil
}
