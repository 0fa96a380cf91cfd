// Package inspector discovers the JavaScript runtimes attached to a dev server,
// narrows them to the debuggable ones, and opens a debugger for the chosen target.
package inspector

import (
	"context"
	"net/http"
	"time"

	"github.com/standardbeagle/jsinspect/internal/cdp"
	"github.com/standardbeagle/jsinspect/internal/prompt"
)

// Inspector wires the lister, filter, selector and launcher together
type Inspector struct {
	lister      *Lister
	launcher    *Launcher
	isSupported SupportFunc
	isHidden    HiddenFunc
	chooser     prompt.Chooser
}

// Option configures an Inspector
type Option func(*Inspector)

// WithHTTPClient sets the client used for discovery and launch requests
func WithHTTPClient(client *http.Client) Option {
	return func(i *Inspector) {
		i.lister = NewLister(client)
		i.launcher = NewLauncher(client)
	}
}

// WithSupportFunc replaces PageIsSupported
func WithSupportFunc(fn SupportFunc) Option {
	return func(i *Inspector) {
		i.isSupported = fn
	}
}

// WithHiddenFunc replaces the CDP-backed hidden check
func WithHiddenFunc(fn HiddenFunc) Option {
	return func(i *Inspector) {
		i.isHidden = fn
	}
}

// WithEvaluateTimeout sets the per-target timeout of the default CDP hidden check
func WithEvaluateTimeout(timeout time.Duration) Option {
	return func(i *Inspector) {
		i.isHidden = NewHiddenCheck(cdp.NewClient(timeout))
	}
}

// WithChooser sets how the user picks among several targets
func WithChooser(chooser prompt.Chooser) Option {
	return func(i *Inspector) {
		i.chooser = chooser
	}
}

// New creates an Inspector with the default collaborators overridden by opts
func New(opts ...Option) *Inspector {
	i := &Inspector{
		lister:      NewLister(nil),
		launcher:    NewLauncher(nil),
		isSupported: PageIsSupported,
		isHidden:    NewHiddenCheck(cdp.NewClient(cdp.DefaultTimeout)),
		chooser:     prompt.NewTerminalChooser(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// QueryAll lists the targets on origin and keeps the supported, visible ones, newest first
func (i *Inspector) QueryAll(ctx context.Context, origin string) ([]Target, error) {
	targets, err := i.lister.ListTargets(ctx, origin)
	if err != nil {
		return nil, err
	}
	return FilterTargets(ctx, targets, i.isSupported, i.isHidden)
}

// QueryApp returns the newest visible target running appID, or nil when there is none
func (i *Inspector) QueryApp(ctx context.Context, origin, appID string) (*Target, error) {
	targets, err := i.QueryAll(ctx, origin)
	if err != nil {
		return nil, err
	}
	for idx := range targets {
		if targets[idx].AppID == appID {
			return &targets[idx], nil
		}
	}
	return nil, nil
}

// Prompt resolves targets to one, asking the chooser only when there is more than one
func (i *Inspector) Prompt(ctx context.Context, targets []Target) (*Target, error) {
	return SelectTarget(ctx, targets, i.chooser)
}

// Open asks the dev server on origin to open the debugger for target
func (i *Inspector) Open(ctx context.Context, origin string, target Target) (bool, error) {
	return i.launcher.OpenDebugger(ctx, origin, target)
}
