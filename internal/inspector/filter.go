package inspector

import (
	"context"

	"github.com/standardbeagle/jsinspect/internal/cdp"
)

// HideFromInspectorExpression reads the flag a runtime sets to opt out of debugging,
// e.g. the dev menu and dev launcher instances
const HideFromInspectorExpression = "globalThis.__expo_hide_from_inspector__"

// SupportFunc reports whether a target can be debugged at all
type SupportFunc func(target Target) bool

// HiddenFunc reports whether a target asked to be hidden. It may fail per target.
type HiddenFunc func(ctx context.Context, target Target) (bool, error)

// Evaluator runs an expression on a target's debugger socket
type Evaluator interface {
	Evaluate(ctx context.Context, socketURL, expression string) (cdp.Result, error)
}

// NewHiddenCheck builds a HiddenFunc that evaluates HideFromInspectorExpression.
// Any defined result, even null or false, marks the target hidden.
func NewHiddenCheck(evaluator Evaluator) HiddenFunc {
	return func(ctx context.Context, target Target) (bool, error) {
		result, err := evaluator.Evaluate(ctx, target.WebSocketDebuggerURL, HideFromInspectorExpression)
		if err != nil {
			return false, &EvaluationError{
				TargetID:   target.ID,
				SocketURL:  target.WebSocketDebuggerURL,
				Underlying: err,
			}
		}
		debugLog("hidden check webSocketDebuggerUrl[%s] hideFromInspector[%s]", target.WebSocketDebuggerURL, result.Value)
		return result.Defined(), nil
	}
}

// FilterTargets keeps the supported, visible targets in their original order.
// Targets are checked one at a time. A failed hidden check drops only that target.
// The returned error is non-nil only when ctx ends before every target was checked.
func FilterTargets(ctx context.Context, targets []Target, isSupported SupportFunc, isHidden HiddenFunc) ([]Target, error) {
	results := make([]Target, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if !isSupported(target) {
			debugLog("skipping unsupported target %s (%s)", target.ID, target.Title)
			continue
		}

		hidden, err := isHidden(ctx, target)
		if err != nil {
			debugLog("can't evaluate the JS on the target %s: %v", target.ID, err)
			continue
		}
		if hidden {
			debugLog("skipping hidden target %s", target.ID)
			continue
		}

		results = append(results, target)
	}
	return results, nil
}
