package inspector

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrDiscoveryUnreachable reports that the target list could not be fetched or parsed
	ErrDiscoveryUnreachable = errors.New("discovery endpoint unreachable")

	// ErrLaunchFailed reports that the open-debugger request failed for a reason other than its timeout
	ErrLaunchFailed = errors.New("open debugger request failed")
)

// DiscoveryError describes a failed /json/list query
type DiscoveryError struct {
	URL        string
	StatusCode int
	Underlying error
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: %s returned HTTP %d", ErrDiscoveryUnreachable, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s: %v", ErrDiscoveryUnreachable, e.URL, e.Underlying)
}

// Unwrap returns the underlying cause
func (e *DiscoveryError) Unwrap() error {
	return e.Underlying
}

// Is makes errors.Is(err, ErrDiscoveryUnreachable) hold for every DiscoveryError
func (e *DiscoveryError) Is(target error) bool {
	return target == ErrDiscoveryUnreachable
}

// EvaluationError describes a failed hidden-flag check against a single target.
// These never leave the filter; they are logged and the target is skipped.
type EvaluationError struct {
	TargetID   string
	SocketURL  string
	Underlying error
}

// Error implements the error interface
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate on target %s (%s): %v", e.TargetID, e.SocketURL, e.Underlying)
}

// Unwrap returns the underlying cause
func (e *EvaluationError) Unwrap() error {
	return e.Underlying
}

// Timeout reports whether the evaluation failed because the exchange ran out of time
func (e *EvaluationError) Timeout() bool {
	return isTimeout(e.Underlying)
}

// LaunchError describes an open-debugger request that failed before any response arrived
type LaunchError struct {
	TargetID   string
	Underlying error
}

// Error implements the error interface
func (e *LaunchError) Error() string {
	return fmt.Sprintf("%v for target %s: %v", ErrLaunchFailed, e.TargetID, e.Underlying)
}

// Unwrap returns the underlying cause
func (e *LaunchError) Unwrap() error {
	return e.Underlying
}

// Is makes errors.Is(err, ErrLaunchFailed) hold for every LaunchError
func (e *LaunchError) Is(target error) bool {
	return target == ErrLaunchFailed
}

// isTimeout reports whether err was caused by a deadline rather than a refused or broken connection
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	return false
}
