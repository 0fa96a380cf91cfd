// Package cdp performs single Chrome DevTools Protocol exchanges against a runtime's debugger socket.
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/standardbeagle/jsinspect/internal/debuglog"
)

// DefaultTimeout bounds one evaluate exchange, from dial to response
const DefaultTimeout = 2 * time.Second

// requestID is fixed since every connection carries exactly one request
const requestID = 0

// ErrClosedBeforeResponse is returned when the runtime closes the socket without answering
var ErrClosedBeforeResponse = errors.New("websocket closed before response was received")

// Result is the remote object returned by Runtime.evaluate
type Result struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Defined reports whether the runtime returned a value at all.
// A JSON null still counts as defined; only an absent value does not.
func (r Result) Defined() bool {
	return len(r.Value) > 0
}

// ProtocolError is an error object returned by the runtime in place of a result
type ProtocolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("CDP error %d: %s", e.Code, e.Message)
}

// ExceptionError is returned when the evaluated expression throws
type ExceptionError struct {
	Text string
}

// Error implements the error interface
func (e *ExceptionError) Error() string {
	return "evaluation threw: " + e.Text
}

type evaluateParams struct {
	Expression string `json:"expression"`
}

type message struct {
	ID     int            `json:"id"`
	Method string         `json:"method"`
	Params evaluateParams `json:"params"`
}

type exceptionDetails struct {
	Text string `json:"text"`
}

type evaluateResponse struct {
	ID     *int `json:"id"`
	Result *struct {
		Result           Result            `json:"result"`
		ExceptionDetails *exceptionDetails `json:"exceptionDetails,omitempty"`
	} `json:"result"`
	Error *ProtocolError `json:"error"`
}

// Client evaluates expressions over a target's webSocketDebuggerUrl
type Client struct {
	dialer  *websocket.Dialer
	timeout time.Duration
}

// NewClient creates a client. A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		dialer:  websocket.DefaultDialer,
		timeout: timeout,
	}
}

// Evaluate opens the socket, sends one Runtime.evaluate and returns its result
func (c *Client) Evaluate(ctx context.Context, socketURL, expression string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("dial %s: %w", socketURL, err)
	}
	defer conn.Close()

	// Unblock pending reads once ctx ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	req := message{
		ID:     requestID,
		Method: "Runtime.evaluate",
		Params: evaluateParams{Expression: expression},
	}
	if err := conn.WriteJSON(req); err != nil {
		return Result{}, c.wrapErr(ctx, "send request", err)
	}

	for {
		var resp evaluateResponse
		if err := conn.ReadJSON(&resp); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return Result{}, ErrClosedBeforeResponse
			}
			return Result{}, c.wrapErr(ctx, "read response", err)
		}

		// Skip events and responses to other requests
		if resp.ID == nil || *resp.ID != requestID {
			continue
		}

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))

		if resp.Error != nil {
			return Result{}, resp.Error
		}
		if resp.Result == nil {
			return Result{}, errors.New("response has no result")
		}
		if resp.Result.ExceptionDetails != nil {
			return Result{}, &ExceptionError{Text: resp.Result.ExceptionDetails.Text}
		}

		debugLog("evaluate %q on %s type=%s value=%s", expression, socketURL, resp.Result.Result.Type, resp.Result.Result.Value)
		return resp.Result.Result, nil
	}
}

// wrapErr prefers the context error so callers can tell timeouts from broken sockets
func (c *Client) wrapErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var logger = debuglog.New("cdp")

func debugLog(format string, args ...interface{}) {
	logger.Printf(format, args...)
}
