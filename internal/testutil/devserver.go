// Package testutil provides an in-process stand-in for a Metro dev server.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// PageBehavior controls how a page's debugger socket answers Runtime.evaluate
type PageBehavior struct {
	// Result is the raw JSON "result" remote object, e.g. {"type":"undefined"}
	Result json.RawMessage
	// Error, when set, is returned as a protocol error
	Error string
	// Hang keeps the socket open without answering
	Hang bool
	// CloseWithoutReply closes the socket right after reading the request
	CloseWithoutReply bool
}

// Undefined is the result of evaluating a global that was never set
var Undefined = json.RawMessage(`{"type":"undefined"}`)

// HiddenTrue is the result of evaluating a hide flag set to true
var HiddenTrue = json.RawMessage(`{"type":"boolean","value":true}`)

// FakeDevServer serves /json/list, /open-debugger and per-page debugger sockets
type FakeDevServer struct {
	*httptest.Server

	mu          sync.Mutex
	pages       []map[string]interface{}
	behaviors   map[string]PageBehavior
	evaluations map[string][]string
	opened      []string
	openStatus  int
	openDelay   time.Duration
	listStatus  int
	listBody    string

	upgrader websocket.Upgrader
}

// NewFakeDevServer starts a server that is closed when the test ends
func NewFakeDevServer(t *testing.T) *FakeDevServer {
	t.Helper()

	s := &FakeDevServer{
		behaviors:   make(map[string]PageBehavior),
		evaluations: make(map[string][]string),
		openStatus:  http.StatusOK,
		listStatus:  http.StatusOK,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	router := mux.NewRouter()
	router.HandleFunc("/json/list", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/open-debugger", s.handleOpen).Methods(http.MethodPost)
	router.HandleFunc("/inspector/debug/{page}", s.handleDebugger)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// AddPage registers a page in discovery order. fields override the defaults,
// which describe a supported page with a logical device ID.
func (s *FakeDevServer) AddPage(id string, behavior PageBehavior, fields map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := map[string]interface{}{
		"id":                   id,
		"title":                "React Native Bridgeless [C++ connection]",
		"appId":                "dev.expo.test",
		"description":          "React Native Bridgeless [C++ connection]",
		"type":                 "node",
		"devtoolsFrontendUrl":  "devtools://devtools/bundled/js_app.html",
		"webSocketDebuggerUrl": s.SocketURL(id),
		"deviceName":           "Pixel 7",
		"reactNative": map[string]interface{}{
			"logicalDeviceId": "device-" + id,
			"capabilities": map[string]interface{}{
				"nativePageReloads": true,
			},
		},
	}
	for k, v := range fields {
		if v == nil {
			delete(page, k)
			continue
		}
		page[k] = v
	}

	s.pages = append(s.pages, page)
	s.behaviors[id] = behavior
}

// SocketURL returns the debugger socket URL for a page ID
func (s *FakeDevServer) SocketURL(id string) string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/inspector/debug/" + url.PathEscape(id)
}

// SetListResponse overrides the /json/list status and raw body
func (s *FakeDevServer) SetListResponse(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listStatus = status
	s.listBody = body
}

// SetOpenResponse sets the /open-debugger status and how long it waits before answering
func (s *FakeDevServer) SetOpenResponse(status int, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openStatus = status
	s.openDelay = delay
}

// Evaluations returns the expressions evaluated on a page
func (s *FakeDevServer) Evaluations(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.evaluations[id]...)
}

// Opened returns the target IDs received by /open-debugger
func (s *FakeDevServer) Opened() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

func (s *FakeDevServer) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status, body := s.listStatus, s.listBody
	pages := append([]map[string]interface{}(nil), s.pages...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != "" {
		w.Write([]byte(body))
		return
	}
	if pages == nil {
		pages = []map[string]interface{}{}
	}
	json.NewEncoder(w).Encode(pages)
}

func (s *FakeDevServer) handleOpen(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.opened = append(s.opened, r.URL.Query().Get("target"))
	status, delay := s.openStatus, s.openDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	w.WriteHeader(status)
}

func (s *FakeDevServer) handleDebugger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["page"]

	s.mu.Lock()
	behavior, ok := s.behaviors[id]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req struct {
		ID     int    `json:"id"`
		Method string `json:"method"`
		Params struct {
			Expression string `json:"expression"`
		} `json:"params"`
	}
	if err := conn.ReadJSON(&req); err != nil {
		return
	}

	s.mu.Lock()
	s.evaluations[id] = append(s.evaluations[id], req.Params.Expression)
	s.mu.Unlock()

	switch {
	case behavior.CloseWithoutReply:
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return
	case behavior.Hang:
		// Wait for the client to give up
		conn.ReadMessage()
		return
	}

	// A notification first, which clients must skip
	conn.WriteJSON(map[string]interface{}{
		"method": "Runtime.executionContextCreated",
		"params": map[string]interface{}{},
	})

	if behavior.Error != "" {
		conn.WriteJSON(map[string]interface{}{
			"id":    req.ID,
			"error": map[string]interface{}{"code": -32000, "message": behavior.Error},
		})
	} else {
		result := behavior.Result
		if result == nil {
			result = Undefined
		}
		conn.WriteJSON(map[string]interface{}{
			"id":     req.ID,
			"result": map[string]interface{}{"result": result},
		})
	}

	// Drain until the client closes
	conn.ReadMessage()
}
