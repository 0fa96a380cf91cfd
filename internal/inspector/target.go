package inspector

// Capabilities describes the native features a runtime reports through the dev middleware
type Capabilities struct {
	NativePageReloads        bool `json:"nativePageReloads,omitempty"`
	NativeSourceCodeFetching bool `json:"nativeSourceCodeFetching,omitempty"`
	PrefersFuseboxFrontend   bool `json:"prefersFuseboxFrontend,omitempty"`
}

// RuntimeInfo holds React Native specific information about a target
type RuntimeInfo struct {
	// LogicalDeviceID is stable across reconnects of the same device
	LogicalDeviceID string       `json:"logicalDeviceId"`
	Capabilities    Capabilities `json:"capabilities"`
}

// Target is one inspectable JavaScript runtime exposed by the dev server
type Target struct {
	// ID combines the device ID with the page ID
	ID string `json:"id"`
	// Title describes the underlying CDP connection, e.g. "React Native Bridgeless [C++ connection]"
	Title string `json:"title"`
	// AppID is the application running on the device, e.g. "dev.expo.bareexpo"
	AppID       string `json:"appId"`
	Description string `json:"description"`
	// Type is the CDP debugger type, always "node" for compatible runtimes
	Type                 string       `json:"type"`
	DevtoolsFrontendURL  string       `json:"devtoolsFrontendUrl"`
	WebSocketDebuggerURL string       `json:"webSocketDebuggerUrl"`
	DeviceName           string       `json:"deviceName,omitempty"`
	ReactNative          *RuntimeInfo `json:"reactNative,omitempty"`
}

// DisplayName returns the device name, or a placeholder when the runtime did not report one
func (t Target) DisplayName() string {
	if t.DeviceName == "" {
		return UnknownDeviceName
	}
	return t.DeviceName
}

// LogicalDeviceID returns the device identifier or an empty string when absent
func (t Target) LogicalDeviceID() string {
	if t.ReactNative == nil {
		return ""
	}
	return t.ReactNative.LogicalDeviceID
}

// UnknownDeviceName labels targets that do not report a device name
const UnknownDeviceName = "Unknown device"
