package inspector

// ImprovedReloadsTitle is the page title older React Native versions use for reload-capable pages
const ImprovedReloadsTitle = "React Native Experimental (Improved Chrome Reloads)"

// PageIsSupported reports whether a target supports native page reloads
func PageIsSupported(target Target) bool {
	if target.Title == ImprovedReloadsTitle {
		return true
	}
	return target.ReactNative != nil && target.ReactNative.Capabilities.NativePageReloads
}
