package assets

import "os/exec"

// isLightModeOnDarwin calls out to the platform's defaults reader, per
// §4.1: "on a Mac-like system the store checks the system dark-mode flag by
// invoking the platform defaults reader". `defaults read -g AppleInterfaceStyle`
// prints "Dark" when dark mode is on and exits non-zero (no output) otherwise.
func isLightModeOnDarwin() bool {
	out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
	if err != nil {
		// The key is absent entirely when the system is in light mode.
		return true
	}
	return len(out) == 0
}
