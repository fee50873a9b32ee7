//go:build !darwin

package assets

// isLightModeOnDarwin is never called off Darwin (DefaultTheme only checks
// it when runtime.GOOS == "darwin"); this stub exists purely so the package
// builds on every platform without per-OS call sites.
func isLightModeOnDarwin() bool { return false }
