//go:build !linux

package sandbox

// RestrictFilesystem is unavailable outside Linux; dshell's isolation is
// Linux-only by design (Landlock is a Linux Security Module).
func RestrictFilesystem(workDir string, extraAllowedPaths []string) (IsolationStatus, error) {
	return NotAvailable, nil
}

// AvailableABI is always 0 outside Linux.
func AvailableABI() int { return 0 }

// IsAvailable is always false outside Linux.
func IsAvailable() bool { return false }
