//go:build windows

package executor

import "os"

// ApplyLandlockAndExec never runs on Windows: dshell's isolation pipeline
// is Linux-only by design and this entrypoint is unreachable there.
func ApplyLandlockAndExec() {
	os.Exit(127)
}
