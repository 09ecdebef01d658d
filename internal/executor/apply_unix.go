//go:build !windows

package executor

import (
	"encoding/gob"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/dhuangca/dshell/internal/sandbox"
)

// landlockApplyFD is the file descriptor number ExtraFiles places the
// payload pipe at: stdin, stdout, stderr occupy 0-2.
const landlockApplyFD = 3

// ApplyLandlockAndExec is the entire body of the re-exec'd
// "--landlock-apply" child: read the payload its parent wrote over the
// inherited pipe, apply a Landlock ruleset rooted at the work directory,
// log the resulting status to stderr, then replace this process's image
// with the real target via exec — so the target's own execve, and every
// file access it makes thereafter, is governed by the ruleset. It must be
// called as close to the top of main as possible, before any flag parsing.
func ApplyLandlockAndExec() {
	// Landlock and no_new_privs apply per thread: restrict and exec must
	// happen on the same OS thread.
	runtime.LockOSThread()

	pipe := os.NewFile(landlockApplyFD, "landlock-payload")
	var p payload
	if err := gob.NewDecoder(pipe).Decode(&p); err != nil {
		fmt.Fprintf(os.Stderr, "dshell: landlock-apply: read payload: %v\n", err)
		os.Exit(127)
	}
	pipe.Close()

	status, err := sandbox.RestrictFilesystem(p.WorkDir, p.AllowedPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ Filesystem isolation error: %v (continuing unisolated)\n", err)
	}
	printIsolationStatus(status)

	if err := os.Chdir(p.WorkDir); err != nil {
		fmt.Fprintf(os.Stderr, "dshell: %s: %v\n", p.TargetPath, err)
		os.Exit(127)
	}

	argv := append([]string{p.TargetPath}, p.TargetArgs...)
	env := append(append([]string{}, p.Env...),
		"PWD="+p.WorkDir,
		"DSHELL_RESTRICTED=1",
		"DSHELL_RESTRICTED_ROOT="+p.WorkDir,
		"DSHELL_ISOLATION_STATUS="+status.String(),
	)

	err = syscall.Exec(p.TargetPath, argv, env)
	// syscall.Exec only returns on failure.
	fmt.Fprintf(os.Stderr, "dshell: %s: %v\n", p.TargetPath, err)
	if os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "hint: command not found")
	} else if os.IsPermission(err) {
		fmt.Fprintln(os.Stderr, "hint: permission denied; check file mode and filesystem isolation rules")
	}
	os.Exit(127)
}

func printIsolationStatus(status sandbox.IsolationStatus) {
	switch status {
	case sandbox.FullyEnforced:
		fmt.Fprintln(os.Stderr, "🔒 Filesystem isolation: fully enforced")
	case sandbox.PartiallyEnforced:
		fmt.Fprintln(os.Stderr, "🔒 Filesystem isolation: partially enforced")
	case sandbox.NotEnforced:
		fmt.Fprintln(os.Stderr, "⚠️ Filesystem isolation: not enforced")
	case sandbox.NotAvailable:
		fmt.Fprintln(os.Stderr, "⚠️ Filesystem isolation: not available on this kernel")
	}
}
