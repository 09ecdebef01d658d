package executor

import (
	"encoding/gob"
	"fmt"
	"os"
	"os/exec"

	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
	"github.com/dhuangca/dshell/internal/sandbox"
)

// LandlockApplyFlag is the hidden first argument that re-invokes the dshell
// binary as its own isolated child. It must be checked before any flag
// parser (e.g. cobra) sees argv, exactly as this flag is checked first in
// the teacher CLI's own internal re-exec convention.
const LandlockApplyFlag = "--landlock-apply"

// payload is everything the --landlock-apply child needs: the work
// directory and allow-list to hand to RestrictFilesystem, the filtered
// environment to set before exec, and the target program to finally run.
// It travels from parent to child over an inherited pipe fd rather than
// argv, so it is not length-limited or visible to `ps`.
type payload struct {
	WorkDir      string
	AllowedPaths []string
	Env          []string
	TargetPath   string
	TargetArgs   []string
}

// ExecuteInteractive runs cmd isolated under Landlock with the terminal
// inherited directly (no captured output). It re-execs the current binary
// with LandlockApplyFlag; the re-exec'd process applies the ruleset to
// itself, then execs the real target, so Landlock governs the final
// execve exactly as required. The parent always returns a conservative
// NotEnforced placeholder: the status is only truly known inside the
// isolated child, which logs it to stderr itself — there is no IPC channel
// defined to report it back, matching this shell's documented contract.
func ExecuteInteractive(cmd parser.ParsedCommand, perms *permission.Manager, customEnv map[string]string, cfg config.Config) (sandbox.IsolationStatus, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return sandbox.NotAvailable, fmt.Errorf("executor: getcwd: %w", err)
	}

	targetPath, err := exec.LookPath(cmd.Command)
	if err != nil {
		targetPath = cmd.Command
	}

	p := payload{
		WorkDir:      workDir,
		AllowedPaths: effectiveAllowList(perms, cfg),
		Env:          buildChildEnv(perms, customEnv),
		TargetPath:   targetPath,
		TargetArgs:   cmd.Args,
	}

	self, err := os.Executable()
	if err != nil {
		return sandbox.NotAvailable, fmt.Errorf("executor: resolve self: %w", err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return sandbox.NotAvailable, fmt.Errorf("executor: fork: %w", err)
	}

	child := exec.Command(self, LandlockApplyFlag)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.ExtraFiles = []*os.File{r}

	if err := child.Start(); err != nil {
		r.Close()
		w.Close()
		return sandbox.NotAvailable, fmt.Errorf("executor: fork: %w", err)
	}
	r.Close()

	if err := gob.NewEncoder(w).Encode(p); err != nil {
		w.Close()
		return sandbox.NotEnforced, fmt.Errorf("executor: send payload: %w", err)
	}
	w.Close()

	err = child.Wait()
	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() == 127 {
			fmt.Fprintf(os.Stderr, "Error: Command not found or failed to execute: %s\n", cmd.Command)
		}
	} else if err != nil {
		return sandbox.NotAvailable, fmt.Errorf("executor: waitpid: %w", err)
	}

	return sandbox.NotEnforced, nil
}

// effectiveAllowList builds the child's Landlock allow-list: every path
// already in perms' allow set, plus every cfg.AdditionalAllowedPaths entry
// whose tilde-expanded form is not in perms' deny set.
func effectiveAllowList(perms *permission.Manager, cfg config.Config) []string {
	var out []string
	for p := range perms.AllowedPaths() {
		out = append(out, p)
	}

	denied := perms.DeniedPaths()
	for _, p := range cfg.AdditionalAllowedPaths {
		expanded := sandbox.ExpandTilde(p)
		if _, isDenied := denied[expanded]; !isDenied {
			out = append(out, expanded)
		}
	}
	return out
}
