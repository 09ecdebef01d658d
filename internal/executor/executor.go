// Package executor runs external commands, either captured (output piped
// back to the shell) or interactive (isolated under Landlock, inheriting
// the terminal directly).
package executor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
)

// ExecutionMode reports whether cmd should run interactively: an exact,
// unresolved string match against cfg.InteractiveCommands. A user who types
// the full path to an interactive command (e.g. /usr/bin/vim) still gets
// captured-mode execution unless that exact path string is listed.
func ExecutionMode(cmd parser.ParsedCommand, cfg config.Config) (interactive bool) {
	return slices.Contains(cfg.InteractiveCommands, cmd.Command)
}

// buildChildEnv returns custom_env followed by every (k, v) from
// perms.AllowedEnvVars() whose value is not redacted and whose key is not
// already present in custom_env — the env-filtering rule shared by both
// captured and interactive execution.
func buildChildEnv(perms *permission.Manager, customEnv map[string]string) []string {
	env := make([]string, 0, len(customEnv))
	for k, v := range customEnv {
		env = append(env, k+"="+v)
	}
	for _, v := range perms.AllowedEnvVars() {
		if strings.HasPrefix(v.Value, "[REDACTED") {
			continue
		}
		if _, overridden := customEnv[v.Name]; overridden {
			continue
		}
		env = append(env, v.Name+"="+v.Value)
	}
	return env
}

// ExecuteCaptured spawns cmd with a clean, filtered environment, pipes
// stdout/stderr, and returns their combined lines (stdout first, then
// stderr, unprefixed). Spawn failures produce a single diagnostic line plus
// a contextual hint instead of an error return, matching this shell's
// convention that child-process trouble is reported as output, not as a Go
// error.
func ExecuteCaptured(cmd parser.ParsedCommand, perms *permission.Manager, customEnv map[string]string) []string {
	c := exec.Command(cmd.Command, cmd.Args...)
	c.Env = buildChildEnv(perms, customEnv)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	if err != nil && isSpawnFailure(err) {
		return spawnFailureLines(cmd.Command, err)
	}

	var lines []string
	lines = append(lines, splitNonEmpty(stdout.String())...)
	lines = append(lines, splitNonEmpty(stderr.String())...)
	return lines
}

// isSpawnFailure reports whether err indicates the process never started
// (as opposed to a normal non-zero exit, which is not a shell error).
func isSpawnFailure(err error) bool {
	var exitErr *exec.ExitError
	return !errors.As(err, &exitErr)
}

func spawnFailureLines(name string, err error) []string {
	lines := []string{fmt.Sprintf("dshell: %s: %v", name, err)}
	if errors.Is(err, exec.ErrNotFound) || os.IsNotExist(err) {
		lines = append(lines, fmt.Sprintf("hint: command not found; PATH=%s", os.Getenv("PATH")))
	} else if os.IsPermission(err) {
		lines = append(lines, "hint: permission denied; check file mode and filesystem isolation rules")
	}
	return lines
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
