// Package dispatcher turns one input line into a single Action by parsing
// it, checking it against the builtin table, and otherwise classifying it
// as a captured or interactive external command.
package dispatcher

import (
	"github.com/dhuangca/dshell/internal/action"
	"github.com/dhuangca/dshell/internal/builtin"
	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/executor"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
)

// ProcessInput parses line and returns the resulting Action, or ok=false
// if the line was empty.
func ProcessInput(line string, perms *permission.Manager, customEnv map[string]string, cfg config.Config) (action.Action, bool) {
	cmd, ok := parser.Parse(line)
	if !ok {
		return nil, false
	}

	if a, matched := builtin.Recognize(cmd, perms, customEnv, cfg); matched {
		return a, true
	}

	if executor.ExecutionMode(cmd, cfg) {
		return action.ExecuteInteractive{Cmd: cmd}, true
	}
	return action.ExecuteCaptured{Cmd: cmd}, true
}
