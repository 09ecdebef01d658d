// Package action defines the tagged union of values the dispatcher emits
// for the driver loop to act on. Every builtin and executor decision
// resolves to one of these concrete types — never to a side-channel string
// marker.
package action

import "github.com/dhuangca/dshell/internal/parser"

// Action is implemented only by the types in this package.
type Action interface {
	isAction()
}

// Exit terminates the shell.
type Exit struct{}

// ClearScreen clears the renderer's output buffer.
type ClearScreen struct{}

// ShowOutput displays precomputed lines (the result of a pure-output
// builtin, already evaluated by the time the dispatcher produced it).
type ShowOutput struct{ Lines []string }

// ExecuteCaptured runs cmd with stdout/stderr piped back as output lines.
type ExecuteCaptured struct{ Cmd parser.ParsedCommand }

// ExecuteInteractive runs cmd under filesystem isolation with inherited
// stdio.
type ExecuteInteractive struct{ Cmd parser.ParsedCommand }

// AllowEnvVar allows a single environment variable.
type AllowEnvVar struct{ Name string }

// DenyEnvVar denies a single environment variable.
type DenyEnvVar struct{ Name string }

// AllowAllEnvVars sets the global env-access policy to Allowed.
type AllowAllEnvVars struct{}

// DenyAllEnvVars sets the global env-access policy to Denied.
type DenyAllEnvVars struct{}

// SetEnvVar sets a custom environment variable for the session.
type SetEnvVar struct{ Key, Value string }

// AllowPath allows a single filesystem path.
type AllowPath struct{ Path string }

// DenyPath denies a single filesystem path.
type DenyPath struct{ Path string }

func (Exit) isAction()               {}
func (ClearScreen) isAction()        {}
func (ShowOutput) isAction()         {}
func (ExecuteCaptured) isAction()    {}
func (ExecuteInteractive) isAction() {}
func (AllowEnvVar) isAction()        {}
func (DenyEnvVar) isAction()         {}
func (AllowAllEnvVars) isAction()    {}
func (DenyAllEnvVars) isAction()     {}
func (SetEnvVar) isAction()          {}
func (AllowPath) isAction()          {}
func (DenyPath) isAction()           {}
