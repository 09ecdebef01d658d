package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dhuangca/dshell/internal/action"
	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/dispatcher"
	"github.com/dhuangca/dshell/internal/executor"
	"github.com/dhuangca/dshell/internal/permission"
	"github.com/dhuangca/dshell/internal/sandbox"
	"github.com/dhuangca/dshell/internal/terminal"
)

// App owns every piece of session state the driver loop touches: the
// renderer and input editor for interactive mode, the permission manager,
// the session's custom environment variables, and the loaded config.
type App struct {
	renderer    *terminal.Renderer
	editor      *terminal.Editor
	permissions *permission.Manager
	customEnv   map[string]string
	config      config.Config
	debug       bool
}

// newApp builds an App with its permission manager seeded from cfg's
// DeniedPaths and a welcome banner summarizing the isolation engine's
// availability.
func newApp(cfg config.Config, debug bool) *App {
	perms := permission.NewManager()
	for _, p := range cfg.DeniedPaths {
		perms.DenyPath(p)
	}

	banner := welcomeBanner(cfg)
	return &App{
		renderer:    terminal.NewRenderer(os.Stdout, banner),
		editor:      terminal.NewEditor(),
		permissions: perms,
		customEnv:   make(map[string]string),
		config:      cfg,
		debug:       debug,
	}
}

// welcomeBanner summarizes Landlock availability, the negotiated ABI, and
// the active config, wrapped at 70 columns.
func welcomeBanner(cfg config.Config) string {
	var lines []string
	lines = append(lines, config.WelcomeMessage, "")

	if sandbox.IsAvailable() {
		lines = append(lines, fmt.Sprintf("Filesystem isolation: available (Landlock ABI v%d)", sandbox.AvailableABI()))
	} else {
		lines = append(lines, "Filesystem isolation: NOT available on this kernel")
	}

	lines = append(lines, wrap70(fmt.Sprintf(
		"Interactive commands run isolated under this sandbox; everything else runs captured, with output shown after it completes. %d interactive command(s) and %d additional allowed path(s) configured.",
		len(cfg.InteractiveCommands), len(cfg.AdditionalAllowedPaths),
	))...)
	lines = append(lines, "Type 'help' for builtins, 'security' for the current policy.")
	return strings.Join(lines, "\n")
}

func wrap70(s string) []string {
	const width = 70
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return lines
}

// run selects between interactive (raw-mode TTY) and non-interactive
// (piped stdin, line-buffered) operation.
func (a *App) run() error {
	if !terminal.IsInteractive() {
		return a.runNonInteractive()
	}
	return a.runInteractive()
}

// runNonInteractive reads stdin line by line, echoing any produced output
// directly — used for piped input and scripting.
func (a *App) runNonInteractive() error {
	fmt.Println(config.WelcomeMessage)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		act, ok := dispatcher.ProcessInput(line, a.permissions, a.customEnv, a.config)
		if !ok {
			continue
		}
		if exit := a.apply(act); exit {
			return nil
		}
		for _, l := range a.renderer.GetNewOutput() {
			fmt.Println(l)
		}
	}
	return scanner.Err()
}

// runInteractive puts the terminal into raw mode and drives a full-screen
// redraw loop, reading one decoded key at a time.
func (a *App) runInteractive() error {
	restore, err := terminal.RawMode()
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer restore()

	reader := bufio.NewReader(os.Stdin)
	a.renderer.Render(config.Prompt, a.editor.Buffer(), a.editor.CursorPos())

	for {
		key, err := terminal.ReadKey(reader)
		if err != nil {
			return err
		}

		result := a.editor.HandleKey(key)
		if result.Exit {
			return nil
		}

		if key.Kind == terminal.KeyEnter {
			line := result.Submitted
			a.editor.AddToHistory(line)
			a.editor.Clear()

			act, ok := dispatcher.ProcessInput(line, a.permissions, a.customEnv, a.config)
			if ok {
				if exit := a.apply(act); exit {
					return nil
				}
			}
		}

		a.renderer.Render(config.Prompt, a.editor.Buffer(), a.editor.CursorPos())
	}
}

// apply performs the side effect described by act against App state and
// the renderer's output buffer, reporting whether the shell should exit.
func (a *App) apply(act action.Action) (exit bool) {
	switch v := act.(type) {
	case action.Exit:
		return true

	case action.ClearScreen:
		a.renderer.ClearOutput()
		terminal.ClearScreen(os.Stdout)

	case action.ShowOutput:
		a.renderer.AddOutputLines(v.Lines)

	case action.ExecuteCaptured:
		lines := executor.ExecuteCaptured(v.Cmd, a.permissions, a.customEnv)
		a.renderer.AddOutputLines(lines)

	case action.ExecuteInteractive:
		a.runIsolated(v)

	case action.AllowEnvVar:
		a.permissions.AllowEnvVar(v.Name)
		a.renderer.AddOutput(fmt.Sprintf("✓ Allowed access to: %s", v.Name))

	case action.DenyEnvVar:
		a.permissions.DenyEnvVar(v.Name)
		a.renderer.AddOutput(fmt.Sprintf("✗ Denied access to: %s", v.Name))

	case action.AllowAllEnvVars:
		a.permissions.SetEnvAccess(permission.Allowed)
		a.renderer.AddOutput("✓ Allowed access to ALL environment variables")

	case action.DenyAllEnvVars:
		a.permissions.SetEnvAccess(permission.Denied)
		a.renderer.AddOutput("✗ Denied access to ALL environment variables")

	case action.SetEnvVar:
		a.customEnv[v.Key] = v.Value
		a.renderer.AddOutput(fmt.Sprintf("✓ Set environment variable: %s=%s", v.Key, v.Value))

	case action.AllowPath:
		a.permissions.AllowPath(v.Path)
		a.renderer.AddOutput(fmt.Sprintf("✓ Allowed filesystem access to: %s", v.Path))

	case action.DenyPath:
		a.permissions.DenyPath(v.Path)
		a.renderer.AddOutput(fmt.Sprintf("✗ Denied filesystem access to: %s", v.Path))
	}
	return false
}

// runIsolated runs cmd under filesystem isolation with the terminal
// inherited directly. The caller's raw mode stays in effect across the
// child's lifetime; most interactive commands (vim, ssh, a REPL) put the
// terminal into their own raw mode regardless.
func (a *App) runIsolated(ex action.ExecuteInteractive) {
	terminal.ClearScreen(os.Stdout)
	status, err := executor.ExecuteInteractive(ex.Cmd, a.permissions, a.customEnv, a.config)
	if err != nil {
		a.renderer.AddOutput(fmt.Sprintf("dshell: %s: %v", ex.Cmd.Command, err))
	} else if a.debug {
		a.renderer.AddOutput(fmt.Sprintf("[isolation: %s]", status))
	}
	a.renderer.AddOutput("[Nothing to display. Press Enter to continue]")
}
