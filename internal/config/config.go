// Package config reads dshell's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the three optional startup settings dshell reads once at
// process start. It is immutable for the lifetime of a run.
type Config struct {
	InteractiveCommands    []string `toml:"interactive_commands"`
	AdditionalAllowedPaths []string `toml:"additional_allowed_paths"`
	DeniedPaths            []string `toml:"denied_paths"`
}

// Prompt and welcome message are fixed shell constants, not config-file
// keys — matching this shell's original defaults. The history cap lives in
// internal/terminal, the only package that consumes it.
const (
	Prompt         = "dshell> "
	WelcomeMessage = "Welcome to dshell terminal!"
)

// DefaultInteractiveCommands is the seed list of commands executed under
// Landlock isolation with inherited stdio, rather than captured.
var DefaultInteractiveCommands = []string{
	"claude", "ollama", "vim", "nvim", "nano", "emacs", "less", "more",
	"top", "htop", "man", "python", "node", "irb", "ssh", "bash", "sh",
	"git", "kubectl",
}

// DefaultAdditionalAllowedPaths is the seed list of extra paths granted
// full access inside the isolation sandbox, beyond the mandatory system
// read-only set and the working directory.
var DefaultAdditionalAllowedPaths = []string{
	"~/.claude", "~/.claude.json", "~/.nvm", "~/.npm", "/dev/null",
	"~/.cargo", "~/.local/bin", "~/.rustup",
}

// Default returns a Config populated with the seed defaults used when no
// config file exists or parsing fails.
func Default() Config {
	return Config{
		InteractiveCommands:    append([]string(nil), DefaultInteractiveCommands...),
		AdditionalAllowedPaths: append([]string(nil), DefaultAdditionalAllowedPaths...),
		DeniedPaths:            nil,
	}
}

// Path returns $HOME/.config/dshell/config.toml, or an error if HOME is
// unset.
func Path() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("config: HOME is not set")
	}
	return filepath.Join(home, ".config", "dshell", "config.toml"), nil
}

// Load reads and parses the config file. If the path cannot be determined
// (HOME unset) or the file does not exist, it returns Default() with no
// error. A parse failure is reported to stderr and also falls back to
// Default(), per this shell's error-handling contract: config problems are
// never fatal.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}
	return LoadFrom(path)
}

// LoadFrom reads and parses the config file at the given path, e.g. one
// supplied via --config. Missing-file and parse-failure fallback behavior
// matches Load.
func LoadFrom(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to parse config file %s: %v\n", path, err)
		fmt.Fprintln(os.Stderr, "Using default configuration")
		return Default()
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded configuration from: %s\n", path)
	return cfg
}

// DefaultConfigTemplate renders a fully-commented TOML document describing
// every key and its default value, suitable for `dshell --print-default-config`.
func DefaultConfigTemplate() string {
	var b strings.Builder
	b.WriteString("# dshell configuration\n")
	b.WriteString("# Commands in this list run under filesystem isolation with inherited\n")
	b.WriteString("# stdin/stdout/stderr instead of captured output.\n")
	b.WriteString("interactive_commands = [\n")
	for _, c := range DefaultInteractiveCommands {
		fmt.Fprintf(&b, "  %q,\n", c)
	}
	b.WriteString("]\n\n")

	b.WriteString("# Extra paths granted full (read+write+execute) access inside the sandbox,\n")
	b.WriteString("# in addition to the mandatory system read-only set and the working directory.\n")
	b.WriteString("additional_allowed_paths = [\n")
	for _, p := range DefaultAdditionalAllowedPaths {
		fmt.Fprintf(&b, "  %q,\n", p)
	}
	b.WriteString("]\n\n")

	b.WriteString("# Paths denied at startup. A denied path is dropped from the allow list only\n")
	b.WriteString("# where it matches an allowed entry exactly; files under a path that stays\n")
	b.WriteString("# allowed remain accessible.\n")
	b.WriteString("denied_paths = []\n")

	return b.String()
}
