// Package builtin recognizes and interprets dshell's in-process commands.
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhuangca/dshell/internal/action"
	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
)

const redactedValue = "[REDACTED - use 'allow' command]"

// Recognize matches cmd.Command against the builtin command table and
// returns the resulting Action. Pure-output builtins (help, env, security,
// echo, listallowpath) are evaluated immediately against perms/customEnv/cfg
// and returned as a ShowOutput; the rest describe a state mutation or
// control transfer for the driver to apply. ok is false if cmd.Command is
// not a recognized builtin.
func Recognize(cmd parser.ParsedCommand, perms *permission.Manager, customEnv map[string]string, cfg config.Config) (action.Action, bool) {
	switch cmd.Command {
	case "exit", "quit":
		return action.Exit{}, true

	case "clear", "cls":
		return action.ClearScreen{}, true

	case "help":
		return action.ShowOutput{Lines: helpText()}, true

	case "env":
		return action.ShowOutput{Lines: envOutput(perms, customEnv)}, true

	case "export":
		key, value, ok := parseExport(cmd.RawInput)
		if !ok {
			return action.ShowOutput{Lines: []string{"Usage: export KEY=VALUE"}}, true
		}
		return action.SetEnvVar{Key: key, Value: value}, true

	case "echo":
		return action.ShowOutput{Lines: []string{echoOutput(cmd.Args, perms, customEnv)}}, true

	case "allow":
		if len(cmd.Args) == 0 {
			return action.AllowAllEnvVars{}, true
		}
		return action.AllowEnvVar{Name: cmd.Args[0]}, true

	case "deny":
		if len(cmd.Args) == 0 {
			return action.DenyAllEnvVars{}, true
		}
		return action.DenyEnvVar{Name: cmd.Args[0]}, true

	case "allowpath":
		if len(cmd.Args) == 0 {
			return action.ShowOutput{Lines: []string{"Usage: allowpath <path>"}}, true
		}
		return action.AllowPath{Path: cmd.Args[0]}, true

	case "denypath":
		if len(cmd.Args) == 0 {
			return action.ShowOutput{Lines: []string{"Usage: denypath <path>"}}, true
		}
		return action.DenyPath{Path: cmd.Args[0]}, true

	case "listallowpath", "listpaths":
		return action.ShowOutput{Lines: listAllowedPaths(perms, cfg)}, true

	case "security", "status":
		return action.ShowOutput{Lines: perms.Status()}, true

	default:
		return nil, false
	}
}

func helpText() []string {
	return []string{
		"dshell - security-hardened interactive command shell",
		"",
		"Builtins:",
		"  exit, quit            Exit the shell",
		"  clear, cls             Clear the screen",
		"  help                   Show this help",
		"  env                    List environment variables",
		"  export KEY=VALUE       Set a session environment variable",
		"  echo [args...]         Print args, expanding $VAR / ${VAR}",
		"  allow [VAR]            Allow an env var, or all if no VAR given",
		"  deny [VAR]             Deny an env var, or all if no VAR given",
		"  allowpath PATH         Allow a filesystem path",
		"  denypath PATH          Deny a filesystem path",
		"  listallowpath          List allowed filesystem paths",
		"  security, status       Show the current security status",
		"",
		"Anything else is run as an external command, either captured",
		"(output is shown after it completes) or interactive (isolated",
		"under Landlock with direct terminal access), depending on the",
		"configured interactive_commands list.",
	}
}

func envOutput(perms *permission.Manager, customEnv map[string]string) []string {
	vars := perms.AllowedEnvVars()

	var out []string
	out = append(out, "System Environment Variables:")
	for _, v := range vars {
		out = append(out, fmt.Sprintf("  %s=%s", v.Name, v.Value))
	}

	if len(customEnv) > 0 {
		out = append(out, "", "Custom Environment Variables:")
		keys := make([]string, 0, len(customEnv))
		for k := range customEnv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, fmt.Sprintf("  %s=%s", k, customEnv[k]))
		}
	}

	total := len(vars) + len(customEnv)
	out = append(out, "", fmt.Sprintf("Showing: %d system + %d custom = %d total environment variables",
		len(vars), len(customEnv), total))
	return out
}

func listAllowedPaths(perms *permission.Manager, cfg config.Config) []string {
	var out []string
	out = append(out, "From config file:")
	if len(cfg.AdditionalAllowedPaths) == 0 {
		out = append(out, "  (none)")
	}
	for _, p := range cfg.AdditionalAllowedPaths {
		out = append(out, "  "+p)
	}

	dynamic := perms.ListAllowedPaths()
	out = append(out, "", "Dynamically added (via allowpath command):")
	if len(dynamic) == 0 {
		out = append(out, "  (none)")
	}
	for _, p := range dynamic {
		out = append(out, "  "+p)
	}

	total := len(cfg.AdditionalAllowedPaths) + len(dynamic)
	out = append(out, "", fmt.Sprintf("Total: %d allowed path(s) (%d from config + %d dynamic)",
		total, len(cfg.AdditionalAllowedPaths), len(dynamic)))
	return out
}

// parseExport recovers KEY and VALUE from the raw, unsplit export line so
// that quoted values with internal whitespace survive. It skips past the
// "export" token and the whitespace following it, splits the remainder at
// the first '=', and strips one matching pair of surrounding quotes from
// the value if present.
func parseExport(rawInput string) (key, value string, ok bool) {
	idx := strings.IndexFunc(rawInput, func(r rune) bool { return r == ' ' || r == '\t' })
	if idx < 0 {
		return "", "", false
	}
	rest := strings.TrimLeft(rawInput[idx:], " \t")
	if rest == "" {
		return "", "", false
	}

	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(rest[:eq])
	value = rest[eq+1:]
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

func echoOutput(args []string, perms *permission.Manager, customEnv map[string]string) string {
	expanded := make([]string, len(args))
	for i, a := range args {
		expanded[i] = expandVariables(a, perms, customEnv)
	}
	return strings.Join(expanded, " ")
}

// expandVariables scans s left to right, expanding $NAME and ${NAME}
// references. NAME is looked up first in customEnv, then in the OS
// environment filtered by perms; a redacted or absent variable expands to
// the empty string.
func expandVariables(s string, perms *permission.Manager, customEnv map[string]string) string {
	var b strings.Builder
	allowed := perms.AllowedEnvVars()
	lookup := func(name string) string {
		if v, ok := customEnv[name]; ok {
			return v
		}
		for _, v := range allowed {
			if v.Name == name {
				if v.Value == redactedValue {
					return ""
				}
				return v.Value
			}
		}
		return ""
	}

	i := 0
	for i < len(s) {
		if s[i] != '$' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteByte(s[i])
				i++
				continue
			}
			name := s[i+2 : i+2+end]
			b.WriteString(lookup(name))
			i = i + 2 + end + 1
			continue
		}

		j := i + 1
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteString(lookup(s[i+1 : j]))
		i = j
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

