// Package permission implements the dual-namespace allow/deny model over
// environment variables and filesystem paths.
package permission

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dhuangca/dshell/internal/sandbox"
)

// Permission is the tagged-union policy outcome for a single env var.
type Permission int

const (
	Allowed Permission = iota
	Denied
	AskEveryTime
)

func (p Permission) String() string {
	switch p {
	case Allowed:
		return "Allowed"
	case Denied:
		return "Denied"
	default:
		return "AskEveryTime"
	}
}

const redactedValue = "[REDACTED - use 'allow' command]"

var defaultAllowedEnvVars = []string{
	"HOME", "PATH", "USER", "SHELL", "TERM", "LANG", "EDITOR", "COLORTERM",
	"RUSTUP_HOME", "CARGO_HOME", "RUST_BACKTRACE", "RUSTC", "RUSTDOC",
}

// Manager holds the mutable permission state for one shell session: the
// global env-access fallback policy, per-variable env allow/deny sets, and
// per-path filesystem allow/deny sets. It is owned by the driver loop and
// mutated only between commands.
type Manager struct {
	envPolicy Permission
	envAllow  map[string]struct{}
	envDeny   map[string]struct{}
	pathAllow map[string]struct{}
	pathDeny  map[string]struct{}
}

// NewManager returns a Manager seeded with the default safe env-var allow
// list and AskEveryTime as the global env-access fallback.
func NewManager() *Manager {
	m := &Manager{
		envPolicy: AskEveryTime,
		envAllow:  make(map[string]struct{}),
		envDeny:   make(map[string]struct{}),
		pathAllow: make(map[string]struct{}),
		pathDeny:  make(map[string]struct{}),
	}
	for _, v := range defaultAllowedEnvVars {
		m.envAllow[v] = struct{}{}
	}
	return m
}

// SetEnvAccess replaces the global env-access fallback policy.
func (m *Manager) SetEnvAccess(p Permission) {
	m.envPolicy = p
}

// CheckEnvVar reports the effective permission for name: deny wins over
// allow, which wins over the global fallback.
func (m *Manager) CheckEnvVar(name string) Permission {
	if _, denied := m.envDeny[name]; denied {
		return Denied
	}
	if _, allowed := m.envAllow[name]; allowed {
		return Allowed
	}
	return m.envPolicy
}

// AllowEnvVar allows name, removing any existing deny entry.
func (m *Manager) AllowEnvVar(name string) {
	delete(m.envDeny, name)
	m.envAllow[name] = struct{}{}
}

// DenyEnvVar denies name, removing any existing allow entry.
func (m *Manager) DenyEnvVar(name string) {
	delete(m.envAllow, name)
	m.envDeny[name] = struct{}{}
}

// EnvVar is a single (name, value) pair, as returned by AllowedEnvVars.
type EnvVar struct {
	Name  string
	Value string
}

// AllowedEnvVars iterates the OS process environment and returns it
// filtered by CheckEnvVar: denied variables are omitted, AskEveryTime
// variables are redacted, allowed variables pass through verbatim. The
// result is sorted ascending by name.
func (m *Manager) AllowedEnvVars() []EnvVar {
	var out []EnvVar
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch m.CheckEnvVar(name) {
		case Allowed:
			out = append(out, EnvVar{Name: name, Value: value})
		case Denied:
			// omitted
		case AskEveryTime:
			out = append(out, EnvVar{Name: name, Value: redactedValue})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListAllowedEnvVars returns the sorted names explicitly present in the
// env allow set.
func (m *Manager) ListAllowedEnvVars() []string { return sortedKeys(m.envAllow) }

// ListDeniedEnvVars returns the sorted names explicitly present in the env
// deny set.
func (m *Manager) ListDeniedEnvVars() []string { return sortedKeys(m.envDeny) }

// AllowPath allows path (after tilde expansion), removing any existing deny
// entry for the expanded form.
func (m *Manager) AllowPath(path string) {
	expanded := sandbox.ExpandTilde(path)
	delete(m.pathDeny, expanded)
	m.pathAllow[expanded] = struct{}{}
}

// DenyPath denies path (after tilde expansion), removing any existing
// allow entry for the expanded form.
func (m *Manager) DenyPath(path string) {
	expanded := sandbox.ExpandTilde(path)
	delete(m.pathAllow, expanded)
	m.pathDeny[expanded] = struct{}{}
}

// ListAllowedPaths returns the sorted allowed path set.
func (m *Manager) ListAllowedPaths() []string { return sortedKeys(m.pathAllow) }

// ListDeniedPaths returns the sorted denied path set.
func (m *Manager) ListDeniedPaths() []string { return sortedKeys(m.pathDeny) }

// AllowedPaths returns the raw allowed-path set, for the IsolationEngine to
// consume directly.
func (m *Manager) AllowedPaths() map[string]struct{} { return m.pathAllow }

// DeniedPaths returns the raw denied-path set.
func (m *Manager) DeniedPaths() map[string]struct{} { return m.pathDeny }

// Status produces a human-readable multi-line security report, used by the
// "security"/"status" builtin.
func (m *Manager) Status() []string {
	out := []string{
		"Security Status:",
		"",
		"Global Env Access: " + m.envPolicy.String(),
		"Allowed Env Vars: " + strconv.Itoa(len(m.envAllow)),
		"Denied Env Vars: " + strconv.Itoa(len(m.envDeny)),
	}

	if len(m.envAllow) > 0 {
		out = append(out, "", "Explicitly Allowed Env Vars:")
		for _, v := range m.ListAllowedEnvVars() {
			out = append(out, "  ✓ "+v)
		}
	}
	if len(m.envDeny) > 0 {
		out = append(out, "", "Explicitly Denied Env Vars:")
		for _, v := range m.ListDeniedEnvVars() {
			out = append(out, "  ✗ "+v)
		}
	}
	if len(m.pathAllow) > 0 {
		out = append(out, "", "Allowed Filesystem Paths:")
		for _, p := range m.ListAllowedPaths() {
			out = append(out, "  ✓ "+p)
		}
	}
	if len(m.pathDeny) > 0 {
		out = append(out, "", "Denied Filesystem Paths:")
		for _, p := range m.ListDeniedPaths() {
			out = append(out, "  ✗ "+p)
		}
	}

	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
