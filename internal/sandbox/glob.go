package sandbox

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ContainsGlobChars reports whether a path contains shell-glob metacharacters.
func ContainsGlobChars(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// ExpandTilde replaces a leading "~" or "~/" with the HOME environment
// variable. Paths that do not start with one of those two forms are
// returned unchanged; if HOME is unset the path is also returned unchanged.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := os.Getenv("HOME")
	if home == "" {
		return path
	}
	return strings.Replace(path, "~", home, 1)
}

// ExpandAllowList tilde-expands every entry, then expands any entry that
// contains glob metacharacters into concrete paths rooted at cwd (or an
// absolute non-glob prefix for absolute patterns). Non-glob entries pass
// through unchanged (after tilde expansion). Duplicate results are
// collapsed.
func ExpandAllowList(patterns []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	for _, raw := range patterns {
		p := ExpandTilde(raw)
		if !ContainsGlobChars(p) {
			add(p)
			continue
		}

		var base, rest string
		if filepath.IsAbs(p) {
			parts := strings.Split(p, string(filepath.Separator))
			var baseParts []string
			for _, part := range parts {
				if ContainsGlobChars(part) {
					break
				}
				baseParts = append(baseParts, part)
			}
			base = strings.Join(baseParts, string(filepath.Separator))
			if base == "" {
				base = string(filepath.Separator)
			}
			rest = strings.TrimPrefix(p, base)
			rest = strings.TrimPrefix(rest, string(filepath.Separator))
		} else {
			base = cwd
			rest = p
		}

		matches, err := doublestar.Glob(os.DirFS(base), rest)
		if err != nil {
			continue
		}
		for _, m := range matches {
			add(filepath.Join(base, m))
		}
	}

	return out
}
