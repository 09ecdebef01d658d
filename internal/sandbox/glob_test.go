package sandbox

import "testing"

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/dev")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"bare tilde", "~", "/home/dev"},
		{"tilde slash", "~/.claude", "/home/dev/.claude"},
		{"embedded tilde untouched", "a~b", "a~b"},
		{"absolute untouched", "/etc/passwd", "/etc/passwd"},
		{"relative untouched", "foo/bar", "foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTilde(tt.path); got != tt.want {
				t.Errorf("ExpandTilde(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpandTilde_NoHome(t *testing.T) {
	t.Setenv("HOME", "")
	if got := ExpandTilde("~/.claude"); got != "~/.claude" {
		t.Errorf("ExpandTilde with no HOME = %q, want unchanged", got)
	}
}

func TestContainsGlobChars(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/usr/bin", false},
		{"/usr/*", true},
		{"a?b", true},
		{"[abc]", true},
	}
	for _, tt := range tests {
		if got := ContainsGlobChars(tt.path); got != tt.want {
			t.Errorf("ContainsGlobChars(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExpandAllowList_NonGlobPassthrough(t *testing.T) {
	got := ExpandAllowList([]string{"/usr/bin", "/usr/bin"})
	if len(got) != 1 || got[0] != "/usr/bin" {
		t.Errorf("ExpandAllowList dedupe = %v, want [/usr/bin]", got)
	}
}
