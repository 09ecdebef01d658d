package parser

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ParsedCommand
		ok    bool
	}{
		{"empty", "", ParsedCommand{}, false},
		{"whitespace only", "   ", ParsedCommand{}, false},
		{
			"simple command",
			"ls",
			ParsedCommand{Command: "ls", Args: []string{}, RawInput: "ls"},
			true,
		},
		{
			"command with args",
			"ls -la /tmp",
			ParsedCommand{Command: "ls", Args: []string{"-la", "/tmp"}, RawInput: "ls -la /tmp"},
			true,
		},
		{
			"trims ends but keeps internal whitespace in raw_input",
			"  ls   -la  ",
			ParsedCommand{Command: "ls", Args: []string{"-la"}, RawInput: "ls   -la"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got.Command != tt.want.Command || !reflect.DeepEqual(got.Args, tt.want.Args) || got.RawInput != tt.want.RawInput {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_IdempotentModuloTrimming(t *testing.T) {
	input := "  ls   -la  "
	first, _ := Parse(input)
	second, _ := Parse(first.RawInput)
	if !reflect.DeepEqual(first.Args, second.Args) {
		t.Errorf("Parse not idempotent: %v != %v", first.Args, second.Args)
	}
}
