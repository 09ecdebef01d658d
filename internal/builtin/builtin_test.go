package builtin

import (
	"testing"

	"github.com/dhuangca/dshell/internal/action"
	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
)

func parse(t *testing.T, line string) parser.ParsedCommand {
	t.Helper()
	cmd, ok := parser.Parse(line)
	if !ok {
		t.Fatalf("Parse(%q) returned no command", line)
	}
	return cmd
}

func TestRecognize_ControlBuiltins(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	tests := []struct {
		input string
		want  action.Action
	}{
		{"exit", action.Exit{}},
		{"quit", action.Exit{}},
		{"clear", action.ClearScreen{}},
		{"cls", action.ClearScreen{}},
		{"allow", action.AllowAllEnvVars{}},
		{"allow FOO", action.AllowEnvVar{Name: "FOO"}},
		{"deny", action.DenyAllEnvVars{}},
		{"deny FOO", action.DenyEnvVar{Name: "FOO"}},
		{"allowpath /tmp", action.AllowPath{Path: "/tmp"}},
		{"denypath /tmp", action.DenyPath{Path: "/tmp"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Recognize(parse(t, tt.input), perms, nil, cfg)
			if !ok {
				t.Fatalf("Recognize(%q) not matched", tt.input)
			}
			if got != tt.want {
				t.Errorf("Recognize(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecognize_UnknownCommand(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	_, ok := Recognize(parse(t, "ls -la"), perms, nil, cfg)
	if ok {
		t.Errorf("Recognize(ls -la) unexpectedly matched a builtin")
	}
}

func TestRecognize_ExportQuotedSpaces(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	got, ok := Recognize(parse(t, `export MSG="hello  world"`), perms, nil, cfg)
	if !ok {
		t.Fatal("export not recognized")
	}
	want := action.SetEnvVar{Key: "MSG", Value: "hello  world"}
	if got != want {
		t.Errorf("Recognize(export) = %#v, want %#v", got, want)
	}
}

func TestRecognize_ExportSingleQuoted(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	got, ok := Recognize(parse(t, `export MSG='hi there'`), perms, nil, cfg)
	if !ok {
		t.Fatal("export not recognized")
	}
	want := action.SetEnvVar{Key: "MSG", Value: "hi there"}
	if got != want {
		t.Errorf("Recognize(export) = %#v, want %#v", got, want)
	}
}

func TestRecognize_EchoExpandsCustomEnvFirst(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()
	customEnv := map[string]string{"MSG": "hello  world"}

	got, ok := Recognize(parse(t, "echo $MSG"), perms, customEnv, cfg)
	if !ok {
		t.Fatal("echo not recognized")
	}
	show, isShow := got.(action.ShowOutput)
	if !isShow || len(show.Lines) != 1 || show.Lines[0] != "hello  world" {
		t.Errorf("Recognize(echo $MSG) = %#v, want ShowOutput([hello  world])", got)
	}
}

func TestRecognize_EchoBraceForm(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()
	customEnv := map[string]string{"NAME": "dshell"}

	got, ok := Recognize(parse(t, "echo ${NAME}!"), perms, customEnv, cfg)
	if !ok {
		t.Fatal("echo not recognized")
	}
	show := got.(action.ShowOutput)
	if show.Lines[0] != "dshell!" {
		t.Errorf("echo ${NAME}! = %q, want dshell!", show.Lines[0])
	}
}

func TestRecognize_EchoRedactedYieldsEmpty(t *testing.T) {
	t.Setenv("FOO", "bar")
	perms := permission.NewManager() // FOO in neither set, global policy AskEveryTime
	cfg := config.Default()

	got, ok := Recognize(parse(t, "echo $FOO"), perms, nil, cfg)
	if !ok {
		t.Fatal("echo not recognized")
	}
	show := got.(action.ShowOutput)
	if show.Lines[0] != "" {
		t.Errorf("echo $FOO = %q, want empty string", show.Lines[0])
	}
}

func TestRecognize_EchoAbsentVarYieldsEmpty(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	got, ok := Recognize(parse(t, "echo $DOES_NOT_EXIST"), perms, nil, cfg)
	if !ok {
		t.Fatal("echo not recognized")
	}
	show := got.(action.ShowOutput)
	if show.Lines[0] != "" {
		t.Errorf("echo $DOES_NOT_EXIST = %q, want empty string", show.Lines[0])
	}
}
