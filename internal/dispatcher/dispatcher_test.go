package dispatcher

import (
	"reflect"
	"testing"

	"github.com/dhuangca/dshell/internal/action"
	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
)

func TestProcessInput_Empty(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	if _, ok := ProcessInput("", perms, nil, cfg); ok {
		t.Error("ProcessInput(\"\") matched, want no match")
	}
	if _, ok := ProcessInput("   ", perms, nil, cfg); ok {
		t.Error("ProcessInput(\"   \") matched, want no match")
	}
}

func TestProcessInput_InteractiveClassification(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Config{InteractiveCommands: []string{"vim"}}

	got, ok := ProcessInput("vim file", perms, nil, cfg)
	if !ok {
		t.Fatal("ProcessInput(vim file) did not match")
	}
	want := action.ExecuteInteractive{Cmd: parser.ParsedCommand{Command: "vim", Args: []string{"file"}, RawInput: "vim file"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProcessInput(vim file) = %#v, want %#v", got, want)
	}
}

func TestProcessInput_CapturedClassification(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Config{InteractiveCommands: []string{"vim"}}

	got, ok := ProcessInput("ls", perms, nil, cfg)
	if !ok {
		t.Fatal("ProcessInput(ls) did not match")
	}
	if _, isCaptured := got.(action.ExecuteCaptured); !isCaptured {
		t.Errorf("ProcessInput(ls) = %#v, want ExecuteCaptured", got)
	}
}

func TestProcessInput_BuiltinMutation(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	got, ok := ProcessInput("allow FOO", perms, nil, cfg)
	if !ok {
		t.Fatal("ProcessInput(allow FOO) did not match")
	}
	want := action.AllowEnvVar{Name: "FOO"}
	if got != want {
		t.Errorf("ProcessInput(allow FOO) = %#v, want %#v", got, want)
	}
}

func TestProcessInput_PureOutputBuiltinExecutedImmediately(t *testing.T) {
	perms := permission.NewManager()
	cfg := config.Default()

	got, ok := ProcessInput("echo hi", perms, nil, cfg)
	if !ok {
		t.Fatal("ProcessInput(echo hi) did not match")
	}
	show, isShow := got.(action.ShowOutput)
	if !isShow || len(show.Lines) != 1 || show.Lines[0] != "hi" {
		t.Errorf("ProcessInput(echo hi) = %#v, want ShowOutput([hi])", got)
	}
}
