package executor

import (
	"slices"
	"testing"

	"github.com/dhuangca/dshell/internal/config"
	"github.com/dhuangca/dshell/internal/parser"
	"github.com/dhuangca/dshell/internal/permission"
)

func mustParse(t *testing.T, line string) parser.ParsedCommand {
	t.Helper()
	cmd, ok := parser.Parse(line)
	if !ok {
		t.Fatalf("Parse(%q) returned no command", line)
	}
	return cmd
}

func TestExecutionMode(t *testing.T) {
	cfg := config.Config{InteractiveCommands: []string{"vim"}}

	if got := ExecutionMode(mustParse(t, "vim file"), cfg); !got {
		t.Errorf("ExecutionMode(vim) = false, want true")
	}
	if got := ExecutionMode(mustParse(t, "ls"), cfg); got {
		t.Errorf("ExecutionMode(ls) = true, want false")
	}
}

func TestExecutionMode_ExactMatchOnly(t *testing.T) {
	cfg := config.Config{InteractiveCommands: []string{"vim"}}
	if got := ExecutionMode(mustParse(t, "/usr/bin/vim"), cfg); got {
		t.Errorf("ExecutionMode(/usr/bin/vim) = true, want false (not an exact token match)")
	}
}

func TestBuildChildEnv_CustomOverridesSystem(t *testing.T) {
	t.Setenv("FOO", "system-value")
	perms := permission.NewManager()
	perms.AllowEnvVar("FOO")
	customEnv := map[string]string{"FOO": "custom-value"}

	env := buildChildEnv(perms, customEnv)
	if !slices.Contains(env, "FOO=custom-value") {
		t.Errorf("env = %v, want FOO=custom-value present", env)
	}
	if slices.Contains(env, "FOO=system-value") {
		t.Errorf("env = %v, system value should be overridden", env)
	}
}

func TestBuildChildEnv_OmitsRedacted(t *testing.T) {
	t.Setenv("SECRET_VAR", "value")
	perms := permission.NewManager() // SECRET_VAR in neither set -> AskEveryTime -> redacted

	env := buildChildEnv(perms, nil)
	for _, kv := range env {
		if len(kv) >= len("SECRET_VAR=") && kv[:len("SECRET_VAR=")] == "SECRET_VAR=" {
			t.Errorf("redacted var leaked into child env: %q", kv)
		}
	}
}

func TestExecuteCaptured_SplitsStdoutAndStderr(t *testing.T) {
	cmd := parser.ParsedCommand{Command: "sh", Args: []string{"-c", "echo out1; echo out2 >&2"}}
	perms := permission.NewManager()

	lines := ExecuteCaptured(cmd, perms, nil)
	if !slices.Contains(lines, "out1") || !slices.Contains(lines, "out2") {
		t.Errorf("ExecuteCaptured lines = %v, want out1 and out2 present", lines)
	}
}

func TestExecuteCaptured_NotFoundProducesDiagnostic(t *testing.T) {
	cmd := parser.ParsedCommand{Command: "dshell-nonexistent-command-xyz"}
	perms := permission.NewManager()

	lines := ExecuteCaptured(cmd, perms, nil)
	if len(lines) == 0 {
		t.Fatal("expected at least one diagnostic line")
	}
	if lines[0][:7] != "dshell:" {
		t.Errorf("diagnostic line = %q, want dshell: prefix", lines[0])
	}
}

func TestEffectiveAllowList_ExcludesDenied(t *testing.T) {
	perms := permission.NewManager()
	perms.AllowPath("/tmp/allowed")
	cfg := config.Config{AdditionalAllowedPaths: []string{"/tmp/extra", "/tmp/blocked"}}
	perms.DenyPath("/tmp/blocked")

	got := effectiveAllowList(perms, cfg)
	if !slices.Contains(got, "/tmp/allowed") {
		t.Errorf("missing explicitly allowed path: %v", got)
	}
	if !slices.Contains(got, "/tmp/extra") {
		t.Errorf("missing config-extra path: %v", got)
	}
	if slices.Contains(got, "/tmp/blocked") {
		t.Errorf("denied path leaked into allow-list: %v", got)
	}
}
