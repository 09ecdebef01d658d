//go:build linux

package sandbox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAvailable_DoesNotPanic(t *testing.T) {
	// Landlock support varies by CI kernel; this only checks the probe
	// itself is safe to call and self-consistent.
	abi := AvailableABI()
	if IsAvailable() != (abi > 0) {
		t.Errorf("IsAvailable() inconsistent with AvailableABI() = %d", abi)
	}
}

func TestRestrictFilesystem_Confinement(t *testing.T) {
	if !IsAvailable() {
		t.Skip("Landlock not supported by this kernel")
	}

	// This test calls RestrictFilesystem in the test process itself, which
	// is irrevocable for the remainder of the process (including every
	// subsequent test in this binary) — so it must run in a subprocess to
	// be safe. Without that harness here, it is skipped by default and
	// left as a manual/CI integration check, mirroring the scenario this
	// shell's original implementation marked as an ignored integration
	// test.
	t.Skip("requires subprocess isolation; run manually as an integration check")

	root := t.TempDir()
	inside := filepath.Join(root, "inside")
	outside := filepath.Join(root, "outside")
	if err := os.MkdirAll(inside, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(outside, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inside, "f"), []byte("ok"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outside, "f"), []byte("ok"), 0o644); err != nil {
		t.Fatal(err)
	}

	status, err := RestrictFilesystem(inside, nil)
	if err != nil {
		t.Fatalf("RestrictFilesystem: %v", err)
	}
	if !status.IsEnforced() {
		t.Fatalf("status = %v, want enforced", status)
	}

	if _, err := os.ReadFile(filepath.Join(inside, "f")); err != nil {
		t.Errorf("read inside allow-list failed: %v", err)
	}
	if _, err := os.ReadFile(filepath.Join(outside, "f")); err == nil {
		t.Errorf("read outside allow-list unexpectedly succeeded")
	}
}
