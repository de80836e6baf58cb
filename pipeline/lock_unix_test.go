//go:build unix

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

// holdLock flocks path for the duration of the test, standing in for
// another process holding the destination exclusively.
func holdLock(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("opening holder descriptor: %v", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		t.Fatalf("taking holder lock: %v", err)
	}
	t.Cleanup(func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	})
}

func TestEncodeLockedDestinationFailsFast(t *testing.T) {
	src := seedTree(t)
	work := t.TempDir()
	dest := filepath.Join(work, "out.txt")
	if err := os.WriteFile(dest, []byte("prior content"), 0o644); err != nil {
		t.Fatalf("writing prior destination: %v", err)
	}
	holdLock(t, dest)

	f := Encode(src, dest, quietOptions())
	if f == nil {
		t.Fatal("Encode against a locked destination succeeded")
	}
	if f.Kind != KindDestinationLocked {
		t.Errorf("Kind = %v, want KindDestinationLocked", f.Kind)
	}
	if f.Kind.ExitCode() != 6 {
		t.Errorf("exit code = %d, want 6", f.Kind.ExitCode())
	}

	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "prior content" {
		t.Errorf("destination changed: %q, %v", got, err)
	}
	assertNoTempFiles(t, work)
}

func TestDecodeLockedDestinationFailsFast(t *testing.T) {
	src := seedTree(t)
	work := t.TempDir()
	textPath := filepath.Join(work, "tree.txt")
	if f := Encode(src, textPath, quietOptions()); f != nil {
		t.Fatalf("Encode failed: %v", f)
	}

	dest := filepath.Join(work, "out.zip")
	if err := os.WriteFile(dest, []byte("prior content"), 0o644); err != nil {
		t.Fatalf("writing prior destination: %v", err)
	}
	holdLock(t, dest)

	f := Decode(textPath, dest, false, quietOptions())
	if f == nil || f.Kind != KindDestinationLocked {
		t.Fatalf("Decode = %v, want KindDestinationLocked", f)
	}

	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "prior content" {
		t.Errorf("destination changed: %q, %v", got, err)
	}
	assertNoTempFiles(t, work)
}
