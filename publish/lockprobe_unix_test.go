//go:build unix

package publish

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestProbeMissingFile(t *testing.T) {
	if Probe(filepath.Join(t.TempDir(), "absent.txt")) {
		t.Error("Probe reported a missing file as locked")
	}
}

func TestProbeUnlockedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "free.txt")
	if err := os.WriteFile(path, []byte("nobody holds this"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if Probe(path) {
		t.Error("Probe reported an unlocked file as locked")
	}
}

func TestProbeFlockedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "held.txt")
	if err := os.WriteFile(path, []byte("held"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	// flock conflicts are per open file description, so a second
	// descriptor in this process observes the same contention another
	// process would.
	holder, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("opening holder descriptor: %v", err)
	}
	defer holder.Close()
	if err := unix.Flock(int(holder.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		t.Fatalf("taking holder lock: %v", err)
	}
	defer unix.Flock(int(holder.Fd()), unix.LOCK_UN)

	if !Probe(path) {
		t.Error("Probe did not see the held lock")
	}
}

func TestIsSharingViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "EBUSY", err: unix.EBUSY, want: true},
		{name: "ETXTBSY", err: unix.ETXTBSY, want: true},
		{name: "EWOULDBLOCK", err: unix.EWOULDBLOCK, want: true},
		{name: "ENOENT", err: unix.ENOENT, want: false},
		{name: "EACCES", err: unix.EACCES, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSharingViolation(tt.err); got != tt.want {
				t.Errorf("IsSharingViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
