package pipeline

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dendrascience/treeport/publish"
)

func quietOptions() Options {
	return Options{Logger: log.New(io.Discard)}
}

// seedTree writes the reference fixture: one 10-byte file and one
// empty subdirectory.
func seedTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ten.txt"), []byte("ten bytes!"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatalf("creating fixture dir: %v", err)
	}
	return dir
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary artifact %s leaked into %s", e.Name(), dir)
		}
	}
}

func TestEncodeDecodeExtractRoundTrip(t *testing.T) {
	src := seedTree(t)
	work := t.TempDir()
	textPath := filepath.Join(work, "tree.txt")

	if f := Encode(src, textPath, quietOptions()); f != nil {
		t.Fatalf("Encode failed: %v", f)
	}
	assertNoTempFiles(t, work)

	text, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("reading encoded text: %v", err)
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		isAlphabet := c == '+' || c == '/' || c == '=' ||
			(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		if !isAlphabet && c != '\n' {
			t.Fatalf("encoded text contains %q at %d, outside the alphabet", c, i)
		}
	}

	restored := filepath.Join(t.TempDir(), "restored")
	if f := Decode(textPath, restored, true, quietOptions()); f != nil {
		t.Fatalf("Decode --extract failed: %v", f)
	}

	got, err := os.ReadFile(filepath.Join(restored, "ten.txt"))
	if err != nil {
		t.Fatalf("reading restored file: %v", err)
	}
	if !bytes.Equal(got, []byte("ten bytes!")) {
		t.Errorf("restored ten.txt = %q, want %q", got, "ten bytes!")
	}
	info, err := os.Stat(filepath.Join(restored, "empty"))
	if err != nil || !info.IsDir() {
		t.Errorf("empty subdirectory not restored: %v", err)
	}
}

func TestDecodeToArchiveFile(t *testing.T) {
	src := seedTree(t)
	work := t.TempDir()
	textPath := filepath.Join(work, "tree.txt")
	blobPath := filepath.Join(work, "tree.zip")

	if f := Encode(src, textPath, quietOptions()); f != nil {
		t.Fatalf("Encode failed: %v", f)
	}
	if f := Decode(textPath, blobPath, false, quietOptions()); f != nil {
		t.Fatalf("Decode failed: %v", f)
	}
	assertNoTempFiles(t, work)

	// The published blob must be the archive the text encodes:
	// re-encoding it reproduces the text byte for byte.
	blob, err := os.ReadFile(blobPath)
	if err != nil {
		t.Fatalf("reading decoded blob: %v", err)
	}
	if len(blob) == 0 {
		t.Fatal("decoded blob is empty")
	}
	if blob[0] != 'P' || blob[1] != 'K' {
		t.Errorf("decoded blob does not start with an archive signature: % x", blob[:4])
	}
}

func TestEncodeMissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	f := Encode(filepath.Join(t.TempDir(), "nope"), dest, quietOptions())
	if f == nil {
		t.Fatal("Encode of a missing source succeeded")
	}
	if f.Kind != KindNotFound {
		t.Errorf("Kind = %v, want KindNotFound", f.Kind)
	}
	if f.Stage != StageValidating {
		t.Errorf("Stage = %v, want StageValidating", f.Stage)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Error("destination was created despite validation failure")
	}
}

func TestEncodeSourceIsFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(src, []byte("not a tree"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	f := Encode(src, filepath.Join(dir, "out.txt"), quietOptions())
	if f == nil || f.Kind != KindInvalidArgument {
		t.Errorf("Encode(file) = %v, want KindInvalidArgument", f)
	}
}

func TestDecodeCorruptInputLeavesDestination(t *testing.T) {
	work := t.TempDir()
	textPath := filepath.Join(work, "bad.txt")
	if err := os.WriteFile(textPath, []byte("dGVuIGJ5!GVzIQ==\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	dest := filepath.Join(work, "out.zip")
	if err := os.WriteFile(dest, []byte("prior content"), 0o644); err != nil {
		t.Fatalf("writing prior destination: %v", err)
	}

	f := Decode(textPath, dest, false, quietOptions())
	if f == nil {
		t.Fatal("Decode of corrupt input succeeded")
	}
	if f.Kind != KindCorruptInput {
		t.Errorf("Kind = %v, want KindCorruptInput", f.Kind)
	}
	if f.Stage != StageCoding {
		t.Errorf("Stage = %v, want StageCoding", f.Stage)
	}

	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "prior content" {
		t.Errorf("destination changed on failure: %q, %v", got, err)
	}
	assertNoTempFiles(t, work)
}

func TestFailureExitCodes(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{kind: KindUsage, want: 2},
		{kind: KindBadPath, want: 3},
		{kind: KindNotFound, want: 4},
		{kind: KindOutputDir, want: 5},
		{kind: KindDestinationLocked, want: 6},
		{kind: KindPermission, want: 10},
		{kind: KindMissingDirectory, want: 11},
		{kind: KindPathTooLong, want: 12},
		{kind: KindCorruptInput, want: 13},
		{kind: KindIO, want: 14},
		{kind: KindLockContention, want: 14},
		{kind: KindInvalidArgument, want: 15},
		{kind: KindUnsupported, want: 16},
		{kind: KindCleanup, want: 17},
		{kind: KindUnexpected, want: 99},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyContention(t *testing.T) {
	err := &publish.ContentionError{Path: "/x/out.txt", Attempts: 10, Err: errors.New("resource busy")}
	f := Classify(StagePublishing, "/x/out.txt", err)
	if f.Kind != KindLockContention {
		t.Errorf("Kind = %v, want KindLockContention", f.Kind)
	}
	if code := f.Kind.ExitCode(); code != 14 {
		t.Errorf("exit code = %d, want 14", code)
	}
}

func TestClassifyKeepsFirstStage(t *testing.T) {
	inner := Classify(StageCoding, "/x", errors.New("boom"))
	outer := Classify(StagePublishing, "/y", inner)
	if outer.Stage != StageCoding {
		t.Errorf("Stage = %v, want the original StageCoding", outer.Stage)
	}
}

func TestCleanupOnlyFailureSurfaces(t *testing.T) {
	p := newPipeline(quietOptions())
	p.cleanup.Retry = publish.RetryPolicy{Attempts: 1, Base: 0}

	// A non-empty directory resists os.Remove the way a pinned-open
	// file would.
	stubborn := filepath.Join(t.TempDir(), "stubborn")
	if err := os.MkdirAll(filepath.Join(stubborn, "child"), 0o755); err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	p.cleanup.Track(stubborn)

	f := p.finish(nil)
	if f == nil || f.Kind != KindCleanup {
		t.Fatalf("finish(nil) = %v, want KindCleanup", f)
	}
	if f.Path != stubborn {
		t.Errorf("Path = %s, want %s", f.Path, stubborn)
	}
}

func TestPrimaryFailureBeatsCleanupFailure(t *testing.T) {
	p := newPipeline(quietOptions())
	p.cleanup.Retry = publish.RetryPolicy{Attempts: 1, Base: 0}

	stubborn := filepath.Join(t.TempDir(), "stubborn")
	if err := os.MkdirAll(filepath.Join(stubborn, "child"), 0o755); err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	p.cleanup.Track(stubborn)

	primary := &Failure{Kind: KindIO, Stage: StageCoding, Path: "/x", Err: errors.New("disk fell over")}
	if got := p.finish(primary); got != primary {
		t.Errorf("finish returned %v, want the primary failure", got)
	}
}

func TestFailureMessageNamesStage(t *testing.T) {
	f := &Failure{Kind: KindIO, Stage: StagePublishing, Path: "/x/out.txt", Err: errors.New("write /x/out.txt: device gone")}
	msg := f.Error()
	for _, want := range []string{"publishing the output", "/x/out.txt", "general I/O failure"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
