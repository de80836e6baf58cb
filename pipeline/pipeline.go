package pipeline

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dendrascience/treeport/archive"
	"github.com/dendrascience/treeport/codec"
	"github.com/dendrascience/treeport/publish"
)

// Options configures a run.
type Options struct {
	// Verbose enables stage-transition and retry logging on stderr.
	Verbose bool

	// Logger overrides the default stderr logger. Used by tests.
	Logger *log.Logger
}

// ErrDestinationLocked is the cause attached to a failed pre-check of
// the destination path.
var ErrDestinationLocked = errors.New("destination is held exclusively by another process")

// Pipeline is a single strictly sequential run. It is not reusable;
// Encode and Decode construct one per call.
type Pipeline struct {
	logger    *log.Logger
	publisher *publish.Publisher
	cleanup   *publish.CleanupManager
	stage     Stage
}

func newPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "treeport"})
		if opts.Verbose {
			logger.SetLevel(log.DebugLevel)
		} else {
			logger.SetLevel(log.WarnLevel)
		}
	}
	return &Pipeline{
		logger:    logger,
		publisher: publish.NewPublisher(logger),
		cleanup:   publish.NewCleanupManager(logger),
		stage:     StageInit,
	}
}

func (p *Pipeline) enter(s Stage) {
	p.stage = s
	p.logger.Debug("stage transition", "stage", s.String())
}

func (p *Pipeline) fail(path string, err error) *Failure {
	return Classify(p.stage, path, err)
}

// finish runs the cleanup stage and folds its outcome into the run's.
// The primary failure always wins; cleanup trouble becomes the outcome
// only when the run was otherwise clean.
func (p *Pipeline) finish(primary *Failure) *Failure {
	p.enter(StageCleanup)
	failures := p.cleanup.Run()
	for _, f := range failures {
		p.logger.Error("temporary file leaked", "path", f.Path, "error", f.Err)
	}
	if primary != nil {
		return primary
	}
	if len(failures) > 0 {
		return &Failure{Kind: KindCleanup, Stage: StageCleanup, Path: failures[0].Path, Err: failures[0]}
	}
	return nil
}

// Encode packs sourceDir into an archive blob, encodes the blob to
// text, and atomically publishes the text at destPath. Returns nil on
// success. Temporary artifacts are removed on every path out.
func Encode(sourceDir, destPath string, opts Options) *Failure {
	p := newPipeline(opts)
	return p.finish(p.runEncode(sourceDir, destPath))
}

func (p *Pipeline) runEncode(sourceDir, destPath string) *Failure {
	p.enter(StageValidating)
	info, err := os.Stat(sourceDir)
	if err != nil {
		return p.fail(sourceDir, err)
	}
	if !info.IsDir() {
		return p.fail(sourceDir, archive.ErrExpectedDirectory)
	}
	if f := p.prepareDestination(destPath); f != nil {
		return f
	}

	p.enter(StageArchiving)
	blob, err := os.CreateTemp("", "treeport-*.zip")
	if err != nil {
		return p.fail(destPath, err)
	}
	p.cleanup.Track(blob.Name())
	defer blob.Close()

	if err := archive.Pack(sourceDir, blob); err != nil {
		return p.fail(sourceDir, err)
	}
	if _, err := blob.Seek(0, io.SeekStart); err != nil {
		return p.fail(blob.Name(), err)
	}

	p.enter(StageCoding)
	staged, err := publish.StageFile(destPath)
	if err != nil {
		return p.fail(destPath, err)
	}
	stagedPath := staged.Name()
	p.cleanup.Track(stagedPath)

	bw := bufio.NewWriter(staged)
	enc := codec.NewEncoder(bw)
	if _, err := io.Copy(enc, bufio.NewReader(blob)); err != nil {
		staged.Close()
		return p.fail(stagedPath, err)
	}
	if err := enc.Close(); err != nil {
		staged.Close()
		return p.fail(stagedPath, err)
	}
	if err := bw.Flush(); err != nil {
		staged.Close()
		return p.fail(stagedPath, err)
	}
	if err := publish.Commit(staged); err != nil {
		return p.fail(stagedPath, err)
	}

	return p.publishStaged(stagedPath, destPath)
}

// Decode reverses Encode: reads the text at sourcePath, decodes it, and
// atomically publishes the reconstructed archive blob at destPath.
// With extract set, destPath is a directory and the decoded archive is
// unpacked into it instead (directory trees cannot be renamed into
// place atomically, so extraction writes into destPath directly).
func Decode(sourcePath, destPath string, extract bool, opts Options) *Failure {
	p := newPipeline(opts)
	return p.finish(p.runDecode(sourcePath, destPath, extract))
}

func (p *Pipeline) runDecode(sourcePath, destPath string, extract bool) *Failure {
	p.enter(StageValidating)
	info, err := os.Stat(sourcePath)
	if err != nil {
		return p.fail(sourcePath, err)
	}
	if info.IsDir() {
		return p.fail(sourcePath, archive.ErrExpectedDirectory)
	}
	in, err := os.Open(sourcePath)
	if err != nil {
		return p.fail(sourcePath, err)
	}
	defer in.Close()

	if extract {
		if err := os.MkdirAll(destPath, 0o755); err != nil {
			return &Failure{Kind: KindOutputDir, Stage: StageValidating, Path: destPath, Err: err}
		}
	} else if f := p.prepareDestination(destPath); f != nil {
		return f
	}

	p.enter(StageCoding)
	var out *os.File
	if extract {
		out, err = os.CreateTemp("", "treeport-*.zip")
	} else {
		out, err = publish.StageFile(destPath)
	}
	if err != nil {
		return p.fail(destPath, err)
	}
	outPath := out.Name()
	p.cleanup.Track(outPath)

	dec := codec.NewDecoder(bufio.NewReader(in))
	bw := bufio.NewWriter(out)
	if _, err := io.Copy(bw, dec); err != nil {
		out.Close()
		return p.fail(sourcePath, err)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return p.fail(outPath, err)
	}
	if err := publish.Commit(out); err != nil {
		return p.fail(outPath, err)
	}

	if extract {
		p.enter(StageArchiving)
		if err := archive.UnpackFile(outPath, destPath); err != nil {
			return p.fail(destPath, err)
		}
		return nil
	}
	return p.publishStaged(outPath, destPath)
}

// prepareDestination makes sure the output directory exists and the
// destination is not already held exclusively. Both directions run the
// same checks; contention that appears later is handled again by the
// publish retry loop.
func (p *Pipeline) prepareDestination(destPath string) *Failure {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return &Failure{Kind: KindOutputDir, Stage: p.stage, Path: destPath, Err: err}
	}
	if publish.Probe(destPath) {
		return &Failure{Kind: KindDestinationLocked, Stage: p.stage, Path: destPath, Err: ErrDestinationLocked}
	}
	return nil
}

func (p *Pipeline) publishStaged(stagedPath, destPath string) *Failure {
	p.enter(StagePublishing)
	if err := p.publisher.Publish(stagedPath, destPath); err != nil {
		return p.fail(destPath, err)
	}
	p.cleanup.Release(stagedPath)
	p.logger.Debug("published", "path", destPath)
	return nil
}
