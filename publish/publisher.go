package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ContentionError is returned when the publish rename kept failing with
// sharing/lock violations until the retry budget ran out. The
// destination is untouched: its previous content (or absence) is
// exactly as it was.
type ContentionError struct {
	Path     string
	Attempts int
	Err      error
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("destination %s still locked after %d attempts: %v", e.Path, e.Attempts, e.Err)
}

func (e *ContentionError) Unwrap() error { return e.Err }

// StageFile creates the temporary artifact the pipeline writes into: a
// uniquely named hidden sibling of finalPath, in the same directory so
// the eventual rename stays on one filesystem and is atomic. The random
// suffix keeps concurrent runs against the same destination from
// colliding.
func StageFile(finalPath string) (*os.File, error) {
	name := fmt.Sprintf(".%s.%s.tmp", filepath.Base(finalPath), uuid.NewString())
	return os.OpenFile(filepath.Join(filepath.Dir(finalPath), name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
}

// Commit makes the staged file durable: flush to stable storage, then
// close. Called before the rename so a crash immediately after publish
// cannot leave the destination pointing at unsynced data.
func Commit(f *os.File) error {
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", f.Name(), err)
	}
	return nil
}

// Publisher moves a staged temporary file onto its final path with
// overwrite semantics, retrying sharing/lock violations per Retry.
type Publisher struct {
	Retry  RetryPolicy
	Logger *log.Logger
}

// NewPublisher returns a Publisher with the default publish retry
// policy. The logger may be nil.
func NewPublisher(logger *log.Logger) *Publisher {
	return &Publisher{Retry: PublishRetry, Logger: logger}
}

// Publish renames tempPath onto finalPath. The rename either fully
// replaces the destination or leaves it untouched; no observer ever
// sees a partial file. Sharing/lock violations are retried with the
// policy's backoff; on exhaustion a *ContentionError is returned. Any
// other failure returns immediately, because retrying a permission or
// path error just delays the inevitable.
func (p *Publisher) Publish(tempPath, finalPath string) error {
	var lastErr error
	for attempt := 1; attempt <= p.Retry.Attempts; attempt++ {
		err := os.Rename(tempPath, finalPath)
		if err == nil {
			return nil
		}
		if !IsSharingViolation(err) {
			return err
		}
		lastErr = err

		if attempt < p.Retry.Attempts {
			delay := p.Retry.Delay(attempt)
			if p.Logger != nil {
				p.Logger.Warn("destination busy, retrying publish",
					"path", finalPath,
					"attempt", attempt,
					"delay", delay,
				)
			}
			time.Sleep(delay)
		}
	}
	return &ContentionError{Path: finalPath, Attempts: p.Retry.Attempts, Err: lastErr}
}
