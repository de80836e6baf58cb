package pipeline

// Stage identifies where in the run an error happened. The label is
// attached to every Failure so a low-level I/O error reads as "failed
// while publishing the output", not as an undifferentiated syscall
// message.
type Stage int

const (
	StageInit Stage = iota
	StageValidating
	StageArchiving
	StageCoding
	StagePublishing
	StageCleanup
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "initializing"
	case StageValidating:
		return "validating inputs"
	case StageArchiving:
		return "archiving the tree"
	case StageCoding:
		return "transforming the payload"
	case StagePublishing:
		return "publishing the output"
	case StageCleanup:
		return "cleaning up"
	}
	return "unknown stage"
}
