package sweep

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// UnsortedError reports that a stream produced a record out of order,
// spec.md §7's InputOrdering failure mode.
type UnsortedError struct {
	StreamName string
	Prev       string // formatted prior record, for diagnostics
	Curr       string // formatted offending record
}

func (e *UnsortedError) Error() string {
	return fmt.Sprintf("sweep: stream %s produced an out-of-order record: prev=%s curr=%s", e.StreamName, e.Prev, e.Curr)
}

// InvariantViolationError reports an internal bug: a precondition the sweep
// relies on (e.g. the heap being non-empty when it's expected to be, or a
// lock acquired without contention inside the single-threaded core) did not
// hold. spec.md §7's InvariantViolation class. These are always fatal; the
// caller should treat one as a programming error to report, not retry.
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "sweep: invariant violation: " + e.Detail
}

// wrapReaderErr tags an underlying reader error with the ReaderIo class from
// spec.md §7, using the same errors.E wrapping convention
// markduplicates/metrics.go uses elsewhere in the teacher lineage.
func wrapReaderErr(streamName string, err error) error {
	return errors.E(err, "sweep: error reading from stream", streamName)
}
