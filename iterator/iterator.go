// Package iterator defines the PositionedIterator contract the sweep
// package consumes (C3), and the optional Skipper capability the
// skip-ahead controller probes for. File-format adapters (BED/VCF/BCF/BAM
// readers) are out of scope here; only this thin interface matters to the
// core, matching spec.md's external-interfaces split.
package iterator

import (
	"io"

	"github.com/quinlan-lab/bedder-go/position"
)

// PositionedIterator streams Positions from one sorted source. Next returns
// io.EOF itself, unwrapped, when the stream is exhausted; any other error,
// including a wrapped io.EOF, is fatal for the sweep that owns this stream.
//
// Implementations MUST yield records sorted under the chromorder.Table the
// sweep was constructed with. The sweep validates this as records arrive
// and fails with an Unsorted-flavored error (see the sweep package) rather
// than trusting the source.
type PositionedIterator interface {
	// Next returns the next Position in the stream. hint is advisory only:
	// some implementations use it to decide how far to read ahead or
	// which underlying shard to open next; implementations are free to
	// ignore it entirely.
	Next(hint position.Position) (position.Position, error)

	// Name is a short identifier used in error messages (e.g. a file path
	// or "query").
	Name() string
}

// Skipper is an optional capability: a PositionedIterator that can also
// perform a best-effort random seek. The skip-ahead controller (sweep
// package) probes for this interface with a type assertion; an iterator
// that doesn't implement it is simply never skipped, and the sweep falls
// back to linear consumption.
type Skipper interface {
	// SkipTo seeks so that the next record Next returns satisfies
	// (chrom', start) >= (chrom, pos0) under the caller's chromorder.Table.
	// Implementations that can't honor an exact seek may overshoot
	// backwards (never skip past a record that might still be relevant)
	// but must not skip forward past pos0.
	//
	// SkipTo returns ErrNotSupported if the feature is unavailable for
	// this particular stream or position; the sweep treats that as "do not
	// skip" and continues linear consumption.
	SkipTo(chrom string, pos0 int64) error
}

// ErrNotSupported is returned by a Skipper.SkipTo call that cannot honor
// the request. It is not a fatal error: the skip-ahead controller catches
// it and disables the optimization for that call.
var ErrNotSupported = notSupportedError{}

type notSupportedError struct{}

func (notSupportedError) Error() string { return "iterator: skip_to not supported" }

// IsEOF reports whether err signals a clean end of stream.
func IsEOF(err error) bool { return err == io.EOF }
