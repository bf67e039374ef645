// Package chromorder builds the total order on genomic positions from a
// genome/FAI-style text file, the C1 component of the sweep. It mirrors the
// teacher repo's preference for small, dependency-light parsers
// (interval/bedunion.go's scanBEDUnion) wired to the same gzip-sniffing and
// logging conventions used elsewhere in the codebase.
package chromorder

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// Chromosome is one entry of a Table: a dense index plus an optional known
// length.
type Chromosome struct {
	Index  int
	Length int64
	HasLen bool
}

// Table is an immutable chromosome name -> Chromosome map that also defines
// the total order used to compare Positions: chromosomes compare by Index,
// the order in which they first appeared in the genome file.
//
// Resolve caches the last name it was asked to look up, the same
// lastChrName/lastChrIntervals trick interval/bedunion.go's
// BEDUnion.ContainsByName uses to skip the map lookup entirely when the
// sweep asks about the same chromosome it just asked about, which is the
// overwhelmingly common case for a sorted stream.
//
// Resolve's cache is not safe for concurrent use: a Table backing more than
// one concurrently-running sweep must be wrapped by the caller, or each
// sweep should get its own Table built from the same genome file.
type Table struct {
	byName map[string]Chromosome
	names  []string
	// fingerprints mirrors byName's keys as farm-hashed 64 bit values, in
	// the same order as names/Index. Only Fingerprint reads it; Resolve
	// does not consult it.
	fingerprints []uint64

	lastName   string
	lastChrom  Chromosome
	lastFound  bool
	lastHashed bool
}

// NewTable builds an empty, mutable-during-construction Table. Use Parse to
// build one from a genome file, or Add to build one programmatically (tests
// commonly do the latter).
func NewTable() *Table {
	return &Table{byName: make(map[string]Chromosome)}
}

// Add inserts a new chromosome at the next dense index. It returns
// errors.Precondition if the name is already present.
func (t *Table) Add(name string, length int64, hasLen bool) error {
	if _, ok := t.byName[name]; ok {
		return errors.E(errors.Precondition, "chromorder: duplicate chromosome", name)
	}
	c := Chromosome{Index: len(t.names), Length: length, HasLen: hasLen}
	t.byName[name] = c
	t.names = append(t.names, name)
	t.fingerprints = append(t.fingerprints, farm.Hash64([]byte(name)))
	t.lastName, t.lastChrom, t.lastFound, t.lastHashed = "", Chromosome{}, false, false
	return nil
}

// Lookup returns the Chromosome entry for name.
func (t *Table) Lookup(name string) (Chromosome, bool) {
	return t.Resolve(name)
}

// Resolve is Lookup with a single-entry cache for repeated queries of the
// same chromosome name, which is the sweep's dominant access pattern: every
// record on the same chromosome resolves to the same cache hit without
// touching the map.
func (t *Table) Resolve(name string) (Chromosome, bool) {
	if t.lastHashed && name == t.lastName {
		return t.lastChrom, t.lastFound
	}
	c, ok := t.byName[name]
	t.lastName, t.lastChrom, t.lastFound, t.lastHashed = name, c, ok, true
	return c, ok
}

// Len returns the number of distinct chromosomes in the table.
func (t *Table) Len() int { return len(t.names) }

// Names returns the chromosome names in index order. The caller must not
// modify the returned slice.
func (t *Table) Names() []string { return t.names }

// Ordering is the result of comparing two chromosome-qualified positions.
type Ordering int

const (
	Less Ordering = -1
	Equal Ordering = 0
	Greater Ordering = 1
)

// UnknownChromosomeError reports that a record's chromosome is absent from
// the Table, spec.md's UnknownChromosome failure mode.
type UnknownChromosomeError struct {
	StreamName string
	Chrom      string
}

func (e *UnknownChromosomeError) Error() string {
	return "chromorder: unknown chromosome " + e.Chrom + " in stream " + e.StreamName
}

// CompareChrom compares two chromosome names under the Table's order.
// streamName is used only to annotate an UnknownChromosomeError.
func (t *Table) CompareChrom(streamName, a, b string) (Ordering, error) {
	if a == b {
		return Equal, nil
	}
	ca, ok := t.Resolve(a)
	if !ok {
		return 0, &UnknownChromosomeError{StreamName: streamName, Chrom: a}
	}
	cb, ok := t.Resolve(b)
	if !ok {
		return 0, &UnknownChromosomeError{StreamName: streamName, Chrom: b}
	}
	return compareInt(ca.Index, cb.Index), nil
}

// Fingerprint returns a cheap 64 bit hash of name, for callers that hold
// only chromosome name strings and want an identity check without a string
// compare of arbitrary length. The sweep does not use it. ok is false if
// name is not in the Table.
func (t *Table) Fingerprint(name string) (uint64, bool) {
	c, ok := t.Resolve(name)
	if !ok {
		return 0, false
	}
	return t.fingerprints[c.Index], true
}

func compareInt(a, b int) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

// Parse reads a genome/FAI-style text file: one chromosome per line, first
// whitespace-separated field is the name, optional second field is the
// length. Blank lines and lines starting with '#' are skipped. An
// unparseable length logs a warning and is stored as unknown rather than
// failing the parse. A duplicate name is a fatal parse error.
//
// Parse transparently decompresses gzip input (sniffed from the magic
// bytes), the same convenience interval/bedunion.go offers its BED readers.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(2)
	if err == nil && len(peek) == 2 && peek[0] == 0x1f && peek[1] == 0x8b {
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			return nil, errors.E(gzErr, "chromorder: invalid gzip genome file")
		}
		defer gz.Close()
		return parseLines(gz)
	}
	return parseLines(br)
}

// parseLines does the actual line-oriented scan shared by compressed and
// uncompressed input.
func parseLines(r io.Reader) (*Table, error) {
	t := NewTable()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		var length int64
		hasLen := false
		if len(fields) >= 2 {
			l, perr := strconv.ParseInt(fields[1], 10, 64)
			if perr != nil || l < 0 {
				log.Error.Printf("chromorder: invalid length for chromosome %s on line %d: %q", name, lineNo, fields[1])
			} else {
				length, hasLen = l, true
			}
		}
		if err := t.Add(name, length, hasLen); err != nil {
			return nil, errors.E(err, "chromorder: error parsing genome file line", strconv.Itoa(lineNo))
		}
	}
	if err := scannerErr(scanner); err != nil {
		return nil, errors.E(err, "chromorder: error reading genome file")
	}
	return t, nil
}

func scannerErr(s *bufio.Scanner) error {
	if err := s.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
