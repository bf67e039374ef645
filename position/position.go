package position

import "fmt"

// FieldError reports that a Field selector could not be resolved against a
// Position's field set.
type FieldError struct {
	Field Field
}

func (e *FieldError) Error() string {
	if e.Field.byName {
		return fmt.Sprintf("position: unknown field name %q", e.Field.name)
	}
	return fmt.Sprintf("position: field index %d out of range", e.Field.idx)
}

// Position is the common, read-only view the sweep and report packages use.
// Concrete record kinds (generic intervals, BED rows, VCF rows, ...) all
// satisfy it; the core never type-switches on the concrete kind.
//
// Invariant: Start() <= Stop(). Chrom() must be a name known to the
// chromorder.Table the sweep was constructed with.
type Position interface {
	Kind() Kind
	Chrom() string
	Start() int64
	Stop() int64
	// Name returns an optional display name (e.g. a BED "name" column) and
	// whether one is present.
	Name() (string, bool)
	// Field extracts a typed value, e.g. a VCF INFO field or an extra BED
	// column.
	Field(f Field) (Value, error)
}

// FieldSet is an ordered name->Value map, preserving declaration order so
// FieldByIndex and FieldByName agree on the same underlying slot. It plays
// the role of the original implementation's LinearMap<String, Value>.
type FieldSet struct {
	names  []string
	values []Value
}

// Set appends or overwrites the value for name, preserving first-seen order.
func (fs *FieldSet) Set(name string, v Value) {
	for i, n := range fs.names {
		if n == name {
			fs.values[i] = v
			return
		}
	}
	fs.names = append(fs.names, name)
	fs.values = append(fs.values, v)
}

// Len returns the number of fields in the set.
func (fs *FieldSet) Len() int { return len(fs.names) }

// Get resolves a Field selector against the set.
func (fs *FieldSet) Get(f Field) (Value, error) {
	if f.byName {
		for i, n := range fs.names {
			if n == f.name {
				return fs.values[i], nil
			}
		}
		return Value{}, &FieldError{Field: f}
	}
	if f.idx < 0 || f.idx >= len(fs.values) {
		return Value{}, &FieldError{Field: f}
	}
	return fs.values[f.idx], nil
}

// Generic is the default, format-agnostic Position implementation: a
// chrom/start/stop triple plus an ordered bag of extra fields. It is the Go
// analog of the original implementation's bare `Interval` struct.
type Generic struct {
	kind   Kind
	Chr    string
	Begin  int64
	End    int64
	Nm     string
	HasNm  bool
	Fields FieldSet
}

// NewInterval builds a Generic Position of KindInterval.
func NewInterval(chrom string, start, stop int64) *Generic {
	return &Generic{kind: KindInterval, Chr: chrom, Begin: start, End: stop}
}

// NewBED builds a Generic Position tagged KindBED, with an optional name
// column (BED's 4th column).
func NewBED(chrom string, start, stop int64, name string) *Generic {
	g := &Generic{kind: KindBED, Chr: chrom, Begin: start, End: stop}
	if name != "" {
		g.Nm, g.HasNm = name, true
	}
	return g
}

// NewVCF builds a Generic Position tagged KindVCF.
func NewVCF(chrom string, start, stop int64, id string) *Generic {
	g := &Generic{kind: KindVCF, Chr: chrom, Begin: start, End: stop}
	if id != "" && id != "." {
		g.Nm, g.HasNm = id, true
	}
	return g
}

func (g *Generic) Kind() Kind  { return g.kind }
func (g *Generic) Chrom() string { return g.Chr }
func (g *Generic) Start() int64  { return g.Begin }
func (g *Generic) Stop() int64   { return g.End }

func (g *Generic) Name() (string, bool) { return g.Nm, g.HasNm }

func (g *Generic) Field(f Field) (Value, error) { return g.Fields.Get(f) }

// Len returns Stop()-Start(), the interval length in bases.
func Len(p Position) int64 { return p.Stop() - p.Start() }

// Clone returns a deep-enough copy of a Generic suitable for piece
// transforms (report.Project clips start/stop without mutating the shared
// original).
func (g *Generic) Clone() *Generic {
	clone := *g
	return &clone
}
