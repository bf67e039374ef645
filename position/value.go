// Package position defines the tagged Position record that flows through
// the sweep and report packages, along with the typed Value extracted from
// its optional fields.
package position

import "fmt"

// Kind distinguishes the concrete record flavor a Position was built from.
// The core treats all kinds uniformly through the Position interface; Kind
// exists only so callers (and error messages) can tell them apart.
type Kind uint8

const (
	// KindInterval is a generic chrom/start/stop record with no format-
	// specific structure (the "Interval" variant in spec.md).
	KindInterval Kind = iota
	// KindBED marks a record that originated from a BED-like source.
	KindBED
	// KindVCF marks a record that originated from a VCF-like source.
	KindVCF
	// KindBCF marks a record that originated from a BCF-like source.
	KindBCF
)

func (k Kind) String() string {
	switch k {
	case KindBED:
		return "bed"
	case KindVCF:
		return "vcf"
	case KindBCF:
		return "bcf"
	default:
		return "interval"
	}
}

// Value is a typed field value, mirroring the original implementation's
// position::Value enum. Only one variant is populated at a time.
type Value struct {
	kind    valueKind
	i       int64
	f       float64
	s       string
	ints    []int64
	floats  []float64
	strings []string
}

type valueKind uint8

const (
	valueInt valueKind = iota
	valueFloat
	valueString
	valueInts
	valueFloats
	valueStrings
)

// IntValue wraps an int64 as a Value.
func IntValue(v int64) Value { return Value{kind: valueInt, i: v} }

// FloatValue wraps a float64 as a Value.
func FloatValue(v float64) Value { return Value{kind: valueFloat, f: v} }

// StringValue wraps a string as a Value.
func StringValue(v string) Value { return Value{kind: valueString, s: v} }

// IntsValue wraps a slice of int64 as a Value.
func IntsValue(v []int64) Value { return Value{kind: valueInts, ints: v} }

// FloatsValue wraps a slice of float64 as a Value.
func FloatsValue(v []float64) Value { return Value{kind: valueFloats, floats: v} }

// StringsValue wraps a slice of string as a Value.
func StringsValue(v []string) Value { return Value{kind: valueStrings, strings: v} }

// Int returns the wrapped int64 and whether the Value actually holds one.
func (v Value) Int() (int64, bool) { return v.i, v.kind == valueInt }

// Float returns the wrapped float64 and whether the Value actually holds one.
func (v Value) Float() (float64, bool) { return v.f, v.kind == valueFloat }

// Str returns the wrapped string and whether the Value actually holds one.
func (v Value) Str() (string, bool) { return v.s, v.kind == valueString }

// Ints returns the wrapped []int64 and whether the Value actually holds one.
func (v Value) Ints() ([]int64, bool) { return v.ints, v.kind == valueInts }

// Floats returns the wrapped []float64 and whether the Value actually holds one.
func (v Value) Floats() ([]float64, bool) { return v.floats, v.kind == valueFloats }

// Strings returns the wrapped []string and whether the Value actually holds one.
func (v Value) Strings() ([]string, bool) { return v.strings, v.kind == valueStrings }

func (v Value) String() string {
	switch v.kind {
	case valueInt:
		return fmt.Sprintf("%d", v.i)
	case valueFloat:
		return fmt.Sprintf("%g", v.f)
	case valueString:
		return v.s
	case valueInts:
		return fmt.Sprintf("%v", v.ints)
	case valueFloats:
		return fmt.Sprintf("%v", v.floats)
	case valueStrings:
		return fmt.Sprintf("%v", v.strings)
	default:
		return ""
	}
}

// Field selects a value out of a Position, either by name or by positional
// index, matching spec.md's `field(i|name) -> Value` accessor.
type Field struct {
	name   string
	idx    int
	byName bool
}

// FieldByName builds a Field selector that looks up a value by key.
func FieldByName(name string) Field { return Field{name: name, byName: true} }

// FieldByIndex builds a Field selector that looks up the i'th value in
// declaration order.
func FieldByIndex(i int) Field { return Field{idx: i} }
