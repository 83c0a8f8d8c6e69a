package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the runtime type tag of an evaluated Value. Builtin property and
// method dispatch is a switch over this tag.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindChar
	KindList
	KindObject
	KindClassInstance
	KindDuration
	KindDataSize
)

// String returns the user-facing name of the kind, as it appears in type
// mismatch and argument validation errors.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindChar:
		return "Char"
	case KindList:
		return "List"
	case KindObject:
		return "Object"
	case KindClassInstance:
		return "ClassInstance"
	case KindDuration:
		return "Duration"
	case KindDataSize:
		return "DataSize"
	default:
		return "(unknown)"
	}
}

// Value is an evaluated value. Values are immutable once produced; merging
// object values always operates on a clone of the base field map, never on
// the original binding.
type Value interface {
	Kind() Kind
	String() string
}

// Bool is a boolean value.
type Bool bool

// Int is a 64-bit integer value.
type Int int64

// Float is a 64-bit floating point value.
type Float float64

// String is a string value. Multiline string literals evaluate to the same
// kind as single-line ones.
type String string

// Char is a single Unicode code point, produced by the string chars
// property.
type Char rune

// List is an ordered sequence of values.
type List []Value

// Object is a field-name to value map.
type Object map[string]Value

// ClassInstance is a field map tagged with a class name. No schema is
// enforced; it is a labeled bag of fields.
type ClassInstance struct {
	Name   string
	Fields Object
}

func (v Bool) Kind() Kind           { return KindBool }
func (v Int) Kind() Kind            { return KindInt }
func (v Float) Kind() Kind          { return KindFloat }
func (v String) Kind() Kind         { return KindString }
func (v Char) Kind() Kind           { return KindChar }
func (v List) Kind() Kind           { return KindList }
func (v Object) Kind() Kind         { return KindObject }
func (v *ClassInstance) Kind() Kind { return KindClassInstance }

func (v Bool) String() string   { return strconv.FormatBool(bool(v)) }
func (v Int) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v String) String() string { return strconv.Quote(string(v)) }
func (v Char) String() string   { return strconv.QuoteRune(rune(v)) }

func (v List) String() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v Object) String() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s = %s", name, v[name].String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (v *ClassInstance) String() string {
	return "new " + v.Name + " " + v.Fields.String()
}

// Clone returns a shallow copy of the object field map. Values themselves
// are immutable, so sharing them across clones is safe.
func (v Object) Clone() Object {
	out := make(Object, len(v))
	for name, val := range v {
		out[name] = val
	}
	return out
}

// DurationUnit is a recognized duration unit suffix.
type DurationUnit uint8

const (
	UnitNanoseconds DurationUnit = iota
	UnitMicroseconds
	UnitMilliseconds
	UnitSeconds
	UnitMinutes
	UnitHours
	UnitDays
)

// ParseDurationUnit maps a property name to a duration unit. The match is
// case-insensitive. Returns false if the name is not a duration unit.
func ParseDurationUnit(s string) (DurationUnit, bool) {
	switch strings.ToLower(s) {
	case "ns":
		return UnitNanoseconds, true
	case "us":
		return UnitMicroseconds, true
	case "ms":
		return UnitMilliseconds, true
	case "s":
		return UnitSeconds, true
	case "min":
		return UnitMinutes, true
	case "h":
		return UnitHours, true
	case "d":
		return UnitDays, true
	default:
		return 0, false
	}
}

// String returns the unit suffix.
func (u DurationUnit) String() string {
	switch u {
	case UnitNanoseconds:
		return "ns"
	case UnitMicroseconds:
		return "us"
	case UnitMilliseconds:
		return "ms"
	case UnitSeconds:
		return "s"
	case UnitMinutes:
		return "min"
	case UnitHours:
		return "h"
	case UnitDays:
		return "d"
	default:
		return "(unknown)"
	}
}

// Duration is an amount of time produced by a numeric literal with a
// duration unit suffix. The canonical representation is a count of whole
// and fractional seconds plus a sign flag; the original literal value and
// unit are kept for the value/unit/isPositive property queries.
type Duration struct {
	Secs     float64 // absolute seconds
	Value    Value   // original numeric literal (Int or Float)
	Unit     DurationUnit
	Negative bool
}

func (d *Duration) Kind() Kind { return KindDuration }

func (d *Duration) String() string {
	return d.Value.String() + "." + d.Unit.String()
}

// Seconds returns the signed number of seconds.
func (d *Duration) Seconds() float64 {
	if d.Negative {
		return -d.Secs
	}
	return d.Secs
}

// DataUnit is a recognized data-size unit suffix. Decimal units are powers
// of 1000, binary units powers of 1024.
type DataUnit uint8

const (
	UnitBytes DataUnit = iota
	UnitKilobytes
	UnitMegabytes
	UnitGigabytes
	UnitTerabytes
	UnitPetabytes
	UnitKibibytes
	UnitMebibytes
	UnitGibibytes
	UnitTebibytes
	UnitPebibytes
)

// ParseDataUnit maps a property name to a data-size unit. The match is
// case-insensitive. Returns false if the name is not a data-size unit.
func ParseDataUnit(s string) (DataUnit, bool) {
	switch strings.ToLower(s) {
	case "b":
		return UnitBytes, true
	case "kb":
		return UnitKilobytes, true
	case "mb":
		return UnitMegabytes, true
	case "gb":
		return UnitGigabytes, true
	case "tb":
		return UnitTerabytes, true
	case "pb":
		return UnitPetabytes, true
	case "kib":
		return UnitKibibytes, true
	case "mib":
		return UnitMebibytes, true
	case "gib":
		return UnitGibibytes, true
	case "tib":
		return UnitTebibytes, true
	case "pib":
		return UnitPebibytes, true
	default:
		return 0, false
	}
}

// String returns the unit suffix.
func (u DataUnit) String() string {
	switch u {
	case UnitBytes:
		return "b"
	case UnitKilobytes:
		return "kb"
	case UnitMegabytes:
		return "mb"
	case UnitGigabytes:
		return "gb"
	case UnitTerabytes:
		return "tb"
	case UnitPetabytes:
		return "pb"
	case UnitKibibytes:
		return "kib"
	case UnitMebibytes:
		return "mib"
	case UnitGibibytes:
		return "gib"
	case UnitTebibytes:
		return "tib"
	case UnitPebibytes:
		return "pib"
	default:
		return "(unknown)"
	}
}

// DataSize is an amount of data produced by a numeric literal with a
// data-size unit suffix. The canonical representation is a truncated
// integer byte count.
type DataSize struct {
	Count int64 // byte count, truncated
	Value Value // original numeric literal (Int or Float)
	Unit  DataUnit
}

func (d *DataSize) Kind() Kind { return KindDataSize }

func (d *DataSize) String() string {
	return d.Value.String() + "." + d.Unit.String()
}

// Bytes returns the byte count.
func (d *DataSize) Bytes() int64 {
	return d.Count
}
