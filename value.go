// value.go: runtime value model.
//
// A Value is a tagged sum over nil, bool, number (float64), string and
// record. Records are nominal (they carry their struct name) and keep their
// fields in declaration order. They behave as values: Clone deep-copies, and
// equality is structural.
package weave

import (
	"math"
	"strconv"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                              PUBLIC TYPES & CTORS
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil    ValueTag = iota // no payload
	VTBool                   // bool
	VTNum                    // float64
	VTStr                    // string
	VTRecord                 // *Record
)

func (t ValueTag) String() string {
	switch t {
	case VTNil:
		return "nil"
	case VTBool:
		return "bool"
	case VTNum:
		return "number"
	case VTStr:
		return "str"
	case VTRecord:
		return "record"
	}
	return "unknown"
}

// Value is the universal runtime carrier used by the interpreter.
//
// Invariants:
//   - When Tag==VTNil, Data is nil.
//   - When Tag==VTRecord, Data is a *Record whose fields match its schema.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Field is one named slot of a record.
type Field struct {
	Name  string
	Value Value
}

// Record is a struct value: a type name plus fields in declaration order.
type Record struct {
	Type   string
	Fields []Field
}

// Get returns the named field.
func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

func Bool(b bool) Value         { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value       { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value        { return Value{Tag: VTStr, Data: s} }
func RecordVal(r *Record) Value { return Value{Tag: VTRecord, Data: r} }

// AsRecord returns the record payload, if any.
func (v Value) AsRecord() (*Record, bool) {
	r, ok := v.Data.(*Record)
	return r, ok && v.Tag == VTRecord
}

// Clone returns a deep copy; only records need copying.
func (v Value) Clone() Value {
	r, ok := v.AsRecord()
	if !ok {
		return v
	}
	fs := make([]Field, len(r.Fields))
	for i, f := range r.Fields {
		fs[i] = Field{Name: f.Name, Value: f.Value.Clone()}
	}
	return RecordVal(&Record{Type: r.Type, Fields: fs})
}

// Truthy reports the value's interpretation in a condition: only false and
// nil are false.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	}
	return true
}

// Equal is structural equality. Values of different kinds are unequal;
// records compare by type name and fields; NaN is unequal to itself.
func (v Value) Equal(w Value) bool {
	if v.Tag != w.Tag {
		return false
	}
	switch v.Tag {
	case VTNil:
		return true
	case VTBool:
		return v.Data.(bool) == w.Data.(bool)
	case VTNum:
		return v.Data.(float64) == w.Data.(float64)
	case VTStr:
		return v.Data.(string) == w.Data.(string)
	case VTRecord:
		a, b := v.Data.(*Record), w.Data.(*Record)
		if a.Type != b.Type || len(a.Fields) != len(b.Fields) {
			return false
		}
		for _, f := range a.Fields {
			g, ok := b.Get(f.Name)
			if !ok || !f.Value.Equal(g) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value the way print does.
func (v Value) String() string { return FormatValue(v) }

// FormatValue renders a value for print: strings verbatim, numbers as the
// shortest round-trippable decimal, records as `{ f1: v1, f2: v2 }`.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

//// END_OF_PUBLIC

func writeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNil:
		b.WriteString("nil")
	case VTBool:
		b.WriteString(strconv.FormatBool(v.Data.(bool)))
	case VTNum:
		b.WriteString(formatNumber(v.Data.(float64)))
	case VTStr:
		b.WriteString(v.Data.(string))
	case VTRecord:
		r := v.Data.(*Record)
		b.WriteString("{ ")
		for i, f := range r.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			writeValue(b, f.Value)
		}
		if len(r.Fields) > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('}')
	}
}

// formatNumber prints integral values without a fraction ("3", not "3.0")
// and never uses exponent notation.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
