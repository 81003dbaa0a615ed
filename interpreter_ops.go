// interpreter_ops.go: PRIVATE: expression evaluation.
//
// Expressions evaluate to Values. Operators evaluate both operands first
// (left, then right; no short-circuit), then dispatch on the operand kinds:
//
//	number (+ - * /) number      → number (IEEE-754)
//	string + string              → concatenation
//	number (< <= > >=) number    → bool
//	any (== !=) any              → bool, structural equality
//	anything else                → soft diagnostic, nil
//
// Struct literals and field access are the strict corner of the language:
// every schema violation is fatal.
package weave

import (
	"strings"
)

func (ip *Interpreter) eval(e Expr) Value {
	switch e := e.(type) {
	case *Literal:
		return literalValue(e)

	case *Ident:
		if v, ok := ip.env[e.Name]; ok {
			return v
		}
		return ip.warn(e.Pos, "undefined variable: %s", e.Name)

	case *Binary:
		l := ip.eval(e.Left)
		r := ip.eval(e.Right)
		return ip.binaryOp(e, l, r)

	case *Unary:
		return ip.unaryOp(e, ip.eval(e.Operand))

	case *Call:
		return ip.evalCall(e)

	case *Grouping:
		return ip.eval(e.Inner)

	case *StructLit:
		return ip.evalStructLit(e)

	case *FieldAccess:
		return ip.evalFieldAccess(e)
	}
	ip.fail(e.Position(), "unknown expression %T", e)
	return Nil
}

func literalValue(l *Literal) Value {
	switch l.Kind {
	case LitBool:
		return Bool(l.Value.(bool))
	case LitNumber:
		return Num(l.Value.(float64))
	case LitString:
		return Str(l.Value.(string))
	}
	return Nil
}

////////////////////////////////////////////////////////////////////////////////
//                                 OPERATORS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) binaryOp(e *Binary, l, r Value) Value {
	switch e.Op {
	case OpEq:
		return Bool(l.Equal(r))
	case OpNeq:
		return Bool(!l.Equal(r))
	}

	if l.Tag == VTNum && r.Tag == VTNum {
		a, b := l.Data.(float64), r.Data.(float64)
		switch e.Op {
		case OpAdd:
			return Num(a + b)
		case OpSub:
			return Num(a - b)
		case OpMul:
			return Num(a * b)
		case OpDiv:
			return Num(a / b)
		case OpLess:
			return Bool(a < b)
		case OpLessEq:
			return Bool(a <= b)
		case OpGreater:
			return Bool(a > b)
		case OpGreaterEq:
			return Bool(a >= b)
		}
	}

	if e.Op == OpAdd && l.Tag == VTStr && r.Tag == VTStr {
		return Str(l.Data.(string) + r.Data.(string))
	}

	return ip.warn(e.Pos, "invalid operands for '%s': %s and %s", e.Op, typeNameOf(l), typeNameOf(r))
}

func (ip *Interpreter) unaryOp(e *Unary, v Value) Value {
	switch e.Op {
	case OpNot:
		return Bool(!v.Truthy())
	case OpNeg:
		if v.Tag == VTNum {
			return Num(-v.Data.(float64))
		}
	}
	return ip.warn(e.Pos, "invalid operand for '%s': %s", e.Op, typeNameOf(v))
}

////////////////////////////////////////////////////////////////////////////////
//                                 BUILTINS
////////////////////////////////////////////////////////////////////////////////

// builtinPrint writes the concatenated renderings of its arguments and one
// newline.
func (ip *Interpreter) builtinPrint(args []Expr) {
	var b strings.Builder
	for _, a := range args {
		writeValue(&b, ip.eval(a))
	}
	b.WriteByte('\n')
	if ip.Stdout != nil {
		_, _ = ip.Stdout.Write([]byte(b.String()))
	}
}

////////////////////////////////////////////////////////////////////////////////
//                                  RECORDS
////////////////////////////////////////////////////////////////////////////////

// evalStructLit builds a record in schema order. A missing schema, a
// missing or unknown field, or a field of the wrong type is fatal, so a
// partial record can never be observed.
func (ip *Interpreter) evalStructLit(s *StructLit) Value {
	schema, ok := ip.types.schema(s.Name)
	if !ok {
		ip.fail(s.Pos, "undefined struct: %s", s.Name)
	}

	declared := make(map[string]bool, len(schema))
	for _, fd := range schema {
		declared[fd.Name] = true
	}
	for _, fi := range s.Fields {
		if !declared[fi.Name] {
			ip.fail(fi.Pos, "struct %s has no field %s", s.Name, fi.Name)
		}
	}

	rec := &Record{Type: s.Name, Fields: make([]Field, 0, len(schema))}
	for _, fd := range schema {
		fi, ok := findFieldInit(s.Fields, fd.Name)
		if !ok {
			ip.fail(s.Pos, "missing field %s in %s literal", fd.Name, s.Name)
		}
		v := ip.eval(fi.Value)
		if !ip.types.matches(v, fd.Type) {
			ip.fail(fi.Pos, "field %s of %s: expected %s, got %s", fd.Name, s.Name, fd.Type, typeNameOf(v))
		}
		rec.Fields = append(rec.Fields, Field{Name: fd.Name, Value: v.Clone()})
	}
	return RecordVal(rec)
}

func findFieldInit(fields []FieldInit, name string) (FieldInit, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInit{}, false
}

func (ip *Interpreter) evalFieldAccess(f *FieldAccess) Value {
	obj := ip.eval(f.Object)
	rec, ok := obj.AsRecord()
	if !ok {
		ip.fail(f.Pos, "cannot access field %s on %s", f.Field, typeNameOf(obj))
	}
	v, ok := rec.Get(f.Field)
	if !ok {
		ip.fail(f.Pos, "%s has no field %s", rec.Type, f.Field)
	}
	return v
}

// exprKind names an expression node for diagnostics.
func exprKind(e Expr) string {
	switch e.(type) {
	case *Literal:
		return "literal"
	case *Ident:
		return "identifier"
	case *Binary:
		return "binary"
	case *Unary:
		return "unary"
	case *Call:
		return "call"
	case *Grouping:
		return "grouped"
	case *StructLit:
		return "struct literal"
	case *FieldAccess:
		return "field access"
	}
	return "unknown"
}
