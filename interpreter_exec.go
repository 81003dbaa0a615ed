// interpreter_exec.go: PRIVATE: statement execution & call engine.
//   - Walks statements, propagating the return signal as a plain bool.
//   - Implements call frames: fresh parameter-only environment, restored on
//     exit no matter how the body finishes.
//   - Recovers fatal faults (rtErr panics) at the top level and turns them
//     into *Error{Kind: DiagRuntime}.
//
// Error policy
// ------------
//   - Soft problems → ip.warn(...) and a nil result.
//   - Fatal problems → ip.fail(...) panics with rtErr; only runTop recovers.
package weave

import (
	"fmt"
)

// rtErr is the panic payload for fatal runtime faults.
type rtErr struct {
	msg string
	pos Pos
}

func (ip *Interpreter) fail(pos Pos, format string, args ...interface{}) {
	panic(rtErr{msg: fmt.Sprintf(format, args...), pos: pos})
}

// warn reports a soft diagnostic and returns Nil for the caller to yield.
func (ip *Interpreter) warn(pos Pos, format string, args ...interface{}) Value {
	d := Diagnostic{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
	ip.diags = append(ip.diags, d)
	if ip.Stderr != nil {
		fmt.Fprintln(ip.Stderr, d.String())
	}
	return Nil
}

////////////////////////////////////////////////////////////////////////////////
//                      CORE EXECUTION PLUMBING (PRIVATE)
////////////////////////////////////////////////////////////////////////////////

// runTop executes top-level statements. A return signal reaching this level
// ends the program normally.
func (ip *Interpreter) runTop(prog *Program) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			ip.depth = 0
			out = Nil
			switch sig := r.(type) {
			case rtErr:
				err = &Error{Kind: DiagRuntime, Msg: sig.msg, Line: sig.pos.Line, Col: sig.pos.Col, Src: ip.src}
			default:
				err = &Error{Kind: DiagRuntime, Msg: fmt.Sprintf("runtime panic: %v", r), Src: ip.src}
			}
		}
	}()

	out = Nil
	for _, s := range prog.Stmts {
		v, ret := ip.execStmt(s)
		if ret {
			return Nil, nil
		}
		if _, isExpr := s.(*ExprStmt); isExpr {
			out = v
		} else {
			out = Nil
		}
	}
	return out, nil
}

// execBlock runs statements in order and stops at the first return signal.
func (ip *Interpreter) execBlock(stmts []Stmt) (Value, bool) {
	for _, s := range stmts {
		if v, ret := ip.execStmt(s); ret {
			return v, true
		}
	}
	return Nil, false
}

// execStmt executes one statement. The bool is the return signal; when it is
// set, the Value is the returned value. For expression statements the Value
// is the expression's result.
func (ip *Interpreter) execStmt(s Stmt) (Value, bool) {
	switch s := s.(type) {
	case *ExprStmt:
		return ip.eval(s.X), false

	case *LetStmt:
		ip.env[s.Name] = ip.eval(s.Value).Clone()
		return Nil, false

	case *FnDecl:
		ip.funcs[s.Name] = s
		return Nil, false

	case *StructDecl:
		ip.types.declareStruct(s)
		return Nil, false

	case *TypeAlias:
		ip.types.declareAlias(s)
		return Nil, false

	case *IfStmt:
		if ip.eval(s.Cond).Truthy() {
			return ip.execBlock(s.Then)
		}
		if s.Else != nil {
			return ip.execBlock(s.Else)
		}
		return Nil, false

	case *WhileStmt:
		for ip.eval(s.Cond).Truthy() {
			if v, ret := ip.execBlock(s.Body); ret {
				return v, true
			}
		}
		return Nil, false

	case *ReturnStmt:
		if s.Value == nil {
			return Nil, true
		}
		return ip.eval(s.Value), true

	case *BlockStmt:
		return ip.execBlock(s.Stmts)
	}
	ip.fail(s.Position(), "unknown statement %T", s)
	return Nil, false
}

////////////////////////////////////////////////////////////////////////////////
//                                   CALLS
////////////////////////////////////////////////////////////////////////////////

// evalCall handles `print` and user functions. Arguments are evaluated left
// to right after the function has been found.
func (ip *Interpreter) evalCall(c *Call) Value {
	id, ok := c.Callee.(*Ident)
	if !ok {
		return ip.warn(c.Pos, "cannot call a %s expression; callee must be a function name", exprKind(c.Callee))
	}

	if id.Name == "print" {
		ip.builtinPrint(c.Args)
		return Nil
	}

	fn, ok := ip.funcs[id.Name]
	if !ok {
		return ip.warn(c.Pos, "undefined function: %s", id.Name)
	}

	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = ip.eval(a)
	}

	if len(args) != len(fn.Params) {
		return ip.warn(c.Pos, "%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	for i, prm := range fn.Params {
		if prm.Type != nil && !ip.types.matches(args[i], *prm.Type) {
			return ip.warn(c.Args[i].Position(), "argument %d of %s: expected %s, got %s",
				i+1, fn.Name, prm.Type, typeNameOf(args[i]))
		}
	}

	return ip.callFrame(c.Pos, fn, args)
}

// callFrame runs fn's body in a fresh environment holding only the bound
// parameters. The caller's environment is restored even if the body
// panics with a fatal fault.
func (ip *Interpreter) callFrame(at Pos, fn *FnDecl, args []Value) Value {
	if ip.MaxCallDepth > 0 && ip.depth >= ip.MaxCallDepth {
		ip.fail(at, "call stack overflow in %s (depth %d)", fn.Name, ip.depth)
	}

	frame := make(map[string]Value, len(fn.Params))
	for i, prm := range fn.Params {
		frame[prm.Name] = args[i].Clone()
	}

	saved := ip.env
	ip.env = frame
	ip.depth++
	defer func() {
		ip.env = saved
		ip.depth--
	}()

	v, _ := ip.execBlock(fn.Body)
	return v
}
