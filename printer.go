// printer.go: canonical source formatter.
//
// Pretty(src) parses a program and prints it back in one canonical layout:
//
//   - two-space indentation, one statement per line;
//   - `;` after let, return and expression statements, so that a following
//     statement starting with `(` or `-` can never be glued onto the previous
//     expression;
//   - single spaces around binary operators and after commas;
//   - parentheses exactly where the source had them (Grouping nodes), plus
//     any needed to keep a hand-built tree's precedence intact.
//
// Formatting is idempotent: Pretty(Pretty(src)) == Pretty(src).
package weave

import (
	"strings"
)

/* ---------- small writer with indentation ---------- */

type out struct {
	b     *strings.Builder
	depth int
}

func (o *out) write(s string) { o.b.WriteString(s) }
func (o *out) nl()            { o.b.WriteByte('\n') }
func (o *out) pad() {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString("  ")
	}
}
func (o *out) withIndent(fn func()) { o.depth++; fn(); o.depth-- }

/* ---------- source -> pretty ---------- */

// Pretty parses Weave source and returns it formatted. Parse failures come
// back as caret snippets.
func Pretty(src string) (string, error) {
	prog, err := Parse([]byte(src))
	if err != nil {
		return "", WrapErrorWithSource(err, src)
	}
	return FormatProgram(prog), nil
}

// FormatProgram prints a parsed program. The result ends with a newline
// unless the program is empty.
func FormatProgram(prog *Program) string {
	var b strings.Builder
	p := pp{out: out{b: &b}}
	for _, s := range prog.Stmts {
		p.stmt(s)
		p.out.nl()
	}
	return b.String()
}

type pp struct {
	out out
}

func (p *pp) write(s string) { p.out.write(s) }

func (p *pp) stmt(s Stmt) {
	p.out.pad()
	switch s := s.(type) {
	case *ExprStmt:
		p.expr(s.X, 0)
		p.write(";")

	case *LetStmt:
		p.write("let " + s.Name + " = ")
		p.expr(s.Value, 0)
		p.write(";")

	case *FnDecl:
		p.write("fn " + s.Name + "(")
		for i, prm := range s.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(prm.Name)
			if prm.Type != nil {
				p.write(": " + prm.Type.String())
			}
		}
		p.write(")")
		if s.RetType != nil {
			p.write(" -> " + s.RetType.String())
		}
		p.write(" ")
		p.block(s.Body)

	case *IfStmt:
		p.write("if ")
		p.expr(s.Cond, 0)
		p.write(" ")
		p.block(s.Then)
		if s.Else != nil {
			p.write(" else ")
			p.block(s.Else)
		}

	case *WhileStmt:
		p.write("while ")
		p.expr(s.Cond, 0)
		p.write(" ")
		p.block(s.Body)

	case *ReturnStmt:
		if s.Value == nil {
			p.write("return;")
			return
		}
		p.write("return ")
		p.expr(s.Value, 0)
		p.write(";")

	case *BlockStmt:
		p.block(s.Stmts)

	case *StructDecl:
		p.write("struct " + s.Name + " {")
		if len(s.Fields) == 0 {
			p.write("}")
			return
		}
		p.out.nl()
		p.out.withIndent(func() {
			for _, f := range s.Fields {
				p.out.pad()
				p.write(f.Name + ": " + f.Type.String() + ",")
				p.out.nl()
			}
		})
		p.out.pad()
		p.write("}")

	case *TypeAlias:
		p.write("type " + s.Name + " = ")
		for i, v := range s.Variants {
			if i > 0 {
				p.write(" | ")
			}
			p.write(quote(v))
		}
	}
}

// block prints `{ ... }` starting at the current column; the closing brace
// lines up with the statement that owns the block.
func (p *pp) block(stmts []Stmt) {
	if len(stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.out.nl()
	p.out.withIndent(func() {
		for _, s := range stmts {
			p.stmt(s)
			p.out.nl()
		}
	})
	p.out.pad()
	p.write("}")
}

// Binding strength of each expression form, matching the parser's ladder.
const (
	precEquality = iota + 1
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

func binaryPrec(op BinaryOp) int {
	switch op {
	case OpEq, OpNeq:
		return precEquality
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return precComparison
	case OpAdd, OpSub:
		return precAdditive
	default:
		return precMultiplicative
	}
}

func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *Binary:
		return binaryPrec(e.Op)
	case *Unary:
		return precUnary
	}
	return precPostfix
}

// expr prints e; min is the binding strength its position requires.
func (p *pp) expr(e Expr, min int) {
	if exprPrec(e) < min {
		p.write("(")
		p.expr(e, 0)
		p.write(")")
		return
	}

	switch e := e.(type) {
	case *Literal:
		switch e.Kind {
		case LitNil:
			p.write("nil")
		case LitBool:
			if e.Value.(bool) {
				p.write("true")
			} else {
				p.write("false")
			}
		case LitNumber:
			p.write(formatNumber(e.Value.(float64)))
		case LitString:
			p.write(quote(e.Value.(string)))
		}

	case *Ident:
		p.write(e.Name)

	case *Grouping:
		p.write("(")
		p.expr(e.Inner, 0)
		p.write(")")

	case *Binary:
		my := binaryPrec(e.Op)
		p.expr(e.Left, my)
		p.write(" " + e.Op.String() + " ")
		// Left-associative: an equal-strength right operand needs parens.
		p.expr(e.Right, my+1)

	case *Unary:
		p.write(e.Op.String())
		p.expr(e.Operand, precUnary)

	case *Call:
		p.expr(e.Callee, precPostfix)
		p.write("(")
		p.args(e.Args)
		p.write(")")

	case *FieldAccess:
		p.expr(e.Object, precPostfix)
		p.write("." + e.Field)

	case *StructLit:
		p.write(e.Name + " {")
		if len(e.Fields) == 0 {
			p.write("}")
			return
		}
		p.write(" ")
		for i, f := range e.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name + ": ")
			p.expr(f.Value, 0)
		}
		p.write(" }")
	}
}

func (p *pp) args(args []Expr) {
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.expr(a, 0)
	}
}

// quote wraps s in double quotes. Weave strings have no escapes, so the
// text is written verbatim.
func quote(s string) string { return `"` + s + `"` }
