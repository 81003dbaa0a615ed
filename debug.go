// debug.go: token and tree dumps for `weave tokens`, `weave ast` and the
// `run -t/-a` tracing flags.
//
// The tree dump uses the classic S-expression shape: every node is a JSON
// array whose first element is a tag and whose remaining elements are the
// node's payload and children, e.g.
//
//	["let", "x", ["binop", "+", ["num", 1], ["num", 2]]]
//
// The JSON is normalised with hujson so the output is stable and readable.
package weave

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tailscale/hujson"
)

// S is an S-expression node: []any{tag, payload...}.
type S = []any

// L constructs an S-expression node.
func L(tag string, parts ...any) S { return append([]any{tag}, parts...) }

// DumpTokens writes one token per line. In JSON mode each line is a JSON
// object (NDJSON). EOF is skipped unless keepEOF is set.
func DumpTokens(w io.Writer, toks []Token, asJSON, keepEOF bool) error {
	enc := json.NewEncoder(w)
	for _, t := range toks {
		if t.Type == EOF && !keepEOF {
			continue
		}
		if asJSON {
			rec := struct {
				Type    string `json:"type"`
				Lexeme  string `json:"lexeme"`
				Literal any    `json:"literal,omitempty"`
				Line    int    `json:"line"`
				Col     int    `json:"col"`
			}{t.Type.String(), t.Lexeme, t.Literal, t.Line, t.Col}
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d:%d\t%-10s %s\n", t.Line, t.Col, t.Type, tokenShow(t)); err != nil {
			return err
		}
	}
	return nil
}

func tokenShow(t Token) string {
	switch t.Type {
	case STRING:
		return fmt.Sprintf("%q", t.Text())
	case EOF:
		return ""
	}
	if t.Type == ID && t.Text() == unknownIdent {
		return fmt.Sprintf("%s (%q)", unknownIdent, t.Lexeme)
	}
	return t.Lexeme
}

// DumpAST renders a program as formatted JSON S-expressions.
func DumpAST(prog *Program) ([]byte, error) {
	raw, err := json.Marshal(ProgramSExpr(prog))
	if err != nil {
		return nil, err
	}
	return hujson.Format(raw)
}

// ProgramSExpr converts a program to its S-expression form.
func ProgramSExpr(prog *Program) S {
	return L("program", stmtsSExpr(prog.Stmts)...)
}

//// END_OF_PUBLIC

func stmtsSExpr(stmts []Stmt) []any {
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, stmtSExpr(s))
	}
	return out
}

func typeSExpr(t *TypeAnn) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func stmtSExpr(s Stmt) S {
	switch s := s.(type) {
	case *ExprStmt:
		return L("expr", exprSExpr(s.X))
	case *LetStmt:
		return L("let", s.Name, exprSExpr(s.Value))
	case *FnDecl:
		params := S{}
		for _, p := range s.Params {
			params = append(params, L("param", p.Name, typeSExpr(p.Type)))
		}
		return L("fn", s.Name, params, typeSExpr(s.RetType), L("block", stmtsSExpr(s.Body)...))
	case *IfStmt:
		n := L("if", exprSExpr(s.Cond), L("block", stmtsSExpr(s.Then)...))
		if s.Else != nil {
			n = append(n, L("block", stmtsSExpr(s.Else)...))
		}
		return n
	case *WhileStmt:
		return L("while", exprSExpr(s.Cond), L("block", stmtsSExpr(s.Body)...))
	case *ReturnStmt:
		if s.Value == nil {
			return L("return")
		}
		return L("return", exprSExpr(s.Value))
	case *BlockStmt:
		return L("block", stmtsSExpr(s.Stmts)...)
	case *StructDecl:
		n := L("struct", s.Name)
		for _, f := range s.Fields {
			n = append(n, L("field", f.Name, f.Type.String()))
		}
		return n
	case *TypeAlias:
		n := L("alias", s.Name)
		for _, v := range s.Variants {
			n = append(n, v)
		}
		return n
	}
	return L("unknown")
}

func exprSExpr(e Expr) S {
	switch e := e.(type) {
	case *Literal:
		switch e.Kind {
		case LitBool:
			return L("bool", e.Value)
		case LitNumber:
			return L("num", e.Value)
		case LitString:
			return L("str", e.Value)
		}
		return L("nil")
	case *Ident:
		return L("id", e.Name)
	case *Binary:
		return L("binop", e.Op.String(), exprSExpr(e.Left), exprSExpr(e.Right))
	case *Unary:
		return L("unop", e.Op.String(), exprSExpr(e.Operand))
	case *Call:
		n := L("call", exprSExpr(e.Callee))
		for _, a := range e.Args {
			n = append(n, exprSExpr(a))
		}
		return n
	case *Grouping:
		return L("group", exprSExpr(e.Inner))
	case *StructLit:
		n := L("record", e.Name)
		for _, f := range e.Fields {
			n = append(n, L("pair", f.Name, exprSExpr(f.Value)))
		}
		return n
	case *FieldAccess:
		return L("get", exprSExpr(e.Object), e.Field)
	}
	return L("unknown")
}
