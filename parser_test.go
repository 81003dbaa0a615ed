package weave

import (
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	return prog
}

func mustParseErr(t *testing.T, src string) *Error {
	t.Helper()
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatalf("expected parse error for:\n%s", src)
	}
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("want *Error, got %T: %v", err, err)
	}
	if e.Kind != DiagParse {
		t.Fatalf("want DiagParse, got %v", e.Kind)
	}
	return e
}

// sexpr renders the first statement of src through the debug S-expression
// form, which is convenient for comparing shapes.
func sexpr(t *testing.T, src string) S {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Stmts) == 0 {
		t.Fatalf("no statements in %q", src)
	}
	return stmtSExpr(prog.Stmts[0])
}

func wantShape(t *testing.T, src string, want S) {
	t.Helper()
	got := sexpr(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("source: %s\nwant: %#v\ngot:  %#v", src, want, got)
	}
}

func Test_Parser_Precedence_Mul_Over_Add(t *testing.T) {
	wantShape(t, `1 + 2 * 3`,
		L("expr", L("binop", "+", L("num", 1.0), L("binop", "*", L("num", 2.0), L("num", 3.0)))))
}

func Test_Parser_Grouping(t *testing.T) {
	wantShape(t, `(1 + 2) * 3`,
		L("expr", L("binop", "*", L("group", L("binop", "+", L("num", 1.0), L("num", 2.0))), L("num", 3.0))))
}

func Test_Parser_Left_Associative(t *testing.T) {
	wantShape(t, `10 - 3 - 2`,
		L("expr", L("binop", "-", L("binop", "-", L("num", 10.0), L("num", 3.0)), L("num", 2.0))))
}

func Test_Parser_Ladder_Equality_Lowest(t *testing.T) {
	wantShape(t, `a < b == c > d`,
		L("expr", L("binop", "==",
			L("binop", "<", L("id", "a"), L("id", "b")),
			L("binop", ">", L("id", "c"), L("id", "d")))))
}

func Test_Parser_Unary_Right_Associative(t *testing.T) {
	wantShape(t, `!-x * 2`,
		L("expr", L("binop", "*", L("unop", "!", L("unop", "-", L("id", "x"))), L("num", 2.0))))
}

func Test_Parser_Call_And_Field_Access(t *testing.T) {
	wantShape(t, `f(1, "a")`, L("expr", L("call", L("id", "f"), L("num", 1.0), L("str", "a"))))
	wantShape(t, `f()`, L("expr", L("call", L("id", "f"))))
	wantShape(t, `p.a.b`, L("expr", L("get", L("get", L("id", "p"), "a"), "b")))
}

func Test_Parser_Method_Call_Rewrites_To_Free_Call(t *testing.T) {
	wantShape(t, `obj.area(2, 3)`,
		L("expr", L("call", L("id", "area"), L("id", "obj"), L("num", 2.0), L("num", 3.0))))
	wantShape(t, `p.len()`, L("expr", L("call", L("id", "len"), L("id", "p"))))
}

func Test_Parser_Struct_Literal(t *testing.T) {
	wantShape(t, `let p = P { n: "x", a: 3 }`,
		L("let", "p", L("record", "P", L("pair", "n", L("str", "x")), L("pair", "a", L("num", 3.0)))))
	// commas are optional
	wantShape(t, `P { n: "x" a: 3 }`,
		L("expr", L("record", "P", L("pair", "n", L("str", "x")), L("pair", "a", L("num", 3.0)))))
}

func Test_Parser_Struct_Literal_Field_Access(t *testing.T) {
	wantShape(t, `P { a: 1 }.a`, L("expr", L("get", L("record", "P", L("pair", "a", L("num", 1.0))), "a")))
}

func Test_Parser_If_Identifier_Condition_Is_Not_Struct_Literal(t *testing.T) {
	wantShape(t, `if x { print(1) }`,
		L("if", L("id", "x"), L("block", L("expr", L("call", L("id", "print"), L("num", 1.0))))))
	wantShape(t, `while ok { let ok = false }`,
		L("while", L("id", "ok"), L("block", L("let", "ok", L("bool", false)))))
	// an empty block after an identifier
	wantShape(t, `if x {} else {}`, L("if", L("id", "x"), L("block"), L("block")))
}

func Test_Parser_If_Else(t *testing.T) {
	prog := mustParse(t, `if a { 1 } else { 2 }`)
	s := prog.Stmts[0].(*IfStmt)
	if len(s.Then) != 1 || len(s.Else) != 1 {
		t.Fatalf("bad if: %#v", s)
	}
	prog = mustParse(t, `if a { 1 }`)
	if prog.Stmts[0].(*IfStmt).Else != nil {
		t.Fatalf("missing else must be nil")
	}
}

func Test_Parser_Fn_Decl(t *testing.T) {
	prog := mustParse(t, `fn area(w: number, h: number, tag) -> number { return w * h }`)
	fn := prog.Stmts[0].(*FnDecl)
	if fn.Name != "area" || len(fn.Params) != 3 {
		t.Fatalf("bad fn: %#v", fn)
	}
	if fn.Params[0].Type == nil || fn.Params[0].Type.Kind != TypeNumber {
		t.Fatalf("param w should be number: %#v", fn.Params[0])
	}
	if fn.Params[2].Type != nil {
		t.Fatalf("param tag should be untyped")
	}
	if fn.RetType == nil || fn.RetType.Kind != TypeNumber {
		t.Fatalf("return type: %#v", fn.RetType)
	}
	if _, ok := fn.Body[0].(*ReturnStmt); !ok {
		t.Fatalf("body: %#v", fn.Body)
	}
}

func Test_Parser_Fn_Params_Without_Commas(t *testing.T) {
	fn := mustParse(t, `fn f(a b: Color) {}`).Stmts[0].(*FnDecl)
	if len(fn.Params) != 2 || fn.Params[1].Type.Kind != TypeCustom || fn.Params[1].Type.Name != "Color" {
		t.Fatalf("params: %#v", fn.Params)
	}
}

func Test_Parser_Return_Forms(t *testing.T) {
	wantShape(t, `return;`, L("return"))
	wantShape(t, `return`, L("return"))
	wantShape(t, `return 1 + 2;`, L("return", L("binop", "+", L("num", 1.0), L("num", 2.0))))
	fn := mustParse(t, `fn f() { return }`).Stmts[0].(*FnDecl)
	if r := fn.Body[0].(*ReturnStmt); r.Value != nil {
		t.Fatalf("bare return should have no value")
	}
}

func Test_Parser_Struct_Decl_And_Alias(t *testing.T) {
	wantShape(t, `struct P { n: str, a: number ok: bool c: Color }`,
		L("struct", "P", L("field", "n", "str"), L("field", "a", "number"), L("field", "ok", "bool"), L("field", "c", "Color")))
	wantShape(t, `type Color = "red" | "blue"`, L("alias", "Color", "red", "blue"))
	wantShape(t, `type One = "only"`, L("alias", "One", "only"))
}

func Test_Parser_Statements_Without_Separators(t *testing.T) {
	prog := mustParse(t, `let a = 2 let b = 3 print(a + b * 4)`)
	if len(prog.Stmts) != 3 {
		t.Fatalf("want 3 statements, got %d", len(prog.Stmts))
	}
}

func Test_Parser_Block_Statement(t *testing.T) {
	wantShape(t, `{ let a = 1; a }`, L("block", L("let", "a", L("num", 1.0)), L("expr", L("id", "a"))))
}

func Test_Parser_Positions(t *testing.T) {
	prog := mustParse(t, "let a = 1\nprint(a + 2)")
	call := prog.Stmts[1].(*ExprStmt).X.(*Call)
	if call.Pos != (Pos{Line: 2, Col: 1}) {
		t.Fatalf("call pos: %+v", call.Pos)
	}
	bin := call.Args[0].(*Binary)
	if bin.Pos != (Pos{Line: 2, Col: 9}) {
		t.Fatalf("binary pos should be the operator: %+v", bin.Pos)
	}
}

func Test_Parser_Errors(t *testing.T) {
	cases := []struct {
		src     string
		line    int
		col     int
		contain string
	}{
		{`let = 1`, 1, 5, "expected variable name after 'let', got token ASSIGN '='"},
		{`for x { }`, 1, 1, "unexpected token FOR 'for'"},
		{`print(1`, 1, 8, "expected ')' after arguments, got end of input"},
		{`if x print(1)`, 1, 6, "expected '{' after if condition"},
		{`type C = red`, 1, 10, `expected string literal in type union, got identifier "red"`},
		{`print(1 @)`, 1, 9, `expected ')' after arguments, got unknown character "@"`},
		{`fn f(x: 1) {}`, 1, 9, "expected type annotation, got number 1"},
		{"struct P {\n  a: number\n", 3, 1, "expected '}' at end of struct, got end of input"},
		{`)`, 1, 1, "unexpected token RPAREN ')'"},
	}
	for _, c := range cases {
		e := mustParseErr(t, c.src)
		if e.Line != c.line || e.Col != c.col {
			t.Errorf("%q: want %d:%d, got %d:%d (%s)", c.src, c.line, c.col, e.Line, e.Col, e.Msg)
		}
		if !strings.Contains(e.Msg, c.contain) {
			t.Errorf("%q: message %q does not contain %q", c.src, e.Msg, c.contain)
		}
	}
}

func Test_Parser_Interactive_Incomplete(t *testing.T) {
	for _, src := range []string{`fn f() {`, `let x =`, `print(1,`, `if x { print(1)`, `struct P { a:`} {
		_, err := ParseInteractive([]byte(src))
		if !IsIncomplete(err) {
			t.Fatalf("%q: want incomplete, got %v", src, err)
		}
	}
	_, err := ParseInteractive([]byte(`let = 1`))
	if err == nil || IsIncomplete(err) {
		t.Fatalf("a real syntax error must not be reported as incomplete: %v", err)
	}
	if _, err := ParseInteractive([]byte(`print(1)`)); err != nil {
		t.Fatalf("complete input: %v", err)
	}
}

func Test_Parser_Unknown_Byte_Is_An_Identifier(t *testing.T) {
	wantShape(t, `let x = @`, L("let", "x", L("id", "UNKNOWN")))
}

func Test_Parser_ParseTokens_Tolerates_Missing_EOF(t *testing.T) {
	ts := Tokenize([]byte(`print(1)`))
	prog, err := ParseTokens(ts[:len(ts)-1])
	if err != nil || len(prog.Stmts) != 1 {
		t.Fatalf("got %v, %v", prog, err)
	}
}
