package weave

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func Test_Debug_DumpTokens_Text(t *testing.T) {
	var b bytes.Buffer
	if err := DumpTokens(&b, Tokenize([]byte("let s = \"hi\" @")), false, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d:\n%s", len(lines), b.String())
	}
	if !strings.HasPrefix(lines[0], "1:1\tLET") {
		t.Fatalf("line 0: %q", lines[0])
	}
	if !strings.HasSuffix(lines[3], `"hi"`) {
		t.Fatalf("line 3: %q", lines[3])
	}
	if !strings.HasSuffix(lines[4], `UNKNOWN ("@")`) {
		t.Fatalf("line 4: %q", lines[4])
	}
}

func Test_Debug_DumpTokens_JSON_With_EOF(t *testing.T) {
	var b bytes.Buffer
	if err := DumpTokens(&b, Tokenize([]byte("x 1.5")), true, true); err != nil {
		t.Fatal(err)
	}
	dec := json.NewDecoder(&b)
	var got []map[string]any
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatal(err)
		}
		got = append(got, m)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 records, got %v", got)
	}
	if got[0]["type"] != "ID" || got[0]["literal"] != "x" {
		t.Fatalf("first: %v", got[0])
	}
	if got[1]["literal"] != 1.5 || got[1]["col"] != 3.0 {
		t.Fatalf("second: %v", got[1])
	}
	if got[2]["type"] != "EOF" {
		t.Fatalf("last: %v", got[2])
	}
}

func Test_Debug_DumpAST(t *testing.T) {
	prog := mustParse(t, `let x = 1 + 2 print(x)`)
	out, err := DumpAST(prog)
	if err != nil {
		t.Fatal(err)
	}
	var got any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("dump is not JSON: %v\n%s", err, out)
	}
	want := []any{"program",
		[]any{"let", "x", []any{"binop", "+", []any{"num", 1.0}, []any{"num", 2.0}}},
		[]any{"expr", []any{"call", []any{"id", "print"}, []any{"id", "x"}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %#v\ngot  %#v", want, got)
	}
}

func Test_Debug_SExpr_Declarations(t *testing.T) {
	prog := mustParse(t, `fn f(a: number, b) -> Color { return } type Color = "r" | "g"`)
	got := ProgramSExpr(prog)
	want := L("program",
		L("fn", "f", S{L("param", "a", "number"), L("param", "b", nil)}, "Color", L("block", L("return"))),
		L("alias", "Color", "r", "g"),
	)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %#v\ngot  %#v", want, got)
	}
}
