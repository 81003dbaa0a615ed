package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func Test_CLI_Run_Program(t *testing.T) {
	p := writeFile(t, "hello.wv", `fn add(x, y) { return x + y } print("sum: ", add(2, 5))`)
	code, out, stderr := runCLI("run", p)
	if code != 0 || out != "sum: 7\n" || stderr != "" {
		t.Fatalf("code=%d out=%q stderr=%q", code, out, stderr)
	}
}

func Test_CLI_Run_Soft_Diagnostic_Exits_Zero(t *testing.T) {
	p := writeFile(t, "soft.wv", `print(missing)`)
	code, out, stderr := runCLI("run", p)
	if code != 0 || out != "nil\n" || !strings.Contains(stderr, "warning at 1:7: undefined variable: missing") {
		t.Fatalf("code=%d out=%q stderr=%q", code, out, stderr)
	}
}

func Test_CLI_Run_Fatal_Exits_One(t *testing.T) {
	p := writeFile(t, "fatal.wv", "print(\"a\")\nlet p = Nope { a: 1 }\nprint(\"b\")")
	code, out, stderr := runCLI("run", p)
	if code != 1 || out != "a\n" {
		t.Fatalf("code=%d out=%q", code, out)
	}
	if !strings.Contains(stderr, "RUNTIME ERROR in "+p+" at 2:9: undefined struct: Nope") || !strings.Contains(stderr, "   2 | let p = Nope { a: 1 }") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func Test_CLI_Run_Parse_Error_Exits_One(t *testing.T) {
	p := writeFile(t, "bad.wv", "for x { }")
	code, out, stderr := runCLI("run", p)
	if code != 1 || out != "" || !strings.Contains(stderr, "PARSE ERROR") {
		t.Fatalf("code=%d out=%q stderr=%q", code, out, stderr)
	}
}

func Test_CLI_Run_Missing_File(t *testing.T) {
	code, _, stderr := runCLI("run", filepath.Join(t.TempDir(), "nope.wv"))
	if code != 1 || !strings.Contains(stderr, "cannot read") {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func Test_CLI_Run_Trace_Flags(t *testing.T) {
	p := writeFile(t, "trace.wv", `print(1)`)
	code, out, stderr := runCLI("run", "-d", p)
	if code != 0 || out != "1\n" {
		t.Fatalf("code=%d out=%q", code, out)
	}
	if !strings.Contains(stderr, "LPAREN") || !strings.Contains(stderr, `"program"`) {
		t.Fatalf("trace missing from stderr:\n%s", stderr)
	}
}

func Test_CLI_Usage_Errors(t *testing.T) {
	cases := [][]string{
		{},
		{"frobnicate"},
		{"run"},
		{"run", "-z", "x.wv"},
		{"fmt"},
		{"tokens"},
		{"ast"},
	}
	for _, args := range cases {
		if code, _, _ := runCLI(args...); code != 2 {
			t.Errorf("%v: want exit 2, got %d", args, code)
		}
	}
}

func Test_CLI_Version_And_Help(t *testing.T) {
	code, out, _ := runCLI("version")
	if code != 0 || !strings.HasPrefix(out, "weave ") {
		t.Fatalf("code=%d out=%q", code, out)
	}
	code, out, _ = runCLI("help")
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("code=%d out=%q", code, out)
	}
}

func Test_CLI_Fmt(t *testing.T) {
	ugly := `let a=1 print(a)`
	pretty := "let a = 1;\nprint(a);\n"

	p := writeFile(t, "ugly.wv", ugly)
	code, out, _ := runCLI("fmt", p)
	if code != 0 || out != pretty {
		t.Fatalf("code=%d out=%q", code, out)
	}

	code, out, _ = runCLI("fmt", "-c", p)
	if code != 1 || strings.TrimSpace(out) != p {
		t.Fatalf("check: code=%d out=%q", code, out)
	}

	if code, _, _ = runCLI("fmt", "-w", p); code != 0 {
		t.Fatalf("write: code=%d", code)
	}
	b, _ := os.ReadFile(p)
	if string(b) != pretty {
		t.Fatalf("rewritten file: %q", b)
	}

	if code, out, _ = runCLI("fmt", "-c", p); code != 0 || out != "" {
		t.Fatalf("formatted file still reported: code=%d out=%q", code, out)
	}
}

func Test_CLI_Fmt_Parse_Error(t *testing.T) {
	p := writeFile(t, "bad.wv", `let = 1`)
	code, _, stderr := runCLI("fmt", p)
	if code != 1 || !strings.Contains(stderr, "PARSE ERROR in "+p) {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
}

func Test_CLI_Tokens(t *testing.T) {
	p := writeFile(t, "t.wv", `let x`)
	code, out, _ := runCLI("tokens", p)
	if code != 0 || strings.Count(out, "\n") != 2 {
		t.Fatalf("code=%d out=%q", code, out)
	}
	code, out, _ = runCLI("tokens", "-j", "-e", p)
	if code != 0 || strings.Count(out, "\n") != 3 || !strings.Contains(out, `"type":"EOF"`) {
		t.Fatalf("json: code=%d out=%q", code, out)
	}
}

func Test_CLI_AST(t *testing.T) {
	p := writeFile(t, "a.wv", `print("x")`)
	code, out, _ := runCLI("ast", p)
	if code != 0 || !strings.Contains(out, `"call"`) || !strings.HasSuffix(out, "\n") {
		t.Fatalf("code=%d out=%q", code, out)
	}
}

func Test_REPL_Session(t *testing.T) {
	var out, errb bytes.Buffer
	c := &cli{stdout: &out, stderr: &errb}
	s := c.newSession()

	inputs := []string{
		`let a = 2`,
		`fn twice(x) { return x * 2 }`,
		`twice(a)`,
		`print("hi")`,
		`nope`,
		`Ghost { a: 1 }`,
		`:fmt let b=1`,
		`:reset`,
		`a`,
	}
	for _, in := range inputs {
		if s.handle(in) {
			t.Fatalf("%q asked to exit", in)
		}
	}
	wantOut := "4\nhi\nlet b = 1;\ninterpreter reset.\n"
	if out.String() != wantOut {
		t.Fatalf("stdout:\nwant %q\ngot  %q", wantOut, out.String())
	}
	stderr := errb.String()
	if !strings.Contains(stderr, "undefined variable: nope") ||
		!strings.Contains(stderr, "RUNTIME ERROR in <repl> at 1:1: undefined struct: Ghost") ||
		!strings.Contains(stderr, "undefined variable: a") {
		t.Fatalf("stderr:\n%s", stderr)
	}

	if !s.handle(":quit") {
		t.Fatal(":quit should exit")
	}
}

func Test_REPL_Load(t *testing.T) {
	p := writeFile(t, "lib.wv", `fn sq(x) { return x * x }`)
	var out bytes.Buffer
	c := &cli{stdout: &out, stderr: &bytes.Buffer{}}
	s := c.newSession()
	s.handle(":load " + p)
	s.handle("sq(9)")
	if out.String() != "81\n" {
		t.Fatalf("stdout: %q", out.String())
	}
}
