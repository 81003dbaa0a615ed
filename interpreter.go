// interpreter.go: PUBLIC API SURFACE of the Weave interpreter.
//
// OVERVIEW
// ========
// This file holds the exported Interpreter type and its entry points. The
// algorithms live in private files:
//   • interpreter_exec.go: statements, call frames, return signal, top-level
//     error recovery.
//   • interpreter_ops.go: expressions (operators, print, struct literals,
//     field access).
//   • types.go: struct/alias tables and the type-match rule.
//
// EXECUTION & SCOPING SEMANTICS
// -----------------------------
// One program run owns four tables: a flat variable environment, the function
// table, the struct table and the alias table. `let` inserts or overwrites in
// the current environment. Declarations insert into their table when they are
// executed (not in a pre-pass), overwriting silently.
//
// A call swaps in a fresh environment holding only the bound parameters; the
// caller's environment is restored verbatim on exit. Functions therefore see
// neither the caller's variables nor top-level `let` bindings, but they can
// call any function in the global table, which is what makes recursion work.
//
// Entry points differ only in *which* state they target:
//   • `Run` / `Exec` reset the state and run a whole program.
//   • `EvalPersistent` runs in the current state (REPL-style), so bindings
//     and declarations accumulate across calls.
//
// ERRORS
// ------
// Two levels, mirroring the language:
//   • Soft diagnostics (undefined variable, unknown function, arity or
//     parameter type mismatch, bad operands) are written to Stderr, recorded
//     in Diagnostics(), and the offending expression evaluates to nil.
//   • Fatal faults (struct literal and field access problems, call depth
//     overflow) stop execution; the entry point returns *Error{Kind:
//     DiagRuntime}. Parse failures return *Error{Kind: DiagParse} before
//     anything runs.

package weave

import (
	"io"
	"os"
)

////////////////////////////////////////////////////////////////////////////////
//                               PUBLIC INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// DefaultMaxCallDepth bounds nested user-function calls.
const DefaultMaxCallDepth = 10000

// Interpreter evaluates Weave programs.
//
// Public fields:
//   - Stdout: receives print output (default os.Stdout).
//   - Stderr: receives soft diagnostics (default os.Stderr).
//   - MaxCallDepth: nested call limit; exceeding it is a fatal fault.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	Stdout       io.Writer
	Stderr       io.Writer
	MaxCallDepth int

	env   map[string]Value
	funcs map[string]*FnDecl
	types *typeTable
	depth int
	diags []Diagnostic
	src   *SourceRef
}

// NewInterpreter returns an interpreter with empty state writing to the
// process's standard streams.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		MaxCallDepth: DefaultMaxCallDepth,
	}
	ip.Reset()
	return ip
}

// Reset discards all variables, declarations and diagnostics.
func (ip *Interpreter) Reset() {
	ip.env = map[string]Value{}
	ip.funcs = map[string]*FnDecl{}
	ip.types = newTypeTable()
	ip.depth = 0
	ip.diags = nil
}

// Run parses src and executes it against fresh state. name labels errors
// (typically the file path).
func (ip *Interpreter) Run(name string, src []byte) error {
	ref := &SourceRef{Name: name, Src: string(src)}
	prog, err := Parse(src)
	if err != nil {
		return withSource(err, ref)
	}
	ip.Reset()
	ip.src = ref
	_, err = ip.runTop(prog)
	return err
}

// Exec executes an already parsed program against fresh state.
func (ip *Interpreter) Exec(prog *Program) error {
	ip.Reset()
	ip.src = nil
	_, err := ip.runTop(prog)
	return err
}

// EvalPersistent parses src interactively and executes it in the current
// state. It returns the value of the final statement when that statement is
// an expression, and Nil otherwise. Incomplete input yields an error for
// which IsIncomplete is true.
func (ip *Interpreter) EvalPersistent(src []byte) (Value, error) {
	ref := &SourceRef{Name: "<repl>", Src: string(src)}
	prog, err := ParseInteractive(src)
	if err != nil {
		return Nil, withSource(err, ref)
	}
	ip.src = ref
	return ip.runTop(prog)
}

// Lookup returns the current binding of a variable.
func (ip *Interpreter) Lookup(name string) (Value, bool) {
	v, ok := ip.env[name]
	return v, ok
}

// Diagnostics returns the soft diagnostics reported since the last reset.
func (ip *Interpreter) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), ip.diags...)
}

//// END_OF_PUBLIC

func withSource(err error, ref *SourceRef) error {
	if e, ok := err.(*Error); ok && e.Src == nil {
		e.Src = ref
	}
	return err
}
