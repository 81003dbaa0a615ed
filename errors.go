// errors.go: unified error type and caret-snippet rendering
//
// What this file does
// -------------------
// Parse faults and fatal runtime faults surface as a single Go error type,
// `*Error`, discriminated by `DiagKind`. Soft runtime problems (an undefined
// variable, a bad operand, an arity mismatch) are not errors at all: they are
// `Diagnostic` records that the interpreter reports and then carries on.
//
// `WrapErrorWithName` turns an `*Error` into a readable snippet with a caret
// pointing at the offending column:
//
//	PARSE ERROR in main.wv at 3:1: expected ')' after expression, got identifier "print"
//
//	   2 | let b = (a + 2
//	   3 | print(b)
//	     | ^
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the 1-based column.
//
// Scope of the public API
// -----------------------
// Public:   `Error`, `DiagKind`, `SourceRef`, `Diagnostic`, `IsIncomplete`,
//
//	`WrapErrorWithSource`, `WrapErrorWithName`.
//
// Private:  caret-snippet renderer.
package weave

import (
	"errors"
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// DiagKind classifies an *Error.
type DiagKind int

const (
	DiagParse      DiagKind = iota // the grammar rejected a token
	DiagIncomplete                 // interactive parse hit end of input mid-construct
	DiagRuntime                    // fatal runtime fault; execution stopped
)

func (k DiagKind) header() string {
	switch k {
	case DiagRuntime:
		return "RUNTIME ERROR"
	default:
		return "PARSE ERROR"
	}
}

// SourceRef names the source an error belongs to.
type SourceRef struct {
	Name string
	Src  string
}

// Error is the unified parse/runtime error. Line and Col are 1-based.
type Error struct {
	Kind DiagKind
	Msg  string
	Line int
	Col  int
	Src  *SourceRef // optional; set by Run/EvalPersistent
}

func (e *Error) Error() string {
	if e.Src != nil && e.Src.Name != "" {
		return fmt.Sprintf("%s in %s at %d:%d: %s", e.Kind.header(), e.Src.Name, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind.header(), e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is an interactive parse that ran out of
// input. REPLs use it to ask for a continuation line.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == DiagIncomplete
}

// Diagnostic is a non-fatal runtime problem. The expression that caused it
// evaluated to nil and execution continued.
type Diagnostic struct {
	Line int
	Col  int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("warning at %d:%d: %s", d.Line, d.Col, d.Msg)
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of src. Errors that are not *Error are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name in the header
// ("PARSE ERROR in main.wv at ...").
func WrapErrorWithName(err error, srcName string, src string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if srcName == "" && e.Src != nil {
		srcName = e.Src.Name
	}
	return errors.New(prettyErrorStringLabeled(src, e.Kind.header(), srcName, e.Line, e.Col, e.Msg))
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: rendering
   =========================== */

// prettyErrorStringLabeled builds a snippet with a header and a caret.
// Coordinates are 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
