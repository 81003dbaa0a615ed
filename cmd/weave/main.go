package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"

	weave "github.com/t-eckert/weave"
)

const appName = "weave"

var (
	errColor  = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	valColor  = color.New(color.FgHiBlue)
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit status:
// 0 ok, 1 failure, 2 usage error.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	c := &cli{stdout: stdout, stderr: stderr}
	switch args[0] {
	case "run":
		return c.cmdRun(args)
	case "repl":
		return c.cmdRepl(args)
	case "fmt":
		return c.cmdFmt(args)
	case "tokens":
		return c.cmdTokens(args)
	case "ast":
		return c.cmdAST(args)
	case "version":
		fmt.Fprintf(stdout, "%s %s (built %s)\n", appName, weave.Version, weave.BuildDate)
		return 0
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Weave %s (built %s)

Usage:
  %s run [-d] [-t] [-a] <file.wv>     Run a program (-t tokens, -a tree, -d both, to stderr).
  %s repl                            Start the REPL.
  %s fmt [-c] [-w] <file.wv>...       Format files (-c list files that would change, -w rewrite).
  %s tokens [-j] [-e] <file.wv>       Dump tokens (-j NDJSON, -e include EOF).
  %s ast <file.wv>                    Dump the syntax tree as JSON.
  %s version                         Print the compiled version.

`, weave.Version, weave.BuildDate, appName, appName, appName, appName, appName, appName)
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) fail(format string, args ...interface{}) int {
	errColor.Fprintf(c.stderr, "%s: "+format+"\n", append([]interface{}{appName}, args...)...)
	return 1
}

func (c *cli) usageErr(verb, syntax string) int {
	fmt.Fprintf(c.stderr, "usage: %s %s %s\n", appName, verb, syntax)
	return 2
}

// report prints an interpreter error, as a caret snippet when possible.
func (c *cli) report(err error, name string, src []byte) {
	errColor.Fprintln(c.stderr, weave.WrapErrorWithName(err, name, string(src)).Error())
}

func (c *cli) readSource(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return src, nil
}

// colorWriter paints everything written through it.
type colorWriter struct {
	w io.Writer
	c *color.Color
}

func (cw colorWriter) Write(p []byte) (int, error) {
	if _, err := cw.c.Fprint(cw.w, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func (c *cli) cmdRun(args []string) int {
	opts, optind, err := getopt.Getopts(args, "dta")
	if err != nil {
		fmt.Fprintf(c.stderr, "%s run: %v\n", appName, err)
		return c.usageErr("run", "[-d] [-t] [-a] <file.wv>")
	}
	var traceTokens, traceTree bool
	for _, o := range opts {
		switch o.Option {
		case 'd':
			traceTokens, traceTree = true, true
		case 't':
			traceTokens = true
		case 'a':
			traceTree = true
		}
	}
	rest := args[optind:]
	if len(rest) != 1 {
		return c.usageErr("run", "[-d] [-t] [-a] <file.wv>")
	}
	file := rest[0]

	src, err := c.readSource(file)
	if err != nil {
		return c.fail("%v", err)
	}

	if traceTokens {
		if err := weave.DumpTokens(c.stderr, weave.Tokenize(src), false, false); err != nil {
			return c.fail("%v", err)
		}
	}
	if traceTree {
		prog, err := weave.Parse(src)
		if err != nil {
			c.report(err, file, src)
			return 1
		}
		js, err := weave.DumpAST(prog)
		if err != nil {
			return c.fail("%v", err)
		}
		fmt.Fprintln(c.stderr, string(js))
	}

	ip := weave.NewInterpreter()
	ip.Stdout = c.stdout
	ip.Stderr = colorWriter{w: c.stderr, c: warnColor}
	if err := ip.Run(file, src); err != nil {
		c.report(err, file, src)
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func (c *cli) cmdFmt(args []string) int {
	opts, optind, err := getopt.Getopts(args, "cw")
	if err != nil {
		fmt.Fprintf(c.stderr, "%s fmt: %v\n", appName, err)
		return c.usageErr("fmt", "[-c] [-w] <file.wv>...")
	}
	var check, write bool
	for _, o := range opts {
		switch o.Option {
		case 'c':
			check = true
		case 'w':
			write = true
		}
	}
	files := args[optind:]
	if len(files) == 0 {
		return c.usageErr("fmt", "[-c] [-w] <file.wv>...")
	}

	status := 0
	for _, file := range files {
		changed, err := c.formatFile(file, check, write)
		if err != nil {
			var we *weave.Error
			if !errors.As(err, &we) {
				c.fail("%v", err)
			}
			status = 1
			continue
		}
		if check && changed {
			fmt.Fprintln(c.stdout, file)
			status = 1
		}
	}
	return status
}

// formatFile formats one file and reports whether its contents differ from
// the canonical form.
func (c *cli) formatFile(file string, check, write bool) (bool, error) {
	src, err := c.readSource(file)
	if err != nil {
		return false, err
	}
	prog, err := weave.Parse(src)
	if err != nil {
		c.report(err, file, src)
		return false, err
	}
	formatted := weave.FormatProgram(prog)
	changed := formatted != string(src)

	switch {
	case check:
	case write:
		if changed {
			info, err := os.Stat(file)
			if err != nil {
				return false, err
			}
			if err := os.WriteFile(file, []byte(formatted), info.Mode().Perm()); err != nil {
				return false, fmt.Errorf("cannot write %s: %w", file, err)
			}
		}
	default:
		io.WriteString(c.stdout, formatted)
	}
	return changed, nil
}

// -----------------------------------------------------------------------------
// tokens / ast
// -----------------------------------------------------------------------------

func (c *cli) cmdTokens(args []string) int {
	opts, optind, err := getopt.Getopts(args, "je")
	if err != nil {
		fmt.Fprintf(c.stderr, "%s tokens: %v\n", appName, err)
		return c.usageErr("tokens", "[-j] [-e] <file.wv>")
	}
	var asJSON, keepEOF bool
	for _, o := range opts {
		switch o.Option {
		case 'j':
			asJSON = true
		case 'e':
			keepEOF = true
		}
	}
	rest := args[optind:]
	if len(rest) != 1 {
		return c.usageErr("tokens", "[-j] [-e] <file.wv>")
	}

	src, err := c.readSource(rest[0])
	if err != nil {
		return c.fail("%v", err)
	}
	if err := weave.DumpTokens(c.stdout, weave.Tokenize(src), asJSON, keepEOF); err != nil {
		return c.fail("%v", err)
	}
	return 0
}

func (c *cli) cmdAST(args []string) int {
	if len(args) != 2 {
		return c.usageErr("ast", "<file.wv>")
	}
	file := args[1]
	src, err := c.readSource(file)
	if err != nil {
		return c.fail("%v", err)
	}
	prog, err := weave.Parse(src)
	if err != nil {
		c.report(err, file, src)
		return 1
	}
	js, err := weave.DumpAST(prog)
	if err != nil {
		return c.fail("%v", err)
	}
	c.stdout.Write(js)
	if len(js) == 0 || js[len(js)-1] != '\n' {
		io.WriteString(c.stdout, "\n")
	}
	return 0
}
