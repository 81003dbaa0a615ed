package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	weave "github.com/t-eckert/weave"
)

const (
	historyFile = ".weave_history"
	promptMain  = "==> "
	promptCont  = "... "
	helpText    = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :load <file>     Run a file in the current session
  :fmt <code>      Pretty-print code
  :reset           Forget all variables and declarations
`
)

func (c *cli) cmdRepl(args []string) int {
	if len(args) > 1 {
		return c.usageErr("repl", "")
	}
	fmt.Fprintf(c.stdout, "Weave %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", weave.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	s := c.newSession()
	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(c.stdout)
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if s.handle(code) {
			return 0
		}
	}
}

// readByParseProbe keeps reading continuation lines while the buffered input
// is an incomplete program.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := weave.ParseInteractive([]byte(src)); weave.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// session is one REPL's interpreter plus its output streams. It is separate
// from the line editor so it can be driven from tests.
type session struct {
	c  *cli
	ip *weave.Interpreter
}

func (c *cli) newSession() *session {
	ip := weave.NewInterpreter()
	ip.Stdout = c.stdout
	ip.Stderr = colorWriter{w: c.stderr, c: warnColor}
	return &session{c: c, ip: ip}
}

// handle evaluates one complete input and reports whether the REPL should
// exit.
func (s *session) handle(code string) (exit bool) {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	v, err := s.ip.EvalPersistent([]byte(code))
	if err != nil {
		s.c.report(err, "<repl>", []byte(code))
		return false
	}
	if v.Tag != weave.VTNil {
		valColor.Fprintln(s.c.stdout, weave.FormatValue(v))
	}
	return false
}

func (s *session) command(line string) (exit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":help":
		io.WriteString(s.c.stdout, helpText)

	case ":quit", ":exit":
		return true

	case ":reset":
		s.ip.Reset()
		fmt.Fprintln(s.c.stdout, "interpreter reset.")

	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(s.c.stdout, "usage: :load <file>")
			return false
		}
		src, err := s.c.readSource(fields[1])
		if err != nil {
			s.c.fail("%v", err)
			return false
		}
		if _, err := s.ip.EvalPersistent(src); err != nil {
			s.c.report(err, fields[1], src)
		}

	case ":fmt":
		code := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		out, err := weave.Pretty(code)
		if err != nil {
			errColor.Fprintln(s.c.stderr, err.Error())
			return false
		}
		io.WriteString(s.c.stdout, out)

	default:
		fmt.Fprintf(s.c.stdout, "unknown command %s. Type :help for commands.\n", fields[0])
	}
	return false
}
