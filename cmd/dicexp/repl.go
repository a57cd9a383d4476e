package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/driver"
	"dicexp/interpreter-go/pkg/interpreter"
)

const (
	historyFile = ".dicexp_history"
	promptMain  = "dicexp> "
	replBanner  = "dicexp repl: one expression tree per line, :help for commands"
)

// replSession evaluates one tree per input line. Every evaluation gets its
// own generator, seeded from the session seed plus the evaluation count.
type replSession struct {
	flags *runFlags
	seed  uint64
	runs  uint64
}

func runRepl(args []string) int {
	var rf runFlags
	fs := newFlagSet("repl", &rf)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := rf.resolve(fs); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 1
	}

	fmt.Fprintln(stdout, replBanner)
	session := &replSession{flags: &rf, seed: rf.configured.Seed}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
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

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(stdout)
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "read input: %v\n", err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		out, exit := session.eval(line)
		if out != "" {
			fmt.Fprintln(stdout, out)
		}
		if exit {
			return 0
		}
	}
}

// eval handles one input line and returns the text to print.
func (s *replSession) eval(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}
	tree, err := driver.DecodeTree([]byte(line))
	if err != nil {
		return fmt.Sprintf("error: %v", err), false
	}
	opts := s.flags.options()
	opts.Seed = s.seed + s.runs
	s.runs++
	res := interpreter.Execute(tree, opts)
	report := driver.NewReport(res, s.flags.configured.Language(), false)
	if report.Trace != "" && res.Err == nil {
		return report.Trace, false
	}
	return report.Summary(), false
}

func (s *replSession) command(line string) (string, bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return "", true
	case ":help":
		return strings.Join([]string{
			":seed N    reseed the session",
			":show T    print tree T in source form",
			":quit      leave the repl",
		}, "\n"), false
	case ":seed":
		if len(fields) != 2 {
			return "usage: :seed N", false
		}
		seed, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Sprintf("invalid seed %q", fields[1]), false
		}
		s.seed, s.runs = seed, 0
		return fmt.Sprintf("seed = %d", seed), false
	case ":show":
		rest := strings.TrimSpace(strings.TrimPrefix(line, ":show"))
		tree, err := driver.DecodeTree([]byte(rest))
		if err != nil {
			return fmt.Sprintf("error: %v", err), false
		}
		return ast.Format(tree), false
	default:
		return "unknown command. Type :help for commands.", false
	}
}
