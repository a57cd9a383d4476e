package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/driver"
	"dicexp/interpreter-go/pkg/interpreter"
)

const addTree = "{type: RegularCall, name: '+', style: operator, args: [1, 2]}\n"

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() {
		stdout, stderr = prevOut, prevErr
	})
	return &out, &errOut
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, _ := captureOutput(t)
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("version exit code = %d", code)
	}
	if strings.TrimSpace(out.String()) != cliToolVersion {
		t.Fatalf("version output = %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	_, errOut := captureOutput(t)
	if code := run([]string{"roll"}); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), `unknown command "roll"`) {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestRunTextOutput(t *testing.T) {
	out, errOut := captureOutput(t)
	path := writeTemp(t, "tree.yml", addTree)
	if code := run([]string{"run", path}); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if got := out.String(); got != "1 + 2 = 3\n3\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunReportsEvaluationErrors(t *testing.T) {
	out, _ := captureOutput(t)
	path := writeTemp(t, "tree.yml", "{type: RegularCall, name: '%', style: operator, args: [-3, 2]}\n")
	if code := run([]string{"run", "-locale", "en", path}); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "IllegalOperation: illegal operation %: dividend must not be negative") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunJSONFromStdin(t *testing.T) {
	out, errOut := captureOutput(t)
	prevIn := stdin
	stdin = strings.NewReader(addTree)
	t.Cleanup(func() { stdin = prevIn })

	if code := run([]string{"run", "-format", "json", "-"}); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), `"status": "ok"`) || !strings.Contains(out.String(), `"value": 3`) {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunRejectsBadFormat(t *testing.T) {
	_, errOut := captureOutput(t)
	path := writeTemp(t, "tree.yml", addTree)
	if code := run([]string{"run", "-format", "xml", path}); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), `unsupported format "xml"`) {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	captureOutput(t)
	cfgPath := writeTemp(t, "dicexp.yml", "seed: 3\nlocale: en\nrestrictions:\n  maxCalls: 10\n")
	var rf runFlags
	fs := newFlagSet("run", &rf)
	if err := fs.Parse([]string{"-config", cfgPath, "-seed", "9", "-timeout-ms", "25"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if err := rf.resolve(fs); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	cfg := rf.configured
	if cfg.Seed != 9 || cfg.Locale != driver.LocaleEnglish || cfg.Restrictions.MaxCalls != 10 {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if cfg.Restrictions.SoftTimeout == nil || cfg.Restrictions.SoftTimeout.MS != 25 {
		t.Fatalf("unexpected soft timeout %#v", cfg.Restrictions.SoftTimeout)
	}
}

func TestSampleRunsIndependentOfWorkers(t *testing.T) {
	tree := ast.Op("d", ast.Int(6))
	serial := sampleRuns(tree, interpreter.Options{}, 7, 50, 1)
	parallel := sampleRuns(tree, interpreter.Options{}, 7, 50, 8)
	values := func(results []interpreter.Result) []any {
		out := make([]any, len(results))
		for i, res := range results {
			if res.Err != nil {
				t.Fatalf("run %d failed: %v", i, res.Err)
			}
			out[i] = res.Value
		}
		return out
	}
	a, b := values(serial), values(parallel)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results depend on worker count:\n%v\n%v", a, b)
	}
	for i, v := range a {
		n, ok := v.(int64)
		if !ok || n < 1 || n > 6 {
			t.Fatalf("run %d rolled %v", i, v)
		}
	}
}

func TestSampleEach(t *testing.T) {
	out, errOut := captureOutput(t)
	path := writeTemp(t, "tree.yml", addTree)
	if code := run([]string{"sample", "-n", "3", "-each", path}); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if got := out.String(); got != "0\t3\n1\t3\n2\t3\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestSampleHistogram(t *testing.T) {
	out, errOut := captureOutput(t)
	path := writeTemp(t, "tree.yml", addTree)
	if code := run([]string{"sample", "-n", "5", path}); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if got := out.String(); got != "3\t5\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestReplSession(t *testing.T) {
	rf := &runFlags{configured: driver.DefaultConfig()}
	session := &replSession{flags: rf}

	if out, exit := session.eval(addTree); exit || out != "1 + 2 = 3" {
		t.Fatalf("eval = %q, %v", out, exit)
	}
	if out, _ := session.eval(":seed 5"); out != "seed = 5" || session.seed != 5 || session.runs != 0 {
		t.Fatalf(":seed = %q (seed %d, runs %d)", out, session.seed, session.runs)
	}
	if out, _ := session.eval(":show " + addTree); out != "1 + 2" {
		t.Fatalf(":show = %q", out)
	}
	if out, _ := session.eval("{type: Nope}"); !strings.HasPrefix(out, "error:") {
		t.Fatalf("bad tree = %q", out)
	}
	if out, _ := session.eval(":bogus"); !strings.HasPrefix(out, "unknown command") {
		t.Fatalf(":bogus = %q", out)
	}
	if _, exit := session.eval(":quit"); !exit {
		t.Fatalf(":quit should exit")
	}
}

func TestCheckCommand(t *testing.T) {
	out, _ := captureOutput(t)
	ok := writeTemp(t, "ok.yml", addTree)
	if code := run([]string{"check", ok}); code != 0 || out.String() != "ok\n" {
		t.Fatalf("check ok: code %d, output %q", code, out.String())
	}
	out.Reset()
	bad := writeTemp(t, "bad.yml", "{type: RegularCall, name: nope, args: [1]}\n")
	if code := run([]string{"check", "-locale", "en", bad}); code != 1 {
		t.Fatalf("check bad: code %d", code)
	}
	if got := out.String(); got != "nope(1): UnknownRegularFunction: unknown function nope/1\n" {
		t.Fatalf("check bad output = %q", got)
	}
}
