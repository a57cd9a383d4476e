package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/builtins"
	"dicexp/interpreter-go/pkg/checker"
	"dicexp/interpreter-go/pkg/driver"
	"dicexp/interpreter-go/pkg/interpreter"
	"dicexp/interpreter-go/pkg/restriction"
)

const cliToolVersion = "dicexp-cli 0.0.0-dev"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runTree(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "sample":
		return runSample(args[1:])
	case "check":
		return runCheck(args[1:])
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  dicexp run [flags] <tree.yml|->")
	fmt.Fprintln(stderr, "  dicexp repl [flags]")
	fmt.Fprintln(stderr, "  dicexp sample [flags] -n N <tree.yml|->")
	fmt.Fprintln(stderr, "  dicexp check [flags] <tree.yml|->")
	fmt.Fprintln(stderr, "  dicexp version")
}

// runFlags are the flags shared by every evaluating subcommand. Flags that
// were set on the command line override the configuration file.
type runFlags struct {
	config     string
	seed       uint64
	locale     string
	steps      bool
	format     string
	maxCalls   int
	timeoutMS  int
	maxDepth   int
	verbose    bool
	configured *driver.Config
}

func newFlagSet(name string, rf *runFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&rf.config, "config", "", "path to a dicexp.yml run configuration")
	fs.Uint64Var(&rf.seed, "seed", 0, "random seed")
	fs.StringVar(&rf.locale, "locale", driver.LocaleChinese, "error message locale (zh or en)")
	fs.BoolVar(&rf.steps, "steps", false, "include the step tree in the report")
	fs.StringVar(&rf.format, "format", "text", "output format: text, yaml or json")
	fs.IntVar(&rf.maxCalls, "max-calls", 0, "maximum number of calls (0 = unbounded)")
	fs.IntVar(&rf.timeoutMS, "timeout-ms", 0, "soft timeout in milliseconds (0 = none)")
	fs.IntVar(&rf.maxDepth, "max-depth", 0, "maximum closure call depth (0 = unbounded)")
	fs.BoolVar(&rf.verbose, "v", false, "log evaluation traces to stderr")
	return fs
}

// resolve loads the configuration file, if any, and applies explicit flags.
func (rf *runFlags) resolve(fs *flag.FlagSet) error {
	cfg := driver.DefaultConfig()
	if rf.config != "" {
		loaded, err := driver.LoadConfig(rf.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = rf.seed
		case "locale":
			cfg.Locale = rf.locale
		case "steps":
			cfg.Steps = rf.steps
		case "max-calls":
			cfg.Restrictions.MaxCalls = rf.maxCalls
		case "timeout-ms":
			if rf.timeoutMS <= 0 {
				cfg.Restrictions.SoftTimeout = nil
				return
			}
			if cfg.Restrictions.SoftTimeout == nil {
				cfg.Restrictions.SoftTimeout = &restriction.SoftTimeout{}
			}
			cfg.Restrictions.SoftTimeout.MS = rf.timeoutMS
		case "max-depth":
			cfg.Restrictions.MaxClosureCallDepth = rf.maxDepth
		}
	})
	if cfg.Locale != driver.LocaleChinese && cfg.Locale != driver.LocaleEnglish {
		return fmt.Errorf("unsupported locale %q", cfg.Locale)
	}
	switch rf.format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unsupported format %q", rf.format)
	}
	rf.configured = cfg
	return nil
}

func (rf *runFlags) options() interpreter.Options {
	opts := rf.configured.Options()
	if rf.verbose {
		opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return opts
}

func (rf *runFlags) emit(res interpreter.Result) error {
	report := driver.NewReport(res, rf.configured.Language(), rf.configured.Steps)
	switch rf.format {
	case "yaml":
		return report.WriteYAML(stdout)
	case "json":
		return report.WriteJSON(stdout)
	default:
		if report.Trace != "" {
			fmt.Fprintln(stdout, report.Trace)
		}
		fmt.Fprintln(stdout, report.Summary())
		return nil
	}
}

func loadTreeArg(args []string) (ast.Node, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one tree document, got %d arguments", len(args))
	}
	if args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return driver.DecodeTree(data)
	}
	return driver.LoadTree(args[0])
}

func runTree(args []string) int {
	var rf runFlags
	fs := newFlagSet("run", &rf)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := rf.resolve(fs); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	tree, err := loadTreeArg(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "failed to load tree: %v\n", err)
		return 1
	}
	res := interpreter.Execute(tree, rf.options())
	if err := rf.emit(res); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if res.Err != nil {
		return 1
	}
	return 0
}

func runCheck(args []string) int {
	var rf runFlags
	fs := newFlagSet("check", &rf)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := rf.resolve(fs); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	tree, err := loadTreeArg(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "failed to load tree: %v\n", err)
		return 1
	}
	diags := checker.New(builtins.Scope()).Check(tree)
	tag := rf.configured.Language()
	for _, d := range diags {
		fmt.Fprintf(stdout, "%s: %s: %s\n", ast.Format(d.Node), d.Err.Kind, d.Err.Message(tag))
	}
	if len(diags) > 0 {
		return 1
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}
