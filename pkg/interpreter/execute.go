// Package interpreter evaluates dicexp expression trees.
package interpreter

import (
	"fmt"
	"log/slog"
	"time"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/builtins"
	"dicexp/interpreter-go/pkg/random"
	"dicexp/interpreter-go/pkg/repr"
	"dicexp/interpreter-go/pkg/restriction"
	"dicexp/interpreter-go/pkg/runtime"
)

// Options configure one run.
type Options struct {
	// Scope is the root scope; nil means builtins.Scope().
	Scope *runtime.Scope
	// Random overrides the generator; otherwise one is seeded from Seed.
	Random       *random.Generator
	Seed         uint64
	Restrictions restriction.Restrictions
	// Clock drives soft timeouts and statistics; nil means time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Appendix carries diagnostics produced alongside the result, including on
// failure.
type Appendix struct {
	Representation *repr.Step             `json:"representation,omitempty" yaml:"representation,omitempty"`
	Statistics     restriction.Statistics `json:"statistics" yaml:"statistics"`
}

// Result is the outcome of Execute. Value is an int64, a bool, or a []any
// of those, and is nil exactly when Err is set.
type Result struct {
	Value    any
	Err      *runtime.RuntimeError
	Appendix Appendix
}

// Execute evaluates tree to a final plain value. It never panics; engine
// bugs are reported as Internal errors.
func Execute(tree ast.Node, opts Options) (res Result) {
	in := newInterpreter(opts)
	scope := opts.Scope
	if scope == nil {
		scope = builtins.Scope()
	}

	var root *runtime.Cell
	defer func() {
		if r := recover(); r != nil {
			in.logger.Error("evaluation panicked", "panic", r)
			res.Value = nil
			res.Err = runtime.ErrInternal(fmt.Sprintf("panic: %v", r))
		}
		res.Appendix = Appendix{
			Representation: in.snapshot(root),
			Statistics:     in.tracker.Statistics(),
		}
	}()

	root = in.interpret(scope.Extend(), tree)
	res.Value, res.Err = finalize(root)
	if res.Err != nil {
		in.logger.Debug("evaluation failed", "kind", res.Err.Kind.String(), "error", res.Err.Error())
	}
	return res
}

func newInterpreter(opts Options) *Interpreter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gen := opts.Random
	if gen == nil {
		gen = random.NewSeeded(opts.Seed)
	}
	return &Interpreter{
		random:  gen,
		tracker: restriction.NewTracker(opts.Restrictions, opts.Clock),
		logger:  logger,
	}
}

func (i *Interpreter) snapshot(root *runtime.Cell) (step *repr.Step) {
	if root == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("representation panicked", "panic", r)
			step = nil
		}
	}()
	return root.Representation().Step()
}

// finalize forces a cell into a plain value. Containers report their beacon
// before any element is forced; callables cannot be final results.
func finalize(c *runtime.Cell) (any, *runtime.RuntimeError) {
	v, err := c.Get()
	if err != nil {
		return nil, err
	}
	return finalizeValue(v)
}

func finalizeValue(v runtime.Value) (any, *runtime.RuntimeError) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return val.Val, nil
	case runtime.BoolValue:
		return val.Val, nil
	case *runtime.Sequence:
		cast, err := val.CastImplicitly()
		if err != nil {
			return nil, err
		}
		return finalizeValue(cast)
	case *runtime.ListValue:
		if err := val.Beacon().Err(); err != nil {
			return nil, err
		}
		out := make([]any, len(val.Elements))
		for idx, el := range val.Elements {
			item, err := finalize(el)
			if err != nil {
				return nil, err
			}
			out[idx] = item
		}
		return out, nil
	default:
		return nil, runtime.ErrBadFinalResult(v.Kind())
	}
}
