// Package checker inspects expression trees before evaluation and reports
// problems that would surface as runtime errors if the offending node were
// evaluated. Evaluation is lazy, so a reported node may never run.
package checker

import (
	"fmt"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/runtime"
)

// Diagnostic is one problem found in a tree.
type Diagnostic struct {
	Err  *runtime.RuntimeError
	Node ast.Node
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", ast.Format(d.Node), d.Err.Error())
}

// Checker walks trees against a root scope.
type Checker struct {
	scope *runtime.Scope
}

// New returns a checker resolving names in scope.
func New(scope *runtime.Scope) *Checker {
	return &Checker{scope: scope}
}

// env tracks closure parameters visible at a node.
type env struct {
	names  map[string]bool
	parent *env
}

func (e *env) has(name string) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return false
}

// Check returns diagnostics in tree order.
func (c *Checker) Check(tree ast.Node) []Diagnostic {
	var diags []Diagnostic
	c.walk(nil, tree, &diags)
	return diags
}

func (c *Checker) walk(e *env, node ast.Node, diags *[]Diagnostic) {
	report := func(err *runtime.RuntimeError) {
		*diags = append(*diags, Diagnostic{Err: err, Node: node})
	}
	switch n := node.(type) {
	case nil:
		*diags = append(*diags, Diagnostic{Err: runtime.ErrInternal("nil node")})
	case *ast.IntegerLiteral:
		if err := runtime.CheckSafe(n.Value); err != nil {
			report(err)
		}
	case *ast.BooleanLiteral:
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			c.walk(e, el, diags)
		}
	case *ast.ClosureLiteral:
		if dups := n.DuplicateParams(); len(dups) > 0 {
			report(runtime.ErrDuplicateClosureParameterNames(dups))
		}
		inner := &env{names: make(map[string]bool, len(n.Params)), parent: e}
		for _, p := range n.Params {
			if p != ast.Discard {
				inner.names[p] = true
			}
		}
		c.walk(inner, n.Body, diags)
	case *ast.CapturedFunction:
		if _, ok := c.scope.LookupFunction(runtime.FuncKey{Name: n.Name, Arity: n.Arity}); !ok {
			report(runtime.ErrUnknownRegularFunction(n.Name, n.Arity))
		}
	case *ast.Identifier:
		if e.has(n.Name) {
			return
		}
		if _, ok := c.scope.Lookup(n.Name); !ok {
			report(runtime.ErrUnknownVariable(n.Name))
		}
	case *ast.RegularCall:
		if _, ok := c.scope.LookupFunction(runtime.FuncKey{Name: n.Name, Arity: len(n.Args)}); !ok {
			report(runtime.ErrUnknownRegularFunction(n.Name, len(n.Args)))
		}
		for _, arg := range n.Args {
			c.walk(e, arg, diags)
		}
	case *ast.ValueCall:
		switch callee := n.Callee.(type) {
		case *ast.IntegerLiteral:
			report(runtime.ErrValueIsNotCallable(runtime.KindInteger))
		case *ast.BooleanLiteral:
			report(runtime.ErrValueIsNotCallable(runtime.KindBoolean))
		case *ast.ListLiteral:
			report(runtime.ErrValueIsNotCallable(runtime.KindList))
		case *ast.ClosureLiteral:
			if len(callee.Params) != len(n.Args) {
				report(runtime.ErrWrongArity("", len(callee.Params), len(n.Args)))
			}
		case *ast.CapturedFunction:
			if callee.Arity != len(n.Args) {
				report(runtime.ErrWrongArity(callee.Name, callee.Arity, len(n.Args)))
			}
		}
		c.walk(e, n.Callee, diags)
		for _, arg := range n.Args {
			c.walk(e, arg, diags)
		}
	case *ast.Repetition:
		if lit, ok := n.Count.(*ast.IntegerLiteral); ok && lit.Value < 0 {
			report(runtime.ErrIllegalOperation("#", runtime.ReasonNegativeRepeatCount))
		}
		c.walk(e, n.Count, diags)
		c.walk(e, n.Body, diags)
	default:
		report(runtime.ErrInternal(fmt.Sprintf("unsupported node %T", node)))
	}
}
