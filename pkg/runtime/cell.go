package runtime

import "dicexp/interpreter-go/pkg/repr"

type cellKind int

const (
	cellDirect cellKind = iota
	cellContainer
	cellError
	cellLazy
	cellUnevaluated
)

type cellState int

const (
	statePending cellState = iota
	stateInProgress
	stateResolved
)

// Outcome is what a thunk produces: a value, an error, or another cell whose
// result becomes this one's.
type Outcome struct {
	Value    Value
	Err      *RuntimeError
	Redirect *Cell
}

func Ok(v Value) Outcome { return Outcome{Value: v} }

func Fail(err *RuntimeError) Outcome { return Outcome{Err: err} }

func Redirect(c *Cell) Outcome { return Outcome{Redirect: c} }

// Thunk computes a lazy cell. It runs at most once.
type Thunk func() Outcome

// Cell is the unit of evaluation. A lazy cell moves from pending to resolved
// exactly once; every other kind is born resolved (or, for Unevaluated,
// never resolves).
type Cell struct {
	kind  cellKind
	state cellState
	thunk Thunk

	value Value
	err   *RuntimeError
	// target is the cell this one redirected to. It is kept only so the
	// representation can show where the value came from.
	target *Cell

	hooks     []func(*RuntimeError)
	represent func(*Cell) repr.Node
}

// NewValueCell wraps a known value. Lists and sequences become container
// cells, so their beacons are reachable through the cell.
func NewValueCell(v Value) *Cell {
	kind := cellDirect
	if _, ok := v.(Container); ok {
		kind = cellContainer
	}
	return &Cell{kind: kind, state: stateResolved, value: v}
}

func NewErrorCell(err *RuntimeError) *Cell {
	return &Cell{kind: cellError, state: stateResolved, err: err}
}

func NewLazy(thunk Thunk) *Cell {
	return &Cell{kind: cellLazy, state: statePending, thunk: thunk}
}

// Unevaluated returns a marker cell; observing it is an engine bug and
// yields an Internal error.
func Unevaluated() *Cell {
	return &Cell{kind: cellUnevaluated, state: statePending}
}

// FromOutcome turns an already computed outcome into a cell.
func FromOutcome(o Outcome) *Cell {
	switch {
	case o.Redirect != nil:
		return o.Redirect
	case o.Err != nil:
		return NewErrorCell(o.Err)
	case o.Value == nil:
		return NewErrorCell(ErrInternal("outcome carries neither value nor error"))
	default:
		return NewValueCell(o.Value)
	}
}

// NewStabilizedCell wraps a cell bound to a name, so every reference to the
// name through the returned cell observes one value.
func NewStabilizedCell(bound *Cell) *Cell {
	return NewLazy(func() Outcome { return Redirect(bound) })
}

// NewIdentifierCell is a reference to a named binding. It only adds the name
// to the representation.
func NewIdentifierCell(name string, bound *Cell) *Cell {
	c := NewLazy(func() Outcome { return Redirect(bound) })
	c.represent = func(self *Cell) repr.Node {
		if _, _, ok := self.Peek(); !ok {
			return repr.Identifier(name, nil)
		}
		return repr.Identifier(name, self.resultOnly())
	}
	return c
}

// Get resolves the cell. Redirect chains are followed iteratively and every
// cell on the chain memoizes the final result.
func (c *Cell) Get() (Value, *RuntimeError) {
	switch {
	case c.state == stateResolved:
		return c.value, c.err
	case c.state == stateInProgress:
		return nil, ErrInternal("value cell re-entered during its own evaluation")
	case c.kind == cellUnevaluated:
		return nil, ErrInternal("unevaluated value observed")
	}

	chain := []*Cell{c}
	cur := c
	var (
		value Value
		err   *RuntimeError
	)
	for {
		cur.state = stateInProgress
		thunk := cur.thunk
		cur.thunk = nil
		o := thunk()
		if o.Redirect == nil {
			value, err = o.Value, o.Err
			if value == nil && err == nil {
				err = ErrInternal("thunk produced neither value nor error")
			}
			break
		}
		next := o.Redirect
		cur.target = next
		if next.kind == cellLazy && next.state == statePending {
			chain = append(chain, next)
			cur = next
			continue
		}
		value, err = next.Get()
		break
	}
	for _, link := range chain {
		link.resolve(value, err)
	}
	return value, err
}

func (c *Cell) resolve(value Value, err *RuntimeError) {
	c.state = stateResolved
	c.value, c.err = value, err
	hooks := c.hooks
	c.hooks = nil
	if err != nil {
		for _, hook := range hooks {
			hook(err)
		}
		return
	}
	if container, ok := value.(Container); ok {
		for _, hook := range hooks {
			container.Beacon().OnError(hook)
		}
	}
}

// Peek reports the result without forcing evaluation.
func (c *Cell) Peek() (Value, *RuntimeError, bool) {
	if c.state != stateResolved {
		return nil, nil, false
	}
	return c.value, c.err, true
}

// ConfirmsError returns an error already known for the cell, looking into a
// resolved container's beacon, without evaluating anything.
func (c *Cell) ConfirmsError() *RuntimeError {
	if c.state != stateResolved {
		return nil
	}
	if c.err != nil {
		return c.err
	}
	if container, ok := c.value.(Container); ok {
		return container.Beacon().Err()
	}
	return nil
}

// OnError registers a one-shot hook that runs when the cell (or, for a
// container, any of its elements) fails. A known failure runs the hook
// immediately.
func (c *Cell) OnError(hook func(*RuntimeError)) {
	if c.state != stateResolved {
		c.hooks = append(c.hooks, hook)
		return
	}
	if c.err != nil {
		hook(c.err)
		return
	}
	if container, ok := c.value.(Container); ok {
		container.Beacon().OnError(hook)
	}
}

// SetRepresentation installs a custom representation builder. It is called
// at snapshot time with the cell itself.
func (c *Cell) SetRepresentation(build func(*Cell) repr.Node) *Cell {
	c.represent = build
	return c
}

func (c *Cell) Representation() repr.Node {
	return repr.NodeFunc(func() *repr.Step {
		if c.represent != nil {
			return stepOrNil(c.represent(c))
		}
		return stepOrNil(c.OutcomeRepresentation())
	})
}

// OutcomeRepresentation describes what the cell resolved to, ignoring any
// custom representation on the cell itself.
func (c *Cell) OutcomeRepresentation() repr.Node {
	switch {
	case c.state != stateResolved:
		return repr.Unevaluated()
	case c.target != nil:
		return c.target.Representation()
	case c.err != nil:
		return repr.Error(c.err.Error())
	default:
		return ValueRepresentation(c.value)
	}
}

// resultOnly describes the resolved value without its provenance.
func (c *Cell) resultOnly() repr.Node {
	if c.err != nil {
		return repr.Error(c.err.Error())
	}
	return ValueRepresentation(c.value)
}

func stepOrNil(n repr.Node) *repr.Step {
	if n == nil {
		return nil
	}
	return n.Step()
}
