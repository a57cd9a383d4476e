package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FuncKey identifies a regular function by name and arity, so `-/1` and
// `-/2` are distinct entries.
type FuncKey struct {
	Name  string
	Arity int
}

func (k FuncKey) String() string {
	return k.Name + "/" + strconv.Itoa(k.Arity)
}

// ParseFuncKey parses the external "name/arity" form.
func ParseFuncKey(s string) (FuncKey, error) {
	i := strings.LastIndex(s, "/")
	if i <= 0 || i == len(s)-1 {
		return FuncKey{}, fmt.Errorf("runtime: malformed function key %q", s)
	}
	arity, err := strconv.Atoi(s[i+1:])
	if err != nil || arity < 0 {
		return FuncKey{}, fmt.Errorf("runtime: malformed arity in function key %q", s)
	}
	return FuncKey{Name: s[:i], Arity: arity}, nil
}

// RegularFunction is a built-in operator or named function. It receives the
// argument cells unevaluated and returns the call's cell.
type RegularFunction func(p Proxy, args []*Cell) *Cell

// Scope is a parent-linked frame of regular functions and closure-bound
// variables. Child frames shadow their parents.
type Scope struct {
	funcs  map[FuncKey]RegularFunction
	vars   map[string]*Cell
	parent *Scope
}

// NewScope creates a frame, optionally nested under parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		funcs:  make(map[FuncKey]RegularFunction),
		vars:   make(map[string]*Cell),
		parent: parent,
	}
}

// Parent exposes the enclosing frame (nil at the root).
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Extend creates a child frame.
func (s *Scope) Extend() *Scope {
	return NewScope(s)
}

// DefineFunction registers fn in this frame.
func (s *Scope) DefineFunction(key FuncKey, fn RegularFunction) {
	s.funcs[key] = fn
}

// Bind binds a variable in this frame. The discard name never binds.
func (s *Scope) Bind(name string, cell *Cell) {
	if name == "_" {
		return
	}
	s.vars[name] = cell
}

// LookupFunction searches outward through the chain.
func (s *Scope) LookupFunction(key FuncKey) (RegularFunction, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if fn, ok := frame.funcs[key]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Lookup finds a variable, searching outward through the chain.
func (s *Scope) Lookup(name string) (*Cell, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if c, ok := frame.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// FunctionKeys returns every visible function key in sorted order.
func (s *Scope) FunctionKeys() []FuncKey {
	seen := make(map[FuncKey]struct{})
	for frame := s; frame != nil; frame = frame.parent {
		for k := range frame.funcs {
			seen[k] = struct{}{}
		}
	}
	keys := make([]FuncKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Arity < keys[j].Arity
	})
	return keys
}

// MergeScopes flattens scopes into one root frame. Later scopes win on
// conflicting keys.
func MergeScopes(scopes ...*Scope) *Scope {
	merged := NewScope(nil)
	for _, s := range scopes {
		if s == nil {
			continue
		}
		for _, key := range s.FunctionKeys() {
			fn, _ := s.LookupFunction(key)
			merged.funcs[key] = fn
		}
		visible := make(map[string]*Cell)
		for frame := s; frame != nil; frame = frame.parent {
			for name, c := range frame.vars {
				if _, ok := visible[name]; !ok {
					visible[name] = c
				}
			}
		}
		for name, c := range visible {
			merged.vars[name] = c
		}
	}
	return merged
}
