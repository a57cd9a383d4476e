package runtime

import "dicexp/interpreter-go/pkg/repr"

// SequenceStatus tags each pulled fragment.
type SequenceStatus int

const (
	// StatusOK means more elements follow.
	StatusOK SequenceStatus = iota
	// StatusLastNominal closes the counted prefix; extras may still be
	// pulled, for example to replace abandoned rerolls.
	StatusLastNominal
	// StatusLast means the generator is exhausted.
	StatusLast
)

func (s SequenceStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLastNominal:
		return "last_nominal"
	case StatusLast:
		return "last"
	default:
		return "unknown"
	}
}

// Fragment is one generator step: a kept element preceded by the elements
// that were produced and thrown away on the way to it. Kept may be nil only
// in a closing StatusLast fragment.
type Fragment struct {
	Kept      *Cell
	Abandoned []*Cell
	Status    SequenceStatus
}

// SequenceGenerator produces the fragment at index. It is called with
// increasing indices and never again after an error or StatusLast.
type SequenceGenerator func(index int) (Fragment, *RuntimeError)

// Sequence is a pull-based stream of cells. Its nominal length is the count
// of elements that matter; its actual length also counts abandoned and
// extra elements pulled so far.
type Sequence struct {
	sum bool
	gen SequenceGenerator

	pulled    int
	kept      []*Cell
	statuses  []SequenceStatus
	abandoned [][]*Cell
	trailing  []*Cell
	nominal   int
	discarded int
	done      bool
	err       *RuntimeError
	beacon    *Beacon
	casted    bool
	castValue Value
	castErr   *RuntimeError
}

// NewSequence wraps gen. A sum-shaped sequence casts to the integer total of
// its nominal prefix; otherwise it casts to a list.
func NewSequence(sum bool, gen SequenceGenerator) *Sequence {
	return &Sequence{sum: sum, gen: gen, nominal: -1, beacon: NewBeacon(nil)}
}

// NewSequenceFromFragments builds a finite sequence. Statuses in frags are
// ignored; the final fragment is marked StatusLast.
func NewSequenceFromFragments(sum bool, frags []Fragment) *Sequence {
	prepared := make([]Fragment, len(frags))
	copy(prepared, frags)
	for i := range prepared {
		prepared[i].Status = StatusOK
	}
	if len(prepared) == 0 {
		prepared = append(prepared, Fragment{Status: StatusLast})
	}
	prepared[len(prepared)-1].Status = StatusLast
	return NewSequence(sum, func(index int) (Fragment, *RuntimeError) {
		if index >= len(prepared) {
			return Fragment{}, ErrInternal("sequence pulled past its end")
		}
		return prepared[index], nil
	})
}

func (s *Sequence) Kind() Kind {
	if s.sum {
		return KindSequenceSum
	}
	return KindSequence
}

func (s *Sequence) Beacon() *Beacon { return s.beacon }

// IsSum reports whether the sequence casts to an integer.
func (s *Sequence) IsSum() bool { return s.sum }

func (s *Sequence) pull() bool {
	if s.done {
		return false
	}
	frag, err := s.gen(s.pulled)
	s.pulled++
	if err != nil {
		s.fail(err)
		return false
	}
	if frag.Kept == nil {
		if frag.Status != StatusLast {
			s.fail(ErrInternal("sequence fragment without a kept element"))
			return false
		}
		s.trailing = append(s.trailing, frag.Abandoned...)
		s.discarded += len(frag.Abandoned)
		s.finish()
		return false
	}
	s.kept = append(s.kept, frag.Kept)
	s.statuses = append(s.statuses, frag.Status)
	s.abandoned = append(s.abandoned, frag.Abandoned)
	s.discarded += len(frag.Abandoned)
	frag.Kept.OnError(s.beacon.Fire)
	switch frag.Status {
	case StatusLastNominal:
		if s.nominal < 0 {
			s.nominal = len(s.kept)
		}
	case StatusLast:
		s.finish()
	}
	return true
}

func (s *Sequence) finish() {
	s.done = true
	if s.nominal < 0 {
		s.nominal = len(s.kept)
	}
}

func (s *Sequence) fail(err *RuntimeError) {
	s.done = true
	s.err = err
	s.beacon.Fire(err)
}

// At returns the i-th kept element, pulling as needed. A nil cell with a nil
// error means the sequence ended first.
func (s *Sequence) At(i int) (*Cell, *RuntimeError) {
	c, _, err := s.AtWithStatus(i)
	return c, err
}

func (s *Sequence) AtWithStatus(i int) (*Cell, SequenceStatus, *RuntimeError) {
	for len(s.kept) <= i && s.pull() {
	}
	if i < len(s.kept) {
		return s.kept[i], s.statuses[i], nil
	}
	if s.err != nil {
		return nil, StatusLast, s.err
	}
	return nil, StatusLast, nil
}

// NominalLength pulls until the counted prefix is closed.
func (s *Sequence) NominalLength() (int, *RuntimeError) {
	for s.nominal < 0 && s.pull() {
	}
	if s.err != nil {
		return 0, s.err
	}
	return s.nominal, nil
}

// ActualLength counts every element produced so far, kept or abandoned. It
// never pulls.
func (s *Sequence) ActualLength() int {
	return len(s.kept) + s.discarded
}

// Fragments returns the fragments pulled so far.
func (s *Sequence) Fragments() []Fragment {
	out := make([]Fragment, 0, len(s.kept)+1)
	for i, c := range s.kept {
		out = append(out, Fragment{Kept: c, Abandoned: s.abandoned[i], Status: s.statuses[i]})
	}
	if len(s.trailing) > 0 {
		out = append(out, Fragment{Abandoned: s.trailing, Status: StatusLast})
	}
	return out
}

// CastImplicitly materializes the nominal prefix, as a list or as an integer
// sum. The result is memoized.
func (s *Sequence) CastImplicitly() (Value, *RuntimeError) {
	if s.casted {
		return s.castValue, s.castErr
	}
	s.castValue, s.castErr = s.cast()
	s.casted = true
	return s.castValue, s.castErr
}

func (s *Sequence) cast() (Value, *RuntimeError) {
	n, err := s.NominalLength()
	if err != nil {
		return nil, err
	}
	cells := s.kept[:n:n]
	if !s.sum {
		return NewList(cells), nil
	}
	var total int64
	for _, c := range cells {
		v, err := c.Get()
		if err != nil {
			return nil, err
		}
		iv, ok := v.(IntegerValue)
		if !ok {
			return nil, ErrTypeMismatch([]Kind{KindInteger}, v.Kind())
		}
		if total, err = Add(total, iv.Val); err != nil {
			return nil, err
		}
	}
	return IntegerValue{Val: total}, nil
}

// Representation lists abandoned elements where they were produced and
// marks kept elements beyond the nominal prefix as extras.
func (s *Sequence) Representation() repr.Node {
	return repr.NodeFunc(func() *repr.Step {
		var items []repr.Node
		for i, c := range s.kept {
			for _, a := range s.abandoned[i] {
				items = append(items, repr.Decorate(repr.DecorationAbandoned, a.Representation()))
			}
			if s.nominal >= 0 && i >= s.nominal {
				items = append(items, repr.Decorate(repr.DecorationExtra, c.Representation()))
			} else {
				items = append(items, c.Representation())
			}
		}
		for _, a := range s.trailing {
			items = append(items, repr.Decorate(repr.DecorationAbandoned, a.Representation()))
		}
		if !s.sum {
			return repr.List(items, func() bool { return s.beacon.Err() != nil }).Step()
		}
		var total repr.Node
		if s.casted {
			if s.castErr != nil {
				total = repr.Error(s.castErr.Error())
			} else {
				total = ValueRepresentation(s.castValue)
			}
		}
		return repr.Sum(items, total).Step()
	})
}

//-----------------------------------------------------------------------------
// Transformer
//-----------------------------------------------------------------------------

// Verdict is a judge's decision on one upstream element.
type Verdict int

const (
	Keep Verdict = iota
	// Abandon drops the element; the next upstream element takes its slot.
	Abandon
	// KeepAndExtend keeps the element and adds one slot to the nominal
	// length.
	KeepAndExtend
)

// Judge decides the fate of an upstream element.
type Judge func(elem *Cell) (Verdict, *RuntimeError)

// Transform re-emits src through judge. The result has src's shape and a
// nominal length of src's plus one per extension; when src runs dry first,
// the result closes early with StatusLast.
func Transform(src *Sequence, judge Judge) *Sequence {
	next := 0
	extends := 0
	return NewSequence(src.sum, func(index int) (Fragment, *RuntimeError) {
		var abandoned []*Cell
		for {
			elem, status, err := src.AtWithStatus(next)
			if err != nil {
				return Fragment{}, err
			}
			if elem == nil {
				return Fragment{Abandoned: abandoned, Status: StatusLast}, nil
			}
			next++
			verdict, err := judge(elem)
			if err != nil {
				return Fragment{}, err
			}
			if verdict == Abandon {
				abandoned = append(abandoned, elem)
				if status == StatusLast {
					return Fragment{Abandoned: abandoned, Status: StatusLast}, nil
				}
				continue
			}
			if verdict == KeepAndExtend {
				extends++
			}
			if status == StatusLast {
				return Fragment{Kept: elem, Abandoned: abandoned, Status: StatusLast}, nil
			}
			nominal, err := src.NominalLength()
			if err != nil {
				return Fragment{}, err
			}
			out := StatusOK
			if index+1 == nominal+extends {
				out = StatusLastNominal
			}
			return Fragment{Kept: elem, Abandoned: abandoned, Status: out}, nil
		}
	})
}
