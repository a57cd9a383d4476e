package regular

import "dicexp/interpreter-go/pkg/runtime"

// FlattenAll resolves every element of list, descending into nested lists,
// and requires each scalar to be of kind. Sequences are cast on the way.
func FlattenAll(callee string, position int, list *runtime.ListValue, kind runtime.Kind) ([]runtime.Value, *runtime.RuntimeError) {
	var out []runtime.Value
	var walk func(l *runtime.ListValue) *runtime.RuntimeError
	walk = func(l *runtime.ListValue) *runtime.RuntimeError {
		for _, c := range l.Elements {
			v, err := c.Get()
			if err != nil {
				return err
			}
			if v, err = CastFor(v, []runtime.Kind{kind, runtime.KindList}); err != nil {
				return err
			}
			switch {
			case v.Kind() == runtime.KindList:
				if err := walk(v.(*runtime.ListValue)); err != nil {
					return err
				}
			case v.Kind() == kind:
				out = append(out, v)
			default:
				return runtime.ErrCallArgumentTypeMismatch(callee, position, []runtime.Kind{kind, runtime.KindList}, v.Kind())
			}
		}
		return nil
	}
	if err := walk(list); err != nil {
		return nil, err
	}
	return out, nil
}

// UnwrapOneOf resolves the elements of list. The first element must be one
// of kinds; every later element must match the first one's kind, otherwise
// the error carries the list-inconsistency flag. An empty list reports ok
// false.
func UnwrapOneOf(callee string, position int, list *runtime.ListValue, kinds ...runtime.Kind) (values []runtime.Value, kind runtime.Kind, ok bool, err *runtime.RuntimeError) {
	values = make([]runtime.Value, 0, len(list.Elements))
	for i, c := range list.Elements {
		v, err := c.Get()
		if err != nil {
			return nil, 0, false, err
		}
		if v, err = CastFor(v, kinds); err != nil {
			return nil, 0, false, err
		}
		if i == 0 {
			if !hasKind(kinds, v.Kind()) {
				return nil, 0, false, runtime.ErrCallArgumentTypeMismatch(callee, position, kinds, v.Kind())
			}
			kind = v.Kind()
		} else if v.Kind() != kind {
			return nil, 0, false, runtime.ErrListInconsistency(callee, position, kind, v.Kind())
		}
		values = append(values, v)
	}
	return values, kind, len(values) > 0, nil
}
