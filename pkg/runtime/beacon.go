package runtime

// Beacon is the "one of my elements failed" flag owned by a container. Once
// set, it never clears.
type Beacon struct {
	err       *RuntimeError
	listeners []func(*RuntimeError)
}

// NewBeacon watches cells. Cells that already confirm an error set the
// beacon right away; the rest are subscribed and report when they fail.
// Nothing is forced.
func NewBeacon(cells []*Cell) *Beacon {
	b := &Beacon{}
	for _, c := range cells {
		if err := c.ConfirmsError(); err != nil {
			b.Fire(err)
			return b
		}
	}
	for _, c := range cells {
		c.OnError(b.Fire)
	}
	return b
}

// Err returns the first error observed, or nil.
func (b *Beacon) Err() *RuntimeError {
	if b == nil {
		return nil
	}
	return b.err
}

// Fire sets the beacon. Only the first error is kept and announced.
func (b *Beacon) Fire(err *RuntimeError) {
	if b.err != nil || err == nil {
		return
	}
	b.err = err
	listeners := b.listeners
	b.listeners = nil
	for _, l := range listeners {
		l(err)
	}
}

// OnError registers a one-shot listener; it runs immediately if the beacon is
// already set.
func (b *Beacon) OnError(listener func(*RuntimeError)) {
	if b.err != nil {
		listener(b.err)
		return
	}
	b.listeners = append(b.listeners, listener)
}
