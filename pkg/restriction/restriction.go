// Package restriction enforces caller-supplied execution quotas at the
// interpreter's cooperative checkpoints and collects run statistics.
package restriction

import (
	"time"

	"dicexp/interpreter-go/pkg/runtime"
)

// Restrictions are the quotas for one run. Zero values mean unbounded.
//
// MaxClosureCallDepth is experimental: only the closure body's own cell is
// evaluated inside the tracked window, so work deferred past it is not
// counted.
type Restrictions struct {
	MaxCalls            int          `yaml:"maxCalls,omitempty" json:"maxCalls,omitempty"`
	SoftTimeout         *SoftTimeout `yaml:"softTimeout,omitempty" json:"softTimeout,omitempty"`
	MaxClosureCallDepth int          `yaml:"maxClosureCallDepth,omitempty" json:"maxClosureCallDepth,omitempty"`
}

// SoftTimeout is checked at call checkpoints only; a long-running call is
// never interrupted.
type SoftTimeout struct {
	MS               int               `yaml:"ms" json:"ms"`
	IntervalPerCheck *IntervalPerCheck `yaml:"intervalPerCheck,omitempty" json:"intervalPerCheck,omitempty"`
}

// IntervalPerCheck sets how many calls pass between clock reads.
type IntervalPerCheck struct {
	Calls int `yaml:"calls" json:"calls"`
}

// Statistics summarize a run.
type Statistics struct {
	Calls               int           `yaml:"calls" json:"calls"`
	MaxClosureCallDepth int           `yaml:"maxClosureCallDepth" json:"maxClosureCallDepth"`
	Elapsed             time.Duration `yaml:"elapsed" json:"elapsed"`
}

// Tracker counts calls and closure depth for one run.
type Tracker struct {
	limits  Restrictions
	now     func() time.Time
	started time.Time

	calls    int
	depth    int
	maxDepth int
}

// NewTracker starts the run clock. A nil now uses time.Now.
func NewTracker(limits Restrictions, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{limits: limits, now: now, started: now()}
}

// OnCall runs before every regular or value call's logic.
func (t *Tracker) OnCall() *runtime.RuntimeError {
	t.calls++
	if limit := t.limits.MaxCalls; limit > 0 && t.calls > limit {
		return runtime.ErrRestrictionExceeded(runtime.RestrictionCalls, int64(limit))
	}
	if st := t.limits.SoftTimeout; st != nil && st.MS > 0 {
		interval := 1
		if st.IntervalPerCheck != nil && st.IntervalPerCheck.Calls > 0 {
			interval = st.IntervalPerCheck.Calls
		}
		if t.calls%interval == 0 && t.now().Sub(t.started) > time.Duration(st.MS)*time.Millisecond {
			return runtime.ErrRestrictionExceeded(runtime.RestrictionTime, int64(st.MS))
		}
	}
	return nil
}

// EnterClosure runs before a closure body is interpreted. Every Enter must
// be paired with ExitClosure, including when it reports an error.
func (t *Tracker) EnterClosure() *runtime.RuntimeError {
	t.depth++
	if t.depth > t.maxDepth {
		t.maxDepth = t.depth
	}
	if limit := t.limits.MaxClosureCallDepth; limit > 0 && t.depth > limit {
		return runtime.ErrRestrictionExceeded(runtime.RestrictionClosureDepth, int64(limit))
	}
	return nil
}

func (t *Tracker) ExitClosure() {
	if t.depth > 0 {
		t.depth--
	}
}

func (t *Tracker) Statistics() Statistics {
	return Statistics{Calls: t.calls, MaxClosureCallDepth: t.maxDepth, Elapsed: t.now().Sub(t.started)}
}
