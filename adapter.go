package canvas

import "sync/atomic"

// DrawingSessionAdapter owns the begin/end draw protocol of a session.
// EndDraw is called exactly once, when the session closes.
type DrawingSessionAdapter interface {
	EndDraw(dc DeviceContext) error
}

// noopAdapter is used when a session wraps a context whose drawing is
// begun and ended by someone else.
type noopAdapter struct{}

func (noopAdapter) EndDraw(DeviceContext) error { return nil }

// NoopAdapter returns an adapter whose EndDraw does nothing.
func NoopAdapter() DrawingSessionAdapter { return noopAdapter{} }

// SimpleAdapter calls BeginDraw when created and EndDraw when the session
// closes.
type SimpleAdapter struct{}

// NewSimpleAdapter begins drawing on dc.
func NewSimpleAdapter(dc DeviceContext) *SimpleAdapter {
	dc.BeginDraw()
	return &SimpleAdapter{}
}

// EndDraw ends drawing on dc.
func (*SimpleAdapter) EndDraw(dc DeviceContext) error {
	return dc.EndDraw()
}

// ActiveSessionFlag records whether a render target has an open drawing
// session. It is set by the session at creation and cleared at close; no
// other code should write it.
type ActiveSessionFlag struct {
	active atomic.Bool
}

// Active reports whether a session is open on the target.
func (f *ActiveSessionFlag) Active() bool {
	return f.active.Load()
}
